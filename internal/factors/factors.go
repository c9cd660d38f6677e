// Package factors maps a profile's country and age onto the fixed factor
// tables the projection engine weighs.
package factors

import (
	"math"
	"strings"
)

// CountryFactors describes the environment a dream is pursued in.
type CountryFactors struct {
	Opportunity float64 `json:"opportunity"`
	Stability   float64 `json:"stability"`
	Growth      float64 `json:"growth"`
}

// AgeFactors describes how age shapes a dream's trajectory.
type AgeFactors struct {
	RiskTolerance    float64 `json:"riskTolerance"`
	LearningSpeed    float64 `json:"learningSpeed"`
	NetworkPotential float64 `json:"networkPotential"`
	Experience       float64 `json:"experience"`
}

// ProfileFactors bundles both lookups for one profile.
type ProfileFactors struct {
	Country CountryFactors `json:"countryFactors"`
	Age     AgeFactors     `json:"ageFactors"`
}

// DefaultCountry is returned for any country missing from the table.
var DefaultCountry = CountryFactors{Opportunity: 0.5, Stability: 0.5, Growth: 0.5}

var countries = map[string]CountryFactors{
	"usa":       {Opportunity: 0.8, Stability: 0.7, Growth: 0.8},
	"canada":    {Opportunity: 0.7, Stability: 0.9, Growth: 0.6},
	"uk":        {Opportunity: 0.7, Stability: 0.8, Growth: 0.7},
	"australia": {Opportunity: 0.6, Stability: 0.9, Growth: 0.6},
	"germany":   {Opportunity: 0.7, Stability: 0.9, Growth: 0.7},
	"japan":     {Opportunity: 0.6, Stability: 0.9, Growth: 0.5},
	"india":     {Opportunity: 0.9, Stability: 0.6, Growth: 0.9},
	"china":     {Opportunity: 0.8, Stability: 0.7, Growth: 0.8},
}

// ResolveCountry looks country up case-insensitively. It never fails.
func ResolveCountry(country string) CountryFactors {
	if f, ok := countries[strings.ToLower(country)]; ok {
		return f
	}
	return DefaultCountry
}

// ResolveAge derives age factors. Ages outside [1,100] still compute;
// range checks belong to the caller.
func ResolveAge(age int) AgeFactors {
	a := float64(age)
	network := 0.5
	if age < 40 {
		network = 0.8
	}
	return AgeFactors{
		RiskTolerance:    math.Max(0.1, 1-a/100),
		LearningSpeed:    math.Max(0.3, 1-a/70),
		NetworkPotential: network,
		Experience:       math.Min(a/50, 1),
	}
}

// Resolve runs both lookups.
func Resolve(country string, age int) ProfileFactors {
	return ProfileFactors{Country: ResolveCountry(country), Age: ResolveAge(age)}
}
