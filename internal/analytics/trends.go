package analytics

import (
	"math"
	"sort"
	"time"
)

const maxPopularFeatures = 5

var successPatterns = []string{
	"Users who check progress weekly are 3x more likely to achieve goals",
	"Detailed dream descriptions correlate with 40% higher success rates",
	"Regular milestone completion increases long-term engagement by 60%",
}

// Engagement scores activity from 0 to 100: 0.3 per event, 2 per distinct
// day and 5 per distinct session. Events without a session ID all belong to
// one implicit session.
func Engagement(events []Event) float64 {
	sessions := make(map[string]bool)
	for _, e := range events {
		sessions[e.SessionID] = true
	}
	raw := float64(len(events))*0.3 + float64(uniqueDays(events))*2 + float64(len(sessions))*5
	return math.Min(100, raw)
}

// TrendsOf summarizes events. Active days and popular features only count
// events within historyDays of now; the seasonal trend uses all of them.
func TrendsOf(events []Event, now time.Time, historyDays int) Trends {
	cutoff := now.Add(-time.Duration(historyDays) * 24 * time.Hour)
	var recent []Event
	for _, e := range events {
		if !e.Timestamp.Before(cutoff) {
			recent = append(recent, e)
		}
	}
	return Trends{
		ActiveDays:      uniqueDays(recent),
		PopularFeatures: popularFeatures(recent),
		SuccessPatterns: successPatterns,
		SeasonalTrends:  seasonal(events),
	}
}

func uniqueDays(events []Event) int {
	days := make(map[string]bool)
	for _, e := range events {
		days[e.Timestamp.UTC().Format("2006-01-02")] = true
	}
	return len(days)
}

// popularFeatures ranks event types by count, ties in order of first use.
func popularFeatures(events []Event) []FeatureCount {
	index := make(map[string]int)
	out := []FeatureCount{}
	for _, e := range events {
		i, ok := index[e.Type]
		if !ok {
			i = len(out)
			index[e.Type] = i
			out = append(out, FeatureCount{Feature: e.Type})
		}
		out[i].Count++
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > maxPopularFeatures {
		out = out[:maxPopularFeatures]
	}
	return out
}

// seasonal reports the month with the most events, the earliest month on
// ties.
func seasonal(events []Event) SeasonalTrends {
	if len(events) == 0 {
		return SeasonalTrends{SeasonalPattern: "No activity data available"}
	}
	var counts [12]int
	for _, e := range events {
		counts[e.Timestamp.UTC().Month()-1]++
	}
	busiest := 0
	for m := 1; m < 12; m++ {
		if counts[m] > counts[busiest] {
			busiest = m
		}
	}
	month := time.Month(busiest + 1).String()
	return SeasonalTrends{
		BusiestMonth:    &month,
		SeasonalPattern: "Increased activity in January and September",
	}
}
