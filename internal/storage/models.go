package storage

import (
	"errors"
	"time"

	"github.com/kalambet/futuresim/internal/profile"
	"github.com/kalambet/futuresim/internal/projection"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// FutureRecord is a saved projection together with the profile it was
// generated for.
type FutureRecord struct {
	ID         string                `json:"id"`
	CreatedAt  time.Time             `json:"createdAt"`
	Recovery   string                `json:"recovery"`
	Profile    profile.UserProfile   `json:"profile"`
	Projection projection.Projection `json:"projection"`
}

// FutureStats aggregates every saved future.
type FutureStats struct {
	TotalFutures      int    `json:"totalFutures"`
	AverageScore      int    `json:"averageScore"`
	MostCommonCountry string `json:"mostCommonCountry"`
	HighestScore      int    `json:"highestScore"`
	LowestScore       int    `json:"lowestScore"`
}

type Job struct {
	ID          string
	Type        string
	PayloadJSON string
	Status      string // "pending", "running", "completed", "failed"
	Attempts    int
	MaxAttempts int
	RunAfter    time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	LastError   string
}

// Export status values.
const (
	ExportPending = "pending"
	ExportReady   = "ready"
	ExportFailed  = "failed"
)

// Export is a rendered (or to-be-rendered) document for one future.
type Export struct {
	ID          string    `json:"id"`
	FutureID    string    `json:"futureId"`
	Format      string    `json:"format"`
	Status      string    `json:"status"`
	ContentType string    `json:"contentType,omitempty"`
	Filename    string    `json:"filename,omitempty"`
	Body        []byte    `json:"-"`
	Error       string    `json:"error,omitempty"`
	Attempts    int       `json:"attempts,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
