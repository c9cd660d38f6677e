// Package simulator orchestrates the pure engines around the store: it
// validates profiles, projects futures with a visible repair and fallback
// path, persists results, applies counter mutations and assembles reports.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/kalambet/futuresim/internal/analytics"
	"github.com/kalambet/futuresim/internal/coach"
	"github.com/kalambet/futuresim/internal/gamification"
	"github.com/kalambet/futuresim/internal/metrics"
	"github.com/kalambet/futuresim/internal/profile"
	"github.com/kalambet/futuresim/internal/progress"
	"github.com/kalambet/futuresim/internal/projection"
	"github.com/kalambet/futuresim/internal/storage"
)

// Recovery records which path produced a saved projection.
const (
	RecoveryNone     = "none"
	RecoveryRepaired = "repaired"
	RecoveryFallback = "fallback"
)

// EventViewScene is the activity event type that counts a scene view.
const EventViewScene = "view_scene"

const defaultCacheSize = 128

// Projector produces a projection for a validated profile.
type Projector interface {
	Project(p profile.UserProfile) (projection.Projection, error)
}

// FutureStore persists generated futures.
type FutureStore interface {
	SaveFuture(rec storage.FutureRecord) error
	GetFuture(ctx context.Context, id string) (storage.FutureRecord, error)
	LatestFuture(ctx context.Context) (storage.FutureRecord, error)
	ListFutures(limit int) ([]storage.FutureRecord, error)
	DeleteFuture(id string) error
	FutureStats() (storage.FutureStats, error)
}

// ProgressStore persists the milestone ledger and its counters.
type ProgressStore interface {
	LoadProgress(ctx context.Context) (progress.Snapshot, error)
	SaveMilestone(m progress.Milestone) error
	GetMilestone(id string) (progress.Milestone, error)
	UpdateMilestone(m progress.Milestone) error
	DeleteMilestone(id string) error
	SaveAchievements(as []progress.Achievement) error
	ApplyMutations(ms ...progress.Mutation) error
}

// ActivityStore persists analytics events.
type ActivityStore interface {
	RecordEvent(e analytics.Event) error
	ListEvents(ctx context.Context, since time.Time) ([]analytics.Event, error)
}

// ExportStore queues exports for the background worker.
type ExportStore interface {
	SaveExport(e storage.Export) error
	GetExport(id string) (storage.Export, error)
	EnqueueJob(job storage.Job) error
	GetJob(id string) (storage.Job, error)
}

// GamificationStore persists the points ledger.
type GamificationStore interface {
	LoadGamification(ctx context.Context) (gamification.State, error)
	UpdateGamification(ctx context.Context, fn func(gamification.State) (gamification.State, error)) (gamification.State, error)
}

// CoachStore persists coaching assessments.
type CoachStore interface {
	SaveAssessment(a coach.Assessment) error
	LatestAssessment(ctx context.Context) (coach.Assessment, error)
	ListAssessments(ctx context.Context, since time.Time) ([]coach.Assessment, error)
}

// Store is everything the Service persists through.
type Store interface {
	FutureStore
	ProgressStore
	ActivityStore
	ExportStore
	GamificationStore
	CoachStore
}

// Options configures a Service. Zero values select defaults.
type Options struct {
	Projector   Projector
	Now         func() time.Time
	HistoryDays int
	CacheSize   int
	Metrics     *metrics.Metrics
	Logger      *slog.Logger
}

// Service is the application layer shared by the HTTP API, the MCP server
// and the CLI.
type Service struct {
	store      Store
	projector  Projector
	aggregator *analytics.Aggregator
	cache      *lru.Cache[string, storage.FutureRecord]
	now        func() time.Time
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

func New(store Store, opts Options) (*Service, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Projector == nil {
		opts.Projector = projection.NewEngine(opts.Now)
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = defaultCacheSize
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	cache, err := lru.New[string, storage.FutureRecord](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating record cache: %w", err)
	}
	return &Service{
		store:      store,
		projector:  opts.Projector,
		aggregator: analytics.NewAggregator(opts.Now, opts.HistoryDays),
		cache:      cache,
		now:        opts.Now,
		metrics:    opts.Metrics,
		logger:     opts.Logger,
	}, nil
}

// Generate projects p, repairing or replacing a malformed projection, saves
// the result and bumps the futuresGenerated counter. Only invalid input is
// reported as an error; engine failures end in the fallback projection.
// A non-empty session records a "generate_future" activity event.
func (s *Service) Generate(ctx context.Context, p profile.UserProfile, session string) (storage.FutureRecord, error) {
	if err := p.Validate(); err != nil {
		return storage.FutureRecord{}, err
	}
	now := s.now()

	proj, recovery := s.project(p, now)

	rec := storage.FutureRecord{
		ID:         uuid.New().String(),
		CreatedAt:  now.UTC(),
		Recovery:   recovery,
		Profile:    p,
		Projection: proj,
	}
	if err := s.store.SaveFuture(rec); err != nil {
		return storage.FutureRecord{}, fmt.Errorf("saving future: %w", err)
	}
	s.cache.Add(rec.ID, rec)

	if err := s.store.ApplyMutations(progress.FutureGenerated()); err != nil {
		return storage.FutureRecord{}, fmt.Errorf("updating counters: %w", err)
	}
	act := gamification.FutureGenerated(proj.Score, utf8.RuneCountInString(p.Dream), len(proj.Timeline), p.Country)
	if _, err := s.award(ctx, act); err != nil {
		return storage.FutureRecord{}, err
	}
	if session != "" {
		if err := s.RecordEvent(analytics.Event{Type: "generate_future", SessionID: session}); err != nil {
			s.logger.Warn("recording generate event failed", "error", err)
		}
	}

	s.metrics.ObserveFuture(recovery, proj.Score)
	s.logger.Info("future generated", "future_id", rec.ID, "score", proj.Score, "recovery", recovery)
	return rec, nil
}

func (s *Service) project(p profile.UserProfile, now time.Time) (projection.Projection, string) {
	proj, err := s.projector.Project(p)
	if err != nil {
		s.logger.Warn("projection failed, using fallback", "error", err)
		return projection.Fallback(p, now), RecoveryFallback
	}
	if err := projection.Validate(proj); err != nil {
		s.logger.Warn("projection malformed, repairing", "error", err)
		repaired := projection.Repair(proj, p, now)
		if err := projection.Validate(repaired); err != nil {
			s.logger.Warn("repair left projection malformed, using fallback", "error", err)
			return projection.Fallback(p, now), RecoveryFallback
		}
		return repaired, RecoveryRepaired
	}
	return proj, RecoveryNone
}

// Future returns a saved future. An empty id selects the latest one.
func (s *Service) Future(ctx context.Context, id string) (storage.FutureRecord, error) {
	if id == "" {
		return s.store.LatestFuture(ctx)
	}
	if rec, ok := s.cache.Get(id); ok {
		s.metrics.CacheHit()
		return rec, nil
	}
	s.metrics.CacheMiss()
	rec, err := s.store.GetFuture(ctx, id)
	if err != nil {
		return storage.FutureRecord{}, err
	}
	s.cache.Add(id, rec)
	return rec, nil
}

func (s *Service) ListFutures(limit int) ([]storage.FutureRecord, error) {
	futures, err := s.store.ListFutures(limit)
	if err != nil {
		return nil, err
	}
	if futures == nil {
		futures = []storage.FutureRecord{}
	}
	return futures, nil
}

func (s *Service) DeleteFuture(id string) error {
	s.cache.Remove(id)
	return s.store.DeleteFuture(id)
}

func (s *Service) FutureStats() (storage.FutureStats, error) {
	return s.store.FutureStats()
}

// RecordEvent stores an activity event, assigning its ID and timestamp when
// they are missing.
func (s *Service) RecordEvent(e analytics.Event) error {
	if e.Type == "" {
		return &profile.InvalidInputError{Field: "type", Reason: "is required"}
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = s.now().UTC()
	}
	if err := s.store.RecordEvent(e); err != nil {
		return err
	}
	if e.Type == EventViewScene {
		if _, err := s.award(context.Background(), gamification.SceneViewed()); err != nil {
			return err
		}
	}
	return nil
}

// IsNotFound reports whether err means a requested record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}
