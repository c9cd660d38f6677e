// Package gamification keeps the points ledger: points and levels, the
// daily check-in streak, activity stats, badges and daily challenges.
// Core code describes what happened as Activity values; Apply folds them
// into a State and reports the badges they unlocked.
package gamification

import (
	"slices"
	"time"

	"github.com/kalambet/futuresim/internal/progress"
)

// PointsPerLevel is the width of one level.
const PointsPerLevel = 100

const (
	levelBadgePoints   = 25
	levelBonusInterval = 5
	levelBonusPoints   = 50
	checkInPoints      = 10
)

// Badge is an unlocked achievement worth points.
type Badge struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Points      int       `json:"points"`
	Tier        string    `json:"tier"`
	Rarity      string    `json:"rarity"`
	UnlockedAt  time.Time `json:"unlockedAt"`
}

// Stats counts the activities badges are awarded for.
type Stats struct {
	FuturesGenerated  int `json:"futuresGenerated"`
	ScenesViewed      int `json:"scenesViewed"`
	SocialShares      int `json:"socialShares"`
	MilestonesReached int `json:"milestonesReached"`
}

// ChallengeCompletion records a daily challenge done on Date.
type ChallengeCompletion struct {
	ID   string `json:"id"`
	Date string `json:"date"`
}

// State is the persisted ledger.
type State struct {
	Points      int                   `json:"points"`
	Level       int                   `json:"level"`
	DailyStreak int                   `json:"dailyStreak"`
	LastCheckIn string                `json:"lastCheckIn,omitempty"`
	Stats       Stats                 `json:"stats"`
	Badges      []Badge               `json:"badges"`
	Challenges  []ChallengeCompletion `json:"completedChallenges"`
}

// NewState is the ledger before any activity.
func NewState() State {
	return State{Level: 1, Badges: []Badge{}, Challenges: []ChallengeCompletion{}}
}

// LevelFor is floor(points/100)+1.
func LevelFor(points int) int {
	if points < 0 {
		return 1
	}
	return points/PointsPerLevel + 1
}

// Tier grades a badge by its points.
func Tier(points int) string {
	switch {
	case points >= 200:
		return "gold"
	case points >= 100:
		return "silver"
	default:
		return "bronze"
	}
}

// Rarity grades a badge by its points.
func Rarity(points int) string {
	switch {
	case points >= 200:
		return "legendary"
	case points >= 100:
		return "rare"
	case points >= 50:
		return "uncommon"
	default:
		return "common"
	}
}

// Kind names an activity.
type Kind string

const (
	KindFutureGenerated  Kind = "future_generated"
	KindShared           Kind = "shared"
	KindMilestoneReached Kind = "milestone_reached"
	KindSceneViewed      Kind = "scene_viewed"
)

// Activity is one thing the user did. Only the fields of its Kind are set.
type Activity struct {
	Kind Kind `json:"kind"`

	Score          int  `json:"score,omitempty"`
	DreamLength    int  `json:"dreamLength,omitempty"`
	TimelineLength int  `json:"timelineLength,omitempty"`
	HasCountry     bool `json:"hasCountry,omitempty"`

	Completed  int `json:"completed,omitempty"`
	Total      int `json:"total,omitempty"`
	Percentage int `json:"percentage,omitempty"`
}

// FutureGenerated describes a saved projection.
func FutureGenerated(score, dreamLength, timelineLength int, country string) Activity {
	return Activity{
		Kind:           KindFutureGenerated,
		Score:          score,
		DreamLength:    dreamLength,
		TimelineLength: timelineLength,
		HasCountry:     country != "",
	}
}

func Shared() Activity { return Activity{Kind: KindShared} }

func SceneViewed() Activity { return Activity{Kind: KindSceneViewed} }

// MilestoneReached describes the ledger right after a milestone was
// completed.
func MilestoneReached(st progress.Stats) Activity {
	return Activity{
		Kind:       KindMilestoneReached,
		Completed:  st.Completed,
		Total:      st.Total,
		Percentage: st.ProgressPercentage,
	}
}

// Apply checks the user in for the day of now, then folds each activity
// into st. It returns the new state and the badges unlocked on the way, in
// unlock order. st is not modified.
func Apply(st State, now time.Time, acts ...Activity) (State, []Badge) {
	l := newLedger(st, now)
	l.checkIn()
	for _, a := range acts {
		l.apply(a)
	}
	return l.st, l.unlocked
}

type ledger struct {
	st       State
	now      time.Time
	unlocked []Badge
}

func newLedger(st State, now time.Time) *ledger {
	st.Badges = slices.Clone(st.Badges)
	st.Challenges = slices.Clone(st.Challenges)
	if st.Badges == nil {
		st.Badges = []Badge{}
	}
	if st.Challenges == nil {
		st.Challenges = []ChallengeCompletion{}
	}
	if st.Level < 1 {
		st.Level = 1
	}
	return &ledger{st: st, now: now.UTC()}
}

func (l *ledger) has(id string) bool {
	return slices.ContainsFunc(l.st.Badges, func(b Badge) bool { return b.ID == id })
}

// unlock awards a badge once and credits its points.
func (l *ledger) unlock(id, title, desc string, points int) {
	if l.has(id) {
		return
	}
	b := Badge{
		ID:          id,
		Title:       title,
		Description: desc,
		Points:      points,
		Tier:        Tier(points),
		Rarity:      Rarity(points),
		UnlockedAt:  l.now,
	}
	l.st.Badges = append(l.st.Badges, b)
	l.unlocked = append(l.unlocked, b)
	l.addPoints(points)
}

// addPoints credits points and handles level-ups. Reaching a level unlocks
// its badge; every fifth level adds a bonus.
func (l *ledger) addPoints(points int) {
	l.st.Points += points
	level := LevelFor(l.st.Points)
	if level <= l.st.Level {
		return
	}
	l.st.Level = level
	l.unlock(levelBadgeID(level), levelTitle(level), levelDescription(level), levelBadgePoints)
	if level%levelBonusInterval == 0 {
		l.addPoints(levelBonusPoints)
	}
}

type rule struct {
	id, title, desc string
	points          int
	ok              func() bool
}

func (l *ledger) unlockAll(rules []rule) {
	for _, r := range rules {
		if r.ok() {
			l.unlock(r.id, r.title, r.desc, r.points)
		}
	}
}

func (l *ledger) apply(a Activity) {
	s := &l.st.Stats
	switch a.Kind {
	case KindFutureGenerated:
		s.FuturesGenerated++
		l.unlockAll([]rule{
			{"first_future", "Future Visionary", "Generate your first future prediction", 25, func() bool { return s.FuturesGenerated >= 1 }},
			{"high_score", "Exceptional Potential", "Achieve a future score of 90 or higher", 50, func() bool { return a.Score >= 90 }},
			{"detailed_dream", "Detailed Dreamer", "Write a detailed dream description (100+ characters)", 30, func() bool { return a.DreamLength > 100 }},
			{"multi_milestone", "Long-term Planner", "Create a timeline with 4 or more milestones", 40, func() bool { return a.TimelineLength >= 4 }},
			{"global_citizen", "Global Citizen", "Set your location for personalized predictions", 20, func() bool { return a.HasCountry }},
			{"multiple_futures", "Future Explorer", "Generate 3 different future predictions", 50, func() bool { return s.FuturesGenerated >= 3 }},
		})
	case KindShared:
		s.SocialShares++
		l.unlockAll([]rule{
			{"first_share", "Social Sharer", "Share your first future prediction", 20, func() bool { return s.SocialShares >= 1 }},
			{"multiple_share", "Social Butterfly", "Share your predictions 3 times", 40, func() bool { return s.SocialShares >= 3 }},
			{"influencer", "Future Influencer", "Share your predictions 10 times", 100, func() bool { return s.SocialShares >= 10 }},
		})
	case KindMilestoneReached:
		s.MilestonesReached++
		l.unlockAll([]rule{
			{"first_milestone", "First Step", "Complete your first milestone", 25, func() bool { return a.Completed >= 1 }},
			{"halfway_progress", "Halfway There", "Reach 50% progress on your goals", 50, func() bool { return a.Percentage >= 50 }},
			{"completed_all", "Goal Crusher", "Complete all your planned milestones", 100, func() bool { return a.Percentage == 100 && a.Total > 0 }},
			{"consistent_progress", "Consistent Achiever", "Reach 10 milestones across all predictions", 75, func() bool { return s.MilestonesReached >= 10 }},
		})
	case KindSceneViewed:
		s.ScenesViewed++
		l.unlockAll([]rule{
			{"scene_explorer", "Scene Explorer", "View 5 different future scenes", 30, func() bool { return s.ScenesViewed >= 5 }},
		})
	}
	l.unlockAll([]rule{
		{"futures_explorer", "Futures Explorer", "Generate 5 different future predictions", 50, func() bool { return s.FuturesGenerated >= 5 }},
		{"scene_master", "Scene Master", "View 20 different future scenes", 75, func() bool { return s.ScenesViewed >= 20 }},
		{"milestone_expert", "Milestone Expert", "Reach 25 milestones across all predictions", 100, func() bool { return s.MilestonesReached >= 25 }},
	})
}
