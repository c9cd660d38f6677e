package gamification

import (
	"slices"
	"time"

	"github.com/kalambet/futuresim/internal/profile"
	"github.com/kalambet/futuresim/internal/progress"
)

// Challenge is a small task worth points once per day it is offered.
type Challenge struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Points      int    `json:"points"`
	Type        string `json:"type"`
}

var challenges = []Challenge{
	{ID: "refine_dream", Title: "Dream Refinement", Description: "Add more details to your dream description", Points: 25, Type: "editing"},
	{ID: "set_milestone", Title: "Milestone Setter", Description: "Add a new milestone to your progress tracker", Points: 30, Type: "progress"},
	{ID: "explore_insights", Title: "Insight Explorer", Description: "Review your AI-generated insights", Points: 20, Type: "learning"},
	{ID: "share_future", Title: "Future Ambassador", Description: "Share your prediction with others", Points: 35, Type: "social"},
}

// DailyChallenge is the challenge offered on the UTC day of now. The
// rotation follows the day of the month.
func DailyChallenge(now time.Time) Challenge {
	return challenges[now.UTC().Day()%len(challenges)]
}

// Done reports whether the challenge id was completed on the UTC day of now.
func (st State) Done(id string, now time.Time) bool {
	today := now.UTC().Format(progress.DateLayout)
	return slices.Contains(st.Challenges, ChallengeCompletion{ID: id, Date: today})
}

// CompleteChallenge credits today's challenge. Only the challenge offered
// today can be completed, and only once per day.
func CompleteChallenge(st State, id string, now time.Time) (State, []Badge, error) {
	c := DailyChallenge(now)
	if id != c.ID {
		return st, nil, &profile.InvalidInputError{Field: "challenge", Reason: "is not offered today: " + id}
	}
	if st.Done(id, now) {
		return st, nil, &profile.InvalidInputError{Field: "challenge", Reason: "already completed today: " + id}
	}
	l := newLedger(st, now)
	l.checkIn()
	l.st.Challenges = append(l.st.Challenges, ChallengeCompletion{ID: id, Date: l.now.Format(progress.DateLayout)})
	l.addPoints(c.Points)
	return l.st, l.unlocked, nil
}

// Summary is the user-facing view of the ledger.
type Summary struct {
	Points           int       `json:"points"`
	Level            int       `json:"level"`
	NextLevelPoints  int       `json:"nextLevelPoints"`
	DailyStreak      int       `json:"dailyStreak"`
	BadgeCount       int       `json:"badgeCount"`
	Badges           []Badge   `json:"badges"`
	Stats            Stats     `json:"stats"`
	DailyChallenge   Challenge `json:"dailyChallenge"`
	ChallengeDoneNow bool      `json:"dailyChallengeCompleted"`
}

// Summarize reports st as of now. NextLevelPoints is what is left to reach
// the next level.
func Summarize(st State, now time.Time) Summary {
	if st.Level < 1 {
		st.Level = 1
	}
	badges := st.Badges
	if badges == nil {
		badges = []Badge{}
	}
	c := DailyChallenge(now)
	return Summary{
		Points:           st.Points,
		Level:            st.Level,
		NextLevelPoints:  st.Level*PointsPerLevel - st.Points,
		DailyStreak:      st.DailyStreak,
		BadgeCount:       len(badges),
		Badges:           badges,
		Stats:            st.Stats,
		DailyChallenge:   c,
		ChallengeDoneNow: st.Done(c.ID, now),
	}
}
