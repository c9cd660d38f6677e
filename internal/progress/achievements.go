package progress

import "time"

// Achievement is a badge unlocked by completing milestones.
type Achievement struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	UnlockedAt  time.Time `json:"unlockedAt"`
}

const (
	AchievementFirstMilestone = "firstMilestone"
	AchievementHalfway        = "halfway"
	AchievementAllComplete    = "allComplete"
)

// CheckAchievements returns the achievements milestones now qualify for
// that are not already in unlocked. Each achievement unlocks at most once.
func CheckAchievements(milestones []Milestone, unlocked []Achievement, now time.Time) []Achievement {
	have := make(map[string]bool, len(unlocked))
	for _, a := range unlocked {
		have[a.ID] = true
	}
	completed := countCompleted(milestones)
	total := len(milestones)
	if completed == 0 {
		return nil
	}

	var out []Achievement
	unlock := func(id, title, desc, typ string) {
		if have[id] {
			return
		}
		out = append(out, Achievement{ID: id, Title: title, Description: desc, Type: typ, UnlockedAt: now.UTC()})
	}
	unlock(AchievementFirstMilestone, "First Step!", "Completed your first milestone", "bronze")
	if completed >= (total+1)/2 {
		unlock(AchievementHalfway, "Halfway There!", "Completed half of your milestones", "silver")
	}
	if completed == total {
		unlock(AchievementAllComplete, "Goal Getter!", "Completed all your milestones", "gold")
	}
	return out
}
