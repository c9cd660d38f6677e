package gamification

import (
	"fmt"

	"github.com/kalambet/futuresim/internal/progress"
)

var streakBadges = []struct {
	days   int
	title  string
	points int
}{
	{7, "Weekly Warrior", 50},
	{30, "Monthly Master", 200},
	{90, "Quarterly Champion", 500},
}

// checkIn counts the first activity of each UTC day. A check-in on the day
// after the last one extends the streak and pays 10 points per streak day;
// any longer gap restarts the streak at 1 for 10 points.
func (l *ledger) checkIn() {
	today := l.now.Format(progress.DateLayout)
	if l.st.LastCheckIn == today {
		return
	}
	yesterday := l.now.AddDate(0, 0, -1).Format(progress.DateLayout)
	if l.st.LastCheckIn == yesterday {
		l.st.DailyStreak++
		l.addPoints(checkInPoints * l.st.DailyStreak)
	} else {
		l.st.DailyStreak = 1
		l.addPoints(checkInPoints)
	}
	l.st.LastCheckIn = today

	for _, sb := range streakBadges {
		if l.st.DailyStreak >= sb.days {
			l.unlock(fmt.Sprintf("streak_%d", sb.days), sb.title,
				fmt.Sprintf("Check in for %d consecutive days", sb.days), sb.points)
		}
	}
}

func levelBadgeID(level int) string { return fmt.Sprintf("level_%d", level) }
func levelTitle(level int) string { return fmt.Sprintf("Reached Level %d", level) }
func levelDescription(level int) string { return fmt.Sprintf("Advanced to level %d", level) }
