package coach

import (
	"fmt"
	"strings"
	"time"

	"github.com/kalambet/futuresim/internal/progress"
)

var motivations = []string{
	"Every great journey begins with a single step. Your future is being shaped by today's actions.",
	"Dreams don't work unless you do. Your dedication is the bridge between your goals and accomplishments.",
	"The future belongs to those who believe in the beauty of their dreams. Keep pushing forward!",
	"Small progress is still progress. Celebrate every step toward your amazing future.",
	"Your potential is limitless. Each day brings new opportunities to move closer to your dreams.",
	"Success is the sum of small efforts repeated day in and day out. You're building something incredible.",
	"The only limit to your impact is your imagination and commitment. Dream big and act now!",
	"You are the author of your life story. Make today's chapter one you'll be proud to read later.",
}

// Indexed by weekday, Sunday first.
var actions = []string{
	"Review your top milestone and identify one small step you can take today.",
	"Spend 5 minutes visualizing your success and how it will feel to achieve your dream.",
	"Share your progress with someone who supports your goals.",
	"Learn one new thing related to your dream today.",
	"Identify and remove one small obstacle standing in your way.",
	"Celebrate a recent success, no matter how small.",
	"Update your progress tracker with any new accomplishments.",
}

var affirmations = []string{
	"I am capable of achieving %s.",
	"Every day I move closer to making %s a reality.",
	"I have the power to create the future I envision with %s.",
	"My commitment to %s grows stronger each day.",
	"I am worthy of achieving %s and living my best life.",
	"Challenges are opportunities for growth on my path to %s.",
	"I attract the resources and people needed to achieve %s.",
}

var tips = []string{
	"Start your day by reviewing one key goal. This sets positive intention.",
	"Break large tasks into 25-minute focused sessions with short breaks.",
	"Celebrate small wins daily - they add up to big achievements.",
	"Visualize your success before starting work - it boosts motivation.",
	"Keep a 'progress journal' to track insights and improvements.",
	"Share your goals with someone who will hold you accountable.",
	"Review your 'why' when motivation dips - reconnect with your purpose.",
	"Schedule 'future planning' time weekly - consistency builds success.",
	"Learn one new thing daily related to your goals - compound knowledge.",
	"Practice gratitude for current progress - it fuels future achievement.",
}

// Daily is the motivation card for one day.
type Daily struct {
	Date        string `json:"date"`
	Message     string `json:"message"`
	Action      string `json:"action"`
	Affirmation string `json:"affirmation"`
	Tip         string `json:"tip"`
}

// DailyMotivation picks the card for the UTC day of now. The same day and
// dream always give the same card.
func DailyMotivation(dream string, now time.Time) Daily {
	now = now.UTC()
	dream = strings.TrimSpace(dream)
	if dream == "" {
		dream = "my dream"
	}
	return Daily{
		Date:        now.Format(progress.DateLayout),
		Message:     motivations[now.Day()%len(motivations)],
		Action:      actions[int(now.Weekday())],
		Affirmation: fmt.Sprintf(affirmations[now.YearDay()%len(affirmations)], dream),
		Tip:         tips[now.Day()%len(tips)],
	}
}
