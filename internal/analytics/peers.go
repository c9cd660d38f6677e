package analytics

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/kalambet/futuresim/internal/profile"
	"github.com/kalambet/futuresim/internal/projection"
	"github.com/kalambet/futuresim/internal/signals"
)

// peerCategories is checked in order; the first category with any keyword
// present wins.
var peerCategories = []struct {
	category signals.Category
	keywords []string
}{
	{signals.CategoryCareer, []string{"job", "career", "promotion", "business"}},
	{signals.CategoryEducation, []string{"learn", "study", "degree", "education"}},
	{signals.CategoryPersonal, []string{"family", "travel", "health", "home"}},
	{signals.CategoryCreative, []string{"art", "music", "write", "create"}},
}

var commonChallenges = map[signals.Category][]string{
	signals.CategoryCareer:    {"Work-life balance", "Skill gaps", "Market competition"},
	signals.CategoryEducation: {"Time management", "Funding", "Course selection"},
	signals.CategoryPersonal:  {"Motivation maintenance", "Resource allocation", "Unexpected obstacles"},
	signals.CategoryCreative:  {"Creative blocks", "Market acceptance", "Monetization"},
}

var storyFactors = []string{"Consistent effort", "Strategic planning", "Adaptability"}

// PeerCategory is the coarse four-way category peers are grouped by.
func PeerCategory(dream string) signals.Category {
	lower := strings.ToLower(dream)
	for _, pc := range peerCategories {
		for _, kw := range pc.keywords {
			if strings.Contains(lower, kw) {
				return pc.category
			}
		}
	}
	return signals.CategoryPersonal
}

// Peers fabricates the two illustrative comparison profiles. They are not
// drawn from stored data.
func Peers(p profile.UserProfile) []Peer {
	category := PeerCategory(p.Dream)
	return []Peer{
		{
			Age:           p.Age + 2,
			Country:       p.Country,
			DreamCategory: category,
			SuccessScore:  85,
			Achievements:  []string{"Career advancement", "Skill development"},
			Timeline:      3,
		},
		{
			Age:           p.Age - 3,
			Country:       "Similar",
			DreamCategory: category,
			SuccessScore:  72,
			Achievements:  []string{"Education completion", "Networking"},
			Timeline:      2,
		},
	}
}

// Compare builds the comparative section of a report.
func Compare(p profile.UserProfile, proj projection.Projection, engagement float64) ComparativeInsights {
	peers := Peers(p)
	return ComparativeInsights{
		PeerComparison:   comparePeers(p, proj, peers),
		SuccessStories:   successStories(peers),
		CommonChallenges: challenges(peers),
		ImprovementAreas: ImprovementAreas(p, proj, engagement),
	}
}

func comparePeers(p profile.UserProfile, proj projection.Projection, peers []Peer) PeerComparison {
	scores := make([]int, len(peers))
	sum := 0
	for i, peer := range peers {
		scores[i] = peer.SuccessScore
		sum += peer.SuccessScore
	}
	avg := 0.0
	if len(peers) > 0 {
		avg = float64(sum) / float64(len(peers))
	}
	return PeerComparison{
		UserScore:        proj.Score,
		AveragePeerScore: int(math.Round(avg)),
		Percentile:       Percentile(proj.Score, scores),
		Strengths:        strengths(p, proj),
		Opportunities:    opportunities(p, proj),
	}
}

// Percentile is the rounded share of peer scores strictly below score.
func Percentile(score int, peerScores []int) int {
	if len(peerScores) == 0 {
		return 0
	}
	below := 0
	for _, s := range peerScores {
		if s < score {
			below++
		}
	}
	return int(math.Round(float64(below) / float64(len(peerScores)) * 100))
}

func strengths(p profile.UserProfile, proj projection.Projection) []string {
	var out []string
	if utf8.RuneCountInString(p.Dream) > 100 {
		out = append(out, "Clear vision and detailed planning")
	}
	if len(proj.Timeline) >= 4 {
		out = append(out, "Long-term strategic thinking")
	}
	if proj.Score >= 80 {
		out = append(out, "High potential for success")
	}
	if len(out) == 0 {
		return []string{"Strong foundation for growth"}
	}
	return out
}

func opportunities(p profile.UserProfile, proj projection.Projection) []string {
	var out []string
	for _, ev := range proj.Timeline {
		if ev.Probability < 60 {
			out = append(out, "Increase probability of key milestones")
			break
		}
	}
	if utf8.RuneCountInString(p.Dream) < 50 {
		out = append(out, "Add more specificity to your dream")
	}
	if len(out) == 0 {
		return []string{"Continue current growth trajectory"}
	}
	return out
}

func successStories(peers []Peer) []SuccessStory {
	out := []SuccessStory{}
	for _, peer := range peers {
		if peer.SuccessScore >= 80 {
			out = append(out, SuccessStory{
				Category:     peer.DreamCategory,
				Achievements: peer.Achievements,
				KeyFactors:   storyFactors,
			})
		}
	}
	return out
}

// challenges returns the challenge list of the most common peer category.
// Ties go to the category seen first.
func challenges(peers []Peer) []string {
	counts := make(map[signals.Category]int)
	var order []signals.Category
	for _, peer := range peers {
		if counts[peer.DreamCategory] == 0 {
			order = append(order, peer.DreamCategory)
		}
		counts[peer.DreamCategory]++
	}
	dominant := signals.CategoryPersonal
	best := 0
	for _, c := range order {
		if counts[c] > best {
			dominant, best = c, counts[c]
		}
	}
	if list, ok := commonChallenges[dominant]; ok {
		return list
	}
	return commonChallenges[signals.CategoryPersonal]
}

// ImprovementAreas lists weak spots in the dream, the timeline and the
// user's engagement.
func ImprovementAreas(p profile.UserProfile, proj projection.Projection, engagement float64) []ImprovementArea {
	areas := []ImprovementArea{}
	if utf8.RuneCountInString(p.Dream) < 80 {
		areas = append(areas, ImprovementArea{
			Area:    "Dream Specificity",
			Current: "Basic",
			Target:  "Detailed",
			Action:  "Add more concrete details and milestones to your dream description",
			Impact:  "High",
		})
	}
	weak := 0
	for _, ev := range proj.Timeline {
		if ev.Probability < 70 {
			weak++
		}
	}
	if weak > 0 {
		areas = append(areas, ImprovementArea{
			Area:    "Milestone Confidence",
			Current: fmt.Sprintf("%d low-confidence milestones", weak),
			Target:  "All milestones above 70% probability",
			Action:  "Break down low-probability milestones into smaller, more achievable steps",
			Impact:  "Medium",
		})
	}
	if engagement < 50 {
		areas = append(areas, ImprovementArea{
			Area:    "User Engagement",
			Current: engagementLabel(engagement),
			Target:  "70%+ engagement score",
			Action:  "Use the app more regularly to track progress and explore features",
			Impact:  "High",
		})
	}
	return areas
}
