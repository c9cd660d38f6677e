package projection

import (
	"fmt"

	"github.com/kalambet/futuresim/internal/profile"
	"github.com/kalambet/futuresim/internal/signals"
)

type template struct {
	title       string
	description string
	milestone   string
}

// firstYearTemplate picks the year+1 event by category. Categories without
// their own template use the career one.
func firstYearTemplate(c signals.Category, p profile.UserProfile) template {
	switch c {
	case signals.CategoryEducation:
		return template{
			"Knowledge Expansion",
			"You enroll in advanced learning programs that open new intellectual horizons.",
			"Educational Milestone",
		}
	case signals.CategoryPersonal:
		return template{
			"Personal Transformation",
			"Significant life changes lead to improved relationships and self-discovery.",
			"Life Change",
		}
	case signals.CategoryCreative:
		return template{
			"Creative Breakthrough",
			"Your artistic talents gain recognition and you find your unique voice.",
			"Creative Achievement",
		}
	case signals.CategoryFinancial:
		return template{
			"Financial Foundation",
			"Smart investments and opportunities create a stable financial platform.",
			"Wealth Building",
		}
	default:
		return template{
			"Career Acceleration",
			fmt.Sprintf("You land a breakthrough opportunity in %s that aligns with your ambitions.", p.Country),
			"Professional Growth",
		}
	}
}

var laterTemplates = []func(profile.UserProfile) template{
	func(p profile.UserProfile) template {
		return template{
			"Major Life Progress",
			fmt.Sprintf(`Your dedication to "%s" starts yielding remarkable results.`, p.Dream),
			"Significant Achievement",
		}
	},
	func(p profile.UserProfile) template {
		return template{
			"Dream Manifestation",
			fmt.Sprintf(`You're living the reality of "%s" and inspiring others.`, p.Dream),
			"Dream Realized",
		}
	},
	func(p profile.UserProfile) template {
		return template{
			"Legacy Establishment",
			fmt.Sprintf("Your achievements in %s create lasting impact beyond your initial dreams.", p.Country),
			"Legacy Built",
		}
	},
}
