package analytics

import "strings"

// recommendation holds the advice texts for one category, one per
// trend direction. The table is plain data so new categories can be
// added without touching engine logic.
type recommendation struct {
	increasing string
	decreasing string
}

var recommendations = map[string]recommendation{
	"food": {
		increasing: "Try meal planning for the week; a shopping list cuts impulse grocery buys.",
		decreasing: "Your food spending is trending down. Keep the habits that got you here.",
	},
	"groceries": {
		increasing: "Compare store brands and buy staples in bulk to pull grocery costs back down.",
		decreasing: "Grocery costs are shrinking. Nicely managed.",
	},
	"dining": {
		increasing: "Eating out is climbing. Pick one or two restaurant days a week and cook the rest.",
		decreasing: "Less dining out lately. Your wallet (and kitchen) thank you.",
	},
	"transport": {
		increasing: "Transport costs are rising. Check if transit passes or carpooling fit your routes.",
		decreasing: "Transport spending is down. Keep the efficient routines.",
	},
	"entertainment": {
		increasing: "Entertainment is up. Look for free events or rotate subscriptions instead of stacking them.",
		decreasing: "Entertainment spending is easing. Good balance.",
	},
	"shopping": {
		increasing: "Shopping is trending up. A 24-hour wait on non-essentials filters out impulse buys.",
		decreasing: "Shopping spending is down. Keep the deliberate approach.",
	},
	"utilities": {
		increasing: "Utility bills are rising. Compare providers and check for off-peak tariffs.",
		decreasing: "Utility costs are falling. Efficiency pays off.",
	},
	"health": {
		increasing: "Health costs are up. Review insurance coverage and generic alternatives where safe.",
		decreasing: "Health spending is down. Stay on top of preventive care.",
	},
	"travel": {
		increasing: "Travel spending is climbing. Booking ahead and flexible dates cut fares substantially.",
		decreasing: "Travel costs are down. Set aside the difference for the next trip.",
	},
	"rent": {
		increasing: "Housing costs are rising. Worth reviewing the lease terms or comparable listings.",
		decreasing: "Housing costs eased. A good moment to boost savings.",
	},
	"education": {
		increasing: "Education spending is up; an investment, but check for employer or library resources.",
		decreasing: "Education costs are down while you keep learning. Well done.",
	},
	"subscriptions": {
		increasing: "Subscriptions are stacking up. Cancel the ones you have not opened this month.",
		decreasing: "You trimmed your subscriptions. The recurring savings compound.",
	},
}

// Recommend returns the advice text for a category and trend
// direction. Unknown categories get a generic message.
func Recommend(category string, isIncreasing bool) string {
	if rec, ok := recommendations[normalizeCategory(category)]; ok {
		if isIncreasing {
			return rec.increasing
		}
		return rec.decreasing
	}
	if isIncreasing {
		return "Spending here is trending up. Review recent purchases and decide if the increase is intentional."
	}
	return "Spending here is under control. Keep maintaining this."
}

// normalizeCategory maps free-form category names onto table keys:
// lower-cased, with common variants folded together.
func normalizeCategory(category string) string {
	c := strings.ToLower(strings.TrimSpace(category))
	switch {
	case strings.Contains(c, "grocer"):
		return "groceries"
	case strings.Contains(c, "dining"), strings.Contains(c, "restaurant"):
		return "dining"
	case strings.Contains(c, "food"):
		return "food"
	case strings.Contains(c, "transport"), strings.Contains(c, "fuel"), strings.Contains(c, "gas"):
		return "transport"
	case strings.Contains(c, "entertain"):
		return "entertainment"
	case strings.Contains(c, "shop"):
		return "shopping"
	case strings.Contains(c, "utilit"), strings.Contains(c, "bill"):
		return "utilities"
	case strings.Contains(c, "health"), strings.Contains(c, "medical"):
		return "health"
	case strings.Contains(c, "travel"), strings.Contains(c, "vacation"):
		return "travel"
	case strings.Contains(c, "rent"), strings.Contains(c, "housing"), strings.Contains(c, "mortgage"):
		return "rent"
	case strings.Contains(c, "education"), strings.Contains(c, "tuition"):
		return "education"
	case strings.Contains(c, "subscription"):
		return "subscriptions"
	default:
		return c
	}
}
