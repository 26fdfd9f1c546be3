package analytics

import (
	"fmt"
	"math"
	"sort"

	"finsight/internal/core"
)

// neutralBand is the change (in percentage points) below which a trend
// counts as neutral rather than up or down.
const neutralBand = 2.0

// significantChange is the change magnitude above which the trend
// insight switches to the "significant" phrasing.
const significantChange = 12.0

// AnalyzeTrends groups expense transactions by month and category,
// compares the most recent month against the historical per-month
// average, and returns the top categories by current spending with a
// direction and recommendation attached.
//
// When the snapshot spans fewer than two calendar months there is no
// history to compare against: the top categories by all-time total are
// returned with a neutral direction instead.
func (e *Engine) AnalyzeTrends(transactions []core.Transaction, limit int) []core.Trend {
	if limit <= 0 {
		limit = DefaultLimit
	}

	byMonth := make(map[core.MonthKey]map[string]float64)
	allTime := make(map[string]float64)
	for _, tx := range transactions {
		if tx.Type != core.Expense || tx.Amount <= 0 || tx.Date.IsZero() {
			continue
		}
		key := core.MonthOf(tx.Date)
		if byMonth[key] == nil {
			byMonth[key] = make(map[string]float64)
		}
		category := tx.CategoryOrDefault()
		byMonth[key][category] += tx.Amount
		allTime[category] += tx.Amount
	}

	if len(byMonth) < 2 {
		return e.topCategoriesFallback(allTime, limit)
	}

	months := make([]core.MonthKey, 0, len(byMonth))
	for key := range byMonth {
		months = append(months, key)
	}
	sort.Slice(months, func(i, j int) bool { return months[j].Before(months[i]) })
	latest := months[0]
	historyMonths := float64(len(months) - 1)

	historical := make(map[string]float64)
	for _, key := range months[1:] {
		for category, total := range byMonth[key] {
			historical[category] += total
		}
	}
	for category := range historical {
		historical[category] /= historyMonths
	}

	seen := make(map[string]bool)
	var trends []core.Trend
	appendTrend := func(category string) {
		if seen[category] {
			return
		}
		seen[category] = true
		current := byMonth[latest][category]
		hist := historical[category]
		trends = append(trends, e.buildTrend(category, current, hist))
	}
	for category := range byMonth[latest] {
		appendTrend(category)
	}
	for category := range historical {
		appendTrend(category)
	}

	sort.Slice(trends, func(i, j int) bool {
		return trends[i].CurrentAmount*e.jitterFor(trends[i].Category) >
			trends[j].CurrentAmount*e.jitterFor(trends[j].Category)
	})
	if len(trends) > limit {
		trends = trends[:limit]
	}
	return trends
}

func (e *Engine) buildTrend(category string, current, historical float64) core.Trend {
	var change float64
	switch {
	case historical > 0:
		change = core.SafeNumber((current - historical) / historical * 100)
	case current > 0:
		change = 100
	}

	direction := core.TrendNeutral
	if math.Abs(change) >= neutralBand {
		if change > 0 {
			direction = core.TrendUp
		} else {
			direction = core.TrendDown
		}
	}

	var insight string
	switch {
	case direction == core.TrendUp && math.Abs(change) > significantChange:
		insight = fmt.Sprintf("%s spending is up sharply, %.0f%% above your monthly average.", category, change)
	case direction == core.TrendUp:
		insight = fmt.Sprintf("%s spending is slightly above your monthly average.", category)
	case direction == core.TrendDown && math.Abs(change) > significantChange:
		insight = fmt.Sprintf("%s spending dropped %.0f%% below your monthly average.", category, -change)
	case direction == core.TrendDown:
		insight = fmt.Sprintf("%s spending is slightly below your monthly average.", category)
	default:
		insight = fmt.Sprintf("%s spending is steady month over month.", category)
	}

	return core.Trend{
		Category:       category,
		CurrentAmount:  current,
		PreviousAmount: historical,
		Change:         change,
		Direction:      direction,
		Insight:        insight,
		Recommendation: Recommend(category, change > 0),
	}
}

// topCategoriesFallback ranks categories by all-time total when there
// is not enough history for a month-over-month comparison. The jitter
// factor varies the ordering of near-ties between refreshes.
func (e *Engine) topCategoriesFallback(allTime map[string]float64, limit int) []core.Trend {
	categories := make([]string, 0, len(allTime))
	for category := range allTime {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool {
		return allTime[categories[i]]*e.jitterFor(categories[i]) >
			allTime[categories[j]]*e.jitterFor(categories[j])
	})
	if len(categories) > limit {
		categories = categories[:limit]
	}

	trends := make([]core.Trend, 0, len(categories))
	for _, category := range categories {
		trends = append(trends, core.Trend{
			Category:       category,
			CurrentAmount:  allTime[category],
			PreviousAmount: 0,
			Change:         0,
			Direction:      core.TrendNeutral,
			Insight:        fmt.Sprintf("Not enough history yet to compare %s month over month.", category),
			Recommendation: Recommend(category, false),
		})
	}
	return trends
}
