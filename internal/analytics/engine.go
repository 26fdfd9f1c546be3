package analytics

import (
	"hash/fnv"
	"math/rand"
	"time"

	"finsight/internal/core"
)

// DefaultLimit is the product default for how many insights and trends
// a dashboard panel shows per refresh.
const DefaultLimit = 4

// Clock supplies the current time to time-sensitive rules.
type Clock func() time.Time

// Thresholds collects the tunable rule constants that have no
// documented rationale; they are kept configurable rather than buried
// as literals.
type Thresholds struct {
	// RoundNumberShare is the fraction of round-amount transactions
	// above which the round-number habit insight fires.
	RoundNumberShare float64
	// ImpulseDayShare is the fraction of total spending a single busy
	// day must reach for the impulse-buying warning.
	ImpulseDayShare float64
	// HeavyDayShare is the fraction of total spending a single
	// day-of-month must reach for the concentration insight.
	HeavyDayShare float64
	// TipProbability is the chance a random tip is appended per
	// evaluation.
	TipProbability float64
}

// DefaultThresholds returns the product defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		RoundNumberShare: 0.30,
		ImpulseDayShare:  0.15,
		HeavyDayShare:    0.10,
		TipProbability:   0.30,
	}
}

// Engine evaluates the rule table and the trend analyzer over a ledger
// snapshot. Engines are cheap; concurrent callers should use separate
// instances since the embedded random source is not goroutine safe.
type Engine struct {
	now        Clock
	rng        *rand.Rand
	thresholds Thresholds
	jitterSeed uint64
}

// NewEngine returns an engine wired to the real clock and a
// time-seeded random source.
func NewEngine() *Engine {
	return NewEngineWith(time.Now, rand.New(rand.NewSource(time.Now().UnixNano())), DefaultThresholds())
}

// NewEngineWith returns an engine with an explicit clock, random
// source and thresholds. Tests pin all three.
func NewEngineWith(clock Clock, rng *rand.Rand, thresholds Thresholds) *Engine {
	if clock == nil {
		clock = time.Now
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{
		now:        clock,
		rng:        rng,
		thresholds: thresholds,
		jitterSeed: rng.Uint64(),
	}
}

// Evaluate runs every rule against the snapshot and returns all
// insights that fired. Rules are independent: several may fire for the
// same snapshot and none suppresses another. The result is unbounded;
// use SelectInsights to cut it down for display.
func (e *Engine) Evaluate(transactions []core.Transaction, budgets []core.Budget, summary core.Summary) []core.Insight {
	in := ruleInput{
		Transactions: transactions,
		Budgets:      budgets,
		Income:       core.NonNegative(summary.Income),
		Expenses:     core.NonNegative(summary.Expenses),
		SavingsRate:  core.NonNegative(summary.SavingsRate),
		Now:          e.now(),
		Rand:         e.rng,
		Thresholds:   e.thresholds,
	}
	in.Balance = in.Income - in.Expenses

	var insights []core.Insight
	for _, r := range rules {
		if insight := r.evaluate(in); insight != nil {
			insights = append(insights, *insight)
		}
	}
	return insights
}

// SelectInsights shuffles the candidates and truncates to limit. The
// shuffle is unweighted on purpose: severity does not buy priority,
// every refresh is a fresh sample.
func (e *Engine) SelectInsights(insights []core.Insight, limit int) []core.Insight {
	if limit <= 0 {
		limit = DefaultLimit
	}
	out := make([]core.Insight, len(insights))
	copy(out, insights)
	e.rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// jitterFor derives a stable per-category perturbation factor in
// [0.9, 1.1). It mixes the engine's seed with a hash of the category
// name, so ordering ties break differently per engine but stay stable
// within one.
func (e *Engine) jitterFor(category string) float64 {
	h := fnv.New64a()
	h.Write([]byte(category))
	mixed := h.Sum64() ^ e.jitterSeed
	return 0.9 + 0.2*(float64(mixed%1000)/1000.0)
}
