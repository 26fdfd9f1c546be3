package core

// InsightKind classifies the tone of an insight.
type InsightKind string

const (
	KindInfo    InsightKind = "info"
	KindWarning InsightKind = "warning"
	KindSuccess InsightKind = "success"
	KindDanger  InsightKind = "danger"
)

// IsValid reports whether k is one of the known insight kinds.
func (k InsightKind) IsValid() bool {
	switch k {
	case KindInfo, KindWarning, KindSuccess, KindDanger:
		return true
	default:
		return false
	}
}

// Insight is a single human-readable observation derived from the
// user's financial snapshot. Insights are built fresh on every engine
// invocation and never persisted by the analytics core.
type Insight struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Kind        InsightKind `json:"type"`
	Icon        string      `json:"icon"`
}

// TrendDirection classifies how a category's spending moved against
// its historical average.
type TrendDirection string

const (
	TrendUp      TrendDirection = "up"
	TrendDown    TrendDirection = "down"
	TrendNeutral TrendDirection = "neutral"
)

// IsValid reports whether d is one of the known trend directions.
func (d TrendDirection) IsValid() bool {
	switch d {
	case TrendUp, TrendDown, TrendNeutral:
		return true
	default:
		return false
	}
}

// Trend compares a category's current-period spending with its
// historical average and carries a recommendation for the user.
type Trend struct {
	Category       string         `json:"category"`
	CurrentAmount  float64        `json:"current_amount"`
	PreviousAmount float64        `json:"previous_amount"`
	Change         float64        `json:"change"`
	Direction      TrendDirection `json:"trend"`
	Insight        string         `json:"insight"`
	Recommendation string         `json:"recommendation"`
}

// Summary holds the scalar aggregates derived from a transaction
// snapshot: the dashboard headline numbers.
type Summary struct {
	Income      float64 `json:"income"`
	Expenses    float64 `json:"expenses"`
	Balance     float64 `json:"balance"`
	SavingsRate float64 `json:"savings_rate"`
}
