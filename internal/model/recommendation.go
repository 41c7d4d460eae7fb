package model

// RecommendationAction is the stocking directive enum.
type RecommendationAction string

const (
	ActionIncreaseStock RecommendationAction = "INCREASE_STOCK"
	ActionDecreaseStock RecommendationAction = "DECREASE_STOCK"
	ActionMonitor       RecommendationAction = "MONITOR"
	ActionDiscontinue   RecommendationAction = "DISCONTINUE"
	ActionBundle        RecommendationAction = "BUNDLE"
)

// Recommendation is one ranked stocking directive. Priority 1 is the most
// urgent. Recommendations are recomputed fresh on every run; none persist.
type Recommendation struct {
	Priority int                  `json:"priority"`
	Action   RecommendationAction `json:"action"`

	// Product keys referenced by this directive. One entry for normal
	// directives, two for a synthetic bundle.
	Products []string `json:"products"`

	Target string `json:"target"` // quantitative target, e.g. "reduce 70-100%"
	Reason string `json:"reason"`
	Impact string `json:"impact"`

	// DiscountPct is the suggested clearance discount band for
	// decrease/discontinue directives, e.g. "30-40%".
	DiscountPct string `json:"discountPct,omitempty"`
}
