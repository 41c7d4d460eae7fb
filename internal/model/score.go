package model

// TrendDirection is the two-window demand trend verdict.
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendStable     TrendDirection = "stable"
	TrendDecreasing TrendDirection = "decreasing"
)

// TrendConfidence grades how much the per-record spread supports the verdict.
type TrendConfidence string

const (
	ConfidenceHigh   TrendConfidence = "high"
	ConfidenceMedium TrendConfidence = "medium"
	ConfidenceLow    TrendConfidence = "low"
)

// Trend is the simple two-window trend signal.
type Trend struct {
	Direction  TrendDirection  `json:"direction"`
	ChangePct  float64         `json:"changePct"`
	Confidence TrendConfidence `json:"confidence"`
}

// ABCClass is the Pareto tier by cumulative revenue share.
type ABCClass string

const (
	ClassA ABCClass = "A"
	ClassB ABCClass = "B"
	ClassC ABCClass = "C"
)

// RiskLevel buckets the 0-100 deadstock risk score.
type RiskLevel string

const (
	RiskCritical RiskLevel = "CRITICAL"
	RiskHigh     RiskLevel = "HIGH"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskLow      RiskLevel = "LOW"
)

// Archetype is the business-meaning label assigned to a product.
type Archetype string

const (
	ArchetypeSuperstar     Archetype = "SUPERSTAR"
	ArchetypeRisingStar    Archetype = "RISING_STAR"
	ArchetypeCashCow       Archetype = "CASH_COW"
	ArchetypeSleepingGiant Archetype = "SLEEPING_GIANT"
	ArchetypeSlowBurner    Archetype = "SLOW_BURNER"
	ArchetypeDeadWeight    Archetype = "DEAD_WEIGHT"
	ArchetypeExperimental  Archetype = "EXPERIMENTAL"
)

// ScoredProduct extends AggregatedProduct with the full score profile.
type ScoredProduct struct {
	AggregatedProduct

	Velocity  float64   `json:"velocity"` // 0-100
	Trend     Trend     `json:"trend"`
	ABC       ABCClass  `json:"abcClass"`
	RiskScore float64   `json:"riskScore"` // 0-100
	RiskLevel RiskLevel `json:"riskLevel"`
	Archetype Archetype `json:"archetype"`
}
