package analyzer

import (
	"math"
	"sort"

	"stockinsight/internal/model"
)

// ScoringConfig holds the heuristic constants of the scoring engine. Their
// "correctness" is domain calibration, not an invariant, so they are
// parameters with calibrated defaults rather than literals.
type ScoringConfig struct {
	// Velocity = min(100, Scale * (QtyWeight*qtyShare% + RevWeight*revShare%)).
	VelocityQtyWeight float64 `toml:"velocity_qty_weight"`
	VelocityRevWeight float64 `toml:"velocity_rev_weight"`
	VelocityScale     float64 `toml:"velocity_scale"`

	// Two-window trend bands, in percent change.
	TrendUpPct   float64 `toml:"trend_up_pct"`
	TrendDownPct float64 `toml:"trend_down_pct"`
	// Coefficient-of-variation bounds for trend confidence.
	CVHigh   float64 `toml:"cv_high"`
	CVMedium float64 `toml:"cv_medium"`

	// ABC cumulative revenue share thresholds.
	ABCAThreshold float64 `toml:"abc_a_threshold"`
	ABCBThreshold float64 `toml:"abc_b_threshold"`

	// Archetype cascade thresholds.
	SuperstarShare       float64 `toml:"superstar_share"`
	SuperstarVelocity    float64 `toml:"superstar_velocity"`
	RisingStarRevRatio   float64 `toml:"rising_star_rev_ratio"`
	RisingStarVelocity   float64 `toml:"rising_star_velocity"`
	CashCowVelocity      float64 `toml:"cash_cow_velocity"`
	SlowBurnerRevRatio   float64 `toml:"slow_burner_rev_ratio"`
	SlowBurnerVelocity   float64 `toml:"slow_burner_velocity"`
	DeadWeightRevRatio   float64 `toml:"dead_weight_rev_ratio"`
	DeadWeightVelocity   float64 `toml:"dead_weight_velocity"`
}

// RiskConfig holds the additive deadstock risk factors and level thresholds.
type RiskConfig struct {
	BandZero    float64 `toml:"band_zero"`     // quantity == 0
	BandUnder5  float64 `toml:"band_under_5"`  // quantity < 5
	BandUnder10 float64 `toml:"band_under_10"` // quantity < 10
	BandUnder20 float64 `toml:"band_under_20"` // quantity < 20

	DecreasingTrend  float64 `toml:"decreasing_trend"`
	StableLowDemand  float64 `toml:"stable_low_demand"`
	LowPrice         float64 `toml:"low_price"`
	LowRevenue       float64 `toml:"low_revenue"`
	LowConfidence    float64 `toml:"low_confidence"`
	MediumConfidence float64 `toml:"medium_confidence"`

	// Absolute thresholds defining "very low" for a small retailer, in the
	// dataset currency.
	VeryLowPrice   float64 `toml:"very_low_price"`
	VeryLowRevenue float64 `toml:"very_low_revenue"`
	// LowDemandUnits defines "low absolute demand" for the stable-trend
	// factor.
	LowDemandUnits int `toml:"low_demand_units"`

	CriticalScore float64 `toml:"critical_score"`
	HighScore     float64 `toml:"high_score"`
	MediumScore   float64 `toml:"medium_score"`
}

// DefaultScoringConfig returns the calibrated defaults.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		VelocityQtyWeight: 0.6,
		VelocityRevWeight: 0.4,
		VelocityScale:     2,

		TrendUpPct:   10,
		TrendDownPct: -10,
		CVHigh:       0.3,
		CVMedium:     0.6,

		ABCAThreshold: 80,
		ABCBThreshold: 95,

		SuperstarShare:     5,
		SuperstarVelocity:  70,
		RisingStarRevRatio: 1.2,
		RisingStarVelocity: 60,
		CashCowVelocity:    40,
		SlowBurnerRevRatio: 0.5,
		SlowBurnerVelocity: 40,
		DeadWeightRevRatio: 0.5,
		DeadWeightVelocity: 30,
	}
}

// DefaultRiskConfig returns the calibrated defaults, with currency thresholds
// calibrated for rupiah-scale numbers.
func DefaultRiskConfig() RiskConfig {
	return RiskConfig{
		BandZero:    40,
		BandUnder5:  30,
		BandUnder10: 20,
		BandUnder20: 10,

		DecreasingTrend:  30,
		StableLowDemand:  15,
		LowPrice:         5,
		LowRevenue:       15,
		LowConfidence:    10,
		MediumConfidence: 5,

		VeryLowPrice:   10000,
		VeryLowRevenue: 100000,
		LowDemandUnits: 10,

		CriticalScore: 70,
		HighScore:     50,
		MediumScore:   30,
	}
}

// Engine computes the full score profile per aggregated product. It is pure:
// same groups, same config, same output.
type Engine struct {
	cfg  ScoringConfig
	risk RiskConfig
}

// NewEngine creates a scoring engine.
func NewEngine(cfg ScoringConfig, risk RiskConfig) *Engine {
	return &Engine{cfg: cfg, risk: risk}
}

// datasetStats are the cross-product figures the cascade rules compare
// against.
type datasetStats struct {
	avgRevenue   float64 // grand revenue / product count
	avgUnitPrice float64 // implied dataset price-per-unit
}

// Score produces ScoredProducts in the groups' order. When hasQuantity is
// false every unit-based metric consistently substitutes its revenue-based
// equivalent; quantities are never treated as zero.
func (e *Engine) Score(groups []*ProductGroup, hasQuantity bool) []model.ScoredProduct {
	if len(groups) == 0 {
		return nil
	}

	grandRevenue, units := Totals(groups, hasQuantity)
	stats := datasetStats{}
	stats.avgRevenue = grandRevenue / float64(len(groups))
	if hasQuantity && units != nil && *units > 0 {
		stats.avgUnitPrice = grandRevenue / float64(*units)
	} else {
		var sum float64
		for _, g := range groups {
			sum += g.Product.AvgPrice
		}
		stats.avgUnitPrice = sum / float64(len(groups))
	}

	scored := make([]model.ScoredProduct, len(groups))
	for i, g := range groups {
		sp := model.ScoredProduct{AggregatedProduct: g.Product}
		sp.Velocity = e.velocity(&g.Product, hasQuantity)
		sp.Trend = e.trend(g.Records, hasQuantity)
		scored[i] = sp
	}

	e.assignABC(scored)

	for i := range scored {
		scored[i].RiskScore = e.riskScore(&scored[i], hasQuantity)
		scored[i].RiskLevel = e.riskLevel(scored[i].RiskScore)
		scored[i].Archetype = e.archetype(&scored[i], stats)
	}

	return scored
}

// velocity rewards products that are simultaneously high-volume and
// high-revenue. Doubling stretches the typical 0-50 raw band to 0-100.
func (e *Engine) velocity(p *model.AggregatedProduct, hasQuantity bool) float64 {
	qtyShare := p.RevenueShare // revenue-based substitute without quantity
	if hasQuantity && p.QuantityShare != nil {
		qtyShare = *p.QuantityShare
	}
	raw := e.cfg.VelocityScale * (e.cfg.VelocityQtyWeight*qtyShare + e.cfg.VelocityRevWeight*p.RevenueShare)
	return math.Min(100, raw)
}

// trend splits the product's records into two halves by original row order
// and compares average demand per half.
func (e *Engine) trend(records []model.SaleRecord, hasQuantity bool) model.Trend {
	metric := func(r *model.SaleRecord) float64 {
		if hasQuantity {
			return float64(r.Qty())
		}
		return r.Revenue
	}

	if len(records) < 2 {
		return model.Trend{Direction: model.TrendStable, Confidence: model.ConfidenceLow}
	}

	mid := len(records) / 2
	avg := func(recs []model.SaleRecord) float64 {
		var sum float64
		for i := range recs {
			sum += metric(&recs[i])
		}
		return sum / float64(len(recs))
	}
	first := avg(records[:mid])
	second := avg(records[mid:])

	var changePct float64
	switch {
	case first > 0:
		changePct = (second - first) / first * 100
	case second > 0:
		changePct = 100
	}

	direction := model.TrendStable
	if changePct > e.cfg.TrendUpPct {
		direction = model.TrendIncreasing
	} else if changePct < e.cfg.TrendDownPct {
		direction = model.TrendDecreasing
	}

	return model.Trend{
		Direction:  direction,
		ChangePct:  changePct,
		Confidence: e.confidence(records, metric),
	}
}

// confidence grades the verdict by the coefficient of variation of
// per-record demand.
func (e *Engine) confidence(records []model.SaleRecord, metric func(*model.SaleRecord) float64) model.TrendConfidence {
	var sum float64
	for i := range records {
		sum += metric(&records[i])
	}
	mean := sum / float64(len(records))
	if mean == 0 {
		return model.ConfidenceLow
	}
	var ss float64
	for i := range records {
		d := metric(&records[i]) - mean
		ss += d * d
	}
	cv := math.Sqrt(ss/float64(len(records))) / mean

	switch {
	case cv < e.cfg.CVHigh:
		return model.ConfidenceHigh
	case cv < e.cfg.CVMedium:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}

// assignABC walks cumulative revenue share over products sorted by revenue
// descending: A within the first threshold, B within the second, C beyond.
// Ties break by key so the partition is deterministic.
func (e *Engine) assignABC(scored []model.ScoredProduct) {
	order := make([]int, len(scored))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		pa, pb := &scored[order[a]], &scored[order[b]]
		if pa.TotalRevenue != pb.TotalRevenue {
			return pa.TotalRevenue > pb.TotalRevenue
		}
		return pa.Key < pb.Key
	})

	cumulative := 0.0
	for rank, idx := range order {
		cumulative += scored[idx].RevenueShare
		switch {
		case rank == 0 || cumulative <= e.cfg.ABCAThreshold:
			scored[idx].ABC = model.ClassA
		case cumulative <= e.cfg.ABCBThreshold:
			scored[idx].ABC = model.ClassB
		default:
			scored[idx].ABC = model.ClassC
		}
	}
}

// riskScore adds the applicable factors. Quantity bands are mutually
// exclusive (highest applicable only) and are skipped entirely when the
// dataset has no quantity data, which is not the same thing as quantity zero.
func (e *Engine) riskScore(p *model.ScoredProduct, hasQuantity bool) float64 {
	score := 0.0
	r := e.risk

	if hasQuantity {
		switch q := p.TotalQty(); {
		case q == 0:
			score += r.BandZero
		case q < 5:
			score += r.BandUnder5
		case q < 10:
			score += r.BandUnder10
		case q < 20:
			score += r.BandUnder20
		}
	}

	lowDemand := p.TotalRevenue < r.VeryLowRevenue
	if hasQuantity {
		lowDemand = p.TotalQty() < r.LowDemandUnits
	}

	switch p.Trend.Direction {
	case model.TrendDecreasing:
		score += r.DecreasingTrend
	case model.TrendStable:
		if lowDemand {
			score += r.StableLowDemand
		}
	}

	if p.AvgPrice > 0 && p.AvgPrice < r.VeryLowPrice {
		score += r.LowPrice
	}
	if p.TotalRevenue < r.VeryLowRevenue {
		score += r.LowRevenue
	}

	switch p.Trend.Confidence {
	case model.ConfidenceLow:
		score += r.LowConfidence
	case model.ConfidenceMedium:
		score += r.MediumConfidence
	}

	return math.Min(100, score)
}

func (e *Engine) riskLevel(score float64) model.RiskLevel {
	switch {
	case score >= e.risk.CriticalScore:
		return model.RiskCritical
	case score >= e.risk.HighScore:
		return model.RiskHigh
	case score >= e.risk.MediumScore:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}

// archetype evaluates the classification cascade top-to-bottom; first match
// wins. Later rules are deliberately broader catch-alls, so the order is
// load-bearing and must not be rearranged into a lookup.
func (e *Engine) archetype(p *model.ScoredProduct, stats datasetStats) model.Archetype {
	cfg := e.cfg
	rules := []struct {
		tag   model.Archetype
		match func() bool
	}{
		{model.ArchetypeSuperstar, func() bool {
			return p.RevenueShare >= cfg.SuperstarShare && p.Velocity >= cfg.SuperstarVelocity
		}},
		{model.ArchetypeRisingStar, func() bool {
			return p.TotalRevenue >= stats.avgRevenue*cfg.RisingStarRevRatio && p.Velocity >= cfg.RisingStarVelocity
		}},
		{model.ArchetypeCashCow, func() bool {
			return p.TotalRevenue >= stats.avgRevenue && p.Velocity >= cfg.CashCowVelocity
		}},
		{model.ArchetypeSleepingGiant, func() bool {
			return p.TotalRevenue < stats.avgRevenue && p.AvgPrice >= stats.avgUnitPrice
		}},
		{model.ArchetypeSlowBurner, func() bool {
			return p.TotalRevenue >= stats.avgRevenue*cfg.SlowBurnerRevRatio && p.Velocity < cfg.SlowBurnerVelocity
		}},
		{model.ArchetypeDeadWeight, func() bool {
			return p.TotalRevenue < stats.avgRevenue*cfg.DeadWeightRevRatio && p.Velocity < cfg.DeadWeightVelocity
		}},
	}

	for _, rule := range rules {
		if rule.match() {
			return rule.tag
		}
	}
	return model.ArchetypeExperimental
}
