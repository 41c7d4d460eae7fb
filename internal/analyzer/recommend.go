package analyzer

import (
	"fmt"
	"math"
	"sort"

	"stockinsight/internal/model"
)

// RecommendConfig tunes the recommendation generator.
type RecommendConfig struct {
	// IncreaseBoostVelocity: above this velocity an increase directive
	// targets the larger band.
	IncreaseBoostVelocity float64 `toml:"increase_boost_velocity"`
}

// DefaultRecommendConfig returns the calibrated defaults.
func DefaultRecommendConfig() RecommendConfig {
	return RecommendConfig{IncreaseBoostVelocity: 20}
}

// Generator turns score profiles into ranked stocking directives. It is a
// pure function of the ScoredProduct set: no state, no randomness.
type Generator struct {
	cfg  RecommendConfig
	risk RiskConfig
}

// NewGenerator creates a recommendation generator.
func NewGenerator(cfg RecommendConfig, risk RiskConfig) *Generator {
	return &Generator{cfg: cfg, risk: risk}
}

// candidate is a directive with its raw urgency, before ranking.
type candidate struct {
	rec     model.Recommendation
	urgency float64
}

// Generate maps archetype and risk to directives, ranks them by urgency and
// assigns priorities starting at 1 for the most urgent.
func (g *Generator) Generate(products []model.ScoredProduct) []model.Recommendation {
	var candidates []candidate

	for i := range products {
		p := &products[i]
		if c, ok := g.productDirective(p); ok {
			candidates = append(candidates, c)
		}
	}

	if c, ok := g.bundleDirective(products); ok {
		candidates = append(candidates, c)
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		if candidates[a].urgency != candidates[b].urgency {
			return candidates[a].urgency > candidates[b].urgency
		}
		return candidates[a].rec.Products[0] < candidates[b].rec.Products[0]
	})

	recs := make([]model.Recommendation, len(candidates))
	for i, c := range candidates {
		c.rec.Priority = i + 1
		recs[i] = c.rec
	}
	return recs
}

func (g *Generator) productDirective(p *model.ScoredProduct) (candidate, bool) {
	switch {
	case p.Archetype == model.ArchetypeDeadWeight && p.RiskLevel == model.RiskCritical:
		return candidate{
			urgency: p.RiskScore + 30,
			rec: model.Recommendation{
				Action:      model.ActionDiscontinue,
				Products:    []string{p.Key},
				Target:      "stop or cut 70-100%",
				Reason:      fmt.Sprintf("%s is dead weight at critical deadstock risk (score %.0f)", p.Name, p.RiskScore),
				Impact:      "frees working capital tied up in stock that is not selling",
				DiscountPct: g.clearanceBand(p.RiskScore),
			},
		}, true

	case p.RiskLevel == model.RiskCritical:
		return candidate{
			urgency: p.RiskScore + 20,
			rec: model.Recommendation{
				Action:      model.ActionDecreaseStock,
				Products:    []string{p.Key},
				Target:      "reduce 70-100%",
				Reason:      fmt.Sprintf("%s carries critical deadstock risk (score %.0f, trend %s)", p.Name, p.RiskScore, p.Trend.Direction),
				Impact:      "stops further capital accumulating in a product unlikely to sell",
				DiscountPct: g.clearanceBand(p.RiskScore),
			},
		}, true

	case p.RiskLevel == model.RiskHigh:
		return candidate{
			urgency: p.RiskScore,
			rec: model.Recommendation{
				Action:      model.ActionDecreaseStock,
				Products:    []string{p.Key},
				Target:      "reduce 40-60%",
				Reason:      fmt.Sprintf("%s is at high deadstock risk (score %.0f)", p.Name, p.RiskScore),
				Impact:      "limits exposure while keeping some availability",
				DiscountPct: g.clearanceBand(p.RiskScore),
			},
		}, true

	case p.Archetype == model.ArchetypeSuperstar:
		target := "+20-30%"
		if p.Velocity > g.cfg.IncreaseBoostVelocity {
			target = "+40-50%"
		}
		return candidate{
			urgency: 60 + p.Velocity/2,
			rec: model.Recommendation{
				Action:   model.ActionIncreaseStock,
				Products: []string{p.Key},
				Target:   target,
				Reason:   fmt.Sprintf("%s is a superstar: %.1f%% of revenue at velocity %.0f", p.Name, p.RevenueShare, p.Velocity),
				Impact:   "captures demand upside on a proven seller and avoids stockouts",
			},
		}, true

	case p.Archetype == model.ArchetypeRisingStar:
		return candidate{
			urgency: 50 + p.Velocity/2,
			rec: model.Recommendation{
				Action:   model.ActionIncreaseStock,
				Products: []string{p.Key},
				Target:   "+20-30%",
				Reason:   fmt.Sprintf("%s is rising: revenue above average with velocity %.0f", p.Name, p.Velocity),
				Impact:   "backs momentum before competitors restock",
			},
		}, true

	case p.Archetype == model.ArchetypeSlowBurner,
		p.RiskLevel == model.RiskMedium && p.Trend.Confidence == model.ConfidenceLow:
		return candidate{
			urgency: 20,
			rec: model.Recommendation{
				Action:   model.ActionMonitor,
				Products: []string{p.Key},
				Target:   "no change; re-evaluate next period",
				Reason:   fmt.Sprintf("%s sells steadily but slowly (velocity %.0f, confidence %s)", p.Name, p.Velocity, p.Trend.Confidence),
				Impact:   "avoids premature cuts on a product the data cannot yet condemn",
			},
		}, true
	}

	return candidate{}, false
}

// bundleDirective pairs the strongest class-A product with the worst
// HIGH-risk product. Synthesized only when both exist.
func (g *Generator) bundleDirective(products []model.ScoredProduct) (candidate, bool) {
	var anchor, clearance *model.ScoredProduct
	for i := range products {
		p := &products[i]
		if p.ABC == model.ClassA && (anchor == nil || p.Velocity > anchor.Velocity) {
			anchor = p
		}
		if p.RiskLevel == model.RiskHigh && (clearance == nil || p.RiskScore > clearance.RiskScore) {
			clearance = p
		}
	}
	if anchor == nil || clearance == nil || anchor.Key == clearance.Key {
		return candidate{}, false
	}

	return candidate{
		urgency: clearance.RiskScore - 5,
		rec: model.Recommendation{
			Action:   model.ActionBundle,
			Products: []string{anchor.Key, clearance.Key},
			Target:   "bundle at a 10-20% combined discount",
			Reason:   fmt.Sprintf("pair %s (class A) with %s (high risk) to move slow stock", anchor.Name, clearance.Name),
			Impact:   "leverages the stronger item's demand to accelerate clearance of the weaker one",
		},
	}, true
}

// clearanceBand suggests a 30-50% discount window scaling with risk score.
func (g *Generator) clearanceBand(riskScore float64) string {
	span := g.risk.CriticalScore
	if span <= 0 {
		span = 70
	}
	lo := 30 + (riskScore-span)*20/(100-span)
	lo = math.Max(30, math.Min(40, lo))
	return fmt.Sprintf("%.0f-%.0f%%", lo, lo+10)
}
