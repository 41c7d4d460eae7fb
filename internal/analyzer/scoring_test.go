package analyzer

import (
	"testing"

	"stockinsight/internal/model"
)

func newTestEngine() *Engine {
	return NewEngine(DefaultScoringConfig(), DefaultRiskConfig())
}

// groupsOf aggregates one record per call argument; convenience for tests
// that do not care about per-product record sequences.
func groupsOf(hasQuantity bool, records ...model.SaleRecord) []*ProductGroup {
	return Aggregate(records, hasQuantity)
}

func TestScore_VelocityCapsAt100(t *testing.T) {
	t.Parallel()

	groups := groupsOf(true,
		rec("Kaos Polos", "", 50000, 120),
		rec("Kemeja Flanel", "", 150000, 15),
		rec("Jaket Jeans", "", 250000, 3),
	)

	scored := newTestEngine().Score(groups, true)
	if got := scored[0].Velocity; got != 100 {
		t.Errorf("dominant product velocity = %v, want capped 100", got)
	}
	for _, p := range scored {
		if p.Velocity < 0 || p.Velocity > 100 {
			t.Errorf("%s velocity %v out of range", p.Key, p.Velocity)
		}
	}
}

func TestScore_VelocityFormula(t *testing.T) {
	t.Parallel()

	// Jaket Jeans: 3/138 units (2.174%), 750k/9M revenue (8.333%).
	// 2 * (0.6*2.174 + 0.4*8.333) = 9.275.
	groups := groupsOf(true,
		rec("Kaos Polos", "", 50000, 120),
		rec("Kemeja Flanel", "", 150000, 15),
		rec("Jaket Jeans", "", 250000, 3),
	)

	scored := newTestEngine().Score(groups, true)
	jaket := scored[2]
	if jaket.Key != "Jaket Jeans" {
		t.Fatalf("order changed: got %q", jaket.Key)
	}
	if !almostEqual(jaket.Velocity, 2*(0.6*jaketQtyShare()+0.4*jaket.RevenueShare)) {
		t.Errorf("velocity = %v", jaket.Velocity)
	}
	if jaket.Velocity < 9 || jaket.Velocity > 10 {
		t.Errorf("velocity = %v, want ~9.3", jaket.Velocity)
	}
}

func jaketQtyShare() float64 { return 3.0 / 138.0 * 100 }

func TestScore_ABCPartition(t *testing.T) {
	t.Parallel()

	groups := groupsOf(true,
		rec("Kaos Polos", "", 50000, 120),   // 66.7% of revenue
		rec("Kemeja Flanel", "", 150000, 15), // cumulative 91.7%
		rec("Jaket Jeans", "", 250000, 3),    // cumulative 100%
	)

	scored := newTestEngine().Score(groups, true)
	want := map[string]model.ABCClass{
		"Kaos Polos":    model.ClassA,
		"Kemeja Flanel": model.ClassB,
		"Jaket Jeans":   model.ClassC,
	}
	for _, p := range scored {
		if p.ABC != want[p.Key] {
			t.Errorf("%s: class %s, want %s", p.Key, p.ABC, want[p.Key])
		}
	}
}

func TestScore_ABCTopProductAlwaysA(t *testing.T) {
	t.Parallel()

	// A single product holds 100% of revenue, past the 80% band; the top
	// rank is still class A.
	groups := groupsOf(true, rec("Kaos Polos", "", 50000, 10))
	scored := newTestEngine().Score(groups, true)
	if scored[0].ABC != model.ClassA {
		t.Errorf("sole product class = %s, want A", scored[0].ABC)
	}
}

func TestScore_EveryProductClassified(t *testing.T) {
	t.Parallel()

	groups := groupsOf(true,
		rec("Kaos Polos", "", 50000, 120),
		rec("Kemeja Flanel", "", 150000, 15),
		rec("Jaket Jeans", "", 250000, 3),
		rec("Topi Baseball", "", 35000, 1),
	)

	scored := newTestEngine().Score(groups, true)
	for _, p := range scored {
		if p.ABC == "" {
			t.Errorf("%s: no ABC class", p.Key)
		}
		if p.Archetype == "" {
			t.Errorf("%s: no archetype", p.Key)
		}
		if p.RiskLevel == "" {
			t.Errorf("%s: no risk level", p.Key)
		}
	}
}

func TestTrend_Directions(t *testing.T) {
	t.Parallel()

	e := newTestEngine()

	cases := []struct {
		name string
		qtys []int
		want model.TrendDirection
	}{
		{"increasing", []int{2, 2, 4, 6}, model.TrendIncreasing},
		{"decreasing", []int{10, 10, 2, 2}, model.TrendDecreasing},
		{"stable", []int{5, 5, 5, 5}, model.TrendStable},
		{"single record", []int{7}, model.TrendStable},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var records []model.SaleRecord
			for _, q := range tc.qtys {
				records = append(records, rec("Kaos Polos", "", 50000, q))
			}
			got := e.trend(records, true)
			if got.Direction != tc.want {
				t.Errorf("direction = %s (change %.1f%%), want %s", got.Direction, got.ChangePct, tc.want)
			}
		})
	}
}

func TestTrend_ConfidenceByVariation(t *testing.T) {
	t.Parallel()

	e := newTestEngine()

	steady := []model.SaleRecord{
		rec("Kaos Polos", "", 50000, 5),
		rec("Kaos Polos", "", 50000, 5),
		rec("Kaos Polos", "", 50000, 5),
	}
	if got := e.trend(steady, true).Confidence; got != model.ConfidenceHigh {
		t.Errorf("steady series confidence = %s, want high", got)
	}

	erratic := []model.SaleRecord{
		rec("Kaos Polos", "", 50000, 10),
		rec("Kaos Polos", "", 50000, 10),
		rec("Kaos Polos", "", 50000, 2),
		rec("Kaos Polos", "", 50000, 2),
	}
	if got := e.trend(erratic, true).Confidence; got != model.ConfidenceLow {
		t.Errorf("erratic series confidence = %s, want low", got)
	}
}

func TestTrend_ZeroFirstWindow(t *testing.T) {
	t.Parallel()

	e := newTestEngine()
	records := []model.SaleRecord{
		rec("Kaos Polos", "", 50000, 0),
		rec("Kaos Polos", "", 50000, 8),
	}
	got := e.trend(records, true)
	if got.Direction != model.TrendIncreasing {
		t.Errorf("direction = %s, want increasing from zero base", got.Direction)
	}
	if got.ChangePct != 100 {
		t.Errorf("change = %v, want clamped 100", got.ChangePct)
	}
}

func TestRiskScore_QuantityBandsExclusive(t *testing.T) {
	t.Parallel()

	e := newTestEngine()

	// Quantity 3 sits in the under-5 band only: 30, not 30+20+10.
	groups := groupsOf(true,
		rec("Kaos Polos", "", 50000, 120),
		rec("Jaket Jeans", "", 250000, 3),
	)
	scored := e.Score(groups, true)
	jaket := scored[1]

	// under-5 band 30 + stable low demand 15 + low confidence 10.
	if jaket.RiskScore != 55 {
		t.Errorf("risk = %v, want 55", jaket.RiskScore)
	}
	if jaket.RiskLevel != model.RiskHigh {
		t.Errorf("level = %s, want HIGH", jaket.RiskLevel)
	}
}

func TestRiskScore_NoQuantityDatasetSkipsBands(t *testing.T) {
	t.Parallel()

	e := newTestEngine()
	groups := groupsOf(false,
		recNoQty("Gelang Manik", 50000),
		recNoQty("Kaos Polos", 5000000),
	)
	scored := e.Score(groups, false)
	gelang := scored[0]

	// No quantity band applies. Stable low demand 15 + low revenue 15 +
	// low confidence 10 = 40.
	if gelang.RiskScore != 40 {
		t.Errorf("risk = %v, want 40", gelang.RiskScore)
	}
	if gelang.RiskLevel != model.RiskMedium {
		t.Errorf("level = %s, want MEDIUM", gelang.RiskLevel)
	}
}

func TestArchetype_CascadeOrder(t *testing.T) {
	t.Parallel()

	groups := groupsOf(true,
		rec("Kaos Polos", "", 50000, 120),
		rec("Kemeja Flanel", "", 150000, 15),
		rec("Jaket Jeans", "", 250000, 3),
	)

	scored := newTestEngine().Score(groups, true)
	want := map[string]model.Archetype{
		// 66.7% revenue share, velocity 100.
		"Kaos Polos": model.ArchetypeSuperstar,
		// Below average revenue but above-average unit price.
		"Kemeja Flanel": model.ArchetypeSleepingGiant,
		"Jaket Jeans":   model.ArchetypeSleepingGiant,
	}
	for _, p := range scored {
		if p.Archetype != want[p.Key] {
			t.Errorf("%s: archetype %s, want %s", p.Key, p.Archetype, want[p.Key])
		}
	}
}

func TestArchetype_ExperimentalFallback(t *testing.T) {
	t.Parallel()

	// Cheap low-sellers in a dataset whose average price they undercut:
	// no rule fires until the catch-all.
	groups := groupsOf(true,
		rec("Kaos Polos", "", 100000, 50),
		rec("Stiker Murah", "", 60000, 30),
	)

	scored := newTestEngine().Score(groups, true)
	sticker := scored[1]
	if sticker.Archetype != model.ArchetypeExperimental {
		t.Errorf("archetype = %s, want EXPERIMENTAL", sticker.Archetype)
	}
}

func TestScore_Deterministic(t *testing.T) {
	t.Parallel()

	records := []model.SaleRecord{
		rec("Kaos Polos", "", 50000, 120),
		rec("Kemeja Flanel", "", 150000, 15),
		rec("Jaket Jeans", "", 250000, 3),
	}

	e := newTestEngine()
	a := e.Score(Aggregate(records, true), true)
	b := e.Score(Aggregate(records, true), true)
	for i := range a {
		if a[i].Archetype != b[i].Archetype || a[i].ABC != b[i].ABC || a[i].RiskScore != b[i].RiskScore {
			t.Errorf("%s scored differently across runs", a[i].Key)
		}
	}
}

func TestScore_NoQuantitySubstitutesRevenueShare(t *testing.T) {
	t.Parallel()

	groups := groupsOf(false,
		recNoQty("Kaos Polos", 6000000),
		recNoQty("Jaket Jeans", 750000),
	)

	scored := newTestEngine().Score(groups, false)
	kaos := scored[0]
	// Both weight terms read revenue share: 2 * (0.6+0.4) * 88.9 caps.
	if kaos.Velocity != 100 {
		t.Errorf("velocity = %v, want 100", kaos.Velocity)
	}
}
