package analyzer

import (
	"fmt"

	"stockinsight/internal/model"
	"stockinsight/internal/parser"
)

// AssessQuality scores the dataset 0-100 and lists human-readable issues.
// Degradations (no quantity column, derived values, skipped rows) surface
// here rather than aborting the run.
func AssessQuality(records []model.SaleRecord, products []model.ScoredProduct, hasQuantity bool, skipped int, diag *parser.Diagnostics) model.DataQuality {
	score := 100
	var issues []string

	if !hasQuantity {
		score -= 20
		issues = append(issues, "no quantity column detected; unit-based metrics are omitted and rankings are revenue-based")
	}

	if n := len(products); n > 0 {
		missing := 0
		for i := range products {
			if products[i].Category == "" {
				missing++
			}
		}
		if missing > 0 {
			pct := missing * 100 / n
			issues = append(issues, fmt.Sprintf("%d%% of products missing category", pct))
			score -= min(10, pct/10)
		}
	}

	if len(records) > 0 {
		derived := 0
		for i := range records {
			if records[i].RevenueDerived || records[i].PriceDerived {
				derived++
			}
		}
		if derived > 0 {
			pct := derived * 100 / len(records)
			issues = append(issues, fmt.Sprintf("%d%% of records have derived price or revenue values", pct))
			if !hasQuantity {
				// Revenue approximated from unit price alone.
				score -= 15
			}
		}
	}

	if skipped > 0 {
		total := skipped + len(records)
		pct := skipped * 100 / total
		issues = append(issues, fmt.Sprintf("%d rows skipped for missing product name (%d%%)", skipped, pct))
		if pct >= 10 {
			score -= 10
		}
	}

	var warnings []string
	if diag != nil {
		warnings = diag.Warnings
		score -= min(10, 2*len(diag.Warnings))
	}

	if score < 0 {
		score = 0
	}
	if issues == nil {
		issues = []string{}
	}

	return model.DataQuality{Score: score, Issues: issues, Warnings: warnings}
}
