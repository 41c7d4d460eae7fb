package parser

import (
	"strings"

	"stockinsight/internal/model"
)

// RecordNormalizer maps raw rows into canonical SaleRecords using a resolved
// role map.
type RecordNormalizer struct {
	// CountCeiling flags (not rejects) single-line-item unit counts above
	// this value; retail counts are almost always small.
	CountCeiling int
}

// NewRecordNormalizer creates a normalizer with the default sanity ceiling.
func NewRecordNormalizer() *RecordNormalizer {
	return &RecordNormalizer{CountCeiling: 1000}
}

// Normalize converts every usable raw row into a SaleRecord. Rows without a
// product name are skipped and counted; malformed numeric cells normalize to
// zero with a warning, never aborting the table. Prices and revenue are
// non-negative: refund-style negative amounts clamp to 0 with a warning.
func (n *RecordNormalizer) Normalize(table *model.RawTable, roles *model.RoleMap, diag *Diagnostics) (records []model.SaleRecord, skipped int) {
	productCol, _ := roles.Column(model.RoleProduct)
	priceCol, hasPrice := roles.Column(model.RolePrice)
	qtyCol, hasQty := roles.Column(model.RoleQuantity)
	revCol, hasRev := roles.Column(model.RoleRevenue)
	catCol, hasCat := roles.Column(model.RoleCategory)
	varCol, hasVar := roles.Column(model.RoleVariant)
	skuCol, hasSKU := roles.Column(model.RoleSKU)

	for i, row := range table.Rows {
		if model.IsBlankRow(row) {
			continue
		}
		rowNo := i + 1
		if table.HasHeader {
			rowNo++
		}

		name := table.Cell(row, productCol)
		if name == "" {
			skipped++
			continue
		}

		rec := model.SaleRecord{RowNo: rowNo, Name: name}
		if hasCat {
			rec.Category = table.Cell(row, catCol)
		}
		if hasVar {
			rec.Variant = strings.ToUpper(table.Cell(row, varCol))
		}
		if hasSKU {
			rec.SKU = table.Cell(row, skuCol)
		}

		if hasPrice {
			rec.Price = NormalizeMoney(table.Cell(row, priceCol))
			if rec.Price < 0 {
				diag.Warnf("row %d: negative price %.0f clamped to 0", rowNo, rec.Price)
				rec.Price = 0
			}
		}
		if hasQty {
			raw := table.Cell(row, qtyCol)
			q := NormalizeCount(raw)
			if raw != "" && q == 0 && !IsPureNumber(raw) {
				diag.Warnf("row %d: unparseable quantity %q normalized to 0", rowNo, raw)
			}
			if n.CountCeiling > 0 && q > n.CountCeiling {
				diag.Warnf("row %d: quantity %d exceeds sanity ceiling %d", rowNo, q, n.CountCeiling)
			}
			rec.Quantity = &q
		}

		rawRev := ""
		if hasRev {
			rawRev = table.Cell(row, revCol)
		}
		n.fillMoney(&rec, hasRev, rawRev, diag)
		records = append(records, rec)
	}

	return records, skipped
}

// fillMoney settles the price/quantity/revenue triangle. A revenue column is
// the source of truth when present; otherwise revenue derives from
// price x quantity. With exactly two of the three known, the third follows by
// inverse arithmetic. A quantity is never invented.
func (n *RecordNormalizer) fillMoney(rec *model.SaleRecord, hasRev bool, rawRevenue string, diag *Diagnostics) {
	if hasRev {
		rec.Revenue = NormalizeMoney(rawRevenue)
		if rec.Revenue < 0 {
			diag.Warnf("row %d: negative revenue %.0f clamped to 0", rec.RowNo, rec.Revenue)
			rec.Revenue = 0
		}
		if rec.Quantity != nil {
			q := rec.Qty()
			if rec.Price == 0 && q > 0 && rec.Revenue > 0 {
				rec.Price = rec.Revenue / float64(q)
				rec.PriceDerived = true
			}
		} else if rec.Price == 0 && rec.Revenue > 0 {
			// Only revenue known; leave price zero rather than guess
			// a quantity to divide by.
			diag.Notef("row %d: revenue present without price or quantity", rec.RowNo)
		}
		return
	}

	if rec.Quantity != nil {
		rec.Revenue = rec.Price * float64(rec.Qty())
		rec.RevenueDerived = true
		return
	}

	// No revenue column and no quantity column: the unit price is the only
	// monetary fact on the row, so it stands in for line revenue. The data
	// quality report calls this out.
	rec.Revenue = rec.Price
	rec.RevenueDerived = true
}
