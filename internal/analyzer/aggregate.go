package analyzer

import "stockinsight/internal/model"

// ProductGroup pairs a per-product rollup with its contributing records, in
// original row order. The record list feeds the two-window trend detector.
type ProductGroup struct {
	Product model.AggregatedProduct
	Records []model.SaleRecord
}

// Aggregate groups canonical records by product identity (name, or
// name+variant when variants exist) and computes totals and contribution
// shares. Sum of per-product revenue always equals the sum of record revenue.
func Aggregate(records []model.SaleRecord, hasQuantity bool) []*ProductGroup {
	var groups []*ProductGroup
	index := make(map[string]*ProductGroup)

	for _, rec := range records {
		key := rec.GroupKey()
		g, ok := index[key]
		if !ok {
			g = &ProductGroup{
				Product: model.AggregatedProduct{
					Key:     key,
					Name:    rec.Name,
					Variant: rec.Variant,
				},
			}
			index[key] = g
			groups = append(groups, g)
		}
		g.Records = append(g.Records, rec)

		p := &g.Product
		p.TotalRevenue += rec.Revenue
		p.RecordCount++
		if p.Category == "" && rec.Category != "" {
			p.Category = rec.Category
		}
		if hasQuantity {
			q := p.TotalQty() + rec.Qty()
			p.TotalQuantity = &q
		}
	}

	var grandRevenue float64
	grandQty := 0
	for _, g := range groups {
		grandRevenue += g.Product.TotalRevenue
		grandQty += g.Product.TotalQty()
	}

	for _, g := range groups {
		p := &g.Product
		p.AvgPrice = averagePrice(g.Records, hasQuantity, p)
		if grandRevenue > 0 {
			p.RevenueShare = p.TotalRevenue / grandRevenue * 100
		}
		if hasQuantity && grandQty > 0 {
			share := float64(p.TotalQty()) / float64(grandQty) * 100
			p.QuantityShare = &share
		}
	}

	return groups
}

// averagePrice is unit-weighted when quantity data exists, otherwise the
// plain mean of record prices.
func averagePrice(records []model.SaleRecord, hasQuantity bool, p *model.AggregatedProduct) float64 {
	if hasQuantity && p.TotalQty() > 0 {
		return p.TotalRevenue / float64(p.TotalQty())
	}
	if len(records) == 0 {
		return 0
	}
	var sum float64
	for _, r := range records {
		sum += r.Price
	}
	return sum / float64(len(records))
}

// Totals sums the dataset grand totals over groups.
func Totals(groups []*ProductGroup, hasQuantity bool) (revenue float64, units *int) {
	var qty int
	for _, g := range groups {
		revenue += g.Product.TotalRevenue
		qty += g.Product.TotalQty()
	}
	if hasQuantity {
		units = &qty
	}
	return revenue, units
}
