package model

// SaleRecord is one canonical per-row sale. It is immutable after creation
// and has no identity beyond its position in the run that produced it.
//
// Quantity is a pointer because absence of a quantity column must propagate:
// a missing quantity is never the same thing as quantity zero.
type SaleRecord struct {
	RowNo    int     `json:"rowNo"`
	Name     string  `json:"name"`
	Category string  `json:"category,omitempty"`
	Variant  string  `json:"variant,omitempty"` // normalized to uppercase
	SKU      string  `json:"sku,omitempty"`
	Price    float64 `json:"price"`
	Quantity *int    `json:"quantity,omitempty"`
	Revenue  float64 `json:"revenue"`

	// Derivation flags for the data-quality report.
	PriceDerived   bool `json:"priceDerived,omitempty"`
	RevenueDerived bool `json:"revenueDerived,omitempty"`
}

// Qty returns the quantity or 0 when absent.
func (r *SaleRecord) Qty() int {
	if r.Quantity == nil {
		return 0
	}
	return *r.Quantity
}

// GroupKey is the aggregation identity: name, or name+variant when the
// record carries a variant.
func (r *SaleRecord) GroupKey() string {
	if r.Variant != "" {
		return r.Name + " | " + r.Variant
	}
	return r.Name
}

// AggregatedProduct is the per-product rollup of SaleRecords.
type AggregatedProduct struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Variant  string `json:"variant,omitempty"`
	Category string `json:"category,omitempty"`

	TotalQuantity *int    `json:"totalQuantity,omitempty"`
	TotalRevenue  float64 `json:"totalRevenue"`
	AvgPrice      float64 `json:"avgPrice"`
	RecordCount   int     `json:"recordCount"`

	// Shares are percentages of the dataset grand totals.
	RevenueShare  float64  `json:"revenueShare"`
	QuantityShare *float64 `json:"quantityShare,omitempty"`
}

// TotalQty returns the aggregated quantity or 0 when quantity data is absent.
func (p *AggregatedProduct) TotalQty() int {
	if p.TotalQuantity == nil {
		return 0
	}
	return *p.TotalQuantity
}
