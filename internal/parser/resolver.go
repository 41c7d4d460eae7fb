package parser

import (
	"sort"
	"strings"

	"stockinsight/internal/model"
)

// ResolverOptions are the tunable constants of role resolution. The defaults
// are calibrated for small-retailer exports; callers may override them from
// configuration.
type ResolverOptions struct {
	// SampleSize is how many non-empty values per column are profiled.
	SampleSize int
	// QuantityMeanCap: a numeric column whose mean exceeds this is too big
	// to be a per-line-item unit count.
	QuantityMeanCap float64
	// QuantityMeanRatio: the quantity candidate's mean must be below this
	// fraction of the price column's mean.
	QuantityMeanRatio float64
	// DateSerialMean: numeric columns with means beyond this look like
	// spreadsheet date serials and are disqualified from quantity.
	DateSerialMean float64
	// QuantitySanityMax: sampled quantity values above this trigger the
	// validation veto.
	QuantitySanityMax float64
	// DateRatioVeto: fraction of date-like samples that vetoes quantity.
	DateRatioVeto float64
}

// DefaultResolverOptions returns the calibrated defaults.
func DefaultResolverOptions() ResolverOptions {
	return ResolverOptions{
		SampleSize:        50,
		QuantityMeanCap:   1000,
		QuantityMeanRatio: 0.8,
		DateSerialMean:    10000000,
		QuantitySanityMax: 100000,
		DateRatioVeto:     0.3,
	}
}

// Resolver maps anonymous table columns to semantic roles. Resolution is an
// ordered chain of stages, each either claiming columns or passing: header
// keyword matching, content-based fallback, then a validation veto pass.
type Resolver struct {
	opts   ResolverOptions
	stages []resolveStage
}

// NewResolver creates a resolver with default options.
func NewResolver() *Resolver {
	return NewResolverWithOptions(DefaultResolverOptions())
}

// NewResolverWithOptions creates a resolver with explicit tuning.
func NewResolverWithOptions(opts ResolverOptions) *Resolver {
	if opts.SampleSize <= 0 {
		opts.SampleSize = 50
	}
	r := &Resolver{opts: opts}
	r.stages = []resolveStage{
		&headerStage{},
		&contentStage{opts: opts},
		&validationStage{opts: opts},
	}
	return r
}

// Resolve assigns roles for the table. Product and one of price/revenue are
// required; when either cannot be resolved by any stage the error is a
// *RoleError naming the missing role and listing every examined header.
// Quantity degrades gracefully: absent or vetoed, never guessed.
func (r *Resolver) Resolve(table *model.RawTable) (*Resolution, error) {
	ctx := &resolveContext{
		table: table,
		roles: model.NewRoleMap(),
		diag:  &Diagnostics{},
	}
	if table.HasHeader {
		ctx.headers = make([]string, len(table.Headers))
		ctx.raw = make([]string, len(table.Headers))
		for i, h := range table.Headers {
			ctx.headers[i] = NormalizeHeader(h)
			ctx.raw[i] = strings.TrimSpace(h)
		}
	}

	for _, stage := range r.stages {
		stage.apply(ctx)
	}

	if !ctx.roles.Has(model.RoleProduct) {
		return nil, &RoleError{Role: model.RoleProduct, Headers: ctx.raw}
	}
	if !ctx.roles.Has(model.RolePrice) && !ctx.roles.Has(model.RoleRevenue) {
		return nil, &RoleError{Role: model.RolePrice, Headers: ctx.raw}
	}

	return &Resolution{
		Roles:           ctx.roles,
		ExaminedHeaders: ctx.raw,
		Diag:            ctx.diag,
	}, nil
}

type resolveContext struct {
	table   *model.RawTable
	headers []string // normalized, empty when the table has no header row
	raw     []string // trimmed originals for error messages
	roles   *model.RoleMap
	diag    *Diagnostics

	profiles map[int]ColumnProfile
}

// profile lazily computes and caches the content profile of a column.
func (ctx *resolveContext) profile(col, sampleSize int) ColumnProfile {
	if ctx.profiles == nil {
		ctx.profiles = make(map[int]ColumnProfile)
	}
	if p, ok := ctx.profiles[col]; ok {
		return p
	}
	header := ""
	if col < len(ctx.headers) {
		header = ctx.headers[col]
	}
	p := ProfileColumn(col, header, ctx.table, sampleSize)
	ctx.profiles[col] = p
	return p
}

// header returns the normalized header of a column, "" when headerless.
func (ctx *resolveContext) header(col int) string {
	if col < len(ctx.headers) {
		return ctx.headers[col]
	}
	return ""
}

// quantityExcluded reports whether a column's header forbids the quantity
// role. This guard applies in every stage.
func (ctx *resolveContext) quantityExcluded(col int) bool {
	h := ctx.header(col)
	return h != "" && ContainsAny(h, quantityExclusions)
}

type resolveStage interface {
	name() string
	apply(ctx *resolveContext)
}

// headerStage matches bilingual keyword tables against the header row.
// Headers are the strongest and most human-meaningful signal, so they are
// always tried first.
type headerStage struct{}

func (s *headerStage) name() string { return "header" }

func (s *headerStage) apply(ctx *resolveContext) {
	if len(ctx.headers) == 0 {
		return
	}
	for _, role := range roleKeywordOrder {
		if ctx.roles.Has(role) {
			continue
		}
		s.matchRole(ctx, role)
	}
}

func (s *headerStage) matchRole(ctx *resolveContext, role model.ColumnRole) {
	for _, kw := range roleKeywords[role] {
		for col, header := range ctx.headers {
			if header == "" || ctx.roles.Claimed(col) {
				continue
			}
			if !strings.Contains(header, kw) {
				continue
			}
			if role == model.RoleQuantity && ctx.quantityExcluded(col) {
				ctx.diag.Notef("column %q matches quantity keyword %q but is excluded from the quantity role", ctx.raw[col], kw)
				continue
			}
			ctx.roles.Assign(model.RoleAssignment{
				Role:        role,
				ColumnIndex: col,
				ColumnName:  ctx.raw[col],
				Source:      "header",
				Score:       100,
			})
			return
		}
	}
}

// contentStage is the fallback for sloppy or headerless exports. It runs only
// when product or price is still unresolved: the first long-text column
// becomes product, and numeric columns are ranked by mean so the largest
// reads as price and a materially smaller one as quantity.
type contentStage struct {
	opts ResolverOptions
}

func (s *contentStage) name() string { return "content" }

func (s *contentStage) apply(ctx *resolveContext) {
	needProduct := !ctx.roles.Has(model.RoleProduct)
	needPrice := !ctx.roles.Has(model.RolePrice) && !ctx.roles.Has(model.RoleRevenue)
	if !needProduct && !needPrice {
		return
	}

	cols := ctx.table.ColumnCount()

	if needProduct {
		for col := 0; col < cols; col++ {
			if ctx.roles.Claimed(col) {
				continue
			}
			p := ctx.profile(col, s.opts.SampleSize)
			if p.Kind != KindLongText {
				continue
			}
			ctx.roles.Assign(model.RoleAssignment{
				Role:        model.RoleProduct,
				ColumnIndex: col,
				ColumnName:  ctx.raw0(col),
				Source:      "content",
				Score:       p.Signals()[model.RoleProduct],
			})
			ctx.diag.Notef("product column inferred from content at index %d", col)
			break
		}
	}

	if !ctx.roles.Has(model.RolePrice) && !ctx.roles.Has(model.RoleRevenue) {
		s.assignNumeric(ctx, cols)
	}
}

// assignNumeric applies the cross-column magnitude comparison: highest mean
// is price; a second column qualifies as quantity only when its mean is both
// materially lower and small in absolute terms.
func (s *contentStage) assignNumeric(ctx *resolveContext, cols int) {
	type candidate struct {
		col  int
		prof ColumnProfile
	}
	var numeric []candidate
	for col := 0; col < cols; col++ {
		if ctx.roles.Claimed(col) {
			continue
		}
		p := ctx.profile(col, s.opts.SampleSize)
		if p.Kind == KindNumeric {
			numeric = append(numeric, candidate{col, p})
		}
	}
	if len(numeric) == 0 {
		return
	}

	sort.SliceStable(numeric, func(i, j int) bool {
		return numeric[i].prof.Mean > numeric[j].prof.Mean
	})

	price := numeric[0]
	ctx.roles.Assign(model.RoleAssignment{
		Role:        model.RolePrice,
		ColumnIndex: price.col,
		ColumnName:  ctx.raw0(price.col),
		Source:      "content",
		Score:       price.prof.Signals()[model.RolePrice],
	})
	ctx.diag.Notef("price column inferred from content at index %d (mean %.2f)", price.col, price.prof.Mean)

	// Only one numeric column: price only. Guessing a quantity is worse
	// than reporting revenue-based rankings.
	if len(numeric) < 2 || ctx.roles.Has(model.RoleQuantity) {
		return
	}

	second := numeric[1]
	if second.prof.Mean >= price.prof.Mean*s.opts.QuantityMeanRatio {
		return
	}
	if second.prof.Mean >= s.opts.QuantityMeanCap {
		return
	}
	if second.prof.Mean > s.opts.DateSerialMean {
		return
	}
	if ctx.quantityExcluded(second.col) {
		ctx.diag.Notef("numeric column %d skipped for quantity: excluded header", second.col)
		return
	}
	ctx.roles.Assign(model.RoleAssignment{
		Role:        model.RoleQuantity,
		ColumnIndex: second.col,
		ColumnName:  ctx.raw0(second.col),
		Source:      "content",
		Score:       second.prof.Signals()[model.RoleQuantity],
	})
	ctx.diag.Notef("quantity column inferred from content at index %d (mean %.2f)", second.col, second.prof.Mean)
}

// raw0 returns the trimmed original header or "" for headerless tables.
func (ctx *resolveContext) raw0(col int) string {
	if col < len(ctx.raw) {
		return ctx.raw[col]
	}
	return ""
}

// validationStage re-samples the resolved quantity column and resets the
// role when its values are implausible for per-line-item unit counts. A
// wrong quantity silently corrupts every derived score; a missing one only
// degrades the report, so the veto errs toward absence. Product and price
// have no such reset: they fail loudly instead.
type validationStage struct {
	opts ResolverOptions
}

func (s *validationStage) name() string { return "validation" }

func (s *validationStage) apply(ctx *resolveContext) {
	col, ok := ctx.roles.Column(model.RoleQuantity)
	if !ok {
		return
	}
	p := ctx.profile(col, s.opts.SampleSize)

	switch {
	case p.DateRatio >= s.opts.DateRatioVeto:
		ctx.roles.Reset(model.RoleQuantity)
		ctx.diag.Warnf("quantity column %d rejected: %.0f%% of sampled values look like dates", col, p.DateRatio*100)
	case p.Mean > s.opts.QuantitySanityMax:
		ctx.roles.Reset(model.RoleQuantity)
		ctx.diag.Warnf("quantity column %d rejected: mean value %.0f is implausible for unit counts", col, p.Mean)
	}
}
