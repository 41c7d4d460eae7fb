package parser

import (
	"strings"

	"stockinsight/internal/model"
)

// ColumnKind is the coarse content classification of a column.
type ColumnKind string

const (
	KindEmpty     ColumnKind = "empty"
	KindNumeric   ColumnKind = "numeric"
	KindLongText  ColumnKind = "long-text"
	KindShortText ColumnKind = "short-text"
)

// ColumnProfile summarizes the sampled content of one column.
type ColumnProfile struct {
	Index  int
	Header string
	Kind   ColumnKind

	Samples       int
	AvgLen        float64
	Mean          float64 // mean of money-parsed values over numeric samples
	NumericRatio  float64
	IntegerRatio  float64 // numeric samples that are bare small integers
	DateRatio     float64
	LetterRatio   float64
	DistinctRatio float64
}

// longTextMinLen is the average string length above which a lettered column
// reads as free text (product names) rather than a code or label.
const longTextMinLen = 15.0

// ProfileColumn samples up to sampleSize non-empty values of one column and
// computes its content statistics.
func ProfileColumn(index int, header string, table *model.RawTable, sampleSize int) ColumnProfile {
	p := ColumnProfile{Index: index, Header: header, Kind: KindEmpty}

	var (
		totalLen int
		numeric  int
		integer  int
		dates    int
		lettered int
		sum      float64
	)
	distinct := make(map[string]struct{})

	for _, row := range table.Rows {
		if p.Samples >= sampleSize {
			break
		}
		v := table.Cell(row, index)
		if v == "" {
			continue
		}
		p.Samples++
		totalLen += len(v)
		distinct[strings.ToLower(v)] = struct{}{}

		if LooksLikeDate(v) {
			dates++
		}
		if HasLetter(v) {
			lettered++
		}
		if IsPureNumber(v) {
			numeric++
			f := NormalizeMoney(v)
			sum += f
			if f == float64(int64(f)) && f >= 0 && f < 100000 && !strings.ContainsAny(v, ".,") {
				integer++
			}
		}
	}

	if p.Samples == 0 {
		return p
	}

	n := float64(p.Samples)
	p.AvgLen = float64(totalLen) / n
	p.NumericRatio = float64(numeric) / n
	p.DateRatio = float64(dates) / n
	p.LetterRatio = float64(lettered) / n
	p.DistinctRatio = float64(len(distinct)) / n
	if numeric > 0 {
		p.Mean = sum / float64(numeric)
	}
	if numeric > 0 {
		p.IntegerRatio = float64(integer) / float64(numeric)
	}

	switch {
	case p.NumericRatio >= 0.8 && p.DateRatio < 0.5:
		p.Kind = KindNumeric
	case p.AvgLen > longTextMinLen && p.LetterRatio > 0.5:
		p.Kind = KindLongText
	default:
		p.Kind = KindShortText
	}

	return p
}

// Signals computes an independent 0-100 likelihood for the roles the content
// stage assigns across columns: product, price and quantity. The optional
// labeling roles (category, variant, sku, date) are header-only and have no
// content signal.
func (p ColumnProfile) Signals() map[model.ColumnRole]float64 {
	s := make(map[model.ColumnRole]float64, 3)
	if p.Samples == 0 {
		return s
	}

	if p.Kind == KindLongText {
		s[model.RoleProduct] = clamp100(60 + p.AvgLen)
	} else if p.Kind == KindShortText && p.LetterRatio > 0.5 && p.DateRatio < 0.2 {
		s[model.RoleProduct] = 35
	}

	if p.Kind == KindNumeric {
		switch {
		case p.Mean >= 1000:
			s[model.RolePrice] = 75
		case p.IntegerRatio >= 0.8:
			s[model.RoleQuantity] = 80
		default:
			s[model.RolePrice] = 40
			s[model.RoleQuantity] = 30
		}
	}

	return s
}

func clamp100(v float64) float64 {
	if v > 100 {
		return 100
	}
	if v < 0 {
		return 0
	}
	return v
}
