package models

import "github.com/shopspring/decimal"

// DefaultKgPerCarton is the packing constant used when an article does not declare its own.
const DefaultKgPerCarton = 20

var defaultKgPerCarton = decimal.NewFromInt(DefaultKgPerCarton)

// EffectiveKgPerCarton returns kgPerCarton, or DefaultKgPerCarton when it is zero or negative.
func EffectiveKgPerCarton(kgPerCarton decimal.Decimal) decimal.Decimal {
	if kgPerCarton.IsPositive() {
		return kgPerCarton
	}
	return defaultKgPerCarton
}

// CartonsForKg returns the number of cartons needed to hold quantityKg.
// Partial cartons always count as a full carton. quantityKg <= 0 yields 0.
func CartonsForKg(quantityKg, kgPerCarton decimal.Decimal) int64 {
	if !quantityKg.IsPositive() {
		return 0
	}
	q, r := quantityKg.QuoRem(EffectiveKgPerCarton(kgPerCarton), 0)
	if r.IsPositive() {
		return q.IntPart() + 1
	}
	return q.IntPart()
}

// FullCartonsForKg returns how many whole cartons fit in quantityKg.
// Used for capacity, where claiming a partial carton would overstate what fits.
func FullCartonsForKg(quantityKg, kgPerCarton decimal.Decimal) int64 {
	if !quantityKg.IsPositive() {
		return 0
	}
	q, _ := quantityKg.QuoRem(EffectiveKgPerCarton(kgPerCarton), 0)
	return q.IntPart()
}

// GrossWeight is net weight plus the empty-carton contribution.
// Every document for the same allocation must use this so gross weights agree.
func GrossWeight(netWeightKg decimal.Decimal, cartonCount int64, emptyCartonWeightKg decimal.Decimal) decimal.Decimal {
	if cartonCount <= 0 || !emptyCartonWeightKg.IsPositive() {
		return netWeightKg
	}
	return netWeightKg.Add(emptyCartonWeightKg.Mul(decimal.NewFromInt(cartonCount)))
}

// Scales match the NUMERIC columns the values are stored in.
const (
	KgScale    int32 = 3
	PriceScale int32 = 4
)

// WithinScale reports whether d has at most places fractional digits.
func WithinScale(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}
