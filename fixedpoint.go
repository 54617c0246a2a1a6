// Copyright (c) 2024 Neomantra Corp

package barcore

import (
	"fmt"
	"math"
)

///////////////////////////////////////////////////////////////////////////////

// FixedScalar is the global scale factor mapping decimal prices and
// quantities to raw int64 units: one raw unit is 1/1,000,000,000.
const FixedScalar float64 = 1_000_000_000.0

// MaxPrecision is the largest number of decimal digits a Price or Quantity
// may carry.
const MaxPrecision uint8 = 9

///////////////////////////////////////////////////////////////////////////////

// Price is an exact fixed-point price: Raw is the value scaled by
// FixedScalar, Precision is the number of significant decimal digits.
type Price struct {
	Raw       int64
	Precision uint8
}

// NewPrice constructs a Price from a float64, rounding to the nearest raw
// unit (1e-9); precision is recorded as given and does not change the
// rounding. Returns an error if precision exceeds MaxPrecision.
func NewPrice(value float64, precision uint8) (Price, error) {
	if precision > MaxPrecision {
		return Price{}, fmt.Errorf("precision %d exceeds max precision %d", precision, MaxPrecision)
	}
	return Price{Raw: int64(math.Round(value * FixedScalar)), Precision: precision}, nil
}

// PriceFromRaw constructs a Price directly from its raw scaled value.
func PriceFromRaw(raw int64, precision uint8) Price {
	return Price{Raw: raw, Precision: precision}
}

// AsFloat64 converts the Price to a float64. Not used on the VolumeAggregator
// split path, where raw-integer comparisons stay exact.
func (p Price) AsFloat64() float64 {
	return float64(p.Raw) / FixedScalar
}

func (p Price) GreaterThan(other Price) bool { return p.Raw > other.Raw }
func (p Price) LessThan(other Price) bool    { return p.Raw < other.Raw }
func (p Price) Equal(other Price) bool       { return p.Raw == other.Raw }

func (p Price) String() string {
	return fmt.Sprintf("%.*f", p.Precision, p.AsFloat64())
}

///////////////////////////////////////////////////////////////////////////////

// Quantity is an exact fixed-point size/volume, with the same raw-scaled
// representation as Price.
type Quantity struct {
	Raw       int64
	Precision uint8
}

// NewQuantity constructs a Quantity from a float64, rounding to the nearest
// raw unit (1e-9); precision is recorded as given and does not change the
// rounding.
func NewQuantity(value float64, precision uint8) (Quantity, error) {
	if precision > MaxPrecision {
		return Quantity{}, fmt.Errorf("precision %d exceeds max precision %d", precision, MaxPrecision)
	}
	return Quantity{Raw: int64(math.Round(value * FixedScalar)), Precision: precision}, nil
}

// QuantityFromRaw constructs a Quantity directly from its raw scaled value.
// Returns an error if raw is negative.
func QuantityFromRaw(raw int64, precision uint8) (Quantity, error) {
	if raw < 0 {
		return Quantity{}, fmt.Errorf("quantity raw value %d is negative", raw)
	}
	return Quantity{Raw: raw, Precision: precision}, nil
}

// ZeroQuantity returns the additive identity at the given precision.
func ZeroQuantity(precision uint8) Quantity {
	return Quantity{Raw: 0, Precision: precision}
}

// Add returns q + other; precision is preserved from q.
func (q Quantity) Add(other Quantity) Quantity {
	return Quantity{Raw: q.Raw + other.Raw, Precision: q.Precision}
}

// AsFloat64 converts the Quantity to a float64.
func (q Quantity) AsFloat64() float64 {
	return float64(q.Raw) / FixedScalar
}

func (q Quantity) IsZero() bool { return q.Raw == 0 }

func (q Quantity) String() string {
	return fmt.Sprintf("%.*f", q.Precision, q.AsFloat64())
}
