// Copyright (c) 2024 Neomantra Corp

package barcore

import "fmt"

///////////////////////////////////////////////////////////////////////////////

// PriceSelector governs how a quote is reduced to a single (price, size) pair.
type PriceSelector uint8

const (
	PriceSelector_Bid PriceSelector = iota
	PriceSelector_Ask
	PriceSelector_Mid
	PriceSelector_Last
)

func (s PriceSelector) String() string {
	switch s {
	case PriceSelector_Bid:
		return "BID"
	case PriceSelector_Ask:
		return "ASK"
	case PriceSelector_Mid:
		return "MID"
	case PriceSelector_Last:
		return "LAST"
	default:
		return fmt.Sprintf("PriceSelector(%d)", uint8(s))
	}
}

///////////////////////////////////////////////////////////////////////////////

// AggregationKind is the boundary rule driving when a bar finalizes.
type AggregationKind uint8

const (
	AggregationKind_Tick AggregationKind = iota
	AggregationKind_Volume
	AggregationKind_Value
	AggregationKind_Time
)

func (k AggregationKind) String() string {
	switch k {
	case AggregationKind_Tick:
		return "TICK"
	case AggregationKind_Volume:
		return "VOLUME"
	case AggregationKind_Value:
		return "VALUE"
	case AggregationKind_Time:
		return "TIME"
	default:
		return fmt.Sprintf("AggregationKind(%d)", uint8(k))
	}
}

///////////////////////////////////////////////////////////////////////////////

// BarTimeUnit is the wall-clock unit a Time aggregation kind steps over.
type BarTimeUnit uint8

const (
	BarTimeUnit_Second BarTimeUnit = iota
	BarTimeUnit_Minute
	BarTimeUnit_Hour
	BarTimeUnit_Day
)

func (u BarTimeUnit) String() string {
	switch u {
	case BarTimeUnit_Second:
		return "SECOND"
	case BarTimeUnit_Minute:
		return "MINUTE"
	case BarTimeUnit_Hour:
		return "HOUR"
	case BarTimeUnit_Day:
		return "DAY"
	default:
		return fmt.Sprintf("BarTimeUnit(%d)", uint8(u))
	}
}

// NanosPerUnit is the nanosecond length of a single BarTimeUnit step.
func (u BarTimeUnit) NanosPerUnit() int64 {
	switch u {
	case BarTimeUnit_Second:
		return 1_000_000_000
	case BarTimeUnit_Minute:
		return 60 * 1_000_000_000
	case BarTimeUnit_Hour:
		return 3600 * 1_000_000_000
	case BarTimeUnit_Day:
		return 24 * 3600 * 1_000_000_000
	default:
		return 0
	}
}

///////////////////////////////////////////////////////////////////////////////

// AggregationSource denotes whether bars are produced locally (Internal) or
// received pre-built from an exchange feed (External). This core only
// accepts Internal at BarBuilder construction time.
type AggregationSource uint8

const (
	AggregationSource_Internal AggregationSource = iota
	AggregationSource_External
)

func (s AggregationSource) String() string {
	switch s {
	case AggregationSource_Internal:
		return "INTERNAL"
	case AggregationSource_External:
		return "EXTERNAL"
	default:
		return fmt.Sprintf("AggregationSource(%d)", uint8(s))
	}
}

///////////////////////////////////////////////////////////////////////////////

// BarSpecification is the {step, aggregation_kind, price_selector} triple
// that, combined with an instrument, identifies a bar stream's shape.
type BarSpecification struct {
	Step          int64
	Kind          AggregationKind
	Unit          BarTimeUnit // only meaningful when Kind == AggregationKind_Time
	PriceSelector PriceSelector
}

func (s BarSpecification) String() string {
	if s.Kind == AggregationKind_Time {
		return fmt.Sprintf("%d-%s-%s", s.Step, s.Unit, s.PriceSelector)
	}
	return fmt.Sprintf("%d-%s-%s", s.Step, s.Kind, s.PriceSelector)
}

// IntervalNs returns the Time aggregation's interval in nanoseconds.
// Only valid when Kind == AggregationKind_Time.
func (s BarSpecification) IntervalNs() int64 {
	return s.Step * s.Unit.NanosPerUnit()
}

///////////////////////////////////////////////////////////////////////////////

// BarType is the opaque key identifying a bar stream: an instrument, a
// BarSpecification, and an aggregation source discriminant.
type BarType struct {
	InstrumentID InstrumentID
	Spec         BarSpecification
	Source       AggregationSource
}

func (t BarType) String() string {
	return fmt.Sprintf("%s-%s-%s", t.InstrumentID, t.Spec, t.Source)
}

// validate checks construction-time invariants shared by BarBuilder and
// AggregatorCore construction: a positive step and an Internal source.
func (t BarType) validate() error {
	if t.Spec.Step <= 0 {
		return ErrInvalidStep
	}
	if t.Source != AggregationSource_Internal {
		return ErrAggregationSourceNotInternal
	}
	return nil
}
