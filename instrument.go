// Copyright (c) 2024 Neomantra Corp

package barcore

// InstrumentID identifies a single financial instrument.
type InstrumentID string

// Instrument is the external collaborator a BarBuilder is bound to at
// construction. Only id() and size_precision() are consulted by this core.
type Instrument interface {
	ID() InstrumentID
	SizePrecision() uint8
}

// SimpleInstrument is a minimal Instrument used by tests and the replay/CLI
// demo, standing in for a full instrument-definition lookup.
type SimpleInstrument struct {
	InstrumentID  InstrumentID
	InstrSizePrec uint8
}

func (i SimpleInstrument) ID() InstrumentID    { return i.InstrumentID }
func (i SimpleInstrument) SizePrecision() uint8 { return i.InstrSizePrec }

// NewSimpleInstrument constructs a SimpleInstrument.
func NewSimpleInstrument(id InstrumentID, sizePrecision uint8) SimpleInstrument {
	return SimpleInstrument{InstrumentID: id, InstrSizePrec: sizePrecision}
}
