package strategy

import (
	"encoding/json"
	"fmt"

	"tidebot/internal/exchange"
	"tidebot/internal/signal"
)

// detector produces the next directional stance for a tick. The second return
// value is false when the stance should be left unchanged.
type detector interface {
	detect(snap *exchange.Snapshot) (signal.Signal, bool)
	required() []string
}

// SignalStrategy pairs a stance detector with the uniform position-adjustment
// rule: NEUTRAL unwinds at the best aggressive price, SHORT sells limit+position
// at the best bid, LONG buys limit-position at the best ask. The stance
// persists across ticks through Save/Load.
type SignalStrategy struct {
	symbol string
	limit  int
	stance signal.Signal
	det    detector
}

func newSignalStrategy(symbol string, limit int, det detector) *SignalStrategy {
	return &SignalStrategy{symbol: symbol, limit: limit, stance: signal.Neutral, det: det}
}

func (s *SignalStrategy) Symbol() string { return s.symbol }

func (s *SignalStrategy) RequiredSymbols() []string {
	return union(s.symbol, s.det.required())
}

func (s *SignalStrategy) Decide(snap *exchange.Snapshot) ([]exchange.Order, int) {
	if next, changed := s.det.detect(snap); changed {
		s.stance = next
	}

	position := snap.Position(s.symbol)
	depth := snap.Depth(s.symbol)
	var orders []exchange.Order

	switch s.stance {
	case signal.Neutral:
		if position < 0 {
			orders = appendOrder(orders, s.symbol, depth.BestAsk(), -position)
		} else if position > 0 {
			orders = appendOrder(orders, s.symbol, depth.BestBid(), -position)
		}
	case signal.Short:
		orders = appendOrder(orders, s.symbol, depth.BestBid(), -(s.limit + position))
	case signal.Long:
		orders = appendOrder(orders, s.symbol, depth.BestAsk(), s.limit-position)
	}

	return orders, 0
}

func (s *SignalStrategy) Save() (json.RawMessage, error) {
	return json.Marshal(int(s.stance))
}

func (s *SignalStrategy) Load(data json.RawMessage) error {
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decode signal state for %s: %w", s.symbol, err)
	}
	st := signal.Signal(v)
	if !st.Valid() {
		return fmt.Errorf("signal state for %s out of range: %d", s.symbol, v)
	}
	s.stance = st
	return nil
}

// Leg is one weighted component of a cross-instrument spread.
type Leg struct {
	Symbol string
	Weight float64
}

// spreadDetector compares a linear combination of popular mids against two
// constant thresholds. The thresholds are taken literally from the configured
// constants; no ordering between them is assumed or enforced.
type spreadDetector struct {
	legs       []Leg
	longBelow  float64
	shortAbove float64
}

func (d *spreadDetector) required() []string {
	syms := make([]string, len(d.legs))
	for i, leg := range d.legs {
		syms[i] = leg.Symbol
	}
	return syms
}

func (d *spreadDetector) detect(snap *exchange.Snapshot) (signal.Signal, bool) {
	var diff float64
	for _, leg := range d.legs {
		diff += leg.Weight * snap.MidPrice(leg.Symbol)
	}
	if diff < d.longBelow {
		return signal.Long, true
	}
	if diff > d.shortAbove {
		return signal.Short, true
	}
	return signal.Neutral, false
}

// NewSpread builds a signal strategy driven by a cross-instrument spread.
func NewSpread(symbol string, limit int, legs []Leg, longBelow, shortAbove float64) *SignalStrategy {
	return newSignalStrategy(symbol, limit, &spreadDetector{legs: legs, longBelow: longBelow, shortAbove: shortAbove})
}

// invertedDetector wraps another detector and swaps LONG and SHORT, passing
// NEUTRAL and "unchanged" through untouched.
type invertedDetector struct {
	inner detector
}

func (d *invertedDetector) required() []string { return d.inner.required() }

func (d *invertedDetector) detect(snap *exchange.Snapshot) (signal.Signal, bool) {
	st, changed := d.inner.detect(snap)
	if changed {
		st = st.Inverted()
	}
	return st, changed
}

// NewInvertedSpread builds a signal strategy that trades against the spread's
// usual direction.
func NewInvertedSpread(symbol string, limit int, legs []Leg, longBelow, shortAbove float64) *SignalStrategy {
	inner := &spreadDetector{legs: legs, longBelow: longBelow, shortAbove: shortAbove}
	return newSignalStrategy(symbol, limit, &invertedDetector{inner: inner})
}
