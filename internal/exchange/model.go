// Package exchange defines the per-tick snapshot the engine consumes, the
// orders it emits, and the feeds that deliver snapshots to the tick loop.
package exchange

import (
	"tidebot/internal/book"
)

// Order is a single placement request: positive quantity buys, negative sells.
type Order struct {
	Symbol   string `json:"symbol"`
	Price    int    `json:"price"`
	Quantity int    `json:"quantity"`
}

// Listing describes a tradable instrument as announced by the venue.
type Listing struct {
	Symbol       string `json:"symbol"`
	Product      string `json:"product"`
	Denomination string `json:"denomination"`
}

// Trade is one executed transaction reported in the snapshot.
type Trade struct {
	Symbol    string `json:"symbol"`
	Price     int    `json:"price"`
	Quantity  int    `json:"quantity"`
	Buyer     string `json:"buyer"`
	Seller    string `json:"seller"`
	Timestamp int64  `json:"timestamp"`
}

// ConversionObservation carries the market reference fields the venue
// publishes for instruments that support out-of-book conversion.
type ConversionObservation struct {
	BidPrice      float64 `json:"bid_price"`
	AskPrice      float64 `json:"ask_price"`
	TransportFees float64 `json:"transport_fees"`
	ExportTariff  float64 `json:"export_tariff"`
	ImportTariff  float64 `json:"import_tariff"`
	SugarPrice    float64 `json:"sugar_price"`
	SunlightIndex float64 `json:"sunlight_index"`
}

// Observation groups free-form plain values with per-symbol conversion data.
type Observation struct {
	PlainValues map[string]float64               `json:"plain_values"`
	Conversions map[string]ConversionObservation `json:"conversions"`
}

// Snapshot is the immutable per-tick input. TraderData is the opaque state
// blob produced by the previous tick; an empty string means no prior state.
type Snapshot struct {
	Timestamp    int64                  `json:"timestamp"`
	TraderData   string                 `json:"trader_data"`
	Listings     map[string]Listing     `json:"listings"`
	Depths       map[string]*book.Depth `json:"depths"`
	OwnTrades    map[string][]Trade     `json:"own_trades"`
	MarketTrades map[string][]Trade     `json:"market_trades"`
	Positions    map[string]int         `json:"positions"`
	Observations Observation            `json:"observations"`
}

// Position returns the signed position for symbol, zero when absent.
func (s *Snapshot) Position(symbol string) int {
	return s.Positions[symbol]
}

// Depth returns the order book for symbol, nil when the venue published none.
func (s *Snapshot) Depth(symbol string) *book.Depth {
	return s.Depths[symbol]
}

// TwoSided reports whether every given symbol has a two-sided book this tick.
func (s *Snapshot) TwoSided(symbols ...string) bool {
	for _, sym := range symbols {
		if !s.Depths[sym].TwoSided() {
			return false
		}
	}
	return true
}

// MidPrice returns the popular mid price for symbol. The symbol's book must
// be two-sided.
func (s *Snapshot) MidPrice(symbol string) float64 {
	return s.Depths[symbol].MidPrice()
}
