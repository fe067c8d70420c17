package strategy

import (
	"tidebot/internal/exchange"
)

// Converter settles its whole position through the venue's conversion channel
// every tick and, when a conversion observation is published, quotes a
// fixed-size sell priced off the observed bid with a floor at the all-in
// conversion buy cost.
type Converter struct {
	symbol    string
	limit     int
	quoteSize int
}

// NewConverter builds a conversion-settling strategy for one symbol.
func NewConverter(symbol string, limit, quoteSize int) *Converter {
	return &Converter{symbol: symbol, limit: limit, quoteSize: quoteSize}
}

func (c *Converter) Symbol() string { return c.symbol }

func (c *Converter) RequiredSymbols() []string { return []string{c.symbol} }

func (c *Converter) Decide(snap *exchange.Snapshot) ([]exchange.Order, int) {
	position := snap.Position(c.symbol)
	conversions := -position

	obs, ok := snap.Observations.Conversions[c.symbol]
	if !ok {
		return nil, conversions
	}

	buyCost := obs.AskPrice + obs.TransportFees + obs.ImportTariff
	price := int(obs.BidPrice - 0.5)
	if floor := int(buyCost + 1); floor > price {
		price = floor
	}

	return appendOrder(nil, c.symbol, price, -c.quoteSize), conversions
}
