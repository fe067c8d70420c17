// Package strategy contains the per-symbol decision logic: the quoting
// engine, the directional signal engines, and the baked-in catalog binding
// each symbol to one strategy instance.
package strategy

import (
	"encoding/json"

	"tidebot/internal/exchange"
)

// Strategy decides the orders and net conversions for one symbol per tick.
// Decide is only called when every required symbol has a two-sided book.
type Strategy interface {
	Symbol() string
	RequiredSymbols() []string
	Decide(snap *exchange.Snapshot) ([]exchange.Order, int)
}

// Stateful marks strategies whose state must round-trip through the trader
// data blob between ticks.
type Stateful interface {
	Strategy
	Save() (json.RawMessage, error)
	Load(data json.RawMessage) error
}

// appendOrder adds an order unless the quantity is zero; zero-quantity
// placements carry no intent and are dropped.
func appendOrder(orders []exchange.Order, symbol string, price, quantity int) []exchange.Order {
	if quantity == 0 {
		return orders
	}
	return append(orders, exchange.Order{Symbol: symbol, Price: price, Quantity: quantity})
}

// union returns symbol followed by the deduplicated rest, preserving order.
func union(symbol string, rest []string) []string {
	out := []string{symbol}
	seen := map[string]bool{symbol: true}
	for _, s := range rest {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
