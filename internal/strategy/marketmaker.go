package strategy

import (
	"math"

	"tidebot/internal/exchange"
)

// FairValue estimates an instrument's true value for one tick.
type FairValue func(snap *exchange.Snapshot, symbol string) float64

// MidFairValue prices the instrument at its popular mid.
func MidFairValue() FairValue {
	return func(snap *exchange.Snapshot, symbol string) float64 {
		return snap.MidPrice(symbol)
	}
}

// PeggedFairValue pins the fair value to anchor while the mid stays within
// tolerance of it, and falls back to the mid once it drifts outside the band.
func PeggedFairValue(anchor, tolerance float64) FairValue {
	return func(snap *exchange.Snapshot, symbol string) float64 {
		mid := snap.MidPrice(symbol)
		if anchor-tolerance <= mid && mid <= anchor+tolerance {
			return anchor
		}
		return mid
	}
}

// MarketMaker greedily lifts favorably priced resting liquidity around a fair
// value estimate and posts the unfilled remainder one tick inside the best
// improvable level. Fully executed output never pushes |position| past limit.
type MarketMaker struct {
	symbol    string
	limit     int
	fairValue FairValue
}

// NewMarketMaker builds a quoting strategy for one symbol.
func NewMarketMaker(symbol string, limit int, fv FairValue) *MarketMaker {
	return &MarketMaker{symbol: symbol, limit: limit, fairValue: fv}
}

func (m *MarketMaker) Symbol() string { return m.symbol }

func (m *MarketMaker) RequiredSymbols() []string { return []string{m.symbol} }

func (m *MarketMaker) Decide(snap *exchange.Snapshot) ([]exchange.Order, int) {
	fv := m.fairValue(snap, m.symbol)

	depth := snap.Depth(m.symbol)
	bids := depth.BidsDescending()
	asks := depth.AsksAscending()

	position := snap.Position(m.symbol)
	toBuy := m.limit - position
	toSell := m.limit + position

	maxBuy := maxBuyPrice(fv)
	minSell := minSellPrice(fv)

	var orders []exchange.Order

	for _, lvl := range asks {
		if toBuy <= 0 || lvl.Price > maxBuy {
			break
		}
		quantity := toBuy
		if available := -lvl.Volume; available < quantity {
			quantity = available
		}
		orders = appendOrder(orders, m.symbol, lvl.Price, quantity)
		toBuy -= quantity
	}
	if toBuy > 0 {
		price := maxBuy
		for _, lvl := range bids {
			if lvl.Price < maxBuy {
				price = lvl.Price + 1
				break
			}
		}
		orders = appendOrder(orders, m.symbol, price, toBuy)
	}

	for _, lvl := range bids {
		if toSell <= 0 || lvl.Price < minSell {
			break
		}
		quantity := toSell
		if lvl.Volume < quantity {
			quantity = lvl.Volume
		}
		orders = appendOrder(orders, m.symbol, lvl.Price, -quantity)
		toSell -= quantity
	}
	if toSell > 0 {
		price := minSell
		for _, lvl := range asks {
			if lvl.Price > minSell {
				price = lvl.Price - 1
				break
			}
		}
		orders = appendOrder(orders, m.symbol, price, -toSell)
	}

	return orders, 0
}

// maxBuyPrice is the most aggressive buy price allowed against fair value:
// one tick below an integer fair value, otherwise its floor.
func maxBuyPrice(fv float64) int {
	if fv == math.Trunc(fv) {
		return int(fv) - 1
	}
	return int(math.Floor(fv))
}

// minSellPrice mirrors maxBuyPrice on the sell side.
func minSellPrice(fv float64) int {
	if fv == math.Trunc(fv) {
		return int(fv) + 1
	}
	return int(math.Ceil(fv))
}
