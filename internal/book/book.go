// Package book provides a read-only view over one instrument's resting
// price levels and derives reference prices from them.
package book

import "sort"

// Depth holds the resting liquidity for a single symbol. Buy volumes are
// positive, sell volumes are negative-signed (the size available is -volume).
type Depth struct {
	Buy  map[int]int `json:"buy"`
	Sell map[int]int `json:"sell"`
}

// Level is one price level of a depth side.
type Level struct {
	Price  int
	Volume int
}

// TwoSided reports whether the book has at least one resting level on each side.
func (d *Depth) TwoSided() bool {
	return d != nil && len(d.Buy) > 0 && len(d.Sell) > 0
}

// BidsDescending returns the buy levels sorted from highest to lowest price.
func (d *Depth) BidsDescending() []Level {
	levels := collect(d.Buy)
	sort.Slice(levels, func(i, j int) bool { return levels[i].Price > levels[j].Price })
	return levels
}

// AsksAscending returns the sell levels sorted from lowest to highest price.
func (d *Depth) AsksAscending() []Level {
	levels := collect(d.Sell)
	sort.Slice(levels, func(i, j int) bool { return levels[i].Price < levels[j].Price })
	return levels
}

// BestBid returns the highest resting buy price. The book must have bids.
func (d *Depth) BestBid() int {
	best := 0
	first := true
	for price := range d.Buy {
		if first || price > best {
			best = price
			first = false
		}
	}
	return best
}

// BestAsk returns the lowest resting sell price. The book must have asks.
func (d *Depth) BestAsk() int {
	best := 0
	first := true
	for price := range d.Sell {
		if first || price < best {
			best = price
			first = false
		}
	}
	return best
}

// MidPrice returns the midpoint between the most heavily subscribed buy and
// sell levels. Subscription is judged by volume, not by best price: the buy
// side picks the level with the largest volume (ties go to the higher price),
// the sell side picks the level with the most negative signed volume (ties go
// to the lower price).
func (d *Depth) MidPrice() float64 {
	var popularBuy, popularSell int
	first := true
	for _, lvl := range d.BidsDescending() {
		if first || lvl.Volume > d.Buy[popularBuy] {
			popularBuy = lvl.Price
			first = false
		}
	}
	first = true
	for _, lvl := range d.AsksAscending() {
		if first || lvl.Volume < d.Sell[popularSell] {
			popularSell = lvl.Price
			first = false
		}
	}
	return float64(popularBuy+popularSell) / 2
}

func collect(side map[int]int) []Level {
	levels := make([]Level, 0, len(side))
	for price, volume := range side {
		levels = append(levels, Level{Price: price, Volume: volume})
	}
	return levels
}
