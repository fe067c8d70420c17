package strategy

import (
	"testing"

	"tidebot/internal/book"
	"tidebot/internal/exchange"
)

func snapWith(depths map[string]*book.Depth, positions map[string]int) *exchange.Snapshot {
	return &exchange.Snapshot{
		Timestamp: 0,
		Depths:    depths,
		Positions: positions,
	}
}

func TestMarketMakerSweepsAndPostsRemainder(t *testing.T) {
	// Fair value 10000.0 (integer) with limit 50 and flat position: lift the
	// 4 lots resting at 9998, post the remaining 46 one tick above the 9997
	// bid, and quote the full 50 passively at 10001 on the sell side.
	mm := NewMarketMaker("RAINFOREST_RESIN", 50, PeggedFairValue(10_000, 5))
	snap := snapWith(map[string]*book.Depth{
		"RAINFOREST_RESIN": {
			Buy:  map[int]int{9997: 5},
			Sell: map[int]int{9998: -4, 10001: -3},
		},
	}, nil)

	orders, conversions := mm.Decide(snap)
	if conversions != 0 {
		t.Fatalf("expected no conversions, got %d", conversions)
	}
	want := []exchange.Order{
		{Symbol: "RAINFOREST_RESIN", Price: 9998, Quantity: 4},
		{Symbol: "RAINFOREST_RESIN", Price: 9998, Quantity: 46},
		{Symbol: "RAINFOREST_RESIN", Price: 10001, Quantity: -50},
	}
	if len(orders) != len(want) {
		t.Fatalf("expected %d orders, got %+v", len(want), orders)
	}
	for i, o := range orders {
		if o != want[i] {
			t.Fatalf("order %d: got %+v, want %+v", i, o, want[i])
		}
	}
}

func TestMarketMakerRespectsPositionLimit(t *testing.T) {
	cases := []struct {
		name     string
		position int
	}{
		{"flat", 0},
		{"long", 35},
		{"short", -35},
		{"at limit", 50},
		{"at short limit", -50},
	}
	depth := &book.Depth{
		Buy:  map[int]int{9996: 20, 9999: 12},
		Sell: map[int]int{9997: -15, 10002: -9},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mm := NewMarketMaker("RAINFOREST_RESIN", 50, PeggedFairValue(10_000, 5))
			snap := snapWith(map[string]*book.Depth{"RAINFOREST_RESIN": depth},
				map[string]int{"RAINFOREST_RESIN": tc.position})

			orders, _ := mm.Decide(snap)
			bought, sold := 0, 0
			for _, o := range orders {
				if o.Quantity == 0 {
					t.Fatalf("zero-quantity order emitted: %+v", o)
				}
				if o.Quantity > 0 {
					if o.Price > 9999 {
						t.Fatalf("buy above max buy price: %+v", o)
					}
					bought += o.Quantity
				} else {
					if o.Price < 10001 {
						t.Fatalf("sell below min sell price: %+v", o)
					}
					sold -= o.Quantity
				}
			}
			if after := tc.position + bought; after > 50 {
				t.Fatalf("full buys push position to %d", after)
			}
			if after := tc.position - sold; after < -50 {
				t.Fatalf("full sells push position to %d", after)
			}
		})
	}
}

func TestMarketMakerRequoteShrinksCapacity(t *testing.T) {
	depth := &book.Depth{
		Buy:  map[int]int{9995: 30},
		Sell: map[int]int{9998: -10, 10004: -5},
	}
	mm := NewMarketMaker("RAINFOREST_RESIN", 50, PeggedFairValue(10_000, 5))

	snap := snapWith(map[string]*book.Depth{"RAINFOREST_RESIN": depth}, map[string]int{"RAINFOREST_RESIN": 0})
	first, _ := mm.Decide(snap)

	firstBuys := 0
	for _, o := range first {
		if o.Quantity > 0 {
			firstBuys += o.Quantity
		}
	}

	// Pretend every buy filled, requote: the new buy intent must not exceed
	// the capacity left after the hypothetical fills.
	snap = snapWith(map[string]*book.Depth{"RAINFOREST_RESIN": depth}, map[string]int{"RAINFOREST_RESIN": firstBuys})
	second, _ := mm.Decide(snap)
	secondBuys := 0
	for _, o := range second {
		if o.Quantity > 0 {
			secondBuys += o.Quantity
		}
	}
	if firstBuys+secondBuys > 50 {
		t.Fatalf("requote over-quotes: %d then %d against limit 50", firstBuys, secondBuys)
	}
}

func TestMarketMakerFractionalFairValue(t *testing.T) {
	// Fractional fair value uses floor/ceil instead of the one-tick pullback.
	mm := NewMarketMaker("KELP", 50, MidFairValue())
	snap := snapWith(map[string]*book.Depth{
		"KELP": {
			Buy:  map[int]int{2019: 10},
			Sell: map[int]int{2022: -10},
		},
	}, nil)
	// Popular mid is 2020.5: maxBuy=floor=2020, minSell=ceil=2021.

	orders, _ := mm.Decide(snap)
	for _, o := range orders {
		if o.Quantity > 0 && o.Price > 2020 {
			t.Fatalf("buy above floor of fair value: %+v", o)
		}
		if o.Quantity < 0 && o.Price < 2021 {
			t.Fatalf("sell below ceil of fair value: %+v", o)
		}
	}
}

func TestPeggedFairValueBand(t *testing.T) {
	fv := PeggedFairValue(10_000, 5)
	inBand := snapWith(map[string]*book.Depth{
		"X": {Buy: map[int]int{10_002: 10}, Sell: map[int]int{10_004: -10}},
	}, nil)
	if got := fv(inBand, "X"); got != 10_000 {
		t.Fatalf("expected pegged value 10000, got %v", got)
	}
	outOfBand := snapWith(map[string]*book.Depth{
		"X": {Buy: map[int]int{10_010: 10}, Sell: map[int]int{10_014: -10}},
	}, nil)
	if got := fv(outOfBand, "X"); got != 10_012 {
		t.Fatalf("expected mid fallback 10012, got %v", got)
	}
}

func TestPriceBoundsHelpers(t *testing.T) {
	if maxBuyPrice(10_000) != 9_999 || minSellPrice(10_000) != 10_001 {
		t.Fatalf("integer fair value must pull back one tick")
	}
	if maxBuyPrice(2020.5) != 2020 || minSellPrice(2020.5) != 2021 {
		t.Fatalf("fractional fair value must floor/ceil")
	}
}
