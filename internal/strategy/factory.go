package strategy

import (
	"tidebot/internal/risk"
)

// Spread definitions shared between the direct and inverted basket trades.
// PICNIC_BASKET1 holds 6 croissants, 3 jams, and a djembe; PICNIC_BASKET2
// holds 4 croissants and 2 jams. Threshold constants are frozen as tuned.
func basket1Legs() []Leg {
	return []Leg{
		{Symbol: "PICNIC_BASKET1", Weight: 1},
		{Symbol: "CROISSANTS", Weight: -6},
		{Symbol: "JAMS", Weight: -3},
		{Symbol: "DJEMBES", Weight: -1},
	}
}

func basket2Legs() []Leg {
	return []Leg{
		{Symbol: "PICNIC_BASKET2", Weight: 1},
		{Symbol: "CROISSANTS", Weight: -4},
		{Symbol: "JAMS", Weight: -2},
	}
}

func basketDiffLegs() []Leg {
	return []Leg{
		{Symbol: "PICNIC_BASKET1", Weight: 1},
		{Symbol: "PICNIC_BASKET2", Weight: -1},
		{Symbol: "CROISSANTS", Weight: -2},
		{Symbol: "JAMS", Weight: -1},
		{Symbol: "DJEMBES", Weight: -1},
	}
}

// Catalog returns every configured strategy instance in its fixed dispatch
// order, one per tradable symbol, sized by the supplied limit table.
func Catalog(limits risk.Limits) []Strategy {
	zscore := func(symbol string) *ZScoreStrategy {
		return NewZScore(symbol, limits.Of(symbol), 100, 20, 1.8)
	}

	return []Strategy{
		NewMarketMaker("RAINFOREST_RESIN", limits.Of("RAINFOREST_RESIN"), PeggedFairValue(10_000, 5)),
		NewMarketMaker("KELP", limits.Of("KELP"), MidFairValue()),
		NewZScore("SQUID_INK", limits.Of("SQUID_INK"), 150, 100, 1),
		NewInvertedSpread("CROISSANTS", limits.Of("CROISSANTS"), basket2Legs(), -100, 60),
		NewSpread("JAMS", limits.Of("JAMS"), basketDiffLegs(), -130, -60),
		NewInvertedSpread("DJEMBES", limits.Of("DJEMBES"), basket1Legs(), -10, 70),
		NewSpread("PICNIC_BASKET1", limits.Of("PICNIC_BASKET1"), basket1Legs(), -10, 70),
		NewSpread("PICNIC_BASKET2", limits.Of("PICNIC_BASKET2"), basket2Legs(), -100, 60),
		zscore("VOLCANIC_ROCK"),
		zscore("VOLCANIC_ROCK_VOUCHER_9500"),
		zscore("VOLCANIC_ROCK_VOUCHER_9750"),
		zscore("VOLCANIC_ROCK_VOUCHER_10000"),
		zscore("VOLCANIC_ROCK_VOUCHER_10250"),
		zscore("VOLCANIC_ROCK_VOUCHER_10500"),
		NewConverter("MAGNIFICENT_MACARONS", limits.Of("MAGNIFICENT_MACARONS"), 10),
	}
}
