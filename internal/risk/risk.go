// Package risk holds the per-symbol position limits the decision engine must
// never breach, even under full execution of everything it quotes.
package risk

// Limits maps each symbol to its absolute signed position bound.
type Limits map[string]int

// Of returns the limit for symbol, zero for unknown symbols.
func (l Limits) Of(symbol string) int {
	return l[symbol]
}

// Allow reports whether a signed position is within the symbol's bound.
func (l Limits) Allow(symbol string, position int) bool {
	limit := l[symbol]
	if position < 0 {
		position = -position
	}
	return position <= limit
}

// Defaults returns the baked-in per-symbol limit table.
func Defaults() Limits {
	return Limits{
		"RAINFOREST_RESIN":            50,
		"KELP":                        50,
		"SQUID_INK":                   50,
		"CROISSANTS":                  250,
		"JAMS":                        350,
		"DJEMBES":                     60,
		"PICNIC_BASKET1":              60,
		"PICNIC_BASKET2":              100,
		"VOLCANIC_ROCK":               400,
		"VOLCANIC_ROCK_VOUCHER_9500":  200,
		"VOLCANIC_ROCK_VOUCHER_9750":  200,
		"VOLCANIC_ROCK_VOUCHER_10000": 200,
		"VOLCANIC_ROCK_VOUCHER_10250": 200,
		"VOLCANIC_ROCK_VOUCHER_10500": 200,
		"MAGNIFICENT_MACARONS":        75,
	}
}
