// Package trader dispatches each tick snapshot across the configured
// strategies and round-trips their state through the trader data blob.
package trader

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"tidebot/internal/diag"
	"tidebot/internal/exchange"
	"tidebot/internal/metrics"
	"tidebot/internal/risk"
	"tidebot/internal/strategy"
)

// Trader owns one strategy instance per symbol in a fixed iteration order.
type Trader struct {
	strategies []strategy.Strategy
	limits     risk.Limits
	log        zerolog.Logger
}

// New builds a trader over the default catalog and limit table.
func New(log zerolog.Logger) *Trader {
	limits := risk.Defaults()
	return &Trader{strategies: strategy.Catalog(limits), limits: limits, log: log}
}

// NewWithStrategies builds a trader over an explicit strategy set; used by
// tests and replays that exercise a subset of the catalog.
func NewWithStrategies(log zerolog.Logger, limits risk.Limits, strategies ...strategy.Strategy) *Trader {
	return &Trader{strategies: strategies, limits: limits, log: log}
}

// Run executes one tick: rehydrate per-symbol state from the snapshot's blob,
// run each strategy whose required books are all two-sided, and serialize the
// updated state wholesale into a fresh blob. A structurally invalid blob
// entry aborts the whole tick; the caller discards it and waits for the next
// snapshot.
func (t *Trader) Run(snap *exchange.Snapshot, buf *diag.Buffer) (map[string][]exchange.Order, int, string, error) {
	prior := map[string]json.RawMessage{}
	if snap.TraderData != "" {
		if err := json.Unmarshal([]byte(snap.TraderData), &prior); err != nil {
			return nil, 0, "", fmt.Errorf("decode trader data: %w", err)
		}
	}

	orders := make(map[string][]exchange.Order)
	conversions := 0
	next := make(map[string]json.RawMessage, len(prior))

	for _, st := range t.strategies {
		sym := st.Symbol()

		if stateful, ok := st.(strategy.Stateful); ok {
			if raw, present := prior[sym]; present {
				if err := stateful.Load(raw); err != nil {
					return nil, 0, "", fmt.Errorf("load state: %w", err)
				}
			}
		}

		if snap.TwoSided(sym) {
			if snap.TwoSided(st.RequiredSymbols()...) {
				symOrders, symConversions := st.Decide(snap)
				orders[sym] = symOrders
				conversions += symConversions
				t.audit(snap, sym, symOrders, buf)
			} else {
				orders[sym] = nil
				metrics.SkipsTotal.WithLabelValues(sym).Inc()
				buf.Printf("%s skipped: dependency book one-sided", sym)
			}
		}

		if stateful, ok := st.(strategy.Stateful); ok {
			raw, err := stateful.Save()
			if err != nil {
				return nil, 0, "", fmt.Errorf("save state for %s: %w", sym, err)
			}
			next[sym] = raw
		}
	}

	blob, err := json.Marshal(next)
	if err != nil {
		return nil, 0, "", fmt.Errorf("encode trader data: %w", err)
	}

	return orders, conversions, string(blob), nil
}

// audit logs the decided orders and flags any set that would breach the
// position bound if fully executed. The strategies guarantee the bound; a
// violation here is a bug worth a loud log line.
func (t *Trader) audit(snap *exchange.Snapshot, sym string, symOrders []exchange.Order, buf *diag.Buffer) {
	delta := 0
	for _, o := range symOrders {
		delta += o.Quantity
		side := "BUY"
		if o.Quantity < 0 {
			side = "SELL"
		}
		metrics.OrdersTotal.WithLabelValues(sym, side).Inc()
		buf.Printf("%s %s %d@%d", sym, side, abs(o.Quantity), o.Price)
	}
	if !t.limits.Allow(sym, snap.Position(sym)+delta) {
		t.log.Error().
			Str("symbol", sym).
			Int("position", snap.Position(sym)).
			Int("delta", delta).
			Int("limit", t.limits.Of(sym)).
			Msg("orders breach position limit")
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
