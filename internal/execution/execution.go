// Package execution hands finished tick decisions to the external collaborator.
package execution

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"tidebot/internal/exchange"
)

// Side enumerates order directions used for logging and metrics labels.
type Side string

const (
	// Buy indicates a positive-quantity order.
	Buy Side = "BUY"
	// Sell indicates a negative-quantity order.
	Sell Side = "SELL"
)

// SideOf derives the side from an order's signed quantity.
func SideOf(o exchange.Order) Side {
	if o.Quantity < 0 {
		return Sell
	}
	return Buy
}

// Decision is the complete output of one tick.
type Decision struct {
	Timestamp   int64                       `json:"timestamp"`
	Orders      map[string][]exchange.Order `json:"orders"`
	Conversions int                         `json:"conversions"`
	TraderData  string                      `json:"trader_data"`
}

// Executor writes one JSON decision line per tick to the collaborator sink.
type Executor struct {
	log zerolog.Logger
	enc *json.Encoder
}

// NewExecutor wraps the sink writer and a logger for decision submission.
func NewExecutor(w io.Writer, log zerolog.Logger) *Executor {
	return &Executor{log: log, enc: json.NewEncoder(w)}
}

// Submit emits the decision line and logs a per-tick summary.
func (e *Executor) Submit(d Decision) error {
	if err := e.enc.Encode(d); err != nil {
		return fmt.Errorf("write decision: %w", err)
	}
	total := 0
	for _, symOrders := range d.Orders {
		total += len(symOrders)
	}
	e.log.Info().
		Int64("ts", d.Timestamp).
		Int("orders", total).
		Int("conversions", d.Conversions).
		Msg("decision submitted")
	return nil
}
