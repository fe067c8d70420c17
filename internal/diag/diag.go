// Package diag collects a per-tick decision trace and compresses it into a
// fixed byte budget for a line-oriented sink.
package diag

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"tidebot/internal/book"
	"tidebot/internal/exchange"
)

// Buffer accumulates free-text log lines for one tick. It is owned by the
// tick that created it and consumed exactly once by the compressor.
type Buffer struct {
	b strings.Builder
}

// NewBuffer returns an empty per-tick buffer.
func NewBuffer() *Buffer { return &Buffer{} }

// Printf appends one formatted line to the trace.
func (b *Buffer) Printf(format string, args ...any) {
	fmt.Fprintf(&b.b, format, args...)
	b.b.WriteByte('\n')
}

// String returns the accumulated trace.
func (b *Buffer) String() string { return b.b.String() }

// DefaultMaxLength is the byte ceiling the sink enforces per record.
const DefaultMaxLength = 3750

// Compressor serializes the full tick trace into a record no longer than
// MaxLength bytes, truncating the three variable-length fields to fit. Exact
// selects binary-search truncation, which accounts for escape expansion in
// the encoded form; otherwise a fast character cut is used.
type Compressor struct {
	MaxLength int
	Exact     bool
}

// NewCompressor returns an exact-truncation compressor with the default budget.
func NewCompressor() *Compressor {
	return &Compressor{MaxLength: DefaultMaxLength, Exact: true}
}

// Flush encodes the tick record, truncating the prior state blob, the new
// state blob, and the free-text trace to an equal share of the remaining
// budget. Failing to fit is not an error: information is dropped instead.
func (c *Compressor) Flush(snap *exchange.Snapshot, orders map[string][]exchange.Order, conversions int, traderData string, buf *Buffer) ([]byte, error) {
	base, err := encodeJSON([]any{
		compressSnapshot(snap, ""),
		compressOrders(orders),
		conversions,
		"",
		"",
	})
	if err != nil {
		return nil, fmt.Errorf("encode base record: %w", err)
	}

	perField := (c.MaxLength - len(base)) / 3

	record, err := encodeJSON([]any{
		compressSnapshot(snap, c.truncate(snap.TraderData, perField)),
		compressOrders(orders),
		conversions,
		c.truncate(traderData, perField),
		c.truncate(buf.String(), perField),
	})
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return record, nil
}

func (c *Compressor) truncate(value string, budget int) string {
	if c.Exact {
		return truncateExact(value, budget)
	}
	return truncateFast(value, budget)
}

// truncateFast cuts the raw string and appends the ellipsis marker when data
// was dropped. It ignores encoding expansion, so the encoded field can still
// overshoot the budget when the value escapes heavily.
func truncateFast(value string, budget int) string {
	runes := []rune(value)
	if len(runes) <= budget {
		return value
	}
	if budget <= 3 {
		return "..."[:max(0, budget)]
	}
	return string(runes[:budget-3]) + "..."
}

// truncateExact binary-searches the longest prefix whose *encoded* length
// fits the budget, appending the ellipsis marker to every proper prefix.
func truncateExact(value string, budget int) string {
	runes := []rune(value)
	lo, hi := 0, min(len(runes), budget)
	out := ""

	for lo <= hi {
		mid := (lo + hi) / 2
		candidate := string(runes[:mid])
		if mid < len(runes) {
			candidate += "..."
		}
		encoded, err := encodeJSON(candidate)
		if err == nil && len(encoded) <= budget {
			out = candidate
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return out
}

// compressSnapshot flattens the snapshot into positional arrays to keep the
// encoded record small. traderData arrives pre-truncated.
func compressSnapshot(snap *exchange.Snapshot, traderData string) []any {
	return []any{
		snap.Timestamp,
		traderData,
		compressListings(snap.Listings),
		compressDepths(snap.Depths),
		compressTrades(snap.OwnTrades),
		compressTrades(snap.MarketTrades),
		snap.Positions,
		compressObservations(snap.Observations),
	}
}

func compressListings(listings map[string]exchange.Listing) [][]any {
	out := make([][]any, 0, len(listings))
	for _, sym := range sortedKeys(listings) {
		l := listings[sym]
		out = append(out, []any{l.Symbol, l.Product, l.Denomination})
	}
	return out
}

func compressDepths(depths map[string]*book.Depth) map[string][]any {
	out := make(map[string][]any, len(depths))
	for sym, d := range depths {
		out[sym] = []any{d.Buy, d.Sell}
	}
	return out
}

func compressTrades(trades map[string][]exchange.Trade) [][]any {
	out := make([][]any, 0)
	for _, sym := range sortedKeys(trades) {
		for _, tr := range trades[sym] {
			out = append(out, []any{tr.Symbol, tr.Price, tr.Quantity, tr.Buyer, tr.Seller, tr.Timestamp})
		}
	}
	return out
}

func compressObservations(obs exchange.Observation) []any {
	conversions := make(map[string][]any, len(obs.Conversions))
	for sym, o := range obs.Conversions {
		conversions[sym] = []any{o.BidPrice, o.AskPrice, o.TransportFees, o.ExportTariff, o.ImportTariff, o.SugarPrice, o.SunlightIndex}
	}
	return []any{obs.PlainValues, conversions}
}

func compressOrders(orders map[string][]exchange.Order) [][]any {
	out := make([][]any, 0)
	for _, sym := range sortedKeys(orders) {
		for _, o := range orders[sym] {
			out = append(out, []any{o.Symbol, o.Price, o.Quantity})
		}
	}
	return out
}

// encodeJSON renders compact JSON without HTML escaping, matching the sink's
// budget accounting.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
