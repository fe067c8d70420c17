package strategy

import (
	"encoding/json"
	"fmt"
	"math"

	"tidebot/internal/exchange"
	"tidebot/internal/signal"
)

// zscoreDetector keeps a bounded history of popular mids and scores the most
// recent tick with a smoothed rolling z-score. It stays silent until the
// history holds zscorePeriod+smoothingPeriod entries.
type zscoreDetector struct {
	symbol          string
	zscorePeriod    int
	smoothingPeriod int
	threshold       float64
	history         []float64
}

func (d *zscoreDetector) required() []string { return []string{d.symbol} }

func (d *zscoreDetector) detect(snap *exchange.Snapshot) (signal.Signal, bool) {
	d.history = append(d.history, snap.MidPrice(d.symbol))

	capacity := d.zscorePeriod + d.smoothingPeriod
	if len(d.history) < capacity {
		return signal.Neutral, false
	}
	if len(d.history) > capacity {
		d.history = append(d.history[:0], d.history[1:]...)
	}

	score := d.smoothedScore()
	if score < -d.threshold {
		return signal.Long, true
	}
	if score > d.threshold {
		return signal.Short, true
	}
	return signal.Neutral, false
}

// smoothedScore averages the trailing smoothingPeriod z-scores, where the
// z-score at index i is taken against the zscorePeriod window ending at i.
func (d *zscoreDetector) smoothedScore() float64 {
	n := len(d.history)
	var sum float64
	for i := n - d.smoothingPeriod; i < n; i++ {
		window := d.history[i+1-d.zscorePeriod : i+1]
		mean, std := sampleStats(window)
		sum += (d.history[i] - mean) / std
	}
	return sum / float64(d.smoothingPeriod)
}

func sampleStats(window []float64) (mean, std float64) {
	n := float64(len(window))
	var sum float64
	for _, v := range window {
		sum += v
	}
	mean = sum / n

	var ss float64
	for _, v := range window {
		delta := v - mean
		ss += delta * delta
	}
	std = math.Sqrt(ss / (n - 1))
	return mean, std
}

// ZScoreStrategy is a signal strategy whose persisted state includes the
// mid-price history alongside the stance.
type ZScoreStrategy struct {
	*SignalStrategy
	det *zscoreDetector
}

// NewZScore builds a rolling z-score mean-reversion strategy.
func NewZScore(symbol string, limit, zscorePeriod, smoothingPeriod int, threshold float64) *ZScoreStrategy {
	det := &zscoreDetector{
		symbol:          symbol,
		zscorePeriod:    zscorePeriod,
		smoothingPeriod: smoothingPeriod,
		threshold:       threshold,
	}
	return &ZScoreStrategy{SignalStrategy: newSignalStrategy(symbol, limit, det), det: det}
}

// History exposes the buffered mids for tests and diagnostics.
func (z *ZScoreStrategy) History() []float64 { return z.det.history }

type zscoreState struct {
	Signal  int       `json:"signal"`
	History []float64 `json:"history"`
}

func (z *ZScoreStrategy) Save() (json.RawMessage, error) {
	history := z.det.history
	if history == nil {
		history = []float64{}
	}
	return json.Marshal(zscoreState{Signal: int(z.stance), History: history})
}

func (z *ZScoreStrategy) Load(data json.RawMessage) error {
	var st zscoreState
	if err := json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("decode zscore state for %s: %w", z.symbol, err)
	}
	stance := signal.Signal(st.Signal)
	if !stance.Valid() {
		return fmt.Errorf("zscore state for %s has invalid signal: %d", z.symbol, st.Signal)
	}
	z.stance = stance
	z.det.history = st.History
	return nil
}
