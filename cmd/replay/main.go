// Binary replay streams recorded snapshots back through a fresh trader and
// reports where today's decisions diverge from the recorded ones.
package main

import (
	"context"
	"encoding/json"
	"flag"

	"tidebot/internal/config"
	"tidebot/internal/diag"
	"tidebot/internal/exchange"
	"tidebot/internal/store"
	"tidebot/internal/trader"
	"tidebot/internal/util"
)

func main() {
	var (
		configPath = flag.String("config", "internal/config/config.yaml", "path to config file")
		runID      = flag.String("run", "", "replay only this run id (default: all)")
	)
	flag.Parse()

	log := util.NewLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if cfg.Store.Path == "" {
		log.Fatal().Msg("store.path must be set for replay")
	}

	tickStore, err := store.NewTickStore(cfg.Store.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("open tick store")
	}
	defer tickStore.Close()

	ctx := context.Background()
	rows, err := tickStore.LoadTicks(ctx, *runID)
	if err != nil {
		log.Fatal().Err(err).Msg("load ticks")
	}

	engine := trader.New(log)
	ticks, diverged, failed := 0, 0, 0

	for _, row := range rows {
		orders, conversions, _, err := engine.Run(row.Snapshot, diag.NewBuffer())
		if err != nil {
			failed++
			log.Warn().Err(err).Int64("ts", row.Timestamp).Msg("replay tick failed")
			continue
		}
		ticks++
		if !sameDecision(orders, row.Orders) || conversions != row.Conversions {
			diverged++
			log.Info().Int64("ts", row.Timestamp).Msg("decision diverged from recording")
		}
	}

	log.Info().
		Int("ticks", ticks).
		Int("diverged", diverged).
		Int("failed", failed).
		Msg("replay finished")
}

func sameDecision(a, b map[string][]exchange.Order) bool {
	left, err := json.Marshal(a)
	if err != nil {
		return false
	}
	right, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return string(left) == string(right)
}
