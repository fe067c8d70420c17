package main

import (
	"context"
	"os"
	ossignal "os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"tidebot/internal/config"
	"tidebot/internal/diag"
	"tidebot/internal/exchange"
	"tidebot/internal/execution"
	"tidebot/internal/metrics"
	"tidebot/internal/record"
	"tidebot/internal/store"
	"tidebot/internal/trader"
	"tidebot/internal/util"
)

func main() {
	env, err := config.FromEnv()
	if err != nil {
		bootLog := util.NewLogger("info")
		bootLog.Fatal().Err(err).Msg("read environment")
	}

	cfg, err := config.Load(env.ConfigPath)
	if err != nil {
		bootLog := util.NewLogger("info")
		bootLog.Fatal().Err(err).Msg("load config")
	}
	level := cfg.App.LogLevel
	if env.LogLevel != "" {
		level = env.LogLevel
	}

	log, runID := util.NewRunLogger(level)

	_ = metrics.Serve(cfg.App.MetricsAddr)
	log.Info().Str("addr", cfg.App.MetricsAddr).Msg("metrics up")

	ctx, cancel := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var tickStore *store.TickStore
	if cfg.Store.Enabled {
		tickStore, err = store.NewTickStore(cfg.Store.Path)
		if err != nil {
			log.Fatal().Err(err).Msg("open tick store")
		}
		defer tickStore.Close()
	}

	var recorder *record.JSONLRecorder
	if cfg.Record.Enabled {
		recorder, err = record.NewJSONLRecorder(cfg.Record.Path)
		if err != nil {
			log.Fatal().Err(err).Msg("open decision recorder")
		}
		defer recorder.Close()
	}

	feed := exchange.NewFeed(cfg.Feed.Provider, cfg.Feed.URL, log)
	snapshots := make(chan *exchange.Snapshot, 16)

	go func() {
		defer close(snapshots)
		if err := feed.Run(ctx, snapshots); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("feed stopped")
		}
	}()

	loop := tickLoop{
		log:        log,
		runID:      runID,
		engine:     trader.New(log),
		exec:       execution.NewExecutor(os.Stdout, log),
		compressor: &diag.Compressor{MaxLength: cfg.Diag.MaxLength, Exact: cfg.Diag.Exact},
		diagSink:   os.Stderr,
		tickStore:  tickStore,
		recorder:   recorder,
	}

	log.Info().Msg("decision engine started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("shutting down")
			return
		case snap, ok := <-snapshots:
			if !ok {
				log.Info().Msg("feed exhausted")
				return
			}
			loop.runTick(ctx, snap)
		}
	}
}

type tickLoop struct {
	log        zerolog.Logger
	runID      string
	engine     *trader.Trader
	exec       *execution.Executor
	compressor *diag.Compressor
	diagSink   *os.File
	tickStore  *store.TickStore
	recorder   *record.JSONLRecorder
}

// runTick executes a single tick end to end. A failed tick is logged and
// discarded; the loop continues with the next snapshot.
func (l *tickLoop) runTick(ctx context.Context, snap *exchange.Snapshot) {
	buf := diag.NewBuffer()

	orders, conversions, traderData, err := l.engine.Run(snap, buf)
	if err != nil {
		l.log.Error().Err(err).Int64("ts", snap.Timestamp).Msg("tick aborted")
		return
	}

	decision := execution.Decision{
		Timestamp:   snap.Timestamp,
		Orders:      orders,
		Conversions: conversions,
		TraderData:  traderData,
	}
	if err := l.exec.Submit(decision); err != nil {
		l.log.Error().Err(err).Msg("submit decision")
	}

	if l.compressor.MaxLength > 0 {
		recordLine, err := l.compressor.Flush(snap, orders, conversions, traderData, buf)
		if err != nil {
			l.log.Error().Err(err).Msg("compress diagnostics")
		} else {
			recordLine = append(recordLine, '\n')
			_, _ = l.diagSink.Write(recordLine)
		}
	}

	if l.tickStore != nil {
		if err := l.tickStore.SaveTick(ctx, l.runID, snap, orders, conversions, traderData); err != nil {
			l.log.Error().Err(err).Msg("store tick")
		}
	}
	if l.recorder != nil {
		l.recorder.Record(decision)
	}
	if conversions != 0 {
		delta := conversions
		if delta < 0 {
			delta = -delta
		}
		metrics.ConversionsTotal.Add(float64(delta))
	}
}
