package exchange

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"tidebot/internal/metrics"
)

const (
	// ProviderStdin reads one JSON snapshot per line from standard input.
	ProviderStdin = "stdin"
	// ProviderWebsocket streams JSON snapshots from a websocket endpoint.
	ProviderWebsocket = "websocket"
)

// Feed delivers tick snapshots from a configured source.
type Feed struct {
	provider string
	url      string
	reader   io.Reader
	log      zerolog.Logger
}

// Option configures Feed construction parameters.
type Option func(*Feed)

// WithReader overrides the input stream used by the stdin provider.
func WithReader(r io.Reader) Option {
	return func(f *Feed) {
		if r != nil {
			f.reader = r
		}
	}
}

// NewFeed constructs a feed backed by the requested provider.
func NewFeed(provider, url string, log zerolog.Logger, opts ...Option) *Feed {
	if provider == "" {
		provider = ProviderStdin
	}
	f := &Feed{
		provider: strings.ToLower(provider),
		url:      url,
		reader:   os.Stdin,
		log:      log,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Run streams snapshots into out until the source is exhausted or ctx ends.
func (f *Feed) Run(ctx context.Context, out chan<- *Snapshot) error {
	switch f.provider {
	case ProviderStdin:
		return f.runLines(ctx, out)
	case ProviderWebsocket:
		return f.runWebsocket(ctx, out)
	default:
		return fmt.Errorf("unknown feed provider %q", f.provider)
	}
}

func (f *Feed) runLines(ctx context.Context, out chan<- *Snapshot) error {
	scanner := bufio.NewScanner(f.reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		snap := &Snapshot{}
		if err := json.Unmarshal([]byte(line), snap); err != nil {
			f.log.Warn().Err(err).Msg("skipping malformed snapshot line")
			continue
		}
		metrics.TicksTotal.Inc()
		select {
		case out <- snap:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read snapshot stream: %w", err)
	}
	return nil
}

func (f *Feed) runWebsocket(ctx context.Context, out chan<- *Snapshot) error {
	if f.url == "" {
		return fmt.Errorf("websocket feed requires a url")
	}

	backoff := time.Second
	const maxBackoff = 30 * time.Second

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := f.consumeWebsocket(ctx, out); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			f.log.Warn().Err(err).Msg("snapshot feed disconnected, retrying")
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
			backoff = time.Duration(math.Min(float64(maxBackoff), float64(backoff)*1.8))
			continue
		}
		return nil
	}
}

func (f *Feed) consumeWebsocket(ctx context.Context, out chan<- *Snapshot) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, f.url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", f.url, err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read snapshot frame: %w", err)
		}
		snap := &Snapshot{}
		if err := json.Unmarshal(payload, snap); err != nil {
			f.log.Warn().Err(err).Msg("skipping malformed snapshot frame")
			continue
		}
		metrics.TicksTotal.Inc()
		select {
		case out <- snap:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
