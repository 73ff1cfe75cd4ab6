// Package feed adapts external target-trade monitors to the engine.
// Real trade detection lives outside this repo; the engine only consumes
// a stream of independent, unordered trigger events.
package feed

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"

	"go.uber.org/zap"

	"solana-copybot/internal/model"
)

// JSONLines reads one JSON-encoded TradeEvent per line, the wire format
// the monitor process emits on its pipe.
type JSONLines struct {
	r   io.Reader
	log *zap.SugaredLogger
}

// NewJSONLines creates a feed over r.
func NewJSONLines(r io.Reader, log *zap.SugaredLogger) *JSONLines {
	return &JSONLines{r: r, log: log}
}

// Run decodes events onto out until r is exhausted or ctx is done.
// Malformed lines are logged and skipped; a monitor glitch must not stop
// the feed.
func (f *JSONLines) Run(ctx context.Context, out chan<- model.TradeEvent) error {
	scanner := bufio.NewScanner(f.r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var event model.TradeEvent
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			f.log.Warnf("skipping malformed event line: %v", err)
			continue
		}

		select {
		case out <- event:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return scanner.Err()
}
