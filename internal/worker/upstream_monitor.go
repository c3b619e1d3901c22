package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/codelens-edu/codelens-gateway/internal/config"
	"github.com/codelens-edu/codelens-gateway/internal/gateway"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// UpstreamStatus is the cached result of the last upstream health probe.
type UpstreamStatus struct {
	Status    string    `json:"status"`
	LatencyMS int64     `json:"latency_ms,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// UpstreamMonitor probes the CodeLens API health endpoint on an interval
// and caches the outcome so /health never makes a live upstream call.
type UpstreamMonitor struct {
	gw       *gateway.Client
	rdb      *redis.Client
	interval time.Duration
	log      zerolog.Logger
}

func NewUpstreamMonitor(gw *gateway.Client, rdb *redis.Client, interval time.Duration, log zerolog.Logger) *UpstreamMonitor {
	return &UpstreamMonitor{
		gw:       gw,
		rdb:      rdb,
		interval: interval,
		log:      log.With().Str("component", "upstream_monitor").Logger(),
	}
}

// Start runs the probe loop until the context is cancelled. One probe fires
// immediately so /health has data right after boot.
func (w *UpstreamMonitor) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Msg("UpstreamMonitor started")

	w.probe(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("UpstreamMonitor stopped")
			return
		case <-ticker.C:
			w.probe(ctx)
		}
	}
}

func (w *UpstreamMonitor) probe(ctx context.Context) {
	start := time.Now()
	// No session in ctx: the probe is anonymous.
	res := w.gw.Get(ctx, "/health")

	status := UpstreamStatus{
		Status:    "up",
		LatencyMS: time.Since(start).Milliseconds(),
		CheckedAt: time.Now().UTC(),
	}
	if res.Status == 0 {
		status.Status = "down"
		status.LatencyMS = 0
	}

	raw, err := json.Marshal(status)
	if err != nil {
		return
	}

	// The entry outlives a couple of missed probes, then expires to "unknown".
	if err := w.rdb.Set(ctx, config.CacheKey.UpstreamStatusKey(), raw, 3*w.interval).Err(); err != nil {
		w.log.Warn().Err(err).Msg("Failed to cache upstream status")
	}

	if status.Status == "down" {
		w.log.Warn().Msg("Upstream health probe failed")
	}
}
