package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/codelens-edu/codelens-gateway/internal/config"
	"github.com/codelens-edu/codelens-gateway/internal/response"
	"github.com/codelens-edu/codelens-gateway/internal/worker"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// SystemHandler serves the public health endpoint. Upstream reachability
// comes from the monitor worker's cached probe, never from a live call, so
// /health stays cheap under load.
type SystemHandler struct {
	rdb       *redis.Client
	startTime time.Time
	log       zerolog.Logger
}

func NewSystemHandler(rdb *redis.Client, log zerolog.Logger) *SystemHandler {
	return &SystemHandler{
		rdb:       rdb,
		startTime: time.Now(),
		log:       log.With().Str("component", "system_handler").Logger(),
	}
}

// Health godoc
// GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	upstream := worker.UpstreamStatus{Status: "unknown"}

	raw, err := h.rdb.Get(c.Request.Context(), config.CacheKey.UpstreamStatusKey()).Result()
	if err == nil {
		if uerr := json.Unmarshal([]byte(raw), &upstream); uerr != nil {
			h.log.Warn().Err(uerr).Msg("Malformed upstream status in cache")
			upstream = worker.UpstreamStatus{Status: "unknown"}
		}
	}

	response.Success(c, http.StatusOK, gin.H{
		"status":   "ok",
		"uptime":   time.Since(h.startTime).Round(time.Second).String(),
		"upstream": upstream,
	})
}
