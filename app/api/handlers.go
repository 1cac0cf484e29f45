package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/reddit-comb/app/forum"
)

// maxRequestBytes caps a JSON-RPC request body.
const maxRequestBytes = 1 << 20

func NewHandler(dispatcher DispatcherInterface, configCache *forum.ConfigCache, forums []string, version string) *Handler {
	return &Handler{
		dispatcher:  dispatcher,
		configCache: configCache,
		forums:      forums,
		version:     version,
	}
}

// WithCacheHealth adds the report cache status to the health endpoint.
func (h *Handler) WithCacheHealth(cache HealthReporter) *Handler {
	h.cache = cache
	return h
}

func (h *Handler) MCP(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.Header("Content-Type", "text/plain")
		c.String(http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBytes)
	body, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			slog.Warn("Request body too large", "limit", tooLarge.Limit)
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		slog.Error("Failed to read request body", "error", err)
		c.Status(http.StatusBadRequest)
		return
	}

	resp, status := h.dispatcher.Handle(c.Request.Context(), body)
	if resp == nil {
		c.Status(status)
		return
	}

	c.JSON(status, resp)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]any{
		"status":    "ok",
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"version":   h.version,
		"forums":    h.forums,
	}

	if h.configCache != nil {
		health["loaded_configurations"] = h.configCache.GetConfigCount()
	}

	if h.cache != nil {
		health["cache"] = h.cache.Health(c.Request.Context())
	}

	c.JSON(http.StatusOK, health)
}
