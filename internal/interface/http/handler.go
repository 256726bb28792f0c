package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/bazi/internal/domain/bazi"
	"github.com/yanqian/bazi/pkg/metrics"
)

// Handler wires the HTTP transport to the profile service.
type Handler struct {
	svc          bazi.Service
	stats        *metrics.ResolutionStats
	maxBatchSize int
	logger       *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(svc bazi.Service, stats *metrics.ResolutionStats, maxBatchSize int, logger *slog.Logger) *Handler {
	if maxBatchSize <= 0 {
		maxBatchSize = 100
	}
	return &Handler{
		svc:          svc,
		stats:        stats,
		maxBatchSize: maxBatchSize,
		logger:       logger.With("component", "http.handler"),
	}
}

type batchRequest struct {
	Items []bazi.Request `json:"items"`
}

type batchItem struct {
	ID      string        `json:"id"`
	Index   int           `json:"index"`
	Profile *bazi.Profile `json:"profile,omitempty"`
	Error   *errorBody    `json:"error,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CreateProfile computes one Four Pillars profile.
func (h *Handler) CreateProfile(c *gin.Context) {
	var req bazi.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	profile, err := h.svc.Compute(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainError(err, "profile_failed"))
		return
	}

	c.JSON(http.StatusOK, profile)
}

// CreateProfileBatch computes many profiles; item failures are reported inline.
func (h *Handler) CreateProfileBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	if len(req.Items) == 0 {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "items cannot be empty", nil))
		return
	}
	if len(req.Items) > h.maxBatchSize {
		abortWithError(c, NewHTTPError(http.StatusRequestEntityTooLarge, "batch_too_large", "too many items in batch", nil))
		return
	}

	results := h.svc.ComputeBatch(c.Request.Context(), req.Items)
	items := make([]batchItem, 0, len(results))
	for _, r := range results {
		item := batchItem{ID: r.ID, Index: r.Index, Profile: r.Profile}
		if r.Err != nil {
			httpErr := domainError(r.Err, "profile_failed")
			item.Error = &errorBody{Code: httpErr.Code, Message: httpErr.Message}
		}
		items = append(items, item)
	}
	c.JSON(http.StatusOK, gin.H{"results": items})
}

// GetCalendar returns the stored calendar record for a date.
func (h *Handler) GetCalendar(c *gin.Context) {
	record, found, err := h.svc.Calendar(c.Request.Context(), c.Param("date"))
	if err != nil {
		abortWithError(c, domainError(err, "calendar_failed"))
		return
	}
	if !found {
		abortWithError(c, NewHTTPError(http.StatusNotFound, "not_found", "no calendar record for date", nil))
		return
	}
	c.JSON(http.StatusOK, record)
}

// Stats exposes resolution counters.
func (h *Handler) Stats(c *gin.Context) {
	snap := h.stats.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"stats":         snap,
		"fallbackRatio": snap.FallbackRatio(),
	})
}

// Health is the liveness probe.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
