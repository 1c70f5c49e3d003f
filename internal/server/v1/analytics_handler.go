package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/llm-provider-kit/internal/analytics"
	"github.com/nulzo/llm-provider-kit/pkg/api"
)

type AnalyticsHandler struct {
	service analytics.Service
}

func NewAnalyticsHandler(svc analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{service: svc}
}

func queryInt(c *gin.Context, key string) int {
	n, _ := strconv.Atoi(c.Query(key))
	return n
}

// Usage returns per-day request counts; ?days= defaults to 7.
func (h *AnalyticsHandler) Usage(c *gin.Context) {
	stats, err := h.service.UsageOverview(c.Request.Context(), queryInt(c, "days"))
	if err != nil {
		_ = c.Error(api.InternalError("failed to load usage", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"object": "list", "data": stats})
}

func (h *AnalyticsHandler) Requests(c *gin.Context) {
	logs, err := h.service.RecentRequests(c.Request.Context(), queryInt(c, "limit"))
	if err != nil {
		_ = c.Error(api.InternalError("failed to load requests", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"object": "list", "data": logs})
}

// Probes lists recent probe results; ?provider= narrows them.
func (h *AnalyticsHandler) Probes(c *gin.Context) {
	results, err := h.service.ProbeHistory(c.Request.Context(), c.Query("provider"), queryInt(c, "limit"))
	if err != nil {
		_ = c.Error(api.InternalError("failed to load probe history", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"object": "list", "data": results})
}
