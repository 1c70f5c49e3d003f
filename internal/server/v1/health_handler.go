package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	registry Registry
}

func NewHealthHandler(reg Registry) *HealthHandler {
	return &HealthHandler{registry: reg}
}

func (h *HealthHandler) Health(c *gin.Context) {
	cat := h.registry.Catalog()
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"state":     h.registry.State().String(),
		"providers": h.registry.Clients(),
		"keys":      h.registry.Keys(),
		"catalogs":  cat.Providers(),
		"models":    cat.Len(),
	})
}
