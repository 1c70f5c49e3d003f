package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/llm-provider-kit/pkg/api"
)

type ModelHandler struct {
	registry Registry
}

func NewModelHandler(reg Registry) *ModelHandler {
	return &ModelHandler{registry: reg}
}

// ListModels serves the catalog; ?provider= matches exactly, ?id= by
// substring.
func (h *ModelHandler) ListModels(c *gin.Context) {
	filter := api.ModelFilter{
		Provider: c.Query("provider"),
		ID:       c.Query("id"),
	}

	cat := h.registry.Catalog()
	sel := h.registry.Selection()

	models := []api.Model{}
	for _, provider := range cat.Providers() {
		if filter.Provider != "" && !strings.EqualFold(provider, filter.Provider) {
			continue
		}
		for _, spec := range cat.Models(provider) {
			if filter.ID != "" && !strings.Contains(strings.ToLower(spec.ID), strings.ToLower(filter.ID)) {
				continue
			}
			models = append(models, api.Model{
				ID:            spec.ID,
				Object:        "model",
				OwnedBy:       provider,
				Provider:      provider,
				ContextLength: spec.WindowSize,
				Selected:      sel.Provider == provider && sel.Model == spec.ID,
			})
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data":   models,
	})
}
