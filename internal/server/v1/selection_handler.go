package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/llm-provider-kit/internal/server/validator"
	"github.com/nulzo/llm-provider-kit/pkg/api"
)

type SelectionHandler struct {
	registry  Registry
	validator *validator.Validator
}

func NewSelectionHandler(reg Registry, v *validator.Validator) *SelectionHandler {
	return &SelectionHandler{registry: reg, validator: v}
}

func (h *SelectionHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.registry.Selection())
}

func (h *SelectionHandler) Set(c *gin.Context) {
	var req api.SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(api.ValidationError(h.validator.ParseError(err)))
		return
	}

	if !h.registry.SetSelection(req.Provider, req.Model) {
		_ = c.Error(api.NotFoundError(
			fmt.Sprintf("model %q is not in the %q catalog", req.Model, req.Provider),
			api.WithExtension("selection", h.registry.Selection()),
		))
		return
	}
	c.JSON(http.StatusOK, h.registry.Selection())
}

// Reload re-reads credentials and catalogs.
func (h *SelectionHandler) Reload(c *gin.Context) {
	reloaded := h.registry.Reload()
	cat := h.registry.Catalog()
	c.JSON(http.StatusOK, gin.H{
		"reloaded":  reloaded,
		"state":     h.registry.State().String(),
		"providers": h.registry.Clients(),
		"models":    cat.Len(),
		"selection": h.registry.Selection(),
	})
}
