package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/nulzo/llm-provider-kit/internal/llm"
	"github.com/nulzo/llm-provider-kit/internal/server/validator"
	"github.com/nulzo/llm-provider-kit/internal/store/model"
	"github.com/nulzo/llm-provider-kit/pkg/api"
)

// HeaderProvider pins a request to one provider's client.
const HeaderProvider = "X-Provider"

// Recorder receives one entry per served call. analytics.Ingestor satisfies it.
type Recorder interface {
	Log(log *model.RequestLog)
}

type nopRecorder struct{}

func (nopRecorder) Log(*model.RequestLog) {}

type ChatHandler struct {
	registry  Registry
	validator *validator.Validator
	recorder  Recorder
}

func NewChatHandler(reg Registry, v *validator.Validator, rec Recorder) *ChatHandler {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &ChatHandler{registry: reg, validator: v, recorder: rec}
}

// route picks the provider for model. An explicit provider wins; otherwise the
// current selection's provider if its catalog lists model, else the first
// catalog that does. An empty model means the current selection.
func route(reg Registry, provider, modelID string) (string, string, llm.Client, *api.Problem) {
	sel := reg.Selection()
	if modelID == "" {
		if sel.IsZero() {
			return "", "", nil, api.BadRequestError("no model given and no model selected")
		}
		if provider == "" || provider == sel.Provider {
			provider, modelID = sel.Provider, sel.Model
		}
	}
	if modelID == "" {
		return "", "", nil, api.BadRequestError(fmt.Sprintf("no model given for provider %q", provider))
	}

	if provider == "" {
		cat := reg.Catalog()
		if _, ok := cat.Lookup(sel.Provider, modelID); ok {
			provider = sel.Provider
		} else {
			for _, p := range cat.Providers() {
				if _, ok := cat.Lookup(p, modelID); ok {
					provider = p
					break
				}
			}
		}
	}
	if provider == "" {
		return "", "", nil, api.NotFoundError(fmt.Sprintf("model %q is not in any catalog", modelID))
	}

	client, ok := reg.Client(provider)
	if !ok {
		return provider, modelID, nil, api.NotFoundError(
			fmt.Sprintf("no client for provider %q", provider),
			api.WithExtension("providers", reg.Clients()),
		)
	}
	return provider, modelID, client, nil
}

func (h *ChatHandler) CreateCompletion(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		_ = c.Error(api.BadRequestError("request body could not be read", api.WithLog(err)))
		return
	}
	// The typed request only validates; the raw map is forwarded so vendor
	// fields the struct does not declare survive until the allow-list.
	var req api.ChatRequest
	if err := binding.JSON.BindBody(raw, &req); err != nil {
		_ = c.Error(api.ValidationError(h.validator.ParseError(err)))
		return
	}
	payload := api.Payload{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		_ = c.Error(api.BadRequestError("request body is not a JSON object", api.WithLog(err)))
		return
	}
	if req.Stream {
		_ = c.Error(api.NotImplementedError("streaming responses are not supported", nil))
		return
	}

	provider, modelID, client, problem := route(h.registry, c.GetHeader(HeaderProvider), req.Model)
	if problem != nil {
		_ = c.Error(problem)
		return
	}

	payload["model"] = modelID

	start := time.Now()
	resp := client.SendRequest(c.Request.Context(), payload)
	entry := &model.RequestLog{
		ID:        uuid.NewString(),
		Endpoint:  "chat",
		Provider:  provider,
		Model:     modelID,
		LatencyMS: time.Since(start).Milliseconds(),
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}

	if resp.IsError() {
		detail := resp.Error
		if detail == nil {
			detail = &api.ErrorDetail{Message: "empty response", Type: "Error"}
		}
		entry.StatusCode = http.StatusBadGateway
		entry.ErrorType = detail.Type
		h.recorder.Log(entry)

		_ = c.Error(api.ProviderError(detail.Message,
			api.WithExtension("provider", provider),
			api.WithExtension("model", modelID),
			api.WithExtension("error", detail),
		))
		return
	}

	data := *resp.Data
	entry.StatusCode = http.StatusOK
	entry.FinishReason = data.FinishReason
	if data.Usage != nil {
		entry.InputTokens = data.Usage.PromptTokens
		entry.OutputTokens = data.Usage.CompletionTokens
	}
	h.recorder.Log(entry)

	c.Header(HeaderProvider, provider)
	c.JSON(http.StatusOK, api.NewChatResponse("chatcmpl-"+entry.ID, modelID, start.Unix(), data))
}

type EmbeddingHandler struct {
	registry  Registry
	validator *validator.Validator
	recorder  Recorder
}

func NewEmbeddingHandler(reg Registry, v *validator.Validator, rec Recorder) *EmbeddingHandler {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &EmbeddingHandler{registry: reg, validator: v, recorder: rec}
}

// CreateEmbeddings needs a provider (body field, header, or the current
// selection). The model may be empty: variants have a default embedding
// model.
func (h *EmbeddingHandler) CreateEmbeddings(c *gin.Context) {
	var req api.EmbeddingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(api.ValidationError(h.validator.ParseError(err)))
		return
	}
	if len(req.Input.Val) == 0 {
		_ = c.Error(api.ValidationError(map[string]string{"input": "input is a required field"}))
		return
	}

	provider := req.Provider
	if provider == "" {
		provider = c.GetHeader(HeaderProvider)
	}
	if provider == "" {
		provider = h.registry.Selection().Provider
	}
	client, ok := h.registry.Client(provider)
	if !ok {
		_ = c.Error(api.NotFoundError(
			fmt.Sprintf("no client for provider %q", provider),
			api.WithExtension("providers", h.registry.Clients()),
		))
		return
	}

	start := time.Now()
	vectors, err := client.Embed(c.Request.Context(), req.Model, req.Input.Val)
	entry := &model.RequestLog{
		ID:        uuid.NewString(),
		Endpoint:  "embeddings",
		Provider:  provider,
		Model:     req.Model,
		LatencyMS: time.Since(start).Milliseconds(),
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}

	if err != nil {
		entry.ErrorType = llm.KindOf(err)
		if errors.Is(err, llm.ErrUnsupported) {
			entry.StatusCode = http.StatusNotImplemented
			h.recorder.Log(entry)
			_ = c.Error(api.NotImplementedError(err.Error(), err))
			return
		}
		entry.StatusCode = http.StatusBadGateway
		h.recorder.Log(entry)
		_ = c.Error(api.ProviderError(err.Error(),
			api.WithExtension("provider", provider),
			api.WithExtension("error", llm.ErrorDetailFrom(err)),
		))
		return
	}
	entry.StatusCode = http.StatusOK
	h.recorder.Log(entry)

	data := make([]api.Embedding, len(vectors))
	for i, v := range vectors {
		data[i] = api.Embedding{Object: "embedding", Index: i, Embedding: v}
	}
	c.JSON(http.StatusOK, api.EmbeddingResponse{
		Object:   "list",
		Model:    req.Model,
		Provider: provider,
		Data:     data,
	})
}
