package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rigel-labs/chatrag/internal/chatrag/biz"
	"github.com/rigel-labs/chatrag/internal/chatrag/metrics"
	"github.com/rigel-labs/chatrag/internal/model"
	"github.com/rigel-labs/chatrag/pkg/tracing"
)

const tracerName = "chatrag/handler"

// QueryHandler handles query classification and prompt composition.
type QueryHandler struct {
	service biz.Service
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(service biz.Service) *QueryHandler {
	return &QueryHandler{service: service}
}

// ClassifyRequest carries the query to route.
type ClassifyRequest struct {
	Query string `json:"query" binding:"required"`
}

// Classify reports whether the query needs web search or is a URL
// analysis request.
func (h *QueryHandler) Classify(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 400, Message: err.Error()})
		return
	}

	ctx, span := tracing.StartSpan(c.Request.Context(), tracerName, "query.classify")
	defer span.End()

	result := h.service.Classify(req.Query)
	tracing.AddSpanAttributes(ctx,
		tracing.Bool("query.web_search", result.WebSearch),
		tracing.Bool("query.url_analysis", result.URLAnalysis),
	)

	c.JSON(http.StatusOK, SuccessResponse{Code: 0, Message: "success", Data: result})
}

// PromptRequest carries a query plus optional context inputs.
type PromptRequest struct {
	Query      string `json:"query" binding:"required"`
	ChatID     string `json:"chat_id" binding:"omitempty,chatid"`
	WebResults string `json:"web_results"`
}

// Prompt composes the final prompt from document context and web results.
func (h *QueryHandler) Prompt(c *gin.Context) {
	var req PromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 400, Message: err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	ctx, span := tracing.StartSpan(ctx, tracerName, "query.prompt")
	defer span.End()
	tracing.AddSpanAttributes(ctx, tracing.String("chat.id", req.ChatID))

	result, err := h.service.ComposePrompt(ctx, req.Query, req.ChatID, req.WebResults)
	if err != nil {
		tracing.RecordError(ctx, err)
		if ctx.Err() == context.DeadlineExceeded {
			c.JSON(http.StatusRequestTimeout, ErrorResponse{
				Code:    408,
				Message: "Prompt composition timed out. Please try again or simplify your query.",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Code: 500, Message: err.Error()})
		return
	}

	tracing.AddSpanAttributes(ctx,
		tracing.Bool("prompt.cached", result.Cached),
		tracing.Int("prompt.sources", len(result.Sources)),
	)
	c.JSON(http.StatusOK, SuccessResponse{Code: 0, Message: "success", Data: result})
}

// WebPromptRequest carries a query and the web results to wrap it with.
type WebPromptRequest struct {
	Query      string `json:"query" binding:"required"`
	WebResults string `json:"web_results" binding:"required"`
}

// WebPrompt wraps web search results around the query without consulting
// any document context.
func (h *QueryHandler) WebPrompt(c *gin.Context) {
	var req WebPromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 400, Message: err.Error()})
		return
	}

	prompt := h.service.AugmentWithWeb(req.Query, req.WebResults)
	result := model.PromptResult{
		Prompt:  prompt,
		Sources: []string{biz.SourceWeb},
	}
	c.JSON(http.StatusOK, SuccessResponse{Code: 0, Message: "success", Data: result})
}

// Stats returns service statistics.
func (h *QueryHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, SuccessResponse{Code: 0, Message: "success", Data: h.service.Stats(c.Request.Context())})
}

// Metrics serves business metrics in Prometheus text format.
func (h *QueryHandler) Metrics(c *gin.Context) {
	c.Data(http.StatusOK, "text/plain; version=0.0.4; charset=utf-8",
		[]byte(metrics.GetChatRAGMetrics().Export("chatrag", "service")))
}
