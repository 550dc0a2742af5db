// Package handler provides HTTP handlers for the chatrag service.
package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rigel-labs/chatrag/internal/chatrag/biz"
	"github.com/rigel-labs/chatrag/pkg/tracing"
	"github.com/rigel-labs/chatrag/pkg/validator"
)

// SuccessResponse is a standard success response.
type SuccessResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// DocumentHandler handles document ingestion, listing and deletion.
type DocumentHandler struct {
	service biz.Service
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(service biz.Service) *DocumentHandler {
	return &DocumentHandler{service: service}
}

// Upload ingests a multipart file upload. The optional chat_id form field
// scopes the document to a chat.
func (h *DocumentHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 400, Message: "file is required: " + err.Error()})
		return
	}

	chatID := c.PostForm("chat_id")
	if chatID != "" && !validator.ValidChatID(chatID) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 400, Message: "invalid chat_id"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 400, Message: err.Error()})
		return
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 400, Message: err.Error()})
		return
	}

	ctx, span := tracing.StartSpan(c.Request.Context(), tracerName, "document.ingest")
	defer span.End()
	tracing.AddSpanAttributes(ctx,
		tracing.String("document.filename", fileHeader.Filename),
		tracing.String("chat.id", chatID),
	)

	result, err := h.service.IngestDocument(ctx, fileHeader.Filename, content, chatID)
	if err != nil {
		tracing.RecordError(ctx, err)
		switch {
		case errors.Is(err, biz.ErrUnsupportedFormat):
			c.JSON(http.StatusUnsupportedMediaType, ErrorResponse{Code: 415, Message: err.Error()})
		case errors.Is(err, biz.ErrNoTextExtracted):
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Code: 422, Message: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Code: 500, Message: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Code: 0, Message: "Document ingested successfully", Data: result})
}

// List returns documents. With a chat_id query parameter the chat's
// documents come back without chunks; without one the full registry does.
func (h *DocumentHandler) List(c *gin.Context) {
	chatID, hasChat := c.GetQuery("chat_id")

	if hasChat && chatID != "" {
		c.JSON(http.StatusOK, SuccessResponse{Code: 0, Message: "success", Data: h.service.ListChat(chatID)})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Code: 0, Message: "success", Data: h.service.ListAll()})
}

// DeleteRequest identifies a document to remove.
type DeleteRequest struct {
	Filename string `json:"filename" binding:"required"`
	ChatID   string `json:"chat_id" binding:"omitempty,chatid"`
}

// Delete removes a document from storage and every index.
func (h *DocumentHandler) Delete(c *gin.Context) {
	var req DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 400, Message: err.Error()})
		return
	}

	if err := h.service.DeleteDocument(c.Request.Context(), req.Filename, req.ChatID); err != nil {
		if errors.Is(err, biz.ErrDocumentNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Code: 404, Message: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Code: 500, Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Code: 0, Message: "Document deleted successfully"})
}

// Download streams a stored document's raw bytes back to the caller.
func (h *DocumentHandler) Download(c *gin.Context) {
	filename := c.Query("filename")
	if filename == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 400, Message: "filename is required"})
		return
	}

	chatID := c.Query("chat_id")
	if chatID != "" && !validator.ValidChatID(chatID) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 400, Message: "invalid chat_id"})
		return
	}

	content, ref, err := h.service.GetDocumentContent(c.Request.Context(), filename, chatID)
	if err != nil {
		if errors.Is(err, biz.ErrDocumentNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Code: 404, Message: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Code: 500, Message: err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+ref.Filename+`"`)
	c.Data(http.StatusOK, "application/octet-stream", content)
}
