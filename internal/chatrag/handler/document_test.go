package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rigel-labs/chatrag/internal/chatrag/biz"
	"github.com/rigel-labs/chatrag/internal/chatrag/blob"
	"github.com/rigel-labs/chatrag/internal/chatrag/extract"
	"github.com/rigel-labs/chatrag/internal/chatrag/store"
)

func newTestHandler(t *testing.T) *DocumentHandler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	byteStore, err := blob.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	service := biz.NewChatRAGService(
		&biz.Config{ChunkSize: 1000, ChunkOverlap: 200, TopK: 3},
		extract.NewRegistry(),
		byteStore,
		store.NewMemoryStore(),
		store.NewMemoryRegistry(),
		biz.NewPromptCache(nil, nil),
	)
	return NewDocumentHandler(service)
}

func uploadRequest(t *testing.T, filename, chatID string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	if chatID != "" {
		require.NoError(t, w.WriteField("chat_id", chatID))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/documents", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUploadRejectsInvalidChatID(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = uploadRequest(t, "guide.txt", "../escape", []byte("some text"))

	h.Upload(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid chat_id")
}

func TestDownloadReturnsStoredBytes(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = uploadRequest(t, "guide.txt", "chat-1", []byte("document body"))
	h.Upload(c)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/v1/documents/content?filename=guide.txt&chat_id=chat-1", nil)
	h.Download(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "document body", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="guide.txt"`)
}

func TestDownloadUnknownDocument(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/v1/documents/content?filename=missing.txt", nil)
	h.Download(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
