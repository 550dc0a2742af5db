package biz

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rigel-labs/chatrag/internal/chatrag/blob"
	"github.com/rigel-labs/chatrag/internal/chatrag/extract"
	"github.com/rigel-labs/chatrag/internal/chatrag/store"
	"github.com/rigel-labs/chatrag/internal/model"
)

func newTestService(t *testing.T) *ChatRAGService {
	t.Helper()
	bytes, err := blob.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	cfg := &Config{
		ChunkSize:    1000,
		ChunkOverlap: 200,
		TopK:         3,
	}
	return NewChatRAGService(
		cfg,
		extract.NewRegistry(),
		bytes,
		store.NewMemoryStore(),
		store.NewMemoryRegistry(),
		NewPromptCache(nil, nil),
	)
}

func TestIngestDocument(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	content := []byte("Goroutines are lightweight. Channels connect them.")
	result, err := s.IngestDocument(ctx, "guide.txt", content, "chat-1")
	require.NoError(t, err)

	assert.Equal(t, blob.ContentHash(content), result.ID)
	assert.Equal(t, "guide.txt", result.Filename)
	assert.Equal(t, 1, result.ChunkCount)
	assert.Equal(t, blob.StorageTypeLocal, result.Blob.StorageType)

	require.True(t, s.HasDocuments("chat-1"))
	docs := s.ListChat("chat-1")
	require.Len(t, docs, 1)
	assert.Equal(t, "guide.txt", docs[0].Filename)
	assert.Equal(t, 1, docs[0].ChunkCount)

	all := s.ListAll()
	require.Len(t, all, 1)
	assert.Equal(t, "chat-1", all[0].ChatID)
}

func TestIngestDocumentKeepsFullText(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	text := "Goroutines are lightweight. Channels connect them."
	_, err := s.IngestDocument(ctx, "guide.txt", []byte(text), "chat-1")
	require.NoError(t, err)

	docs := s.docs.Documents("chat-1")
	require.Len(t, docs, 1)
	assert.Equal(t, text, docs[0].FullText)
}

func TestIngestDocumentReuploadReplaces(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	content := []byte("same bytes twice")
	first, err := s.IngestDocument(ctx, "guide.txt", content, "chat-1")
	require.NoError(t, err)
	second, err := s.IngestDocument(ctx, "guide.txt", content, "chat-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	// The chat holds one record per document ID; the registry logs both
	// uploads.
	docs := s.ListChat("chat-1")
	require.Len(t, docs, 1)
	assert.Equal(t, first.ID, docs[0].ID)
	assert.Len(t, s.ListAll(), 2)
}

func TestIngestDocumentWithoutChat(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.IngestDocument(ctx, "global.txt", []byte("shared knowledge"), "")
	require.NoError(t, err)

	// Recorded globally but scoped to no chat.
	assert.Len(t, s.ListAll(), 1)
	assert.True(t, s.HasDocuments(""))
	assert.False(t, s.HasDocuments("chat-1"))
}

func TestIngestDocumentUnsupportedFormat(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.IngestDocument(ctx, "image.png", []byte{0x89, 0x50}, "chat-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	// Nothing was recorded.
	assert.Empty(t, s.ListAll())
	assert.False(t, s.HasDocuments("chat-1"))
}

func TestIngestDocumentNoText(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.IngestDocument(ctx, "empty.txt", []byte("   \n\t  "), "chat-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoTextExtracted)
	assert.Empty(t, s.ListAll())
}

func TestDeleteDocument(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.IngestDocument(ctx, "guide.txt", []byte("some document text"), "chat-1")
	require.NoError(t, err)

	require.NoError(t, s.DeleteDocument(ctx, "guide.txt", "chat-1"))
	assert.Empty(t, s.ListAll())
	assert.False(t, s.HasDocuments("chat-1"))

	// A second delete no longer finds the document.
	err = s.DeleteDocument(ctx, "guide.txt", "chat-1")
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

// failingDeleteStore breaks Delete to exercise storage failure handling.
type failingDeleteStore struct {
	blob.ByteStore
}

func (f *failingDeleteStore) Delete(model.BlobRef) error {
	return errors.New("disk on fire")
}

func TestDeleteDocumentStorageFailure(t *testing.T) {
	bytes, err := blob.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	s := NewChatRAGService(
		&Config{ChunkSize: 1000, ChunkOverlap: 200, TopK: 3},
		extract.NewRegistry(),
		&failingDeleteStore{ByteStore: bytes},
		store.NewMemoryStore(),
		store.NewMemoryRegistry(),
		NewPromptCache(nil, nil),
	)
	ctx := context.Background()

	_, err = s.IngestDocument(ctx, "guide.txt", []byte("some document text"), "chat-1")
	require.NoError(t, err)

	// The error surfaces, but the indices are still reconciled.
	err = s.DeleteDocument(ctx, "guide.txt", "chat-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorage)
	assert.Empty(t, s.ListAll())
	assert.False(t, s.HasDocuments("chat-1"))
}

func TestDeleteDocumentWrongChat(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.IngestDocument(ctx, "guide.txt", []byte("some document text"), "chat-1")
	require.NoError(t, err)

	err = s.DeleteDocument(ctx, "guide.txt", "chat-2")
	assert.ErrorIs(t, err, ErrDocumentNotFound)
	assert.True(t, s.HasDocuments("chat-1"))
}

func TestClassify(t *testing.T) {
	s := newTestService(t)

	result := s.Classify("what is the latest bitcoin price")
	assert.True(t, result.WebSearch)
	assert.False(t, result.URLAnalysis)

	result = s.Classify("Please analyze the content from this page. URL: https://example.com")
	assert.False(t, result.WebSearch)
	assert.True(t, result.URLAnalysis)

	result = s.Classify("explain interfaces")
	assert.False(t, result.WebSearch)
	assert.False(t, result.URLAnalysis)
}

func TestComposePromptPassthrough(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	result, err := s.ComposePrompt(ctx, "plain question", "chat-1", "")
	require.NoError(t, err)
	assert.Equal(t, "plain question", result.Prompt)
	assert.Empty(t, result.Sources)
	assert.False(t, result.Cached)
}

func TestComposePromptWithDocuments(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.IngestDocument(ctx, "guide.txt", []byte("Goroutines are lightweight threads."), "chat-1")
	require.NoError(t, err)

	result, err := s.ComposePrompt(ctx, "goroutines", "chat-1", "")
	require.NoError(t, err)
	assert.Equal(t, []string{SourceDocuments}, result.Sources)
	assert.Contains(t, result.Prompt, "Goroutines are lightweight threads.")
}

func TestComposePromptWithWebResults(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	result, err := s.ComposePrompt(ctx, "bitcoin price", "chat-1", "BTC at 100k")
	require.NoError(t, err)
	assert.Equal(t, []string{SourceWeb}, result.Sources)
	assert.Contains(t, result.Prompt, "BTC at 100k")
}

func TestAugmentWithDocuments(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.IngestDocument(ctx, "guide.txt", []byte("Channels synchronize goroutines."), "chat-1")
	require.NoError(t, err)

	prompt := s.AugmentWithDocuments("channels", "chat-1")
	assert.True(t, strings.Contains(prompt, "Channels synchronize goroutines."))
	assert.Equal(t, "channels", s.AugmentWithDocuments("channels", "chat-2"))
}

func TestAugmentWithWeb(t *testing.T) {
	s := newTestService(t)

	assert.Equal(t, "what is go", s.AugmentWithWeb("what is go", ""))

	prompt := s.AugmentWithWeb("what is go", "Go 1.25 released.")
	assert.Contains(t, prompt, "Current Web Information:\nGo 1.25 released.")
	assert.Contains(t, prompt, "User Query: what is go")
	assert.Contains(t, prompt, "real-time data from web search")
}

func TestGetDocumentContent(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	content := []byte("stored document body")
	_, err := s.IngestDocument(ctx, "guide.txt", content, "chat-1")
	require.NoError(t, err)

	got, ref, err := s.GetDocumentContent(ctx, "guide.txt", "chat-1")
	require.NoError(t, err)
	assert.Equal(t, content, got)
	assert.Equal(t, "guide.txt", ref.Filename)

	_, _, err = s.GetDocumentContent(ctx, "missing.txt", "chat-1")
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestStats(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.IngestDocument(ctx, "guide.txt", []byte("some text"), "chat-1")
	require.NoError(t, err)

	stats := s.Stats(ctx)
	documents := stats["documents"].(map[string]interface{})
	assert.Equal(t, 1, documents["registered"])
	assert.Equal(t, 1, documents["chats"])
	assert.Equal(t, 1, documents["chat_documents"])

	cache := stats["cache"].(map[string]interface{})
	assert.Equal(t, false, cache["enabled"])

	assert.Contains(t, stats, "metrics")
}
