// Package biz provides business logic for the chatrag service.
package biz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kart-io/logger"

	"github.com/rigel-labs/chatrag/internal/chatrag/blob"
	"github.com/rigel-labs/chatrag/internal/chatrag/extract"
	"github.com/rigel-labs/chatrag/internal/chatrag/metrics"
	"github.com/rigel-labs/chatrag/internal/chatrag/store"
	"github.com/rigel-labs/chatrag/internal/model"
	"github.com/rigel-labs/chatrag/pkg/pool"
)

// Service is the chatrag business interface.
type Service interface {
	// IngestDocument stores, extracts and chunks an uploaded file. The
	// document joins the chat's knowledge base when chatID is set and is
	// always recorded in the global registry.
	IngestDocument(ctx context.Context, filename string, content []byte, chatID string) (*model.IngestResult, error)

	// DeleteDocument removes a document from storage, the chat's knowledge
	// base and the registry.
	DeleteDocument(ctx context.Context, filename, chatID string) error

	// ListAll returns the global registry.
	ListAll() []model.DocumentInfo

	// ListChat returns the chat's documents without their chunks.
	ListChat(chatID string) []model.ChatDocumentInfo

	// HasDocuments reports whether documents exist for the chat, or
	// globally when chatID is empty.
	HasDocuments(chatID string) bool

	// AugmentWithDocuments returns a document-grounded prompt for the
	// query, or the query unchanged when nothing matches.
	AugmentWithDocuments(query, chatID string) string

	// AugmentWithWeb wraps web search results around the query, skipping
	// document context entirely. The query comes back unchanged when there
	// are no results.
	AugmentWithWeb(query, webResults string) string

	// GetDocumentContent returns the stored raw bytes of a document along
	// with its blob reference.
	GetDocumentContent(ctx context.Context, filename, chatID string) ([]byte, model.BlobRef, error)

	// Classify reports routing decisions for the query.
	Classify(query string) model.ClassifyResult

	// ComposePrompt builds the final prompt from document context and
	// optional web results, consulting the cache first.
	ComposePrompt(ctx context.Context, query, chatID, webResults string) (*model.PromptResult, error)

	// Stats reports store, cache and counter statistics.
	Stats(ctx context.Context) map[string]interface{}
}

// Config contains chatrag business configuration.
type Config struct {
	ChunkSize    int
	ChunkOverlap int
	TopK         int
}

// ChatRAGService implements Service.
type ChatRAGService struct {
	chunker    *Chunker
	classifier *Classifier
	retriever  *Retriever
	composer   *Composer
	extractor  *extract.Registry
	bytes      blob.ByteStore
	docs       store.DocumentStore
	registry   store.Registry
	cache      *PromptCache
	metrics    *metrics.ChatRAGMetrics
}

var _ Service = (*ChatRAGService)(nil)

// NewChatRAGService wires the service from its parts.
func NewChatRAGService(
	cfg *Config,
	extractor *extract.Registry,
	bytes blob.ByteStore,
	docs store.DocumentStore,
	registry store.Registry,
	cache *PromptCache,
) *ChatRAGService {
	retriever := NewRetriever(docs, cfg.TopK)
	return &ChatRAGService{
		chunker:    NewChunker(cfg.ChunkSize, cfg.ChunkOverlap),
		classifier: NewClassifier(),
		retriever:  retriever,
		composer:   NewComposer(retriever, docs),
		extractor:  extractor,
		bytes:      bytes,
		docs:       docs,
		registry:   registry,
		cache:      cache,
		metrics:    metrics.GetChatRAGMetrics(),
	}
}

// IngestDocument stores the file, extracts its text and indexes the chunks.
func (s *ChatRAGService) IngestDocument(ctx context.Context, filename string, content []byte, chatID string) (*model.IngestResult, error) {
	// Reject unsupported formats before anything is persisted.
	if !s.extractor.Supports(filename) {
		s.metrics.RecordIngest(0, ErrUnsupportedFormat)
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
	}

	ref, err := s.bytes.Save(filename, content)
	if err != nil {
		s.metrics.RecordIngest(0, err)
		return nil, fmt.Errorf("%w: save %s: %v", ErrStorage, filename, err)
	}

	text, err := s.extractor.Extract(filename, content)
	if err != nil {
		s.metrics.RecordIngest(0, err)
		return nil, fmt.Errorf("failed to extract text: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		s.metrics.RecordIngest(0, ErrNoTextExtracted)
		return nil, ErrNoTextExtracted
	}

	chunks := s.chunker.Chunk(text)
	fileID := blob.ContentHash(content)
	now := time.Now()

	if chatID != "" {
		s.docs.Add(chatID, model.ChatDocument{
			ID:         fileID,
			Filename:   ref.Filename,
			FilePath:   ref.Location,
			Chunks:     chunks,
			FullText:   text,
			UploadTime: now,
		})
	}

	// The registry records every document, chat-scoped or not.
	s.registry.Append(model.DocumentInfo{
		ID:         fileID,
		Filename:   ref.Filename,
		Blob:       ref,
		ChunkCount: len(chunks),
		UploadTime: now,
		ChatID:     chatID,
	})

	s.invalidateCacheAsync(chatID)
	s.metrics.RecordIngest(len(chunks), nil)

	logger.Infow("document ingested",
		"file_id", fileID,
		"filename", ref.Filename,
		"chat_id", chatID,
		"chunks", len(chunks),
		"size", ref.Size,
	)

	return &model.IngestResult{
		ID:         fileID,
		Filename:   ref.Filename,
		ChunkCount: len(chunks),
		Blob:       ref,
	}, nil
}

// DeleteDocument removes the document everywhere it is recorded. The chat
// index and registry are reconciled even when storage deletion fails.
func (s *ChatRAGService) DeleteDocument(ctx context.Context, filename, chatID string) error {
	info, found := s.registry.Find(filename, chatID)
	if !found {
		s.metrics.RecordDelete(ErrDocumentNotFound)
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, filename)
	}

	storageErr := s.bytes.Delete(info.Blob)

	if chatID != "" {
		s.docs.RemoveByFilename(chatID, filename)
	}
	s.registry.Remove(filename, chatID)

	s.invalidateCacheAsync(chatID)

	if storageErr != nil {
		s.metrics.RecordDelete(storageErr)
		logger.Warnw("document removed from index but storage deletion failed",
			"filename", filename,
			"chat_id", chatID,
			"error", storageErr.Error(),
		)
		return fmt.Errorf("%w: delete %s: %v", ErrStorage, filename, storageErr)
	}

	s.metrics.RecordDelete(nil)
	logger.Infow("document deleted", "filename", filename, "chat_id", chatID)
	return nil
}

// ListAll returns every registry entry.
func (s *ChatRAGService) ListAll() []model.DocumentInfo {
	return s.registry.All()
}

// ListChat returns the chat's documents as chunk-free listings.
func (s *ChatRAGService) ListChat(chatID string) []model.ChatDocumentInfo {
	docs := s.docs.Documents(chatID)
	out := make([]model.ChatDocumentInfo, 0, len(docs))
	for _, doc := range docs {
		out = append(out, model.ChatDocumentInfo{
			ID:         doc.ID,
			Filename:   doc.Filename,
			FilePath:   doc.FilePath,
			ChunkCount: len(doc.Chunks),
			UploadTime: doc.UploadTime,
		})
	}
	return out
}

// HasDocuments reports document presence for the chat, or globally when
// chatID is empty.
func (s *ChatRAGService) HasDocuments(chatID string) bool {
	if chatID == "" {
		return s.registry.Len() > 0
	}
	return s.docs.HasChat(chatID)
}

// AugmentWithDocuments returns the document-grounded prompt for the query.
func (s *ChatRAGService) AugmentWithDocuments(query, chatID string) string {
	return s.retriever.Augment(query, chatID)
}

// AugmentWithWeb wraps web search results around the query.
func (s *ChatRAGService) AugmentWithWeb(query, webResults string) string {
	return s.composer.WithWebResults(query, webResults)
}

// GetDocumentContent loads a stored document's raw bytes.
func (s *ChatRAGService) GetDocumentContent(ctx context.Context, filename, chatID string) ([]byte, model.BlobRef, error) {
	info, found := s.registry.Find(filename, chatID)
	if !found {
		return nil, model.BlobRef{}, fmt.Errorf("%w: %s", ErrDocumentNotFound, filename)
	}

	content, err := s.bytes.Load(info.Blob)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return nil, model.BlobRef{}, fmt.Errorf("%w: %s", ErrDocumentNotFound, filename)
		}
		return nil, model.BlobRef{}, fmt.Errorf("%w: load %s: %v", ErrStorage, filename, err)
	}
	return content, info.Blob, nil
}

// Classify reports routing decisions for the query.
func (s *ChatRAGService) Classify(query string) model.ClassifyResult {
	result := model.ClassifyResult{
		WebSearch:   s.classifier.ShouldTriggerWebSearch(query),
		URLAnalysis: s.classifier.IsURLAnalysisRequest(query),
	}
	s.metrics.RecordClassification(result.WebSearch, result.URLAnalysis)
	return result
}

// ComposePrompt builds the final prompt, consulting the cache first. Only
// prompts that actually picked up context are cached; passthrough queries
// are cheap to recompute.
func (s *ChatRAGService) ComposePrompt(ctx context.Context, query, chatID, webResults string) (*model.PromptResult, error) {
	start := time.Now()

	if cached, err := s.cache.Get(ctx, chatID, query); err == nil && cached != nil {
		cached.Cached = true
		s.metrics.RecordPrompt(true, time.Since(start), nil)
		return cached, nil
	}

	if err := ctx.Err(); err != nil {
		s.metrics.RecordPrompt(false, 0, err)
		return nil, err
	}

	prompt, sources := s.composer.Compose(query, chatID, webResults)
	result := &model.PromptResult{
		Prompt:  prompt,
		Sources: sources,
	}

	if prompt != query {
		if err := s.cache.Set(ctx, chatID, query, result); err != nil {
			logger.Warnw("failed to cache composed prompt", "error", err.Error(), "chat_id", chatID)
		}
	}

	s.metrics.RecordPrompt(false, time.Since(start), nil)
	return result, nil
}

// Stats reports store, cache and counter statistics.
func (s *ChatRAGService) Stats(ctx context.Context) map[string]interface{} {
	cacheStats, err := s.cache.Stats(ctx)
	if err != nil {
		cacheStats = map[string]interface{}{"error": err.Error()}
	}

	return map[string]interface{}{
		"documents": map[string]interface{}{
			"registered":     s.registry.Len(),
			"chats":          s.docs.ChatCount(),
			"chat_documents": s.docs.DocumentCount(),
		},
		"cache":   cacheStats,
		"metrics": s.metrics.Stats(),
	}
}

// invalidateCacheAsync drops the chat's cached prompts off the request
// path. Falls back to a plain goroutine when the pool rejects the task.
func (s *ChatRAGService) invalidateCacheAsync(chatID string) {
	task := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.cache.InvalidateChat(ctx, chatID); err != nil {
			logger.Warnw("failed to invalidate prompt cache", "error", err.Error(), "chat_id", chatID)
		}
	}

	if err := pool.SubmitToType(pool.BackgroundPool, task); err != nil {
		logger.Warnw("failed to submit cache invalidation to pool", "error", err.Error())
		go func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Errorw("panic during cache invalidation", "panic", r)
				}
			}()
			task()
		}()
	}
}
