package store

import (
	"sync"

	"github.com/rigel-labs/chatrag/internal/model"
)

// chatDocs holds one chat's documents behind its own lock so unrelated
// chats never contend.
type chatDocs struct {
	mu   sync.RWMutex
	docs []model.ChatDocument
}

// MemoryStore is an in-memory DocumentStore. Documents keep their insertion
// order within each chat so retrieval stays deterministic. The store-level
// lock guards only chat map membership; each chat carries its own lock.
type MemoryStore struct {
	mu    sync.RWMutex
	chats map[string]*chatDocs
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		chats: make(map[string]*chatDocs),
	}
}

var _ DocumentStore = (*MemoryStore)(nil)

// chat returns the chat's document slot, creating it when asked to.
func (s *MemoryStore) chat(chatID string, create bool) *chatDocs {
	s.mu.RLock()
	c := s.chats[chatID]
	s.mu.RUnlock()
	if c != nil || !create {
		return c
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if c = s.chats[chatID]; c == nil {
		c = &chatDocs{}
		s.chats[chatID] = c
	}
	return c
}

// Add records a document in the chat's knowledge base. Re-adding a document
// with an ID the chat already holds replaces the earlier record in place.
func (s *MemoryStore) Add(chatID string, doc model.ChatDocument) {
	c := s.chat(chatID, true)
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.docs {
		if c.docs[i].ID == doc.ID {
			c.docs[i] = doc
			return
		}
	}
	c.docs = append(c.docs, doc)
}

// Documents returns a copy of the chat's documents in insertion order.
func (s *MemoryStore) Documents(chatID string) []model.ChatDocument {
	c := s.chat(chatID, false)
	if c == nil {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.ChatDocument, len(c.docs))
	copy(out, c.docs)
	return out
}

// HasChat reports whether the chat holds at least one document.
func (s *MemoryStore) HasChat(chatID string) bool {
	c := s.chat(chatID, false)
	if c == nil {
		return false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.docs) > 0
}

// RemoveByFilename removes the first document with the given filename.
func (s *MemoryStore) RemoveByFilename(chatID, filename string) bool {
	c := s.chat(chatID, false)
	if c == nil {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i, doc := range c.docs {
		if doc.Filename == filename {
			c.docs = append(c.docs[:i:i], c.docs[i+1:]...)
			return true
		}
	}
	return false
}

// ChatCount returns the number of chats holding documents.
func (s *MemoryStore) ChatCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, c := range s.chats {
		c.mu.RLock()
		if len(c.docs) > 0 {
			n++
		}
		c.mu.RUnlock()
	}
	return n
}

// DocumentCount returns the total number of documents across chats.
func (s *MemoryStore) DocumentCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, c := range s.chats {
		c.mu.RLock()
		n += len(c.docs)
		c.mu.RUnlock()
	}
	return n
}

// MemoryRegistry is an in-memory Registry.
type MemoryRegistry struct {
	mu   sync.RWMutex
	docs []model.DocumentInfo
}

// NewMemoryRegistry creates an empty MemoryRegistry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{}
}

var _ Registry = (*MemoryRegistry)(nil)

// Append records a document.
func (r *MemoryRegistry) Append(info model.DocumentInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs = append(r.docs, info)
}

// All returns a copy of every recorded document in insertion order.
func (r *MemoryRegistry) All() []model.DocumentInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.DocumentInfo, len(r.docs))
	copy(out, r.docs)
	return out
}

// Find returns the first document matching filename and chat ID.
func (r *MemoryRegistry) Find(filename, chatID string) (model.DocumentInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, doc := range r.docs {
		if doc.Filename == filename && doc.ChatID == chatID {
			return doc, true
		}
	}
	return model.DocumentInfo{}, false
}

// Remove deletes every document matching filename and chat ID.
func (r *MemoryRegistry) Remove(filename, chatID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.docs[:0]
	for _, doc := range r.docs {
		if doc.Filename == filename && doc.ChatID == chatID {
			continue
		}
		kept = append(kept, doc)
	}
	r.docs = kept
}

// Len returns the number of recorded documents.
func (r *MemoryRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.docs)
}
