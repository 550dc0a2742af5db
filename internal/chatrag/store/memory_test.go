package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rigel-labs/chatrag/internal/model"
)

func newDoc(id, filename string) model.ChatDocument {
	return model.ChatDocument{
		ID:         id,
		Filename:   filename,
		Chunks:     []string{"chunk one", "chunk two"},
		UploadTime: time.Now(),
	}
}

func TestMemoryStoreAddAndList(t *testing.T) {
	s := NewMemoryStore()

	assert.False(t, s.HasChat("chat-1"))
	assert.Nil(t, s.Documents("chat-1"))

	s.Add("chat-1", newDoc("a", "a.txt"))
	s.Add("chat-1", newDoc("b", "b.txt"))
	s.Add("chat-2", newDoc("c", "c.txt"))

	require.True(t, s.HasChat("chat-1"))
	docs := s.Documents("chat-1")
	require.Len(t, docs, 2)
	assert.Equal(t, "a.txt", docs[0].Filename)
	assert.Equal(t, "b.txt", docs[1].Filename)

	assert.Equal(t, 2, s.ChatCount())
	assert.Equal(t, 3, s.DocumentCount())
}

func TestMemoryStoreAddReplacesSameID(t *testing.T) {
	s := NewMemoryStore()
	s.Add("chat-1", newDoc("a", "old.txt"))
	s.Add("chat-1", newDoc("b", "b.txt"))

	// Same ID in the same chat replaces the record in place.
	s.Add("chat-1", newDoc("a", "new.txt"))

	docs := s.Documents("chat-1")
	require.Len(t, docs, 2)
	assert.Equal(t, "new.txt", docs[0].Filename)
	assert.Equal(t, "b.txt", docs[1].Filename)

	// A different chat keeps its own copy.
	s.Add("chat-2", newDoc("a", "old.txt"))
	assert.Equal(t, "old.txt", s.Documents("chat-2")[0].Filename)
}

func TestMemoryStoreConcurrentChats(t *testing.T) {
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			chatID := fmt.Sprintf("chat-%d", n)
			for j := 0; j < 50; j++ {
				s.Add(chatID, newDoc(fmt.Sprintf("doc-%d", j), "f.txt"))
				s.Documents(chatID)
				s.HasChat(chatID)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 8, s.ChatCount())
	assert.Equal(t, 8*50, s.DocumentCount())
}

func TestMemoryStoreDocumentsReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	s.Add("chat-1", newDoc("a", "a.txt"))

	docs := s.Documents("chat-1")
	docs[0].Filename = "mutated.txt"

	assert.Equal(t, "a.txt", s.Documents("chat-1")[0].Filename)
}

func TestMemoryStoreRemoveByFilename(t *testing.T) {
	s := NewMemoryStore()
	s.Add("chat-1", newDoc("a", "dup.txt"))
	s.Add("chat-1", newDoc("b", "dup.txt"))
	s.Add("chat-1", newDoc("c", "other.txt"))

	// Only the first match goes.
	require.True(t, s.RemoveByFilename("chat-1", "dup.txt"))
	docs := s.Documents("chat-1")
	require.Len(t, docs, 2)
	assert.Equal(t, "b", docs[0].ID)
	assert.Equal(t, "c", docs[1].ID)

	assert.False(t, s.RemoveByFilename("chat-1", "missing.txt"))
	assert.False(t, s.RemoveByFilename("no-such-chat", "dup.txt"))
}

func TestMemoryRegistry(t *testing.T) {
	r := NewMemoryRegistry()
	assert.Equal(t, 0, r.Len())

	for i := 0; i < 3; i++ {
		r.Append(model.DocumentInfo{
			ID:       fmt.Sprintf("doc-%d", i),
			Filename: "report.pdf",
			ChatID:   fmt.Sprintf("chat-%d", i%2),
		})
	}
	require.Equal(t, 3, r.Len())

	info, ok := r.Find("report.pdf", "chat-1")
	require.True(t, ok)
	assert.Equal(t, "doc-1", info.ID)

	_, ok = r.Find("report.pdf", "chat-9")
	assert.False(t, ok)

	r.Remove("report.pdf", "chat-0")
	require.Equal(t, 1, r.Len())
	assert.Equal(t, "doc-1", r.All()[0].ID)
}

func TestMemoryRegistryChatlessDocuments(t *testing.T) {
	r := NewMemoryRegistry()
	r.Append(model.DocumentInfo{ID: "g", Filename: "global.txt"})

	info, ok := r.Find("global.txt", "")
	require.True(t, ok)
	assert.Equal(t, "g", info.ID)
}
