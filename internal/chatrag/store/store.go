// Package store holds chat-scoped document chunks and the global
// document registry.
package store

import (
	"github.com/rigel-labs/chatrag/internal/model"
)

// DocumentStore is the chat-scoped knowledge base.
type DocumentStore interface {
	// Add records a document in the chat's knowledge base, creating the
	// chat entry on first use. A document ID already held by the chat is
	// replaced in place.
	Add(chatID string, doc model.ChatDocument)

	// Documents returns the chat's documents in insertion order.
	Documents(chatID string) []model.ChatDocument

	// HasChat reports whether the chat holds at least one document.
	HasChat(chatID string) bool

	// RemoveByFilename removes the first document with the given filename
	// from the chat. It reports whether a document was removed.
	RemoveByFilename(chatID, filename string) bool

	// ChatCount returns the number of chats with documents.
	ChatCount() int

	// DocumentCount returns the total number of documents across chats.
	DocumentCount() int
}

// Registry is the global document metadata index. Every ingested document
// is recorded here regardless of chat scoping.
type Registry interface {
	// Append records a document.
	Append(info model.DocumentInfo)

	// All returns every recorded document in insertion order.
	All() []model.DocumentInfo

	// Find returns the first document matching filename and chat ID.
	Find(filename, chatID string) (model.DocumentInfo, bool)

	// Remove deletes every document matching filename and chat ID.
	Remove(filename, chatID string)

	// Len returns the number of recorded documents.
	Len() int
}
