// Package model provides data models for the chatrag service.
package model

import (
	"time"
)

// BlobRef describes where a document's raw bytes are stored.
type BlobRef struct {
	StorageType string    `json:"storage_type"`
	Location    string    `json:"file_path"`
	Filename    string    `json:"filename"`
	SafeName    string    `json:"safe_filename"`
	Size        int64     `json:"file_size"`
	UploadedAt  time.Time `json:"upload_time"`
}

// DocumentInfo is the registry entry for an ingested document.
type DocumentInfo struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Blob       BlobRef   `json:"file_metadata"`
	ChunkCount int       `json:"chunks"`
	UploadTime time.Time `json:"upload_time"`
	ChatID     string    `json:"chat_id,omitempty"`
}

// ChatDocument is a document held in a chat's knowledge base, chunks included.
type ChatDocument struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	FilePath   string    `json:"file_path"`
	Chunks     []string  `json:"-"`
	FullText   string    `json:"-"`
	UploadTime time.Time `json:"upload_time"`
}

// ChatDocumentInfo is the chunk-free listing view of a ChatDocument.
type ChatDocumentInfo struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	FilePath   string    `json:"file_path"`
	ChunkCount int       `json:"chunks"`
	UploadTime time.Time `json:"upload_time"`
}

// IngestResult reports the outcome of a document ingestion.
type IngestResult struct {
	ID         string  `json:"id"`
	Filename   string  `json:"filename"`
	ChunkCount int     `json:"chunks"`
	Blob       BlobRef `json:"file_metadata"`
}

// ClassifyResult reports routing decisions for a query.
type ClassifyResult struct {
	WebSearch   bool `json:"web_search"`
	URLAnalysis bool `json:"url_analysis"`
}

// PromptResult is a composed prompt along with the sources that fed it.
type PromptResult struct {
	Prompt  string   `json:"prompt"`
	Sources []string `json:"sources"`
	Cached  bool     `json:"cached"`
}

// StoredFile is the database row for the sqlite blob backend.
type StoredFile struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Hash      string    `json:"hash" gorm:"type:varchar(64);index;not null"`
	SafeName  string    `json:"safe_name" gorm:"type:varchar(512);uniqueIndex;not null"`
	Filename  string    `json:"filename" gorm:"type:varchar(255);not null"`
	Content   []byte    `json:"-" gorm:"type:blob"`
	Size      int64     `json:"size" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for StoredFile.
func (StoredFile) TableName() string {
	return "chatrag_files"
}
