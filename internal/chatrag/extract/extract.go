// Package extract turns uploaded files into plain text, routed by
// file extension.
package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"
)

// ErrUnsupportedFormat is returned when no extractor handles the file's
// extension.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Extractor produces plain text from raw file content.
type Extractor interface {
	// Extract returns the text content of the file.
	Extract(content []byte) (string, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(content []byte) (string, error)

// Extract calls f.
func (f ExtractorFunc) Extract(content []byte) (string, error) {
	return f(content)
}

// Registry routes files to extractors by lowercased extension.
type Registry struct {
	mu         sync.RWMutex
	extractors map[string]Extractor
}

// NewRegistry creates a registry with plain-text handling for .txt and .md
// files. PDF and DOCX extractors can be added with Register.
func NewRegistry() *Registry {
	r := &Registry{
		extractors: make(map[string]Extractor),
	}
	r.Register(".txt", ExtractorFunc(extractPlainText))
	r.Register(".md", ExtractorFunc(extractPlainText))
	return r
}

// Register installs an extractor for the given extension. The extension
// must include the leading dot and is matched case-insensitively.
func (r *Registry) Register(ext string, e Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extractors[strings.ToLower(ext)] = e
}

// Supports reports whether the filename's extension has an extractor.
func (r *Registry) Supports(filename string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.extractors[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// Extract extracts text from the file, routing by extension.
func (r *Registry) Extract(filename string, content []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	r.mu.RLock()
	e, ok := r.extractors[ext]
	r.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	return e.Extract(content)
}

func extractPlainText(content []byte) (string, error) {
	if !utf8.Valid(content) {
		return "", errors.New("file content is not valid UTF-8")
	}
	return string(content), nil
}
