package biz

import (
	"errors"

	"github.com/rigel-labs/chatrag/internal/chatrag/extract"
)

var (
	// ErrNoTextExtracted is returned when a file yields no usable text.
	ErrNoTextExtracted = errors.New("no text could be extracted from the file")

	// ErrDocumentNotFound is returned when a delete targets an unknown document.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrStorage wraps blob backend failures.
	ErrStorage = errors.New("storage operation failed")

	// ErrUnsupportedFormat is re-exported from the extract package.
	ErrUnsupportedFormat = extract.ErrUnsupportedFormat
)
