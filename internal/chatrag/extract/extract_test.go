package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryPlainText(t *testing.T) {
	r := NewRegistry()

	text, err := r.Extract("notes.txt", []byte("hello world"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)

	text, err = r.Extract("README.md", []byte("# heading"))
	require.NoError(t, err)
	assert.Equal(t, "# heading", text)
}

func TestRegistryExtensionCaseInsensitive(t *testing.T) {
	r := NewRegistry()

	text, err := r.Extract("NOTES.TXT", []byte("upper case extension"))
	require.NoError(t, err)
	assert.Equal(t, "upper case extension", text)
}

func TestRegistryUnsupportedFormat(t *testing.T) {
	r := NewRegistry()

	_, err := r.Extract("image.png", []byte{0x89, 0x50})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	assert.False(t, r.Supports("archive.zip"))
	assert.True(t, r.Supports("doc.txt"))
}

func TestRegistryInvalidUTF8(t *testing.T) {
	r := NewRegistry()

	_, err := r.Extract("broken.txt", []byte{0xff, 0xfe, 0xfd})
	require.Error(t, err)
}

func TestRegistryCustomExtractor(t *testing.T) {
	r := NewRegistry()
	r.Register(".pdf", ExtractorFunc(func(content []byte) (string, error) {
		return "extracted pdf text", nil
	}))

	require.True(t, r.Supports("report.pdf"))
	text, err := r.Extract("report.pdf", []byte("%PDF-1.7"))
	require.NoError(t, err)
	assert.Equal(t, "extracted pdf text", text)
}
