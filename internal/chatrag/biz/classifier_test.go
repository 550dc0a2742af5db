package biz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldTriggerWebSearch(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{"keyword trigger", "what is the latest golang release", true},
		{"weather keyword", "is it sunny in Lisbon", true},
		{"financial keyword", "bitcoin exchange rate", true},
		{"weather pattern", "weather conditions in Berlin", true},
		{"question pattern", "when did the merger happen", true},
		{"bare weather fallback", "forecast please", true},
		{"case insensitive", "LATEST news on the election", true},
		{"plain question", "explain how goroutines work", false},
		{"empty query", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.ShouldTriggerWebSearch(tt.query))
		})
	}
}

func TestDocumentKeywordsVetoWebSearch(t *testing.T) {
	c := NewClassifier()

	// These contain freshness triggers but reference uploaded material.
	assert.False(t, c.ShouldTriggerWebSearch("summarize this latest report"))
	assert.False(t, c.ShouldTriggerWebSearch("what does the document say about current prices"))
	assert.False(t, c.ShouldTriggerWebSearch("according to the file, what is the weather process"))
	assert.False(t, c.ShouldTriggerWebSearch("analyze this upload now"))
}

func TestIsURLAnalysisRequest(t *testing.T) {
	c := NewClassifier()

	assert.True(t, c.IsURLAnalysisRequest("Analyze and summarize the following content from: https://example.com"))
	assert.True(t, c.IsURLAnalysisRequest("URL: https://example.com\nTitle: Example"))
	assert.True(t, c.IsURLAnalysisRequest("please provide a comprehensive summary of the page"))
	assert.False(t, c.IsURLAnalysisRequest("what is a goroutine"))
	assert.False(t, c.IsURLAnalysisRequest(""))
}
