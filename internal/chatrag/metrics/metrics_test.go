package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetChatRAGMetricsIsSingleton(t *testing.T) {
	m1 := GetChatRAGMetrics()
	m2 := GetChatRAGMetrics()
	assert.Same(t, m1, m2)
}

func TestRecordIngest(t *testing.T) {
	m := GetChatRAGMetrics()
	m.Reset()

	m.RecordIngest(5, nil)
	m.RecordIngest(3, nil)
	m.RecordIngest(0, errors.New("boom"))

	stats := m.Stats()
	ingestion := stats["ingestion"].(map[string]interface{})
	assert.Equal(t, uint64(2), ingestion["documents_ingested"])
	assert.Equal(t, uint64(8), ingestion["chunks_created"])
	assert.Equal(t, uint64(1), ingestion["errors"])
}

func TestRecordDelete(t *testing.T) {
	m := GetChatRAGMetrics()
	m.Reset()

	m.RecordDelete(nil)
	m.RecordDelete(errors.New("boom"))

	stats := m.Stats()
	ingestion := stats["ingestion"].(map[string]interface{})
	assert.Equal(t, uint64(1), ingestion["documents_deleted"])
	assert.Equal(t, uint64(1), ingestion["delete_errors"])
}

func TestRecordPrompt(t *testing.T) {
	m := GetChatRAGMetrics()
	m.Reset()

	m.RecordPrompt(true, 10*time.Millisecond, nil)
	m.RecordPrompt(false, 20*time.Millisecond, nil)
	m.RecordPrompt(false, 0, errors.New("boom"))

	stats := m.Stats()
	prompts := stats["prompts"].(map[string]interface{})
	assert.Equal(t, uint64(3), prompts["total"])
	assert.Equal(t, uint64(1), prompts["cache_hits"])
	assert.Equal(t, uint64(1), prompts["cache_misses"])
	assert.Equal(t, uint64(1), prompts["errors"])
	assert.InDelta(t, 0.5, prompts["cache_hit_rate"].(float64), 0.001)
}

func TestRecordClassification(t *testing.T) {
	m := GetChatRAGMetrics()
	m.Reset()

	m.RecordClassification(true, false)
	m.RecordClassification(false, true)
	m.RecordClassification(false, false)

	stats := m.Stats()
	classification := stats["classification"].(map[string]interface{})
	assert.Equal(t, uint64(3), classification["total"])
	assert.Equal(t, uint64(1), classification["web_search"])
	assert.Equal(t, uint64(1), classification["url_analysis"])
}

func TestExportPrometheusFormat(t *testing.T) {
	m := GetChatRAGMetrics()
	m.Reset()
	m.RecordIngest(2, nil)

	out := m.Export("chatrag", "service")
	require.Contains(t, out, "# HELP chatrag_service_documents_ingested_total")
	require.Contains(t, out, "# TYPE chatrag_service_documents_ingested_total counter")
	assert.Contains(t, out, "chatrag_service_documents_ingested_total 1")
	assert.Contains(t, out, "chatrag_service_chunks_created_total 2")
	assert.Contains(t, out, "chatrag_service_uptime_seconds")
}

func TestExportWithoutSubsystem(t *testing.T) {
	m := GetChatRAGMetrics()
	m.Reset()

	out := m.Export("chatrag", "")
	assert.Contains(t, out, "chatrag_documents_ingested_total 0")
}
