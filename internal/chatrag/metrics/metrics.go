// Package metrics collects business metrics for the chatrag service.
package metrics

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// ChatRAGMetrics holds service counters. All counters are atomic; the
// duration accumulators take a mutex because float adds are not.
type ChatRAGMetrics struct {
	// Ingestion
	documentsIngested uint64
	chunksCreated     uint64
	ingestErrors      uint64
	documentsDeleted  uint64
	deleteErrors      uint64

	// Prompt composition
	promptsComposed   uint64
	promptCacheHits   uint64
	promptCacheMisses uint64
	promptErrors      uint64
	retrievalDuration float64

	// Classification
	classifications   uint64
	webSearchRouted   uint64
	urlAnalysisRouted uint64

	startTime  time.Time
	durationMu sync.Mutex
}

var (
	globalChatRAGMetrics *ChatRAGMetrics
	chatragMetricsOnce   sync.Once
)

// GetChatRAGMetrics returns the global metrics instance.
func GetChatRAGMetrics() *ChatRAGMetrics {
	chatragMetricsOnce.Do(func() {
		globalChatRAGMetrics = &ChatRAGMetrics{
			startTime: time.Now(),
		}
	})
	return globalChatRAGMetrics
}

// RecordIngest records a document ingestion.
func (m *ChatRAGMetrics) RecordIngest(chunks int, err error) {
	if err != nil {
		atomic.AddUint64(&m.ingestErrors, 1)
		return
	}
	atomic.AddUint64(&m.documentsIngested, 1)
	atomic.AddUint64(&m.chunksCreated, uint64(chunks))
}

// RecordDelete records a document deletion.
func (m *ChatRAGMetrics) RecordDelete(err error) {
	if err != nil {
		atomic.AddUint64(&m.deleteErrors, 1)
		return
	}
	atomic.AddUint64(&m.documentsDeleted, 1)
}

// RecordPrompt records a prompt composition.
func (m *ChatRAGMetrics) RecordPrompt(cacheHit bool, duration time.Duration, err error) {
	atomic.AddUint64(&m.promptsComposed, 1)
	if err != nil {
		atomic.AddUint64(&m.promptErrors, 1)
		return
	}
	if cacheHit {
		atomic.AddUint64(&m.promptCacheHits, 1)
	} else {
		atomic.AddUint64(&m.promptCacheMisses, 1)
	}

	m.durationMu.Lock()
	m.retrievalDuration += duration.Seconds()
	m.durationMu.Unlock()
}

// RecordClassification records a query routing decision.
func (m *ChatRAGMetrics) RecordClassification(webSearch, urlAnalysis bool) {
	atomic.AddUint64(&m.classifications, 1)
	if webSearch {
		atomic.AddUint64(&m.webSearchRouted, 1)
	}
	if urlAnalysis {
		atomic.AddUint64(&m.urlAnalysisRouted, 1)
	}
}

// Export renders the metrics in Prometheus text format.
func (m *ChatRAGMetrics) Export(namespace, subsystem string) string {
	var sb strings.Builder
	prefix := namespace
	if subsystem != "" {
		prefix = prefix + "_" + subsystem
	}

	counter := func(name, help string, value uint64) {
		sb.WriteString(fmt.Sprintf("# HELP %s_%s %s\n", prefix, name, help))
		sb.WriteString(fmt.Sprintf("# TYPE %s_%s counter\n", prefix, name))
		sb.WriteString(fmt.Sprintf("%s_%s %d\n", prefix, name, value))
		sb.WriteString("\n")
	}

	counter("documents_ingested_total", "Total documents ingested.", atomic.LoadUint64(&m.documentsIngested))
	counter("chunks_created_total", "Total chunks created.", atomic.LoadUint64(&m.chunksCreated))
	counter("ingest_errors_total", "Number of ingestion errors.", atomic.LoadUint64(&m.ingestErrors))
	counter("documents_deleted_total", "Total documents deleted.", atomic.LoadUint64(&m.documentsDeleted))
	counter("delete_errors_total", "Number of deletion errors.", atomic.LoadUint64(&m.deleteErrors))

	counter("prompts_composed_total", "Total prompts composed.", atomic.LoadUint64(&m.promptsComposed))
	counter("prompt_cache_hits_total", "Number of prompt cache hits.", atomic.LoadUint64(&m.promptCacheHits))
	counter("prompt_cache_misses_total", "Number of prompt cache misses.", atomic.LoadUint64(&m.promptCacheMisses))
	counter("prompt_errors_total", "Number of prompt composition errors.", atomic.LoadUint64(&m.promptErrors))

	cacheHits := atomic.LoadUint64(&m.promptCacheHits)
	cacheMisses := atomic.LoadUint64(&m.promptCacheMisses)
	total := cacheHits + cacheMisses
	cacheHitRate := 0.0
	if total > 0 {
		cacheHitRate = float64(cacheHits) / float64(total)
	}
	sb.WriteString(fmt.Sprintf("# HELP %s_prompt_cache_hit_rate Prompt cache hit rate (0-1).\n", prefix))
	sb.WriteString(fmt.Sprintf("# TYPE %s_prompt_cache_hit_rate gauge\n", prefix))
	sb.WriteString(fmt.Sprintf("%s_prompt_cache_hit_rate %.4f\n", prefix, cacheHitRate))
	sb.WriteString("\n")

	m.durationMu.Lock()
	retrievalDuration := m.retrievalDuration
	m.durationMu.Unlock()

	sb.WriteString(fmt.Sprintf("# HELP %s_retrieval_duration_seconds_total Total retrieval duration.\n", prefix))
	sb.WriteString(fmt.Sprintf("# TYPE %s_retrieval_duration_seconds_total counter\n", prefix))
	sb.WriteString(fmt.Sprintf("%s_retrieval_duration_seconds_total %.6f\n", prefix, retrievalDuration))
	sb.WriteString("\n")

	counter("classifications_total", "Total query classifications.", atomic.LoadUint64(&m.classifications))
	counter("web_search_routed_total", "Queries routed to web search.", atomic.LoadUint64(&m.webSearchRouted))
	counter("url_analysis_routed_total", "Messages detected as URL analysis requests.", atomic.LoadUint64(&m.urlAnalysisRouted))

	uptime := time.Since(m.startTime).Seconds()
	sb.WriteString(fmt.Sprintf("# HELP %s_uptime_seconds Service uptime in seconds.\n", prefix))
	sb.WriteString(fmt.Sprintf("# TYPE %s_uptime_seconds gauge\n", prefix))
	sb.WriteString(fmt.Sprintf("%s_uptime_seconds %.2f\n", prefix, uptime))
	sb.WriteString("\n")

	return sb.String()
}

// Stats returns the current counters for the stats API.
func (m *ChatRAGMetrics) Stats() map[string]interface{} {
	m.durationMu.Lock()
	retrievalDuration := m.retrievalDuration
	m.durationMu.Unlock()

	cacheHits := atomic.LoadUint64(&m.promptCacheHits)
	cacheMisses := atomic.LoadUint64(&m.promptCacheMisses)
	cacheTotal := cacheHits + cacheMisses
	cacheHitRate := 0.0
	if cacheTotal > 0 {
		cacheHitRate = float64(cacheHits) / float64(cacheTotal)
	}

	prompts := atomic.LoadUint64(&m.promptsComposed)
	avgRetrievalDuration := 0.0
	if prompts > 0 {
		avgRetrievalDuration = retrievalDuration / float64(prompts)
	}

	return map[string]interface{}{
		"ingestion": map[string]interface{}{
			"documents_ingested": atomic.LoadUint64(&m.documentsIngested),
			"chunks_created":     atomic.LoadUint64(&m.chunksCreated),
			"errors":             atomic.LoadUint64(&m.ingestErrors),
			"documents_deleted":  atomic.LoadUint64(&m.documentsDeleted),
			"delete_errors":      atomic.LoadUint64(&m.deleteErrors),
		},
		"prompts": map[string]interface{}{
			"total":               prompts,
			"cache_hits":          cacheHits,
			"cache_misses":        cacheMisses,
			"cache_hit_rate":      cacheHitRate,
			"errors":              atomic.LoadUint64(&m.promptErrors),
			"total_duration_secs": retrievalDuration,
			"avg_duration_secs":   avgRetrievalDuration,
		},
		"classification": map[string]interface{}{
			"total":        atomic.LoadUint64(&m.classifications),
			"web_search":   atomic.LoadUint64(&m.webSearchRouted),
			"url_analysis": atomic.LoadUint64(&m.urlAnalysisRouted),
		},
		"uptime_seconds": time.Since(m.startTime).Seconds(),
	}
}

// Reset clears every counter. Test use only.
func (m *ChatRAGMetrics) Reset() {
	atomic.StoreUint64(&m.documentsIngested, 0)
	atomic.StoreUint64(&m.chunksCreated, 0)
	atomic.StoreUint64(&m.ingestErrors, 0)
	atomic.StoreUint64(&m.documentsDeleted, 0)
	atomic.StoreUint64(&m.deleteErrors, 0)
	atomic.StoreUint64(&m.promptsComposed, 0)
	atomic.StoreUint64(&m.promptCacheHits, 0)
	atomic.StoreUint64(&m.promptCacheMisses, 0)
	atomic.StoreUint64(&m.promptErrors, 0)
	atomic.StoreUint64(&m.classifications, 0)
	atomic.StoreUint64(&m.webSearchRouted, 0)
	atomic.StoreUint64(&m.urlAnalysisRouted, 0)

	m.durationMu.Lock()
	m.retrievalDuration = 0
	m.startTime = time.Now()
	m.durationMu.Unlock()
}
