package biz

import (
	"regexp"
	"strings"
)

// noSearchKeywords mark queries about uploaded documents. They veto web
// search regardless of any trigger below.
var noSearchKeywords = []string{
	"document", "file", "upload", "analyze this", "summarize this",
	"from the document", "in the pdf", "according to the file",
}

// searchTriggers are keywords suggesting the query needs fresh data.
var searchTriggers = []string{
	// Time-sensitive queries
	"latest", "recent", "current", "today", "now", "this week",
	"this month", "yesterday", "breaking", "update", "news",
	"new", "fresh", "live",

	// Weather queries
	"weather", "temperature", "forecast", "climate", "rain",
	"sunny", "cloudy", "humidity", "wind", "storm", "hot",
	"cold", "degrees",

	// Financial queries
	"stock price", "exchange rate", "cryptocurrency", "bitcoin",
	"price", "market", "cost",

	// Events and trends
	"trending", "viral", "popular", "happening", "events",
	"breaking news",

	// Question phrasings that imply freshness
	"what is the current", "how much does", "when did",
	"who is currently", "where is now", "what happened today",
	"tell me the current",
}

var weatherPatterns = []*regexp.Regexp{
	regexp.MustCompile(`weather.*in.*`),
	regexp.MustCompile(`temperature.*in.*`),
	regexp.MustCompile(`how.*hot.*today`),
	regexp.MustCompile(`how.*cold.*today`),
	regexp.MustCompile(`rain.*today`),
	regexp.MustCompile(`forecast.*for.*`),
	regexp.MustCompile(`climate.*in.*`),
}

var questionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`what.*is.*price`),
	regexp.MustCompile(`how.*much.*cost`),
	regexp.MustCompile(`when.*did.*happen`),
	regexp.MustCompile(`who.*is.*currently`),
	regexp.MustCompile(`where.*is.*now`),
	regexp.MustCompile(`what.*happened.*today`),
	regexp.MustCompile(`latest.*on`),
	regexp.MustCompile(`current.*weather`),
	regexp.MustCompile(`tell.*me.*current`),
	regexp.MustCompile(`what.*is.*the.*current`),
}

// weatherKeywords catch bare weather queries the patterns above miss.
var weatherKeywords = []string{"weather", "temperature", "forecast", "climate"}

// urlIndicators mark messages produced by URL content extraction flows.
var urlIndicators = []string{
	"analyze and summarize the following content from:",
	"please analyze",
	"content summary:",
	"url:",
	"title:",
	"please provide a comprehensive summary",
}

// Classifier routes queries between document knowledge, web search and
// URL analysis handling. Purely keyword and pattern based.
type Classifier struct{}

// NewClassifier creates a Classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// ShouldTriggerWebSearch reports whether the query needs current
// information from the web. Document-scoped queries always answer false.
func (c *Classifier) ShouldTriggerWebSearch(query string) bool {
	queryLower := strings.ToLower(query)

	// Document intent wins over every freshness signal.
	for _, kw := range noSearchKeywords {
		if strings.Contains(queryLower, kw) {
			return false
		}
	}

	for _, trigger := range searchTriggers {
		if strings.Contains(queryLower, trigger) {
			return true
		}
	}

	for _, pattern := range weatherPatterns {
		if pattern.MatchString(queryLower) {
			return true
		}
	}

	for _, pattern := range questionPatterns {
		if pattern.MatchString(queryLower) {
			return true
		}
	}

	for _, kw := range weatherKeywords {
		if strings.Contains(queryLower, kw) {
			return true
		}
	}

	return false
}

// IsURLAnalysisRequest reports whether the message came from a URL
// content extraction flow rather than a direct user question.
func (c *Classifier) IsURLAnalysisRequest(message string) bool {
	messageLower := strings.ToLower(message)
	for _, ind := range urlIndicators {
		if strings.Contains(messageLower, ind) {
			return true
		}
	}
	return false
}
