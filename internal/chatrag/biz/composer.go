package biz

import (
	"fmt"
	"strings"

	"github.com/rigel-labs/chatrag/internal/chatrag/store"
)

// Source labels reported alongside composed prompts.
const (
	SourceDocuments = "Document Knowledge Base"
	SourceWeb       = "Current Web Information"
)

// webPromptTemplate wraps web search results around the user query.
const webPromptTemplate = `You have access to current web search results. Use this information to provide an up-to-date and comprehensive response.

Current Web Information:
%s

User Query: %s

Please provide a comprehensive response using the latest information available. Note: This response includes real-time data from web search (🤖 Agent Response).

Please provide your response:`

// combinedPromptHeader opens a prompt that merges several sources.
const combinedPromptHeader = "You have access to multiple information sources. Use all available information to provide a comprehensive response.\n\n"

// combinedPromptFooter closes a merged prompt with the user query.
const combinedPromptFooter = `User Query: %s

Note: This response combines document analysis with real-time web data (🤖 Agent Response).

Please provide a comprehensive response using all available sources:`

// Composer builds the final prompt from whichever sources apply to the
// query: the chat's documents, web search results, or both.
type Composer struct {
	retriever *Retriever
	docs      store.DocumentStore
}

// NewComposer creates a Composer.
func NewComposer(retriever *Retriever, docs store.DocumentStore) *Composer {
	return &Composer{retriever: retriever, docs: docs}
}

// WithWebResults wraps web search results around the query. The query is
// returned unchanged when there are no results.
func (c *Composer) WithWebResults(query, webResults string) string {
	if webResults == "" {
		return query
	}
	return fmt.Sprintf(webPromptTemplate, webResults, query)
}

// Compose merges the chat's document context and web results into a single
// prompt and reports which sources contributed. With no usable source the
// query comes back unchanged.
func (c *Composer) Compose(query, chatID, webResults string) (string, []string) {
	var sources []string

	documentContext := ""
	if chatID != "" && c.docs.HasChat(chatID) {
		documentContext = c.retriever.Augment(query, chatID)
		if documentContext != query {
			sources = append(sources, SourceDocuments)
		}
	}

	if webResults != "" {
		sources = append(sources, SourceWeb)
	}

	if len(sources) == 0 {
		return query, nil
	}

	var b strings.Builder
	b.WriteString(combinedPromptHeader)

	if documentContext != "" && documentContext != query {
		b.WriteString("Document Context:\n")
		b.WriteString(documentContext)
		b.WriteString("\n\n")
	}

	if webResults != "" {
		b.WriteString("Current Web Information:\n")
		b.WriteString(webResults)
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, combinedPromptFooter, query)

	return b.String(), sources
}
