package biz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kart-io/logger"

	"github.com/rigel-labs/chatrag/internal/chatrag/store"
)

// documentPromptTemplate wraps retrieved chunks around the user query.
const documentPromptTemplate = `You have access to relevant information from uploaded documents. Use this knowledge naturally in your response.

Available Context:
%s

User Query: %s

Please provide a comprehensive and helpful response:`

// scoredChunk pairs a chunk with its keyword overlap score.
type scoredChunk struct {
	text   string
	source string
	score  int
}

// Retriever ranks a chat's chunks by keyword overlap with the query and
// builds a document-grounded prompt from the best matches.
type Retriever struct {
	docs store.DocumentStore
	topK int
}

// NewRetriever creates a Retriever over the given store.
func NewRetriever(docs store.DocumentStore, topK int) *Retriever {
	return &Retriever{docs: docs, topK: topK}
}

// Augment searches the chat's documents for chunks relevant to the query
// and returns a prompt embedding the best matches. The query is returned
// unchanged when the chat has no documents or nothing matches.
func (r *Retriever) Augment(query, chatID string) string {
	if chatID == "" || !r.docs.HasChat(chatID) {
		return query
	}

	// Tokens are whitespace-split as-is; repeated words count repeatedly.
	queryWords := strings.Fields(strings.ToLower(query))
	if len(queryWords) == 0 {
		return query
	}

	var scored []scoredChunk
	for _, doc := range r.docs.Documents(chatID) {
		for _, chunk := range doc.Chunks {
			chunkLower := strings.ToLower(chunk)
			score := 0
			for _, word := range queryWords {
				if strings.Contains(chunkLower, word) {
					score++
				}
			}
			if score > 0 {
				scored = append(scored, scoredChunk{
					text:   chunk,
					source: doc.Filename,
					score:  score,
				})
			}
		}
	}

	if len(scored) == 0 {
		return query
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if len(scored) > r.topK {
		scored = scored[:r.topK]
	}

	blocks := make([]string, 0, len(scored))
	for i, sc := range scored {
		blocks = append(blocks, fmt.Sprintf("[Document Reference %d: %s]\n%s", i+1, sc.source, sc.text))
	}
	context := strings.Join(blocks, "\n\n")

	logger.Debugw("document retrieval matched chunks",
		"chat_id", chatID,
		"matched", len(scored),
	)

	return fmt.Sprintf(documentPromptTemplate, context, query)
}
