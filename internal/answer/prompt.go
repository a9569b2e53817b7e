package answer

import (
	"fmt"
	"strings"

	"github.com/MusaedMusaedSadeqMusaedAl-Fareh225739/rag-chatbot/internal/store"
)

// NoAnswerReply is the exact sentence the model is told to use when the
// retrieved context does not contain the answer.
const NoAnswerReply = "I don't have that information in my documents."

const promptTemplate = `You are a helpful assistant answering questions about a set of documents.

Use ONLY the context below to answer. If the context does not contain the answer, reply exactly: "%s" Do not invent information.

Context:
%s

Question: %s

Answer:`

// BuildPrompt assembles the single user message sent to the chat model.
// Each chunk is labeled with its source file so answers can cite it.
func BuildPrompt(question string, chunks []store.ScoredChunk) string {
	var b strings.Builder
	for i, sc := range chunks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[Source: %s]\n", sc.Chunk.Source)
		if sc.Chunk.Section != "" {
			fmt.Fprintf(&b, "[Section: %s]\n", sc.Chunk.Section)
		}
		b.WriteString(sc.Chunk.Text)
	}
	context := b.String()
	if context == "" {
		context = "(no matching documents found)"
	}
	return fmt.Sprintf(promptTemplate, NoAnswerReply, context, question)
}

// Sources returns the distinct source files behind the chunks, in rank
// order.
func Sources(chunks []store.ScoredChunk) []string {
	seen := make(map[string]bool, len(chunks))
	var out []string
	for _, sc := range chunks {
		if !seen[sc.Chunk.Source] {
			seen[sc.Chunk.Source] = true
			out = append(out, sc.Chunk.Source)
		}
	}
	return out
}
