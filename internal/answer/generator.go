package answer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/openai/openai-go"

	"github.com/MusaedMusaedSadeqMusaedAl-Fareh225739/rag-chatbot/internal/store"
)

// DefaultChatModel is used when no model is configured.
const DefaultChatModel = "gpt-4o-mini"

// TokenFunc receives each streamed answer fragment as it arrives.
type TokenFunc func(token string)

// StreamEvents carries the callbacks fired while answering. OnSource runs
// once per retrieved chunk before the model is called; OnToken runs for
// each completion fragment. Either may be nil.
type StreamEvents struct {
	OnSource func(chunk store.ScoredChunk)
	OnToken  TokenFunc
}

// Answer is the complete result of answering a question.
type Answer struct {
	Text    string
	Sources []string
}

// Generator answers questions by retrieving context and calling the chat
// model. Each question is sent as a single self-contained message; chat
// history is a display concern, kept out of the model calls.
type Generator struct {
	client    *openai.Client
	retriever *Retriever
	model     string
	logger    *slog.Logger
}

// NewGenerator creates an answer generator.
func NewGenerator(client *openai.Client, retriever *Retriever, model string, logger *slog.Logger) *Generator {
	if model == "" {
		model = DefaultChatModel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		client:    client,
		retriever: retriever,
		model:     model,
		logger:    logger,
	}
}

// Ask answers a question in one shot, without streaming.
func (g *Generator) Ask(ctx context.Context, question string) (*Answer, error) {
	return g.Stream(ctx, question, StreamEvents{})
}

// Stream answers a question, firing the given callbacks as retrieval and
// generation progress. The returned Answer holds the assembled full text.
func (g *Generator) Stream(ctx context.Context, question string, ev StreamEvents) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, errors.New("empty question")
	}

	chunks, err := g.retriever.Retrieve(ctx, question)
	if err != nil {
		return nil, err
	}
	if ev.OnSource != nil {
		for _, c := range chunks {
			ev.OnSource(c)
		}
	}
	onToken := ev.OnToken

	prompt := BuildPrompt(question, chunks)
	g.logger.Debug("Asking model", "model", g.model, "chunks", len(chunks))

	var text string
	var emitted bool
	operation := func() error {
		var opErr error
		if onToken != nil {
			text, opErr = g.streamCompletion(ctx, prompt, func(token string) {
				emitted = true
				onToken(token)
			})
		} else {
			text, opErr = g.completion(ctx, prompt)
		}
		// Never retry once tokens reached the caller: a restart would
		// replay the start of the answer.
		if opErr != nil && (emitted || !isRateLimitError(opErr)) {
			return backoff.Permanent(opErr)
		}
		return opErr
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = 500 * time.Millisecond
	expBackoff.MaxInterval = 10 * time.Second
	expBackoff.MaxElapsedTime = 30 * time.Second

	if err := backoff.Retry(operation, backoff.WithContext(expBackoff, ctx)); err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}

	return &Answer{Text: text, Sources: Sources(chunks)}, nil
}

func (g *Generator) completion(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: openai.ChatModel(g.model),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}

func (g *Generator) streamCompletion(ctx context.Context, prompt string, onToken TokenFunc) (string, error) {
	stream := g.client.Chat.Completions.NewStreaming(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: openai.ChatModel(g.model),
	})
	defer stream.Close()

	var b strings.Builder
	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		token := chunk.Choices[0].Delta.Content
		if token == "" {
			continue
		}
		b.WriteString(token)
		onToken(token)
	}
	if err := stream.Err(); err != nil {
		return "", err
	}
	return b.String(), nil
}

func isRateLimitError(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}
	return false
}
