package curation

import (
    "context"
    "errors"
    "fmt"
    "strings"
    "time"

    "github.com/rs/zerolog"
    openai "github.com/sashabaranov/go-openai"
    "github.com/sony/gobreaker"

    "github.com/iliyamo/travel-marketplace/internal/model"
)

// Writer produces a short curation text for an area.
type Writer interface {
    Write(ctx context.Context, area model.Area) (string, error)
}

// NopWriter is used when no API key is configured.
type NopWriter struct{}

func (NopWriter) Write(context.Context, model.Area) (string, error) { return "", nil }

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// ErrUnavailable is returned while the breaker is open.
var ErrUnavailable = errors.New("curation writer unavailable")

// completer is the slice of the OpenAI client the writer needs.
type completer interface {
    CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIWriter asks a chat model for the text.  Calls go through a circuit
// breaker so a failing upstream is not hammered on every request.
type OpenAIWriter struct {
    client    completer
    model     string
    maxTokens int
    cb        *gobreaker.CircuitBreaker
}

// NewOpenAIWriter returns NopWriter when apiKey is empty.
func NewOpenAIWriter(apiKey, model string, log zerolog.Logger) Writer {
    if strings.TrimSpace(apiKey) == "" {
        return NopWriter{}
    }
    return newOpenAIWriter(openai.NewClient(apiKey), model, log)
}

func newOpenAIWriter(c completer, model string, log zerolog.Logger) *OpenAIWriter {
    if model == "" {
        model = DefaultModel
    }
    settings := gobreaker.Settings{
        Name:        "curation-openai",
        MaxRequests: 1,
        Interval:    60 * time.Second,
        Timeout:     30 * time.Second,
        ReadyToTrip: func(counts gobreaker.Counts) bool {
            return counts.ConsecutiveFailures >= 3
        },
        OnStateChange: func(name string, from, to gobreaker.State) {
            log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
        },
    }
    return &OpenAIWriter{
        client:    c,
        model:     model,
        maxTokens: 300,
        cb:        gobreaker.NewCircuitBreaker(settings),
    }
}

func (w *OpenAIWriter) Write(ctx context.Context, area model.Area) (string, error) {
    out, err := w.cb.Execute(func() (interface{}, error) {
        resp, err := w.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
            Model:     w.model,
            MaxTokens: w.maxTokens,
            Messages: []openai.ChatCompletionMessage{
                {Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
                {Role: openai.ChatMessageRoleUser, Content: prompt(area)},
            },
        })
        if err != nil {
            return nil, err
        }
        if len(resp.Choices) == 0 {
            return "", nil
        }
        return strings.TrimSpace(resp.Choices[0].Message.Content), nil
    })
    if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
        return "", ErrUnavailable
    }
    if err != nil {
        return "", fmt.Errorf("chat completion: %w", err)
    }
    return out.(string), nil
}

const systemPrompt = "You write two or three inviting sentences recommending a travel destination. Plain text, no lists."

func prompt(a model.Area) string {
    var b strings.Builder
    fmt.Fprintf(&b, "Destination: %s\n", a.Name)
    if a.Address != "" {
        fmt.Fprintf(&b, "Address: %s\n", a.Address)
    }
    if a.OpenTime != "" {
        fmt.Fprintf(&b, "Opening hours: %s\n", a.OpenTime)
    }
    fmt.Fprintf(&b, "Visitors last year: %d\n", a.VisitorCount)
    return b.String()
}
