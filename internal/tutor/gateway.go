package tutor

import (
	"context"
	"log/slog"
	"strings"

	"github.com/asethi/tutorhub/internal/i18n"
)

// Completer is the LLM surface the gateway depends on.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int, temperature float32) (string, error)
}

// Reply sampling policy: concise replies, moderately creative wording.
const (
	maxReplyTokens   = 220
	replyTemperature = 0.6
)

// Gateway turns prompts into tutor replies. It never fails: model faults are
// absorbed into a localized apology string instead of an error.
type Gateway struct {
	llm Completer
}

// NewGateway creates a gateway over the given completer.
func NewGateway(llm Completer) *Gateway {
	return &Gateway{llm: llm}
}

// Generate produces a reply for the prompt. On any model fault it returns an
// apology embedding the fault description.
func (g *Gateway) Generate(ctx context.Context, prompt string) string {
	text, err := g.llm.Complete(ctx, prompt, maxReplyTokens, replyTemperature)
	if err != nil {
		slog.Warn("reply generation failed", "error", err)
		return i18n.Td(ctx, "GenerationApology", map[string]any{"Error": err.Error()})
	}
	return normalizeReply(text)
}

// normalizeReply trims surrounding whitespace and collapses triple newlines
// into paragraph breaks.
func normalizeReply(text string) string {
	text = strings.TrimSpace(text)
	text = strings.ReplaceAll(text, "\n\n\n", "\n\n")
	return strings.TrimSpace(text)
}
