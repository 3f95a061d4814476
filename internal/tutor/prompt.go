package tutor

import (
	"strings"

	"github.com/asethi/tutorhub/internal/model"
)

// guardrails scopes the model to school tutoring before any conversation
// context is added.
const guardrails = "You are a friendly, encouraging AI tutor for students in grades 2-12. " +
	"Your job: teach, explain clearly, ask follow-up questions, encourage, and help with school subjects. " +
	"Stay strictly within educational content; do not discuss unrelated or unsafe topics. " +
	"Use simple steps, examples, and short paragraphs. When helpful, ask the student a question to check understanding.\n"

// noHistoryMarker replaces the transcript for students with no recorded
// conversation, keeping the prompt structure stable for the model.
const noHistoryMarker = "(no previous messages)\n"

// BuildPrompt renders the full model prompt from a conversation window
// (oldest first) and the student's latest message. Pure and deterministic:
// equal inputs produce byte-equal prompts.
func BuildPrompt(window []model.Turn, message string) string {
	var sb strings.Builder
	sb.WriteString(guardrails)
	sb.WriteString("Here is the recent conversation between YOU (the tutor) and the STUDENT:\n")
	transcript := formatTranscript(window)
	if strings.TrimSpace(transcript) == "" {
		sb.WriteString(noHistoryMarker)
	} else {
		sb.WriteString(transcript)
	}
	sb.WriteString("\nThe STUDENT just said:\n")
	sb.WriteString("\"" + message + "\"\n\n")
	sb.WriteString("Respond now as the tutor.")
	return sb.String()
}

// formatTranscript renders turns as "ROLE: text" lines, role uppercased.
func formatTranscript(window []model.Turn) string {
	lines := make([]string, 0, len(window))
	for _, t := range window {
		lines = append(lines, strings.ToUpper(string(t.Role))+": "+t.Text)
	}
	return strings.Join(lines, "\n")
}
