// Package tutor implements the conversational tutoring flow: fetching a
// student's recent history, rendering the prompt, generating a reply through
// the gateway, and recording both sides of the exchange.
package tutor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/asethi/tutorhub/internal/model"
)

// TurnLog is the storage surface the service depends on.
type TurnLog interface {
	AppendTurn(studentID string, t model.Turn) error
	RecentTurns(studentID string, limit int) ([]model.Turn, error)
}

// Service runs the tutoring conversation flow.
type Service struct {
	log          TurnLog
	gateway      *Gateway
	historyLimit int
}

// NewService creates a tutoring service. historyLimit caps the conversation
// window rendered into chat prompts.
func NewService(log TurnLog, gateway *Gateway, historyLimit int) *Service {
	return &Service{log: log, gateway: gateway, historyLimit: historyLimit}
}

// History returns up to limit turns of a student's conversation, reordered
// oldest first so transcripts read top-down.
func (s *Service) History(studentID string, limit int) ([]model.Turn, error) {
	turns, err := s.log.RecentTurns(studentID, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	reverse(turns)
	return turns, nil
}

// Record appends one turn to a student's conversation log, stamped with the
// current time.
func (s *Service) Record(studentID string, role model.Role, text string) error {
	turn := model.Turn{Role: role, Text: text, Timestamp: model.NowISO()}
	if err := s.log.AppendTurn(studentID, turn); err != nil {
		return fmt.Errorf("record %s turn: %w", role, err)
	}
	return nil
}

// Chat runs one full tutoring exchange: the student's message is recorded,
// the recent window (which now includes that message) is rendered into a
// prompt, and the generated reply is recorded and returned. Generation
// faults come back as an apology reply; only storage faults return an error.
func (s *Service) Chat(ctx context.Context, studentID, message string) (string, error) {
	if err := s.Record(studentID, model.RoleStudent, message); err != nil {
		return "", err
	}
	window, err := s.History(studentID, s.historyLimit)
	if err != nil {
		return "", err
	}
	prompt := BuildPrompt(window, message)
	reply := s.gateway.Generate(ctx, prompt)
	if err := s.Record(studentID, model.RoleTutor, reply); err != nil {
		return "", err
	}
	slog.Debug("chat exchange complete", "student", studentID, "window", len(window))
	return reply, nil
}

func reverse(turns []model.Turn) {
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
}
