// Package testgen composes tests for students: generated from recent
// conversation history when enough of it exists, otherwise a fixed fallback
// template. Every composed test has the same shape regardless of source.
package testgen

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/asethi/tutorhub/internal/model"
)

// Generator produces model output for a prompt. Model faults are absorbed by
// the implementation, so replies may be arbitrary non-JSON text.
type Generator interface {
	Generate(ctx context.Context, prompt string) string
}

// HistoryProvider supplies a student's recent conversation, oldest first.
type HistoryProvider interface {
	History(studentID string, limit int) ([]model.Turn, error)
}

// TestStore persists composed tests.
type TestStore interface {
	CreateTest(t model.Test) error
}

// Composition policy: how much history feeds generation, and how much must
// exist before generation is attempted at all.
const (
	DefaultHistoryLimit = 20
	DefaultMinHistory   = 5
)

// Required question mix for every composed test.
const (
	mcqCount    = 10
	shortCount  = 4
	optionCount = 4
)

// Composer creates and persists tests.
type Composer struct {
	history      HistoryProvider
	gen          Generator
	store        TestStore
	historyLimit int
	minHistory   int
}

// NewComposer creates a composer with the given history window and
// generation threshold.
func NewComposer(history HistoryProvider, gen Generator, store TestStore, historyLimit, minHistory int) *Composer {
	return &Composer{
		history:      history,
		gen:          gen,
		store:        store,
		historyLimit: historyLimit,
		minHistory:   minHistory,
	}
}

// Compose builds and persists a new test for the student. The result always
// holds exactly 14 questions, 10 multiple-choice plus 4 short-answer: either
// a validated generated set or the fallback template. Only storage faults
// return an error.
func (c *Composer) Compose(ctx context.Context, studentID string) (*model.Test, error) {
	window, err := c.history.History(studentID, c.historyLimit)
	if err != nil {
		return nil, fmt.Errorf("gather history: %w", err)
	}

	questions := FallbackQuestions()
	if len(window) >= c.minHistory {
		reply := c.gen.Generate(ctx, buildTestPrompt(window))
		parsed, err := parseQuestions(reply)
		if err != nil {
			slog.Warn("test generation fell back to template", "student", studentID, "error", err)
		} else {
			questions = parsed
		}
	}

	test := model.Test{
		ID:        uuid.NewString(),
		StudentID: studentID,
		CreatedAt: model.NowISO(),
		Questions: questions,
	}
	if err := c.store.CreateTest(test); err != nil {
		return nil, fmt.Errorf("persist test: %w", err)
	}
	return &test, nil
}

// parseQuestions validates a model reply against the test schema and the
// structural rules, returning the cleaned question set.
func parseQuestions(reply string) ([]model.Question, error) {
	var parsed any
	if err := json.Unmarshal([]byte(reply), &parsed); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	schema, err := compiledTestSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}

	var envelope struct {
		Questions []model.Question `json:"questions"`
	}
	if err := json.Unmarshal([]byte(reply), &envelope); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	if err := checkStructure(envelope.Questions); err != nil {
		return nil, err
	}

	// Short-answer questions are for the student to fill in: clear any
	// answer key or stray options the model added.
	for i := range envelope.Questions {
		if envelope.Questions[i].Type == model.TypeShortAnswer {
			envelope.Questions[i].Answer = ""
			envelope.Questions[i].Options = nil
		}
	}
	return envelope.Questions, nil
}

// checkStructure enforces the rules the schema cannot express: the 10+4
// split, four options per multiple-choice question, and an answer matching
// one of them.
func checkStructure(questions []model.Question) error {
	mcq, short := 0, 0
	for i, q := range questions {
		switch q.Type {
		case model.TypeMultipleChoice:
			mcq++
			if len(q.Options) != optionCount {
				return fmt.Errorf("question %d: expected %d options, got %d", i, optionCount, len(q.Options))
			}
			if !slices.Contains(q.Options, q.Answer) {
				return fmt.Errorf("question %d: answer %q not among options", i, q.Answer)
			}
		case model.TypeShortAnswer:
			short++
		}
	}
	if mcq != mcqCount || short != shortCount {
		return fmt.Errorf("expected %d multiple-choice and %d short-answer questions, got %d and %d",
			mcqCount, shortCount, mcq, short)
	}
	return nil
}
