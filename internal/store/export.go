package store

import (
	"fmt"

	"github.com/asethi/tutorhub/internal/model"
)

// ExportStudent builds an export-ready snapshot of one student's data:
// the full conversation log plus every generated test, both oldest first.
func (s *Store) ExportStudent(studentID string) (*model.StudentExport, error) {
	turns, err := s.AllTurns(studentID)
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}
	tests, err := s.TestsByStudent(studentID)
	if err != nil {
		return nil, fmt.Errorf("load tests: %w", err)
	}
	return &model.StudentExport{
		StudentID:    studentID,
		ExportedAt:   model.NowISO(),
		Conversation: turns,
		Tests:        tests,
	}, nil
}
