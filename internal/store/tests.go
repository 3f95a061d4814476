package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/asethi/tutorhub/internal/model"
)

// CreateTest stores a freshly generated test.
func (s *Store) CreateTest(t model.Test) error {
	questions, err := json.Marshal(t.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO tests (id, student_id, created_at, questions, completed)
		 VALUES (?, ?, ?, ?, 0)`,
		t.ID, t.StudentID, t.CreatedAt, string(questions),
	)
	return err
}

// TestByID returns one of a student's tests, or nil if no such test exists.
func (s *Store) TestByID(studentID, testID string) (*model.Test, error) {
	row := s.db.QueryRow(
		`SELECT id, student_id, created_at, questions, completed, score, student_answers, subject_scores
		 FROM tests WHERE id = ? AND student_id = ?`,
		testID, studentID,
	)
	t, err := scanTest(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// CompleteTest records a submission outcome on an existing test. Submitting
// again overwrites the previous outcome.
func (s *Store) CompleteTest(studentID, testID string, score *string, answers []model.SubmittedAnswer, breakdown map[string]*model.SubjectScore) error {
	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("marshal student answers: %w", err)
	}
	breakdownJSON, err := json.Marshal(breakdown)
	if err != nil {
		return fmt.Errorf("marshal subject scores: %w", err)
	}
	_, err = s.db.Exec(
		`UPDATE tests SET completed = 1, score = ?, student_answers = ?, subject_scores = ?
		 WHERE id = ? AND student_id = ?`,
		score, string(answersJSON), string(breakdownJSON), testID, studentID,
	)
	return err
}

// TestsByStudent returns all of a student's tests, oldest first.
func (s *Store) TestsByStudent(studentID string) ([]model.Test, error) {
	rows, err := s.db.Query(
		`SELECT id, student_id, created_at, questions, completed, score, student_answers, subject_scores
		 FROM tests WHERE student_id = ? ORDER BY created_at ASC, id ASC`,
		studentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tests []model.Test
	for rows.Next() {
		t, err := scanTest(rows)
		if err != nil {
			return nil, err
		}
		tests = append(tests, *t)
	}
	return tests, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTest(row rowScanner) (*model.Test, error) {
	var t model.Test
	var questions string
	var score, answers, breakdown sql.NullString
	if err := row.Scan(&t.ID, &t.StudentID, &t.CreatedAt, &questions, &t.Completed, &score, &answers, &breakdown); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(questions), &t.Questions); err != nil {
		return nil, fmt.Errorf("unmarshal questions: %w", err)
	}
	if score.Valid {
		t.Score = &score.String
	}
	if answers.Valid {
		if err := json.Unmarshal([]byte(answers.String), &t.StudentAnswers); err != nil {
			return nil, fmt.Errorf("unmarshal student answers: %w", err)
		}
	}
	if breakdown.Valid {
		if err := json.Unmarshal([]byte(breakdown.String), &t.SubjectScores); err != nil {
			return nil, fmt.Errorf("unmarshal subject scores: %w", err)
		}
	}
	return &t, nil
}
