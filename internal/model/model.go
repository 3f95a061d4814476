// Package model defines the domain types shared across the tutoring backend.
package model

import "time"

// Role identifies who produced a conversation turn.
type Role string

const (
	// RoleStudent marks a turn written by the student.
	RoleStudent Role = "student"
	// RoleTutor marks a turn written by the AI tutor.
	RoleTutor Role = "tutor"
)

// TimeLayout is the canonical timestamp format for stored records: UTC and
// fixed-width, so lexicographic order equals chronological order.
const TimeLayout = "2006-01-02T15:04:05.000000Z"

// FormatISO renders t in the canonical timestamp layout.
func FormatISO(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// NowISO returns the current time in the canonical timestamp layout.
func NowISO() string {
	return FormatISO(time.Now())
}

// Turn is a single message in a student's conversation log.
type Turn struct {
	Role      Role   `json:"role"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// QuestionType distinguishes the two kinds of test questions.
type QuestionType string

const (
	TypeMultipleChoice QuestionType = "multiple-choice"
	TypeShortAnswer    QuestionType = "short-answer"
)

// Subjects is the closed set of labels a generated question may carry.
// Grading accepts arbitrary labels; only generation is restricted.
var Subjects = []string{"Math", "Science", "English", "History", "General Knowledge"}

// DefaultSubject is assumed when a submitted answer carries no subject label.
const DefaultSubject = "General"

// Question is one item of a generated test. Multiple-choice questions carry
// exactly four options and an answer matching one of them; short-answer
// questions have no options and an empty answer key.
type Question struct {
	Type     QuestionType `json:"type"`
	Subject  string       `json:"subject"`
	Question string       `json:"question"`
	Options  []string     `json:"options,omitempty"`
	Answer   string       `json:"answer"`
}

// SubmittedAnswer is one item of a test submission. It carries the question's
// own answer key, so grading needs no lookup into the stored test.
type SubmittedAnswer struct {
	Type          QuestionType `json:"type"`
	Subject       string       `json:"subject"`
	Question      string       `json:"question,omitempty"`
	Options       []string     `json:"options,omitempty"`
	Answer        string       `json:"answer"`
	StudentAnswer string       `json:"studentAnswer"`
}

// SubjectScore is the per-subject grading tally. Total counts every item
// labeled with the subject; Correct counts only multiple-choice matches.
type SubjectScore struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Test is a generated test and, after submission, its grading outcome.
// Score stays nil until the test is submitted, and stays nil forever when the
// submission contains no multiple-choice items.
type Test struct {
	ID             string                   `json:"testId"`
	StudentID      string                   `json:"-"`
	CreatedAt      string                   `json:"createdAt"`
	Questions      []Question               `json:"questions"`
	Completed      bool                     `json:"completed"`
	Score          *string                  `json:"score"`
	StudentAnswers []SubmittedAnswer        `json:"studentAnswers,omitempty"`
	SubjectScores  map[string]*SubjectScore `json:"subjectScores,omitempty"`
}
