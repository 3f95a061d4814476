package testgen

import (
	"strings"

	"github.com/asethi/tutorhub/internal/model"
)

// buildTestPrompt renders the generation prompt from a student's recent
// conversation window (oldest first).
func buildTestPrompt(window []model.Turn) string {
	var sb strings.Builder
	sb.WriteString("You are an AI tutor. Based on this student's recent learning:\n")
	for _, t := range window {
		sb.WriteString(strings.ToUpper(string(t.Role)) + ": " + t.Text + "\n")
	}
	sb.WriteString("\nCreate a test with:\n")
	sb.WriteString("- 10 multiple choice questions (4 options each, mark the correct answer)\n")
	sb.WriteString("- 4 short answer questions (leave 'answer' empty for the student to fill).\n")
	sb.WriteString("- Each question MUST include a \"subject\" field. Choose from: ")
	sb.WriteString(strings.Join(model.Subjects, ", "))
	sb.WriteString(".\n\nRespond ONLY in valid JSON:\n")
	sb.WriteString(`{
  "questions": [
    {
      "type": "multiple-choice",
      "subject": "Math",
      "question": "What is 2+2?",
      "options": ["2","3","4","5"],
      "answer": "4"
    },
    {
      "type": "short-answer",
      "subject": "Science",
      "question": "Explain the process of photosynthesis.",
      "answer": ""
    }
  ]
}`)
	return sb.String()
}
