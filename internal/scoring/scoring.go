// Package scoring grades submitted answer sets.
package scoring

import (
	"fmt"

	"github.com/asethi/tutorhub/internal/model"
)

// Score grades a submitted answer set against the answer keys it carries.
//
// The aggregate counts only multiple-choice items: exact matches over total
// multiple-choice, nil when the submission has none. An empty studentAnswer
// never matches, even against an empty key. The breakdown tallies every item
// under its subject label, General when the label is empty; unrecognized
// labels get entries of their own.
func Score(answers []model.SubmittedAnswer) (*string, map[string]*model.SubjectScore) {
	breakdown := make(map[string]*model.SubjectScore)
	correct, totalMCQ := 0, 0

	for _, a := range answers {
		subject := a.Subject
		if subject == "" {
			subject = model.DefaultSubject
		}
		entry := breakdown[subject]
		if entry == nil {
			entry = &model.SubjectScore{}
			breakdown[subject] = entry
		}
		entry.Total++

		if a.Type != model.TypeMultipleChoice {
			continue
		}
		totalMCQ++
		if a.StudentAnswer != "" && a.StudentAnswer == a.Answer {
			correct++
			entry.Correct++
		}
	}

	if totalMCQ == 0 {
		return nil, breakdown
	}
	aggregate := fmt.Sprintf("%d/%d", correct, totalMCQ)
	return &aggregate, breakdown
}
