package testgen

import "github.com/asethi/tutorhub/internal/model"

// fallbackQuestions is the fixed test used when a student has too little
// history or the model's output fails validation.
var fallbackQuestions = []model.Question{
	{Type: model.TypeMultipleChoice, Subject: "Math", Question: "What is 5 + 3?", Options: []string{"5", "6", "7", "8"}, Answer: "8"},
	{Type: model.TypeMultipleChoice, Subject: "Math", Question: "Which number is even?", Options: []string{"3", "7", "10", "9"}, Answer: "10"},
	{Type: model.TypeMultipleChoice, Subject: "Science", Question: "Which planet is known as the Red Planet?", Options: []string{"Earth", "Mars", "Venus", "Jupiter"}, Answer: "Mars"},
	{Type: model.TypeMultipleChoice, Subject: "English", Question: "Choose the correct plural of 'child'.", Options: []string{"childs", "children", "childes", "childer"}, Answer: "children"},
	{Type: model.TypeMultipleChoice, Subject: "Math", Question: "What is 12 ÷ 4?", Options: []string{"2", "3", "4", "6"}, Answer: "3"},
	{Type: model.TypeMultipleChoice, Subject: "Science", Question: "Water boils at ___ °C.", Options: []string{"50", "100", "200", "0"}, Answer: "100"},
	{Type: model.TypeMultipleChoice, Subject: "General Knowledge", Question: "What is the capital of India?", Options: []string{"Delhi", "Mumbai", "Chennai", "Kolkata"}, Answer: "Delhi"},
	{Type: model.TypeMultipleChoice, Subject: "Math", Question: "What is the square of 9?", Options: []string{"18", "81", "27", "72"}, Answer: "81"},
	{Type: model.TypeMultipleChoice, Subject: "English", Question: "Fill in the blank: The sun ___ in the east.", Options: []string{"rise", "rises", "rising", "rose"}, Answer: "rises"},
	{Type: model.TypeMultipleChoice, Subject: "Science", Question: "Which gas do we breathe in to stay alive?", Options: []string{"Oxygen", "Carbon Dioxide", "Nitrogen", "Helium"}, Answer: "Oxygen"},
	{Type: model.TypeShortAnswer, Subject: "English", Question: "Write a sentence using the word 'school'.", Answer: ""},
	{Type: model.TypeShortAnswer, Subject: "Math", Question: "Explain how you would solve 25 ÷ 5.", Answer: ""},
	{Type: model.TypeShortAnswer, Subject: "Science", Question: "Why is the sun important for life on Earth?", Answer: ""},
	{Type: model.TypeShortAnswer, Subject: "General Knowledge", Question: "Name your favorite subject and explain why.", Answer: ""},
}

// FallbackQuestions returns a fresh deep copy of the fallback template.
func FallbackQuestions() []model.Question {
	out := make([]model.Question, len(fallbackQuestions))
	copy(out, fallbackQuestions)
	for i := range out {
		if out[i].Options != nil {
			out[i].Options = append([]string(nil), out[i].Options...)
		}
	}
	return out
}
