// internal/assistant/answer-question/suggestions.go
package answerquestion

var suggestedQuestions = []string{
	"How many employees are there in the system?",
	"What is the total number of projects?",
	"How many distinct certifications are there?",
	"List all employees with their IDs.",
	"How many certifications have failed?",
	"List all employees who need to retake their exams.",
	"Which certifications are expiring within the next 30 days?",
	"What is the current progress of each employee towards their certifications?",
	"List all certifications that were taken with a voucher.",
	"How many certifications are there for each fiscal year?",
}

// SuggestedQuestions returns a copy of the fixed example questions.
func SuggestedQuestions() []string {
	return append([]string(nil), suggestedQuestions...)
}
