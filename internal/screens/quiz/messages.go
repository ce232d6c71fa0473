package quiz

import "github.com/abhisek/quizrunner/internal/explain"

// imageOpenedMsg reports the result of opening the sidecar image.
type imageOpenedMsg struct {
	Err error
}

// explanationMsg carries an explanation for the question with QuestionID.
type explanationMsg struct {
	QuestionID  string
	Explanation *explain.Explanation
	Err         error
}
