package quiz

import "github.com/netzero-prep/netzero-quiz/internal/bank"

// Strategy grades one response against one question.
type Strategy interface {
	Grade(q bank.Question, resp Response) Outcome
}

// Grader routes by question kind to the right Strategy. The bank is
// single-answer MCQ today; the map leaves room for true/false items.
type Grader struct {
	strategies map[string]Strategy
}

func NewGrader() *Grader {
	return &Grader{
		strategies: map[string]Strategy{
			"mcq_single": singleChoice{},
		},
	}
}

// Grade classifies a recorded response. The has flag distinguishes
// "never reached" from an explicit skip.
func (g *Grader) Grade(q bank.Question, resp Response, has bool) Outcome {
	if !has {
		return OutcomeUnanswered
	}
	if resp.Skipped {
		return OutcomeSkipped
	}
	s, ok := g.strategies[kindOf(q)]
	if !ok {
		return OutcomeUnanswered
	}
	return s.Grade(q, resp)
}

func kindOf(q bank.Question) string { return "mcq_single" }

type singleChoice struct{}

func (singleChoice) Grade(q bank.Question, resp Response) Outcome {
	if resp.Selected == "" {
		return OutcomeUnanswered
	}
	if resp.Selected == q.Answer {
		return OutcomeCorrect
	}
	return OutcomeIncorrect
}
