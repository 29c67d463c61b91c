package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/netzero-prep/netzero-quiz/internal/bank"
)

func TestGraderOutcomes(t *testing.T) {
	q := bank.Question{
		ID:      "c1-001",
		Subject: bank.SubjectOne,
		Stem:    "題目",
		Options: []bank.Option{{Label: "A", Text: "甲"}, {Label: "B", Text: "乙"}},
		Answer:  "B",
	}
	g := NewGrader()

	tests := []struct {
		name string
		resp Response
		has  bool
		want Outcome
	}{
		{name: "correct", resp: Response{Selected: "B"}, has: true, want: OutcomeCorrect},
		{name: "incorrect", resp: Response{Selected: "A"}, has: true, want: OutcomeIncorrect},
		{name: "letter outside options", resp: Response{Selected: "E"}, has: true, want: OutcomeIncorrect},
		{name: "explicit skip", resp: Response{Skipped: true}, has: true, want: OutcomeSkipped},
		{name: "never reached", has: false, want: OutcomeUnanswered},
		{name: "empty selection", resp: Response{}, has: true, want: OutcomeUnanswered},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, g.Grade(q, tc.resp, tc.has))
		})
	}
}
