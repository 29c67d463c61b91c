package http

import (
	"context"
	"log"
	"net/http"

	"github.com/netzero-prep/netzero-quiz/internal/quiz"
	"github.com/netzero-prep/netzero-quiz/internal/stats"
)

// ResultRecorder folds a submitted result into aggregate stats.
// Satisfied by *stats.Recorder; nil disables recording.
type ResultRecorder interface {
	RecordResult(ctx context.Context, res quiz.Result) error
}

// StatsProvider serves the aggregate views.
type StatsProvider interface {
	Weakest(ctx context.Context, limit int) ([]stats.QuestionStats, error)
	BySubject(ctx context.Context) ([]stats.SubjectAccuracy, error)
}

func WeakestQuestionsHandler(provider StatsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := provider.Weakest(r.Context(), intQuery(r, "limit", 10))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if out == nil {
			out = []stats.QuestionStats{}
		}
		writeJSON(w, out)
	}
}

func SubjectStatsHandler(provider StatsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := provider.BySubject(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if out == nil {
			out = []stats.SubjectAccuracy{}
		}
		writeJSON(w, out)
	}
}

func logf(format string, args ...interface{}) { log.Printf(format, args...) }
