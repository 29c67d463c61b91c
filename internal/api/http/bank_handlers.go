package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/netzero-prep/netzero-quiz/internal/bank"
)

func ListSubjectsHandler(holder *bank.Holder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b := holder.Get()
		writeJSON(w, map[string]interface{}{
			"total":    b.Len(),
			"subjects": b.Subjects(),
		})
	}
}

// GetQuestionHandler serves a single question for the browse/flashcard
// view. The answer and explanation stay hidden unless ?reveal=1.
func GetQuestionHandler(holder *bank.Holder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "questionID")
		q, ok := holder.Get().Get(id)
		if !ok {
			http.Error(w, "question not found", http.StatusNotFound)
			return
		}
		if r.URL.Query().Get("reveal") != "1" {
			q = q.Public()
		}
		writeJSON(w, q)
	}
}

func SearchHandler(holder *bank.Holder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		if query == "" {
			http.Error(w, "q required", http.StatusBadRequest)
			return
		}
		subject := bank.Subject(r.URL.Query().Get("subject"))
		if subject != "" && !subject.Valid() {
			http.Error(w, "unknown subject", http.StatusBadRequest)
			return
		}
		limit := intQuery(r, "limit", 20)
		hits := holder.Get().Search(query, subject, limit)
		out := make([]bank.Question, 0, len(hits))
		for _, q := range hits {
			out = append(out, q.Public())
		}
		writeJSON(w, map[string]interface{}{"count": len(out), "questions": out})
	}
}

func SimilarHandler(holder *bank.Holder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "questionID")
		b := holder.Get()
		if _, ok := b.Get(id); !ok {
			http.Error(w, "question not found", http.StatusNotFound)
			return
		}
		limit := intQuery(r, "limit", 5)
		sims := b.Similar(id, limit)
		out := make([]bank.Question, 0, len(sims))
		for _, q := range sims {
			out = append(out, q.Public())
		}
		writeJSON(w, map[string]interface{}{"question_id": id, "similar": out})
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(v)
}

func intQuery(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
