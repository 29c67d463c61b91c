package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/netzero-prep/netzero-quiz/internal/auth"
	"github.com/netzero-prep/netzero-quiz/internal/bank"
	"github.com/netzero-prep/netzero-quiz/internal/quiz"
)

// sessionView is what the client sees mid-session: progress plus the
// question under the cursor, with the answer key stripped.
type sessionView struct {
	quiz.Session
	Total    int            `json:"total"`
	Answered int            `json:"answered"`
	Current  *bank.Question `json:"current,omitempty"`
}

func newSessionView(s quiz.Session, b *bank.Bank) sessionView {
	v := sessionView{Session: s, Total: len(s.QuestionIDs), Answered: len(s.Responses)}
	if s.Status == quiz.StatusInProgress && s.Cursor < len(s.QuestionIDs) {
		if q, ok := b.Get(s.QuestionIDs[s.Cursor]); ok {
			pub := q.Public()
			v.Current = &pub
		}
	}
	return v
}

func CreateSessionHandler(store quiz.Store, holder *bank.Holder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var opts quiz.CreateOptions
		if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		s, err := store.Create(auth.SubjectFromContext(r.Context()), opts)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, newSessionView(s, holder.Get()))
	}
}

func GetSessionHandler(store quiz.Store, holder *bank.Holder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := ownedSession(w, r, store)
		if !ok {
			return
		}
		writeJSON(w, newSessionView(s, holder.Get()))
	}
}

func AnswerHandler(store quiz.Store, holder *bank.Holder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ownedSession(w, r, store); !ok {
			return
		}
		var req struct {
			QuestionID string `json:"question_id"`
			Selected   string `json:"selected"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.QuestionID == "" || req.Selected == "" {
			http.Error(w, "question_id and selected required", http.StatusBadRequest)
			return
		}
		s, err := store.RecordAnswer(chi.URLParam(r, "sessionID"), req.QuestionID, req.Selected)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, newSessionView(s, holder.Get()))
	}
}

func SkipHandler(store quiz.Store, holder *bank.Holder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ownedSession(w, r, store); !ok {
			return
		}
		var req struct {
			QuestionID string `json:"question_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		s, err := store.Skip(chi.URLParam(r, "sessionID"), req.QuestionID)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, newSessionView(s, holder.Get()))
	}
}

func SeekHandler(store quiz.Store, holder *bank.Holder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ownedSession(w, r, store); !ok {
			return
		}
		var req struct {
			Index int `json:"index"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		s, err := store.Seek(chi.URLParam(r, "sessionID"), req.Index)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, newSessionView(s, holder.Get()))
	}
}

// SubmitHandler finishes the session and returns the result summary.
// The recorder, when present, folds outcomes into question stats.
func SubmitHandler(store quiz.Store, recorder ResultRecorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ownedSession(w, r, store); !ok {
			return
		}
		res, err := store.Submit(chi.URLParam(r, "sessionID"))
		if err != nil {
			writeStoreError(w, err)
			return
		}
		if recorder != nil {
			if rerr := recorder.RecordResult(r.Context(), res); rerr != nil {
				// stats are best-effort; the result still stands
				logf("stats record failed: %v", rerr)
			}
		}
		writeJSON(w, res)
	}
}

func ResultHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ownedSession(w, r, store); !ok {
			return
		}
		res, err := store.Result(chi.URLParam(r, "sessionID"))
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, res)
	}
}

func HistoryHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := intQuery(r, "limit", 20)
		out, err := store.History(auth.SubjectFromContext(r.Context()), limit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if out == nil {
			out = []quiz.Result{}
		}
		writeJSON(w, out)
	}
}

// ownedSession loads the session and hides other guests' sessions behind
// a 404.
func ownedSession(w http.ResponseWriter, r *http.Request, store quiz.Store) (quiz.Session, bool) {
	s, err := store.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeStoreError(w, err)
		return quiz.Session{}, false
	}
	if s.UserID != auth.SubjectFromContext(r.Context()) {
		http.Error(w, "session not found", http.StatusNotFound)
		return quiz.Session{}, false
	}
	return s, true
}

func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, quiz.ErrSessionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, quiz.ErrAlreadySubmitted):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, quiz.ErrNotSubmitted),
		errors.Is(err, quiz.ErrUnknownQuestion),
		errors.Is(err, quiz.ErrBadIndex):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}
