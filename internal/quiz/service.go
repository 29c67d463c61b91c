package quiz

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/netzero-prep/netzero-quiz/internal/bank"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrAlreadySubmitted = errors.New("session already submitted")
	ErrNotSubmitted     = errors.New("session not submitted yet")
	ErrUnknownQuestion  = errors.New("question not part of session")
	ErrBadIndex         = errors.New("index out of range")
)

// Store is the session lifecycle. Implemented by the in-memory store
// below and by SQLStore.
type Store interface {
	Create(userID string, opts CreateOptions) (Session, error)
	Get(id string) (Session, error)
	RecordAnswer(sessionID, questionID, selected string) (Session, error)
	Skip(sessionID, questionID string) (Session, error)
	Seek(sessionID string, index int) (Session, error)
	Submit(sessionID string) (Result, error)
	Result(sessionID string) (Result, error)
	History(userID string, limit int) ([]Result, error)
}

type memoryStore struct {
	mu       sync.RWMutex
	holder   *bank.Holder
	policy   Policy
	grader   *Grader
	sessions map[string]Session
	results  map[string]Result
	order    []string // submitted session ids, oldest first
}

func NewInMemoryStore(holder *bank.Holder, policy Policy) Store {
	return &memoryStore{
		holder:   holder,
		policy:   policy,
		grader:   NewGrader(),
		sessions: map[string]Session{},
		results:  map[string]Result{},
	}
}

// newSession draws questions and snapshots the scoring policy; shared by
// both store implementations.
func newSession(b *bank.Bank, policy Policy, userID string, opts CreateOptions) (Session, error) {
	mode := opts.Mode
	if mode == "" {
		mode = ModePractice
	}
	if mode != ModePractice && mode != ModeExam {
		return Session{}, errors.New("unknown mode")
	}
	if opts.Subject != "" && !opts.Subject.Valid() {
		return Session{}, errors.New("unknown subject")
	}

	var qs []bank.Question
	switch mode {
	case ModeExam:
		// the real exam draws across both subjects
		qs = b.Sample(policy.ExamQuestions, "")
	default:
		count := opts.Count
		if count <= 0 {
			count = policy.PracticeDefault
		}
		qs = b.Sample(count, opts.Subject)
	}
	if len(qs) == 0 {
		return Session{}, errors.New("no questions match")
	}

	ids := make([]string, len(qs))
	for i, q := range qs {
		ids[i] = q.ID
	}
	return Session{
		ID:          uuid.NewString(),
		UserID:      userID,
		Mode:        mode,
		Subject:     opts.Subject,
		Status:      StatusInProgress,
		QuestionIDs: ids,
		Responses:   map[string]Response{},
		PointsPer:   policy.PointsPer,
		PassScore:   policy.PassScore,
		StartedAt:   time.Now().Unix(),
	}, nil
}

// deriveResult grades a finished session. Shared by both stores so the
// memory and SQL paths cannot drift.
func deriveResult(s Session, b *bank.Bank, g *Grader, now int64) Result {
	res := Result{
		SessionID:   s.ID,
		UserID:      s.UserID,
		Mode:        s.Mode,
		Subject:     s.Subject,
		MaxScore:    float64(len(s.QuestionIDs)) * s.PointsPer,
		ElapsedSec:  now - s.StartedAt,
		SubmittedAt: now,
	}
	for _, qid := range s.QuestionIDs {
		q, ok := b.Get(qid)
		if !ok {
			// bank was swapped underneath a live session; count as unanswered
			res.Unanswered++
			res.Review = append(res.Review, ReviewEntry{QuestionID: qid, Outcome: OutcomeUnanswered})
			continue
		}
		resp, has := s.Responses[qid]
		outcome := g.Grade(q, resp, has)
		switch outcome {
		case OutcomeCorrect:
			res.Correct++
			res.Score += s.PointsPer
		case OutcomeIncorrect:
			res.Incorrect++
		case OutcomeSkipped:
			res.Skipped++
		default:
			res.Unanswered++
		}
		res.Review = append(res.Review, ReviewEntry{
			QuestionID:  qid,
			Selected:    resp.Selected,
			Answer:      q.Answer,
			Outcome:     outcome,
			Explanation: q.Explanation,
		})
	}
	if s.Mode == ModeExam {
		res.Passed = res.Score >= s.PassScore
	}
	return res
}

func (m *memoryStore) Create(userID string, opts CreateOptions) (Session, error) {
	s, err := newSession(m.holder.Get(), m.policy, userID, opts)
	if err != nil {
		return Session{}, err
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s, nil
}

func (m *memoryStore) Get(id string) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return s, nil
}

func (m *memoryStore) RecordAnswer(sessionID, questionID, selected string) (Session, error) {
	return m.record(sessionID, questionID, Response{Selected: selected, AnsweredAt: time.Now().Unix()})
}

func (m *memoryStore) Skip(sessionID, questionID string) (Session, error) {
	return m.record(sessionID, questionID, Response{Skipped: true, AnsweredAt: time.Now().Unix()})
}

func (m *memoryStore) record(sessionID, questionID string, resp Response) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	s2, err := applyResponse(s, questionID, resp)
	if err != nil {
		return Session{}, err
	}
	m.sessions[sessionID] = s2
	return s2, nil
}

func (m *memoryStore) Seek(sessionID string, index int) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	if s.Status == StatusSubmitted {
		return Session{}, ErrAlreadySubmitted
	}
	if index < 0 || index >= len(s.QuestionIDs) {
		return Session{}, ErrBadIndex
	}
	s.Cursor = index
	m.sessions[sessionID] = s
	return s, nil
}

func (m *memoryStore) Submit(sessionID string) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return Result{}, ErrSessionNotFound
	}
	if s.Status == StatusSubmitted {
		// idempotent: hand back the stored result
		return m.results[sessionID], nil
	}
	now := time.Now().Unix()
	res := deriveResult(s, m.holder.Get(), m.grader, now)
	s.Status = StatusSubmitted
	s.SubmittedAt = now
	m.sessions[sessionID] = s
	m.results[sessionID] = res
	m.order = append(m.order, sessionID)
	return res, nil
}

func (m *memoryStore) Result(sessionID string) (Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.sessions[sessionID]; !ok {
		return Result{}, ErrSessionNotFound
	}
	res, ok := m.results[sessionID]
	if !ok {
		return Result{}, ErrNotSubmitted
	}
	return res, nil
}

func (m *memoryStore) History(userID string, limit int) ([]Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Result
	for i := len(m.order) - 1; i >= 0; i-- {
		res := m.results[m.order[i]]
		if res.UserID != userID {
			continue
		}
		out = append(out, res)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// applyResponse enforces the session invariants around recording; the
// returned session is a copy with the response set and cursor advanced.
func applyResponse(s Session, questionID string, resp Response) (Session, error) {
	if s.Status == StatusSubmitted {
		return Session{}, ErrAlreadySubmitted
	}
	idx := -1
	for i, qid := range s.QuestionIDs {
		if qid == questionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Session{}, ErrUnknownQuestion
	}
	if resp.Selected != "" && !validLetter(resp.Selected) {
		return Session{}, errors.New("selected must be an option letter")
	}
	responses := make(map[string]Response, len(s.Responses)+1)
	for k, v := range s.Responses {
		responses[k] = v
	}
	responses[questionID] = resp
	s.Responses = responses
	if idx == s.Cursor && s.Cursor < len(s.QuestionIDs) {
		s.Cursor++
	}
	return s, nil
}

func validLetter(sel string) bool {
	return len(sel) == 1 && sel[0] >= 'A' && sel[0] <= 'Z'
}
