package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netzero-prep/netzero-quiz/internal/bank"
)

func testHolder(t *testing.T) *bank.Holder {
	t.Helper()
	mk := func(id string) bank.Question {
		return bank.Question{
			ID:      id,
			Subject: bank.SubjectOf(id),
			Stem:    "題目 " + id,
			Options: []bank.Option{
				{Label: "A", Text: "甲"}, {Label: "B", Text: "乙"},
				{Label: "C", Text: "丙"}, {Label: "D", Text: "丁"},
			},
			Answer:      "A",
			Explanation: "解析 " + id,
		}
	}
	b, err := bank.New([]bank.Question{
		mk("c1-001"), mk("c1-002"), mk("c1-003"),
		mk("c2-001"), mk("c2-002"),
	})
	require.NoError(t, err)
	return bank.NewHolder(b)
}

func testPolicy() Policy {
	return Policy{ExamQuestions: 4, PointsPer: 2, PassScore: 6, PracticeDefault: 3}
}

func TestCreateSession(t *testing.T) {
	store := NewInMemoryStore(testHolder(t), testPolicy())

	t.Run("practice with explicit count and subject", func(t *testing.T) {
		s, err := store.Create("guest|a", CreateOptions{Mode: ModePractice, Subject: bank.SubjectOne, Count: 2})
		require.NoError(t, err)
		assert.Len(t, s.QuestionIDs, 2)
		assert.Equal(t, StatusInProgress, s.Status)
		assert.Equal(t, 0, s.Cursor)
		for _, qid := range s.QuestionIDs {
			assert.Equal(t, bank.SubjectOne, bank.SubjectOf(qid))
		}
	})

	t.Run("practice defaults", func(t *testing.T) {
		s, err := store.Create("guest|a", CreateOptions{})
		require.NoError(t, err)
		assert.Equal(t, ModePractice, s.Mode)
		assert.Len(t, s.QuestionIDs, 3, "falls back to PracticeDefault")
	})

	t.Run("exam draws per policy across subjects", func(t *testing.T) {
		s, err := store.Create("guest|a", CreateOptions{Mode: ModeExam})
		require.NoError(t, err)
		assert.Len(t, s.QuestionIDs, 4)
		assert.Equal(t, 2.0, s.PointsPer)
		assert.Equal(t, 6.0, s.PassScore)
	})

	t.Run("count clamps to pool", func(t *testing.T) {
		s, err := store.Create("guest|a", CreateOptions{Subject: bank.SubjectTwo, Count: 50})
		require.NoError(t, err)
		assert.Len(t, s.QuestionIDs, 2)
	})

	t.Run("bad inputs", func(t *testing.T) {
		_, err := store.Create("guest|a", CreateOptions{Mode: "speedrun"})
		assert.Error(t, err)
		_, err = store.Create("guest|a", CreateOptions{Subject: bank.Subject("c9")})
		assert.Error(t, err)
	})
}

func TestSessionLifecycle(t *testing.T) {
	store := NewInMemoryStore(testHolder(t), testPolicy())
	s, err := store.Create("guest|a", CreateOptions{Count: 3})
	require.NoError(t, err)

	q0, q1, q2 := s.QuestionIDs[0], s.QuestionIDs[1], s.QuestionIDs[2]

	// answering the question under the cursor advances it
	s, err = store.RecordAnswer(s.ID, q0, "A")
	require.NoError(t, err)
	assert.Equal(t, 1, s.Cursor)

	s, err = store.Skip(s.ID, q1)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Cursor)
	assert.True(t, s.Responses[q1].Skipped)

	// answers may be changed before submit
	s, err = store.Seek(s.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Cursor)
	s, err = store.RecordAnswer(s.ID, q0, "B")
	require.NoError(t, err)
	assert.Equal(t, "B", s.Responses[q0].Selected)

	res, err := store.Submit(s.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Correct, "changed answer B is wrong")
	assert.Equal(t, 1, res.Incorrect)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 1, res.Unanswered, "q2 never reached")
	assert.Equal(t, 0.0, res.Score)
	assert.Equal(t, 6.0, res.MaxScore)
	require.Len(t, res.Review, 3)
	assert.Equal(t, OutcomeUnanswered, reviewFor(t, res, q2).Outcome)
	assert.Equal(t, "A", reviewFor(t, res, q0).Answer)
	assert.NotEmpty(t, reviewFor(t, res, q0).Explanation)

	// session is terminal now
	_, err = store.RecordAnswer(s.ID, q0, "A")
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	_, err = store.Seek(s.ID, 1)
	assert.ErrorIs(t, err, ErrAlreadySubmitted)

	// submit is idempotent
	res2, err := store.Submit(s.ID)
	require.NoError(t, err)
	assert.Equal(t, res.SubmittedAt, res2.SubmittedAt)
	assert.Equal(t, res.Score, res2.Score)
}

func TestScoringAndPassLine(t *testing.T) {
	store := NewInMemoryStore(testHolder(t), testPolicy())
	s, err := store.Create("guest|a", CreateOptions{Mode: ModeExam})
	require.NoError(t, err)

	// all answers correct: 4 × 2 points ≥ pass score 6
	for _, qid := range s.QuestionIDs {
		_, err := store.RecordAnswer(s.ID, qid, "A")
		require.NoError(t, err)
	}
	res, err := store.Submit(s.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Correct)
	assert.Equal(t, 8.0, res.Score)
	assert.True(t, res.Passed)
}

func TestPracticeNeverPasses(t *testing.T) {
	store := NewInMemoryStore(testHolder(t), testPolicy())
	s, err := store.Create("guest|a", CreateOptions{Count: 3})
	require.NoError(t, err)
	for _, qid := range s.QuestionIDs {
		_, err := store.RecordAnswer(s.ID, qid, "A")
		require.NoError(t, err)
	}
	res, err := store.Submit(s.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Correct)
	assert.False(t, res.Passed, "pass line only applies to exam mode")
}

func TestRecordAnswerValidation(t *testing.T) {
	store := NewInMemoryStore(testHolder(t), testPolicy())
	s, err := store.Create("guest|a", CreateOptions{Count: 2})
	require.NoError(t, err)

	_, err = store.RecordAnswer(s.ID, "c9-999", "A")
	assert.ErrorIs(t, err, ErrUnknownQuestion)

	_, err = store.RecordAnswer(s.ID, s.QuestionIDs[0], "not-a-letter")
	assert.Error(t, err)

	_, err = store.RecordAnswer("nope", s.QuestionIDs[0], "A")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = store.Seek(s.ID, 99)
	assert.ErrorIs(t, err, ErrBadIndex)
	_, err = store.Seek(s.ID, -1)
	assert.ErrorIs(t, err, ErrBadIndex)
}

func TestResultBeforeSubmit(t *testing.T) {
	store := NewInMemoryStore(testHolder(t), testPolicy())
	s, err := store.Create("guest|a", CreateOptions{Count: 2})
	require.NoError(t, err)

	_, err = store.Result(s.ID)
	assert.ErrorIs(t, err, ErrNotSubmitted)
	_, err = store.Result("nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestHistory(t *testing.T) {
	store := NewInMemoryStore(testHolder(t), testPolicy())

	submit := func(user string) Result {
		s, err := store.Create(user, CreateOptions{Count: 1})
		require.NoError(t, err)
		res, err := store.Submit(s.ID)
		require.NoError(t, err)
		return res
	}

	first := submit("guest|a")
	second := submit("guest|a")
	submit("guest|b")

	out, err := store.History("guest|a", 0)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, second.SessionID, out[0].SessionID, "newest first")
	assert.Equal(t, first.SessionID, out[1].SessionID)

	out, err = store.History("guest|a", 1)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, second.SessionID, out[0].SessionID)

	out, err = store.History("guest|c", 0)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func reviewFor(t *testing.T, res Result, qid string) ReviewEntry {
	t.Helper()
	for _, e := range res.Review {
		if e.QuestionID == qid {
			return e
		}
	}
	t.Fatalf("no review entry for %s", qid)
	return ReviewEntry{}
}
