package quiz

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/netzero-prep/netzero-quiz/internal/bank"
)

// SQLStore persists sessions and results in sqlite or postgres. Question
// id lists and responses ride in JSON columns, like the rest of the
// dataset, so the schema stays driver-portable.
type SQLStore struct {
	db     *sql.DB
	holder *bank.Holder
	policy Policy
	grader *Grader
}

func NewSQLStore(db *sql.DB, holder *bank.Holder, policy Policy) *SQLStore {
	return &SQLStore{db: db, holder: holder, policy: policy, grader: NewGrader()}
}

func (s *SQLStore) Create(userID string, opts CreateOptions) (Session, error) {
	sess, err := newSession(s.holder.Get(), s.policy, userID, opts)
	if err != nil {
		return Session{}, err
	}
	qids, _ := json.Marshal(sess.QuestionIDs)
	resps, _ := json.Marshal(sess.Responses)
	_, err = s.db.Exec(`INSERT INTO sessions
		(id,user_id,mode,subject,status,question_ids_json,responses_json,cursor,points_per,pass_score,started_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		sess.ID, sess.UserID, string(sess.Mode), string(sess.Subject), string(sess.Status),
		string(qids), string(resps), sess.Cursor, sess.PointsPer, sess.PassScore, sess.StartedAt)
	if err != nil {
		return Session{}, err
	}
	return sess, nil
}

func (s *SQLStore) Get(id string) (Session, error) {
	row := s.db.QueryRow(`SELECT id,user_id,mode,subject,status,question_ids_json,responses_json,cursor,points_per,pass_score,started_at,submitted_at
		FROM sessions WHERE id=$1`, id)
	return scanSession(row)
}

func scanSession(row *sql.Row) (Session, error) {
	var (
		sess          Session
		mode, subject string
		status        string
		qids, resps   string
		submittedAt   sql.NullInt64
	)
	err := row.Scan(&sess.ID, &sess.UserID, &mode, &subject, &status, &qids, &resps,
		&sess.Cursor, &sess.PointsPer, &sess.PassScore, &sess.StartedAt, &submittedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, ErrSessionNotFound
		}
		return Session{}, err
	}
	sess.Mode = Mode(mode)
	sess.Subject = bank.Subject(subject)
	sess.Status = Status(status)
	if err := json.Unmarshal([]byte(qids), &sess.QuestionIDs); err != nil {
		return Session{}, err
	}
	if err := json.Unmarshal([]byte(resps), &sess.Responses); err != nil {
		sess.Responses = map[string]Response{}
	}
	if submittedAt.Valid {
		sess.SubmittedAt = submittedAt.Int64
	}
	return sess, nil
}

func (s *SQLStore) RecordAnswer(sessionID, questionID, selected string) (Session, error) {
	return s.record(sessionID, questionID, Response{Selected: selected, AnsweredAt: time.Now().Unix()})
}

func (s *SQLStore) Skip(sessionID, questionID string) (Session, error) {
	return s.record(sessionID, questionID, Response{Skipped: true, AnsweredAt: time.Now().Unix()})
}

func (s *SQLStore) record(sessionID, questionID string, resp Response) (Session, error) {
	sess, err := s.Get(sessionID)
	if err != nil {
		return Session{}, err
	}
	sess2, err := applyResponse(sess, questionID, resp)
	if err != nil {
		return Session{}, err
	}
	buf, _ := json.Marshal(sess2.Responses)
	_, err = s.db.Exec(`UPDATE sessions SET responses_json=$1, cursor=$2 WHERE id=$3`,
		string(buf), sess2.Cursor, sessionID)
	if err != nil {
		return Session{}, err
	}
	return sess2, nil
}

func (s *SQLStore) Seek(sessionID string, index int) (Session, error) {
	sess, err := s.Get(sessionID)
	if err != nil {
		return Session{}, err
	}
	if sess.Status == StatusSubmitted {
		return Session{}, ErrAlreadySubmitted
	}
	if index < 0 || index >= len(sess.QuestionIDs) {
		return Session{}, ErrBadIndex
	}
	if _, err := s.db.Exec(`UPDATE sessions SET cursor=$1 WHERE id=$2`, index, sessionID); err != nil {
		return Session{}, err
	}
	sess.Cursor = index
	return sess, nil
}

func (s *SQLStore) Submit(sessionID string) (Result, error) {
	sess, err := s.Get(sessionID)
	if err != nil {
		return Result{}, err
	}
	if sess.Status == StatusSubmitted {
		return s.Result(sessionID)
	}

	now := time.Now().Unix()
	res := deriveResult(sess, s.holder.Get(), s.grader, now)

	tx, err := s.db.Begin()
	if err != nil {
		return Result{}, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE sessions SET status=$1, submitted_at=$2 WHERE id=$3`,
		string(StatusSubmitted), now, sessionID); err != nil {
		return Result{}, err
	}
	review, _ := json.Marshal(res.Review)
	if _, err := tx.Exec(`INSERT INTO results
		(session_id,user_id,mode,subject,score,max_score,passed,correct,incorrect,skipped,unanswered,elapsed_sec,review_json,submitted_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		ON CONFLICT (session_id) DO NOTHING`,
		res.SessionID, res.UserID, string(res.Mode), string(res.Subject), res.Score, res.MaxScore,
		boolToInt(res.Passed), res.Correct, res.Incorrect, res.Skipped, res.Unanswered,
		res.ElapsedSec, string(review), res.SubmittedAt); err != nil {
		return Result{}, err
	}
	if err := tx.Commit(); err != nil {
		return Result{}, err
	}
	return res, nil
}

func (s *SQLStore) Result(sessionID string) (Result, error) {
	row := s.db.QueryRow(`SELECT session_id,user_id,mode,subject,score,max_score,passed,correct,incorrect,skipped,unanswered,elapsed_sec,review_json,submitted_at
		FROM results WHERE session_id=$1`, sessionID)
	res, err := scanResult(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// distinguish "no such session" from "not submitted yet"
			if _, gerr := s.Get(sessionID); gerr != nil {
				return Result{}, gerr
			}
			return Result{}, ErrNotSubmitted
		}
		return Result{}, err
	}
	return res, nil
}

func (s *SQLStore) History(userID string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`SELECT session_id,user_id,mode,subject,score,max_score,passed,correct,incorrect,skipped,unanswered,elapsed_sec,review_json,submitted_at
		FROM results WHERE user_id=$1 ORDER BY submitted_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Result
	for rows.Next() {
		res, err := scanResultRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row *sql.Row) (Result, error)       { return scanResultFrom(row) }
func scanResultRows(rows *sql.Rows) (Result, error) { return scanResultFrom(rows) }

func scanResultFrom(sc rowScanner) (Result, error) {
	var (
		res           Result
		mode, subject string
		passed        int
		review        string
	)
	err := sc.Scan(&res.SessionID, &res.UserID, &mode, &subject, &res.Score, &res.MaxScore,
		&passed, &res.Correct, &res.Incorrect, &res.Skipped, &res.Unanswered,
		&res.ElapsedSec, &review, &res.SubmittedAt)
	if err != nil {
		return Result{}, err
	}
	res.Mode = Mode(mode)
	res.Subject = bank.Subject(subject)
	res.Passed = passed != 0
	if err := json.Unmarshal([]byte(review), &res.Review); err != nil {
		res.Review = nil
	}
	return res, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
