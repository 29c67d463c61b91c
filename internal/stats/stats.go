package stats

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/netzero-prep/netzero-quiz/internal/quiz"
)

// QuestionStats tracks per-question performance across submitted
// sessions. Mastery weighs the latest attempt over the history.
type QuestionStats struct {
	QuestionID    string `json:"question_id"`
	TimesAnswered int    `json:"times_answered"`
	TimesCorrect  int    `json:"times_correct"`
	LatestCorrect bool   `json:"latest_correct"`
	Mastery       int    `json:"mastery"` // 0-100
}

// Mastery = latest*0.6 + historical average*0.4, attempts scored 0/100.
func (qs QuestionStats) CalculateMastery() int {
	if qs.TimesAnswered == 0 {
		return 0
	}
	latest := 0
	if qs.LatestCorrect {
		latest = 100
	}
	if qs.TimesAnswered == 1 {
		return latest
	}
	correctBefore := qs.TimesCorrect
	if qs.LatestCorrect {
		correctBefore--
	}
	historical := float64(correctBefore*100) / float64(qs.TimesAnswered-1)
	m := int(float64(latest)*0.6 + historical*0.4)
	if m > 100 {
		m = 100
	}
	if m < 0 {
		m = 0
	}
	return m
}

// SubjectAccuracy is a per-subject rollup of answered outcomes.
type SubjectAccuracy struct {
	Subject       string  `json:"subject"`
	TimesAnswered int     `json:"times_answered"`
	TimesCorrect  int     `json:"times_correct"`
	Accuracy      float64 `json:"accuracy"` // 0-1
}

// Recorder folds submitted results into the question_stats table.
type Recorder struct {
	db *sql.DB
}

func NewRecorder(db *sql.DB) *Recorder { return &Recorder{db: db} }

// RecordResult upserts one row per answered question of the result.
// Skipped and unreached questions don't touch the stats.
func (r *Recorder) RecordResult(ctx context.Context, res quiz.Result) error {
	now := time.Now().Unix()
	for _, entry := range res.Review {
		var correct bool
		switch entry.Outcome {
		case quiz.OutcomeCorrect:
			correct = true
		case quiz.OutcomeIncorrect:
			correct = false
		default:
			continue
		}
		cur := QuestionStats{QuestionID: entry.QuestionID}
		err := r.db.QueryRowContext(ctx,
			`SELECT times_answered, times_correct FROM question_stats WHERE question_id=$1`,
			entry.QuestionID).Scan(&cur.TimesAnswered, &cur.TimesCorrect)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		cur.TimesAnswered++
		if correct {
			cur.TimesCorrect++
		}
		cur.LatestCorrect = correct
		cur.Mastery = cur.CalculateMastery()

		if _, err := r.db.ExecContext(ctx, `INSERT INTO question_stats
			(question_id, times_answered, times_correct, latest_correct, mastery, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6)
			ON CONFLICT (question_id) DO UPDATE SET
			  times_answered=EXCLUDED.times_answered,
			  times_correct=EXCLUDED.times_correct,
			  latest_correct=EXCLUDED.latest_correct,
			  mastery=EXCLUDED.mastery,
			  updated_at=EXCLUDED.updated_at`,
			cur.QuestionID, cur.TimesAnswered, cur.TimesCorrect,
			boolToInt(cur.LatestCorrect), cur.Mastery, now); err != nil {
			return err
		}
	}
	return nil
}

// Weakest lists the lowest-mastery questions that have been answered at
// least once, worst first.
func (r *Recorder) Weakest(ctx context.Context, limit int) ([]QuestionStats, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT question_id, times_answered, times_correct, latest_correct, mastery
		 FROM question_stats WHERE times_answered > 0
		 ORDER BY mastery ASC, times_answered DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []QuestionStats
	for rows.Next() {
		var qs QuestionStats
		var latest int
		if err := rows.Scan(&qs.QuestionID, &qs.TimesAnswered, &qs.TimesCorrect, &latest, &qs.Mastery); err != nil {
			return nil, err
		}
		qs.LatestCorrect = latest != 0
		out = append(out, qs)
	}
	return out, rows.Err()
}

// BySubject rolls accuracy up per subject using the question id prefix
// ("c1-001" → "c1").
func (r *Recorder) BySubject(ctx context.Context) ([]SubjectAccuracy, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT substr(question_id, 1, 2) AS subject,
		        SUM(times_answered), SUM(times_correct)
		 FROM question_stats GROUP BY subject ORDER BY subject`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SubjectAccuracy
	for rows.Next() {
		var sa SubjectAccuracy
		if err := rows.Scan(&sa.Subject, &sa.TimesAnswered, &sa.TimesCorrect); err != nil {
			return nil, err
		}
		if sa.TimesAnswered > 0 {
			sa.Accuracy = float64(sa.TimesCorrect) / float64(sa.TimesAnswered)
		}
		out = append(out, sa)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
