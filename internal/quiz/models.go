package quiz

import "github.com/netzero-prep/netzero-quiz/internal/bank"

type Mode string

const (
	ModePractice Mode = "practice"
	ModeExam     Mode = "exam"
)

type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusSubmitted  Status = "submitted"
)

// Response is one recorded interaction with a question. Skipped and
// Selected are mutually exclusive; Selected may be overwritten until the
// session is submitted.
type Response struct {
	Selected   string `json:"selected,omitempty"` // option letter
	Skipped    bool   `json:"skipped,omitempty"`
	AnsweredAt int64  `json:"answered_at"`
}

type Session struct {
	ID          string              `json:"id"`
	UserID      string              `json:"user_id"`
	Mode        Mode                `json:"mode"`
	Subject     bank.Subject        `json:"subject,omitempty"`
	Status      Status              `json:"status"`
	QuestionIDs []string            `json:"question_ids"`
	Responses   map[string]Response `json:"responses"`
	Cursor      int                 `json:"cursor"`
	PointsPer   float64             `json:"points_per"`
	PassScore   float64             `json:"pass_score"`
	StartedAt   int64               `json:"started_at"`
	SubmittedAt int64               `json:"submitted_at,omitempty"`
}

type Outcome string

const (
	OutcomeCorrect    Outcome = "correct"
	OutcomeIncorrect  Outcome = "incorrect"
	OutcomeSkipped    Outcome = "skipped"
	OutcomeUnanswered Outcome = "unanswered"
)

// ReviewEntry is the per-question line of a result, enough for the
// result view to show what was picked and what was right.
type ReviewEntry struct {
	QuestionID  string  `json:"question_id"`
	Selected    string  `json:"selected,omitempty"`
	Answer      string  `json:"answer"`
	Outcome     Outcome `json:"outcome"`
	Explanation string  `json:"explanation,omitempty"`
}

type Result struct {
	SessionID   string        `json:"session_id"`
	UserID      string        `json:"user_id"`
	Mode        Mode          `json:"mode"`
	Subject     bank.Subject  `json:"subject,omitempty"`
	Score       float64       `json:"score"`
	MaxScore    float64       `json:"max_score"`
	Passed      bool          `json:"passed"` // meaningful in exam mode only
	Correct     int           `json:"correct"`
	Incorrect   int           `json:"incorrect"`
	Skipped     int           `json:"skipped"`
	Unanswered  int           `json:"unanswered"`
	ElapsedSec  int64         `json:"elapsed_sec"`
	Review      []ReviewEntry `json:"review"`
	SubmittedAt int64         `json:"submitted_at"`
}

// CreateOptions are the knobs for starting a session. Count and Subject
// apply to practice mode; exam mode draws from the whole bank per the
// snapshot policy.
type CreateOptions struct {
	Mode    Mode         `json:"mode"`
	Subject bank.Subject `json:"subject,omitempty"`
	Count   int          `json:"count,omitempty"`
}

// Policy is the exam/practice configuration snapshot taken at session
// creation, so a config change never rescores an old session.
type Policy struct {
	ExamQuestions   int
	PointsPer       float64
	PassScore       float64
	PracticeDefault int
}
