package bank

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// RawQuestion matches the on-disk bank format produced by the dataset
// pipeline: options are a letter→text map, the answer is a letter.
type RawQuestion struct {
	ID          string            `json:"id"`
	Subject     string            `json:"subject,omitempty"` // display name, informational
	Question    string            `json:"question"`
	Options     map[string]string `json:"options"`
	Answer      string            `json:"answer"`
	Explanation string            `json:"explanation,omitempty"`
	Keywords    []string          `json:"keywords,omitempty"`
	Source      string            `json:"source,omitempty"`
	Verified    bool              `json:"verified,omitempty"`
}

// Bank is the normalized, validated in-memory question bank.
type Bank struct {
	questions []Question
	byID      map[string]int
}

// Load reads and validates a question bank file.
func Load(path string) (*Bank, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bank: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses a JSON array of questions and normalizes it into a Bank.
func Decode(r io.Reader) (*Bank, error) {
	var raw []RawQuestion
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode bank: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("bank is empty")
	}
	qs := make([]Question, 0, len(raw))
	for i, rq := range raw {
		q, err := normalize(rq)
		if err != nil {
			return nil, fmt.Errorf("question %d (%s): %w", i, rq.ID, err)
		}
		qs = append(qs, q)
	}
	return New(qs)
}

// New builds a Bank from already-normalized questions, enforcing the
// bank invariants (unique ids, valid subject, answer among options).
func New(qs []Question) (*Bank, error) {
	if len(qs) == 0 {
		return nil, fmt.Errorf("bank is empty")
	}
	byID := make(map[string]int, len(qs))
	for i, q := range qs {
		if err := validate(q); err != nil {
			return nil, fmt.Errorf("question %s: %w", q.ID, err)
		}
		if _, dup := byID[q.ID]; dup {
			return nil, fmt.Errorf("duplicate question id %s", q.ID)
		}
		byID[q.ID] = i
	}
	return &Bank{questions: qs, byID: byID}, nil
}

func normalize(rq RawQuestion) (Question, error) {
	id := strings.TrimSpace(rq.ID)
	q := Question{
		ID:          id,
		Subject:     SubjectOf(id),
		Stem:        strings.TrimSpace(rq.Question),
		Answer:      strings.ToUpper(strings.TrimSpace(rq.Answer)),
		Explanation: strings.TrimSpace(rq.Explanation),
		Source:      rq.Source,
		Verified:    rq.Verified,
	}
	for _, kw := range rq.Keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			q.Keywords = append(q.Keywords, kw)
		}
	}
	labels := make([]string, 0, len(rq.Options))
	for label := range rq.Options {
		labels = append(labels, strings.ToUpper(strings.TrimSpace(label)))
	}
	sort.Strings(labels)
	for _, label := range labels {
		text := strings.TrimSpace(rq.Options[label])
		if text == "" {
			// some upstream options carry the original-cased key
			text = strings.TrimSpace(rq.Options[strings.ToLower(label)])
		}
		q.Options = append(q.Options, Option{Label: label, Text: text})
	}
	return q, nil
}

func validate(q Question) error {
	if q.ID == "" {
		return fmt.Errorf("missing id")
	}
	if !q.Subject.Valid() {
		return fmt.Errorf("cannot derive subject from id %q", q.ID)
	}
	if q.Stem == "" {
		return fmt.Errorf("empty stem")
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("need at least 2 options, got %d", len(q.Options))
	}
	for _, o := range q.Options {
		if o.Text == "" {
			return fmt.Errorf("option %s has empty text", o.Label)
		}
	}
	if q.Answer == "" {
		return fmt.Errorf("missing answer")
	}
	if !hasOption(q.Options, q.Answer) {
		return fmt.Errorf("answer %q not among options", q.Answer)
	}
	return nil
}

func hasOption(opts []Option, label string) bool {
	for _, o := range opts {
		if o.Label == label {
			return true
		}
	}
	return false
}

// SubjectOf derives the subject from a question id like "c1-001".
func SubjectOf(id string) Subject {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return Subject(strings.ToLower(id[:i]))
	}
	return Subject("")
}

func (b *Bank) Len() int { return len(b.questions) }

// All returns the questions in bank order. Callers must not mutate.
func (b *Bank) All() []Question { return b.questions }

func (b *Bank) Get(id string) (Question, bool) {
	i, ok := b.byID[id]
	if !ok {
		return Question{}, false
	}
	return b.questions[i], true
}

// Subjects summarizes question counts per subject, in subject order.
func (b *Bank) Subjects() []SubjectCount {
	counts := map[Subject]int{}
	for _, q := range b.questions {
		counts[q.Subject]++
	}
	out := make([]SubjectCount, 0, len(counts))
	for _, s := range []Subject{SubjectOne, SubjectTwo} {
		if n, ok := counts[s]; ok {
			out = append(out, SubjectCount{Subject: s, Name: s.Name(), Count: n})
		}
	}
	return out
}
