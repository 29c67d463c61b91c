package bank

// Subject is one of the two iPAS Net Zero exam categories, keyed by the
// question id prefix ("c1-001" belongs to c1).
type Subject string

const (
	SubjectOne Subject = "c1" // 淨零碳規劃管理基礎概論
	SubjectTwo Subject = "c2" // 淨零碳盤查與減量實務
)

var subjectNames = map[Subject]string{
	SubjectOne: "科目一：淨零碳規劃管理基礎概論",
	SubjectTwo: "科目二：淨零碳盤查與減量實務",
}

func (s Subject) Valid() bool {
	_, ok := subjectNames[s]
	return ok
}

func (s Subject) Name() string {
	if n, ok := subjectNames[s]; ok {
		return n
	}
	return string(s)
}

type Option struct {
	Label string `json:"label"` // "A".."D"
	Text  string `json:"text"`
}

type Question struct {
	ID          string   `json:"id"`
	Subject     Subject  `json:"subject"`
	Stem        string   `json:"stem"`
	Options     []Option `json:"options"` // stable letter order
	Answer      string   `json:"answer,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	Source      string   `json:"source,omitempty"`
	Verified    bool     `json:"verified"`
}

// Public strips the answer key and explanation for serving to an
// in-progress session or browse view.
func (q Question) Public() Question {
	q.Answer = ""
	q.Explanation = ""
	return q
}

// SubjectCount is one row of a per-subject summary.
type SubjectCount struct {
	Subject Subject `json:"subject"`
	Name    string  `json:"name"`
	Count   int     `json:"count"`
}
