package bank

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBank = `[
  {
    "id": "c1-001",
    "question": "巴黎協定的升溫目標為何？",
    "options": {"A": "0.5°C", "B": "1.5°C", "C": "3°C", "D": "4°C"},
    "answer": "b",
    "explanation": "追求 1.5°C。",
    "keywords": ["巴黎協定", "升溫目標"],
    "source": "official",
    "verified": true
  },
  {
    "id": "c2-001",
    "question": "組織盤查依據哪個標準？",
    "options": {"A": "ISO 9001", "B": "ISO 14064-1", "C": "ISO 45001", "D": "ISO 27001"},
    "answer": "B",
    "keywords": ["ISO 14064-1"]
  }
]`

func TestDecode(t *testing.T) {
	b, err := Decode(strings.NewReader(sampleBank))
	require.NoError(t, err)
	require.Equal(t, 2, b.Len())

	q, ok := b.Get("c1-001")
	require.True(t, ok)
	assert.Equal(t, SubjectOne, q.Subject)
	assert.Equal(t, "B", q.Answer, "answer letter is uppercased")
	assert.True(t, q.Verified)

	// options come out in stable letter order
	require.Len(t, q.Options, 4)
	assert.Equal(t, []string{"A", "B", "C", "D"}, optionLabels(q))

	q2, ok := b.Get("c2-001")
	require.True(t, ok)
	assert.Equal(t, SubjectTwo, q2.Subject)
	assert.False(t, q2.Verified)
}

func TestDecodeRejectsBadBanks(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{
			name: "empty array",
			json: `[]`,
			want: "empty",
		},
		{
			name: "duplicate id",
			json: `[
				{"id":"c1-001","question":"q","options":{"A":"a","B":"b"},"answer":"A"},
				{"id":"c1-001","question":"q","options":{"A":"a","B":"b"},"answer":"A"}
			]`,
			want: "duplicate",
		},
		{
			name: "answer not among options",
			json: `[{"id":"c1-001","question":"q","options":{"A":"a","B":"b"},"answer":"E"}]`,
			want: "not among options",
		},
		{
			name: "unknown subject prefix",
			json: `[{"id":"x9-001","question":"q","options":{"A":"a","B":"b"},"answer":"A"}]`,
			want: "subject",
		},
		{
			name: "missing stem",
			json: `[{"id":"c1-001","question":"  ","options":{"A":"a","B":"b"},"answer":"A"}]`,
			want: "stem",
		},
		{
			name: "single option",
			json: `[{"id":"c1-001","question":"q","options":{"A":"a"},"answer":"A"}]`,
			want: "options",
		},
		{
			name: "missing answer",
			json: `[{"id":"c1-001","question":"q","options":{"A":"a","B":"b"}}]`,
			want: "answer",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tc.json))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestSubjectOf(t *testing.T) {
	assert.Equal(t, SubjectOne, SubjectOf("c1-001"))
	assert.Equal(t, SubjectTwo, SubjectOf("c2-153"))
	assert.False(t, SubjectOf("no-dash").Valid())
	assert.False(t, SubjectOf("").Valid())
}

func TestSubjectsSummary(t *testing.T) {
	b, err := Decode(strings.NewReader(sampleBank))
	require.NoError(t, err)

	subjects := b.Subjects()
	require.Len(t, subjects, 2)
	assert.Equal(t, SubjectOne, subjects[0].Subject)
	assert.Equal(t, 1, subjects[0].Count)
	assert.Equal(t, SubjectTwo, subjects[1].Subject)
	assert.Equal(t, 1, subjects[1].Count)
}

func TestPublicStripsAnswer(t *testing.T) {
	b, err := Decode(strings.NewReader(sampleBank))
	require.NoError(t, err)

	q, _ := b.Get("c1-001")
	pub := q.Public()
	assert.Empty(t, pub.Answer)
	assert.Empty(t, pub.Explanation)
	assert.Equal(t, q.Stem, pub.Stem)
	// original untouched
	assert.Equal(t, "B", q.Answer)
}

func optionLabels(q Question) []string {
	out := make([]string, 0, len(q.Options))
	for _, o := range q.Options {
		out = append(out, o.Label)
	}
	return out
}
