package stats

import "testing"

func TestCalculateMastery(t *testing.T) {
	tests := []struct {
		name string
		qs   QuestionStats
		want int
	}{
		{name: "never answered", qs: QuestionStats{}, want: 0},
		{
			name: "single correct attempt",
			qs:   QuestionStats{TimesAnswered: 1, TimesCorrect: 1, LatestCorrect: true},
			want: 100,
		},
		{
			name: "single wrong attempt",
			qs:   QuestionStats{TimesAnswered: 1, TimesCorrect: 0, LatestCorrect: false},
			want: 0,
		},
		{
			// history 1/2 correct (50), latest correct (100): 100*0.6 + 50*0.4
			name: "latest correct outweighs mixed history",
			qs:   QuestionStats{TimesAnswered: 3, TimesCorrect: 2, LatestCorrect: true},
			want: 80,
		},
		{
			// history 2/2 correct (100), latest wrong (0): 0*0.6 + 100*0.4
			name: "latest wrong drags a perfect history",
			qs:   QuestionStats{TimesAnswered: 3, TimesCorrect: 2, LatestCorrect: false},
			want: 40,
		},
		{
			name: "all wrong",
			qs:   QuestionStats{TimesAnswered: 5, TimesCorrect: 0, LatestCorrect: false},
			want: 0,
		},
		{
			name: "all correct",
			qs:   QuestionStats{TimesAnswered: 5, TimesCorrect: 5, LatestCorrect: true},
			want: 100,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.qs.CalculateMastery(); got != tc.want {
				t.Fatalf("mastery = %d, want %d", got, tc.want)
			}
		})
	}
}
