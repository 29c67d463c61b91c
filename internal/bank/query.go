package bank

import (
	"math/rand"
	"sort"
	"strings"
	"time"
)

// BySubject returns the questions of one subject in bank order.
// An empty subject means the whole bank.
func (b *Bank) BySubject(s Subject) []Question {
	if s == "" {
		out := make([]Question, len(b.questions))
		copy(out, b.questions)
		return out
	}
	var out []Question
	for _, q := range b.questions {
		if q.Subject == s {
			out = append(out, q)
		}
	}
	return out
}

// Sample returns up to n questions of the given subject in random order,
// Fisher–Yates over a copied slice so the bank itself keeps its order.
// n <= 0 or n larger than the pool returns the whole pool shuffled.
func (b *Bank) Sample(n int, s Subject) []Question {
	pool := b.BySubject(s)
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := len(pool) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		pool[i], pool[j] = pool[j], pool[i]
	}
	if n <= 0 || n > len(pool) {
		n = len(pool)
	}
	return pool[:n]
}

// Search does a case-insensitive keyword search over stem, option text and
// keywords. Every whitespace-separated term must match. Empty query → nil.
func (b *Bank) Search(query string, s Subject, limit int) []Question {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil
	}
	var out []Question
	for _, q := range b.questions {
		if s != "" && q.Subject != s {
			continue
		}
		if matchesAll(q, terms) {
			out = append(out, q)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out
}

func matchesAll(q Question, terms []string) bool {
	hay := strings.ToLower(q.Stem)
	for _, o := range q.Options {
		hay += "\n" + strings.ToLower(o.Text)
	}
	for _, kw := range q.Keywords {
		hay += "\n" + strings.ToLower(kw)
	}
	for _, t := range terms {
		if !strings.Contains(hay, t) {
			return false
		}
	}
	return true
}

// Similar ranks other questions by affinity to the given one: shared
// keywords weigh 2, same subject weighs 1, and when the source question
// has no keywords its stem tokens stand in. Ties keep bank order.
func (b *Bank) Similar(id string, limit int) []Question {
	src, ok := b.Get(id)
	if !ok {
		return nil
	}
	terms := src.Keywords
	useStem := len(terms) == 0
	if useStem {
		terms = stemTokens(src.Stem)
	}

	type scored struct {
		q     Question
		score int
		order int
	}
	var ranked []scored
	for i, q := range b.questions {
		if q.ID == src.ID {
			continue
		}
		score := 0
		for _, t := range terms {
			if useStem {
				if strings.Contains(q.Stem, t) {
					score += 2
				}
				continue
			}
			for _, kw := range q.Keywords {
				// containment, not equality: dataset keywords nest
				// ("溫室氣體盤查" vs "溫室氣體")
				if strings.Contains(kw, t) || strings.Contains(t, kw) {
					score += 2
					break
				}
			}
		}
		if score == 0 {
			continue
		}
		if q.Subject == src.Subject {
			score++
		}
		ranked = append(ranked, scored{q: q, score: score, order: i})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].order < ranked[j].order
	})
	if limit <= 0 || limit > len(ranked) {
		limit = len(ranked)
	}
	out := make([]Question, 0, limit)
	for _, r := range ranked[:limit] {
		out = append(out, r.q)
	}
	return out
}

// stemTokens breaks a stem into coarse tokens; for CJK stems without
// spaces this degrades to overlapping bigrams, which is enough for the
// "looks related" fallback.
func stemTokens(stem string) []string {
	fields := strings.Fields(stem)
	if len(fields) > 1 {
		return fields
	}
	runes := []rune(stem)
	var grams []string
	for i := 0; i+1 < len(runes); i++ {
		grams = append(grams, string(runes[i:i+2]))
	}
	return grams
}
