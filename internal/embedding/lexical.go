package embedding

import (
	"context"
	"sort"
	"strings"
	"sync"
	"unicode"
)

// Lexical is a deterministic token-overlap provider used for local
// development and tests. It scores by the fraction of distinct query tokens
// that appear in the profile text, which lands in [0,1] by construction.
type Lexical struct {
	mu       sync.RWMutex
	profiles map[string]map[string]struct{}
}

// NewLexical builds an empty lexical provider.
func NewLexical() *Lexical {
	return &Lexical{profiles: make(map[string]map[string]struct{})}
}

func (l *Lexical) UpsertProfile(_ context.Context, userID, text string) error {
	tokens := tokenize(text)
	l.mu.Lock()
	l.profiles[userID] = tokens
	l.mu.Unlock()
	return nil
}

func (l *Lexical) SimilarProfiles(_ context.Context, query string, n int) ([]ProfileScore, error) {
	queryTokens := tokenize(query)
	if len(queryTokens) == 0 {
		return nil, nil
	}

	l.mu.RLock()
	scores := make([]ProfileScore, 0, len(l.profiles))
	for userID, profile := range l.profiles {
		hits := 0
		for tok := range queryTokens {
			if _, ok := profile[tok]; ok {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		scores = append(scores, ProfileScore{
			UserID: userID,
			Score:  float64(hits) / float64(len(queryTokens)),
		})
	}
	l.mu.RUnlock()

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].UserID < scores[j].UserID
	})
	if n > 0 && len(scores) > n {
		scores = scores[:n]
	}
	return scores, nil
}

func tokenize(text string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		tokens[f] = struct{}{}
	}
	return tokens
}
