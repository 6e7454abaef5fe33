// Package embedding defines the similarity-provider port consumed by the
// matching engine. The engine only ever sees the resulting scores; the actual
// vector backend lives outside this repo.
package embedding

import "context"

// ProfileScore is one candidate profile with its similarity to a query text.
type ProfileScore struct {
	UserID string
	// Score is the semantic similarity in [0,1].
	Score float64
}

// Provider turns profile text into similarity scores against a query.
// Implementations hold whatever state they need; the engine holds none.
type Provider interface {
	// UpsertProfile (re)indexes a user's profile text.
	UpsertProfile(ctx context.Context, userID, text string) error
	// SimilarProfiles returns up to n profiles most similar to query,
	// scores in [0,1], best first, deterministic for identical inputs.
	SimilarProfiles(ctx context.Context, query string, n int) ([]ProfileScore, error)
}
