package embedding

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexicalScoresByTokenOverlap(t *testing.T) {
	l := NewLexical()
	ctx := context.Background()
	require.NoError(t, l.UpsertProfile(ctx, "ana", "Carpenter who restores old bikes and furniture"))
	require.NoError(t, l.UpsertProfile(ctx, "ben", "Watercolor painter, landscapes mostly"))
	require.NoError(t, l.UpsertProfile(ctx, "cleo", "Graphic designer, posters and zines"))

	scores, err := l.SimilarProfiles(ctx, "restoring old bikes", 10)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, "ana", scores[0].UserID)
	assert.Greater(t, scores[0].Score, 0.0)
	assert.LessOrEqual(t, scores[0].Score, 1.0)
}

func TestLexicalOrderingIsDeterministic(t *testing.T) {
	l := NewLexical()
	ctx := context.Background()
	require.NoError(t, l.UpsertProfile(ctx, "mira", "loves hiking"))
	require.NoError(t, l.UpsertProfile(ctx, "nils", "loves hiking"))

	first, err := l.SimilarProfiles(ctx, "hiking buddies wanted", 10)
	require.NoError(t, err)
	second, err := l.SimilarProfiles(ctx, "hiking buddies wanted", 10)
	require.NoError(t, err)
	require.Equal(t, first, second)

	require.Len(t, first, 2)
	assert.Equal(t, "mira", first[0].UserID)
	assert.Equal(t, first[0].Score, first[1].Score)
}

func TestLexicalUpsertReplacesProfile(t *testing.T) {
	l := NewLexical()
	ctx := context.Background()
	require.NoError(t, l.UpsertProfile(ctx, "ana", "pottery classes"))
	require.NoError(t, l.UpsertProfile(ctx, "ana", "kayaking trips"))

	scores, err := l.SimilarProfiles(ctx, "pottery", 10)
	require.NoError(t, err)
	assert.Empty(t, scores)

	scores, err = l.SimilarProfiles(ctx, "kayaking", 10)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, "ana", scores[0].UserID)
}

func TestLexicalEmptyQuery(t *testing.T) {
	l := NewLexical()
	scores, err := l.SimilarProfiles(context.Background(), "  --  ", 10)
	require.NoError(t, err)
	assert.Nil(t, scores)
}
