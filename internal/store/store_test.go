package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triagegrid/triagegrid/pkg/domain"
)

func TestNewSeedsUnclassifiedRows(t *testing.T) {
	s := New(4)

	rows := s.List()
	require.Len(t, rows, 4)
	for _, row := range rows {
		assert.NotEmpty(t, row.ID)
		assert.Empty(t, row.Message)
		assert.False(t, row.Classified())
	}
}

func TestAppend(t *testing.T) {
	s := New(4)

	row := s.Append()

	assert.Equal(t, 5, s.Len())
	assert.False(t, row.Classified())

	rows := s.List()
	assert.Equal(t, row.ID, rows[len(rows)-1].ID)
}

func TestReplaceByID(t *testing.T) {
	s := New(2)
	target := s.List()[1]

	target.Message = "I love your protein bars!"
	target.Apply(domain.Classification{
		Category:   domain.CategoryLove,
		Confidence: 92,
		Response:   "Thanks!",
		Action:     domain.ActionDMComment,
	})

	require.True(t, s.ReplaceByID(target.ID, target))

	got, ok := s.Get(target.ID)
	require.True(t, ok)
	assert.Equal(t, domain.CategoryLove, got.Category)
	assert.Equal(t, 92.0, *got.Confidence)
}

func TestReplaceByIDDiscardsStaleResult(t *testing.T) {
	s := New(2)
	target := s.List()[0]

	// The grid was cleared while a classification was in flight; the old
	// identifier is gone and the result must not land anywhere.
	s.ResetAll()

	target.Apply(domain.Classification{Category: domain.CategoryLove, Confidence: 92})
	assert.False(t, s.ReplaceByID(target.ID, target))

	for _, row := range s.List() {
		assert.False(t, row.Classified())
	}
}

func TestResetAllPreservesCount(t *testing.T) {
	s := New(4)
	s.Append()

	classified := s.List()[0]
	classified.Message = "hello"
	classified.Apply(domain.Classification{Category: domain.CategoryLove, Confidence: 92, Response: "r", Action: domain.ActionDMComment})
	require.True(t, s.ReplaceByID(classified.ID, classified))

	s.ResetAll()

	rows := s.List()
	require.Len(t, rows, 5)
	for _, row := range rows {
		assert.Empty(t, row.Message)
		assert.Empty(t, row.Category)
		assert.Nil(t, row.Confidence)
		assert.Empty(t, row.Response)
		assert.Empty(t, row.Action)
	}
}

func TestGetUnknownID(t *testing.T) {
	s := New(1)

	_, ok := s.Get("no-such-row")
	assert.False(t, ok)
}
