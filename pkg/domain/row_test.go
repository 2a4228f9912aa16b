package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRowStatus(t *testing.T) {
	tests := []struct {
		name       string
		confidence *float64
		expected   Status
	}{
		{name: "unclassified row has no status", confidence: nil, expected: ""},
		{name: "below threshold needs review", confidence: ptr(74.9), expected: StatusNeedsReview},
		{name: "exactly at threshold is automated", confidence: ptr(75), expected: StatusAutomated},
		{name: "above threshold is automated", confidence: ptr(92), expected: StatusAutomated},
		{name: "zero confidence needs review", confidence: ptr(0), expected: StatusNeedsReview},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := NewRow()
			row.Confidence = tt.confidence
			assert.Equal(t, tt.expected, row.Status())
		})
	}
}

func TestRowStatusIgnoresAction(t *testing.T) {
	// High confidence with an Email action is still Automated; status and
	// action channel are independent signals.
	row := NewRow()
	row.Apply(Classification{Category: CategoryBusiness, Confidence: 90, Response: "Hi", Action: ActionEmail})
	assert.Equal(t, StatusAutomated, row.Status())
}

func TestRowReset(t *testing.T) {
	row := NewRow()
	row.Message = "I love your protein bars!"
	row.Apply(Classification{Category: CategoryLove, Confidence: 92, Response: "Thanks!", Action: ActionDMComment})

	oldID := row.ID
	row.Reset()

	assert.NotEqual(t, oldID, row.ID)
	assert.Empty(t, row.Message)
	assert.Empty(t, row.Category)
	assert.Nil(t, row.Confidence)
	assert.Empty(t, row.Response)
	assert.Empty(t, row.Action)
	assert.False(t, row.Classified())
}

func TestRowApply(t *testing.T) {
	row := NewRow()
	assert.False(t, row.Classified())

	row.Apply(Classification{Category: CategoryOthers, Confidence: 60, Response: "r", Action: ActionCRMTicket})

	assert.True(t, row.Classified())
	assert.Equal(t, 60.0, *row.Confidence)
}

func ptr(v float64) *float64 {
	return &v
}
