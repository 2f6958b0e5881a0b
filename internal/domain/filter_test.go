package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTaskFilter(t *testing.T) {
	tests := []struct {
		input string
		want  TaskFilter
	}{
		{"pending", FilterPending},
		{" Completed ", FilterCompleted},
		{"all", FilterAll},
		{"", FilterAll},
		{"bogus", FilterAll},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTaskFilter(tt.input))
		})
	}
}

func TestTaskFilter_NextCycles(t *testing.T) {
	assert.Equal(t, FilterPending, FilterAll.Next())
	assert.Equal(t, FilterCompleted, FilterPending.Next())
	assert.Equal(t, FilterAll, FilterCompleted.Next())
}

func TestTaskFilter_Matches(t *testing.T) {
	open := &Task{ID: 1}
	done := &Task{ID: 2, Completed: true}

	assert.True(t, FilterAll.Matches(open))
	assert.True(t, FilterAll.Matches(done))
	assert.True(t, FilterPending.Matches(open))
	assert.False(t, FilterPending.Matches(done))
	assert.False(t, FilterCompleted.Matches(open))
	assert.True(t, FilterCompleted.Matches(done))
}
