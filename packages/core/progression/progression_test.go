package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitionEvent(t *testing.T) {
	tests := []struct {
		name    string
		current string
		next    string
		wantErr bool
	}{
		{"open to closed", EventRegistrationOpen, EventRegistrationClosed, false},
		{"closed to live", EventRegistrationClosed, EventLive, false},
		{"live to completed", EventLive, EventCompleted, false},
		{"open to live skips a step", EventRegistrationOpen, EventLive, true},
		{"closed back to open", EventRegistrationClosed, EventRegistrationOpen, true},
		{"completed is terminal", EventCompleted, EventLive, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TransitionEvent(tt.current, tt.next)
			if tt.wantErr {
				// Handlers match on "transition" to answer 409
				assert.ErrorContains(t, err, "transition")
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.next, got)
		})
	}
}

func TestTransitionStage(t *testing.T) {
	tests := []struct {
		name    string
		current string
		next    string
		wantErr bool
	}{
		{"pending to ongoing", StagePending, StageOngoing, false},
		{"ongoing to completed", StageOngoing, StageCompleted, false},
		{"pending to completed skips a step", StagePending, StageCompleted, true},
		{"ongoing back to pending", StageOngoing, StagePending, true},
		{"completed is terminal", StageCompleted, StageOngoing, true},
		{"no-op transition rejected", StageOngoing, StageOngoing, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TransitionStage(tt.current, tt.next)
			if tt.wantErr {
				assert.ErrorContains(t, err, "transition")
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.next, got)
		})
	}
}

func TestIsValidStatus(t *testing.T) {
	assert.True(t, IsValidEventStatus(EventLive))
	assert.False(t, IsValidEventStatus("ongoing"))
	assert.True(t, IsValidStageStatus(StageOngoing))
	assert.False(t, IsValidStageStatus("live"))
}
