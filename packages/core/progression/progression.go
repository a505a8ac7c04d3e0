// Package progression holds the status state machines for events, rounds and
// groups. Transitions are validated by pure functions so the same rules can be
// applied by the API services and by any client mirroring their state.
package progression

import "fmt"

// Event statuses
const (
	EventRegistrationOpen   = "registration-open"
	EventRegistrationClosed = "registration-closed"
	EventLive               = "live"
	EventCompleted          = "completed"
)

// Round and group statuses
const (
	StagePending   = "pending"
	StageOngoing   = "ongoing"
	StageCompleted = "completed"
)

var eventTransitions = map[string]string{
	EventRegistrationOpen:   EventRegistrationClosed,
	EventRegistrationClosed: EventLive,
	EventLive:               EventCompleted,
}

var stageTransitions = map[string]string{
	StagePending: StageOngoing,
	StageOngoing: StageCompleted,
}

// TransitionEvent validates a single-step event status change and returns the
// new status, or an error explaining the rejection
func TransitionEvent(current, next string) (string, error) {
	expected, ok := eventTransitions[current]
	if !ok {
		return "", fmt.Errorf("invalid transition: event status %q is terminal", current)
	}
	if next != expected {
		return "", fmt.Errorf("invalid transition of event status from %s to %s", current, next)
	}
	return next, nil
}

// TransitionStage validates a round or group status change. Transitions are
// monotonic: pending, ongoing, completed.
func TransitionStage(current, next string) (string, error) {
	if current == next {
		return "", fmt.Errorf("invalid transition: status is already %s", current)
	}
	expected, ok := stageTransitions[current]
	if !ok {
		return "", fmt.Errorf("invalid transition: status %q is terminal", current)
	}
	if next != expected {
		return "", fmt.Errorf("invalid transition from %s to %s", current, next)
	}
	return next, nil
}

// IsValidEventStatus reports whether s is a known event status
func IsValidEventStatus(s string) bool {
	switch s {
	case EventRegistrationOpen, EventRegistrationClosed, EventLive, EventCompleted:
		return true
	}
	return false
}

// IsValidStageStatus reports whether s is a known round/group status
func IsValidStageStatus(s string) bool {
	switch s {
	case StagePending, StageOngoing, StageCompleted:
		return true
	}
	return false
}
