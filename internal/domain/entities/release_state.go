package entities

import "fmt"

// FlowState is the position of a release flow in its state machine.
type FlowState string

const (
	FlowUninitialized FlowState = "uninitialized"
	FlowLinked        FlowState = "linked"
	FlowCommitted     FlowState = "committed"
	FlowPublished     FlowState = "published"
	FlowTagged        FlowState = "tagged"
	FlowFailed        FlowState = "failed"
)

var flowTransitions = map[FlowState][]FlowState{
	FlowUninitialized: {FlowLinked},
	FlowLinked:        {FlowCommitted},
	FlowCommitted:     {FlowPublished},
	FlowPublished:     {FlowTagged},
}

// CanTransition reports whether the flow may move from one state to another.
// Failed is reachable from every non-terminal state.
func CanTransition(from, to FlowState) bool {
	if to == FlowFailed {
		return from != FlowTagged && from != FlowFailed
	}
	for _, next := range flowTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns an error for a move the state machine forbids.
func ValidateTransition(from, to FlowState) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("invalid release flow transition %s -> %s", from, to)
	}
	return nil
}
