package primegl

import "fmt"

// Status is the lifecycle phase of a Loader.
type Status string

// Lifecycle phases.
const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusError   Status = "error"
)

// State is the observable engine state. Its JSON form is
// {"status": "loading"|"ready"|"error", "error": "..."}.
type State struct {
	Status Status `json:"status"`
	Err    string `json:"error,omitempty"`
}

// Ready reports whether capabilities may be used.
func (s State) Ready() bool { return s.Status == StatusReady }

// Terminal reports whether s can no longer change.
func (s State) Terminal() bool {
	return s.Status == StatusReady || s.Status == StatusError
}

func (s State) String() string {
	if s.Err != "" {
		return string(s.Status) + ": " + s.Err
	}
	return string(s.Status)
}

var allowedStatusTransitions = map[Status]map[Status]struct{}{
	StatusLoading: {
		StatusReady: {},
		StatusError: {},
	},
	StatusReady: {},
	StatusError: {},
}

func validateStatusTransition(from, to Status) error {
	allowed, ok := allowedStatusTransitions[from]
	if !ok {
		return fmt.Errorf("%w: unknown source status %q", ErrInvalidStateTransition, from)
	}
	if _, ok := allowed[to]; !ok {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStateTransition, from, to)
	}
	return nil
}
