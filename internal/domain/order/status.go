package order

import (
	"kitchenledger/internal/core/apperror"
)

// Status is the position of an order in the kitchen workflow.
type Status string

const (
	StatusNotStarted Status = "NotStarted"
	StatusInProgress Status = "InProgress"
	StatusDone       Status = "Done"
	StatusCancelled  Status = "Cancelled"
)

// AllStatuses lists the valid statuses in workflow order.
var AllStatuses = []Status{StatusNotStarted, StatusInProgress, StatusDone, StatusCancelled}

var transitions = map[Status][]Status{
	StatusNotStarted: {StatusInProgress, StatusDone, StatusCancelled},
	StatusInProgress: {StatusNotStarted, StatusDone, StatusCancelled},
}

// ParseStatus validates a status name.
func ParseStatus(s string) (Status, error) {
	for _, st := range AllStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", apperror.NewInvalidInput("unknown order status").
		WithDetail("status", s).
		WithDetail("allowed", AllStatuses)
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == StatusDone || s == StatusCancelled
}

// CanTransitionTo reports whether s may move to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ClearsMessages reports whether reaching s retires the order's pending messages.
func (s Status) ClearsMessages() bool {
	return s.IsTerminal()
}
