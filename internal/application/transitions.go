// File: internal/application/transitions.go
package application

// Status is the lifecycle state of an application.
type Status string

const (
	StatusPending   Status = "pending"
	StatusInterview Status = "interview"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
)

// AllStatuses lists every status in lifecycle order.
var AllStatuses = []Status{StatusPending, StatusInterview, StatusAccepted, StatusRejected}

var transitions = map[Status][]Status{
	StatusPending:   {StatusInterview, StatusAccepted, StatusRejected},
	StatusInterview: {StatusAccepted, StatusRejected},
}

// CanTransition reports whether an application may move from one status to another.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}
