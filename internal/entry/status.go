package entry

import (
	"fmt"
	"strings"
)

// Status is an entry workflow status.
type Status string

// Status constants in canonical order.
const (
	StatusNone       Status = "none"
	StatusNew        Status = "new"
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusInReview   Status = "in_review"
	StatusWaiting    Status = "waiting"
	StatusOnHold     Status = "on_hold"
	StatusDone       Status = "done"
	StatusClosed     Status = "closed"
	StatusCancelled  Status = "cancelled"
)

var statusLabels = map[Status]string{ //nolint:gochecknoglobals // lookup table
	StatusNone:       "None",
	StatusNew:        "New",
	StatusTodo:       "To Do",
	StatusInProgress: "In Progress",
	StatusInReview:   "In Review",
	StatusWaiting:    "Waiting",
	StatusOnHold:     "On Hold",
	StatusDone:       "Done",
	StatusClosed:     "Closed",
	StatusCancelled:  "Cancelled",
}

// AllStatuses returns every known status in canonical order.
func AllStatuses() []Status {
	return []Status{
		StatusNone, StatusNew, StatusTodo, StatusInProgress, StatusInReview,
		StatusWaiting, StatusOnHold, StatusDone, StatusClosed, StatusCancelled,
	}
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := statusLabels[s]

	return ok
}

// Label returns the display label. Unknown statuses are shown verbatim.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}

	return string(s)
}

// Rank returns the canonical position of s. Unknown statuses rank after
// every known status.
func (s Status) Rank() int {
	for i, known := range AllStatuses() {
		if known == s {
			return i
		}
	}

	return len(statusLabels)
}

// ParseStatus validates a status name.
func ParseStatus(s string) (Status, error) {
	status := Status(strings.TrimSpace(s))
	if status == "" {
		return "", fmt.Errorf("%w: (empty)", ErrInvalidStatus)
	}

	if !status.Valid() {
		return "", fmt.Errorf("%w: %s", ErrInvalidStatus, s)
	}

	return status, nil
}
