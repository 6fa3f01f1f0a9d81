package model

const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
)

// transitions is the booking lifecycle graph:
// PENDING -> CONFIRMED | CANCELLED, CONFIRMED -> COMPLETED | CANCELLED.
// COMPLETED and CANCELLED are terminal.
var transitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

func IsValidStatus(status string) bool {
	_, ok := transitions[status]
	return ok
}

// CanTransition reports whether the lifecycle graph permits moving a booking
// from one status to another. Self-transitions are not permitted.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func IsTerminalStatus(status string) bool {
	next, ok := transitions[status]
	return ok && len(next) == 0
}

// LiveStatuses are the statuses that claim a time slot. A cancelled booking
// never blocks its slot for new bookings.
func LiveStatuses() []string {
	return []string{StatusPending, StatusConfirmed, StatusCompleted}
}
