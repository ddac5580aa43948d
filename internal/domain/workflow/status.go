package workflow

import "errors"

// ErrInvalidTransition reports an attempt to move a record along an edge the
// lifecycle does not define, such as deciding an already-decided record.
var ErrInvalidTransition = errors.New("invalid status transition")

// Status represents the lifecycle state of an inventory submission
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

var validStatuses = map[Status]bool{
	StatusPending:  true,
	StatusApproved: true,
	StatusRejected: true,
}

var terminalStatuses = map[Status]bool{
	StatusApproved: true,
	StatusRejected: true,
}

// IsTerminal returns true if the status is a terminal status (no further transitions allowed)
func (s Status) IsTerminal() bool {
	return terminalStatuses[s]
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// IsValid returns true if the status is a valid lifecycle status
func (s Status) IsValid() bool {
	return validStatuses[s]
}

// CanTransition reports whether moving from one status to another is allowed.
// The only legal transitions are PENDING -> APPROVED and PENDING -> REJECTED;
// each record leaves PENDING at most once.
func CanTransition(from, to Status) bool {
	if from != StatusPending {
		return false
	}
	return to == StatusApproved || to == StatusRejected
}
