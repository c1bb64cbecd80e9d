package leads

import "errors"

var (
	// ErrDuplicateLead is returned when the same lead was accepted within the dedupe window
	ErrDuplicateLead = errors.New("leads: duplicate lead")

	// ErrLeadNotFound is returned when a lead is not found
	ErrLeadNotFound = errors.New("lead not found")
)
