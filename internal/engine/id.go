package engine

import "github.com/google/uuid"

// newEventID returns a short random ID used to correlate the log lines of
// one clipboard event.
func newEventID() string {
	return uuid.NewString()[:8]
}
