// Package queue defines message payloads exchanged over the message broker
// together with the publisher used by the API and the consumer run by the
// notifier binary.
package queue

// AttendanceQueue is the durable queue carrying registration changes.
const AttendanceQueue = "attendance.events"

// Attendance event types.
const (
	AttendeeRegistered = "attendee.registered"
	AttendeeCancelled  = "attendee.cancelled"
	AttendeePromoted   = "attendee.promoted"
)

// AttendanceEvent is published after a registration change commits.  It
// carries enough information for downstream consumers to log or notify
// without querying the primary database.
type AttendanceEvent struct {
	Type       string `json:"type"`
	EventID    uint64 `json:"eventId"`
	EventTitle string `json:"eventTitle"`
	UserID     uint64 `json:"userId"`
	UserEmail  string `json:"userEmail"`
	Status     string `json:"status"`
	OccurredAt string `json:"occurredAt"`
}
