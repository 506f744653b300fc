package model

import "time"

// AttendeeStatus is the lifecycle state of an event registration.
type AttendeeStatus string

const (
	StatusConfirmed  AttendeeStatus = "CONFIRMED"
	StatusWaitlisted AttendeeStatus = "WAITLISTED"
	StatusCancelled  AttendeeStatus = "CANCELLED"
)

// Attendee records a user's registration for an event.  Rows are unique per
// (event, user) and are never hard-deleted: leaving flips the row to
// CANCELLED, and registering again re-activates it.
//
// Fields:
//
//	ID       – primary key identifier.
//	EventID  – event registered for.
//	UserID   – registering user.
//	Status   – CONFIRMED, WAITLISTED or CANCELLED.
//	JoinedAt – registration time; waitlist promotion is FIFO on this value.
//	User     – user projection populated on reads.
type Attendee struct {
	ID       uint64         `json:"id"`
	EventID  uint64         `json:"eventId"`
	UserID   uint64         `json:"userId"`
	Status   AttendeeStatus `json:"status"`
	JoinedAt time.Time      `json:"joinedAt"`
	User     *UserSummary   `json:"user,omitempty"`
}

// Active reports whether the registration still counts against the roster.
func (a *Attendee) Active() bool { return a.Status != StatusCancelled }
