package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event is the aggregate root of the planner.  Rooms, sessions, attendees
// and the budget all reference an event by ID and are loaded explicitly by
// the component that needs them.
//
// Fields:
//
//	ID               – primary key identifier.
//	Title            – human readable name.
//	StartDate        – first calendar day (inclusive).
//	EndDate          – last calendar day (inclusive).
//	ExpectedAudience – planned head count; fallback capacity without a venue.
//	BudgetAmount     – planned total budget, used to seed line items.
//	OrganizerID      – owning organizer.
//	VenueID          – optional venue reference.
//	Venue            – venue projection, populated on reads that join venues.
type Event struct {
	ID               uint64          `json:"id"`
	Title            string          `json:"title"`
	StartDate        Date            `json:"startDate"`
	EndDate          Date            `json:"endDate"`
	ExpectedAudience *int            `json:"expectedAudience"`
	BudgetAmount     decimal.Decimal `json:"budgetAmount"`
	OrganizerID      uint64          `json:"organizerId"`
	VenueID          *uint64         `json:"venueId"`
	Venue            *Venue          `json:"venue,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// Capacity returns the number of confirmed slots the event offers: the
// venue capacity when a venue is attached, else the expected audience,
// else zero.
func (e *Event) Capacity() int {
	if e.Venue != nil {
		return e.Venue.Capacity
	}
	if e.ExpectedAudience != nil {
		return *e.ExpectedAudience
	}
	return 0
}

// Venue is a physical location owned by an organizer.
type Venue struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Capacity  int       `json:"capacity"`
	OwnerID   uint64    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Room belongs to exactly one event.  Its capacity never exceeds the
// capacity of the event's venue.
type Room struct {
	ID       uint64 `json:"id"`
	EventID  uint64 `json:"eventId"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

// RoomSummary is the projection of a room embedded in session rows.
type RoomSummary struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}
