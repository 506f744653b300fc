package model

import "time"

// Roles carried in the access token and stored on users.role.
const (
	RoleOrganizer = "ORGANIZER"
	RoleAttendee  = "ATTENDEE"
	RoleAdmin     = "ADMIN"
)

// User represents an application user record as stored in the `users`
// table.  Organizers own venues and events; attendees register for
// events; admins may act on any event.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Name         – display name shown on attendee lists.
//	Email        – unique email address.
//	PasswordHash – bcrypt hashed password, never serialised.
//	Role         – ORGANIZER, ATTENDEE or ADMIN.
//	CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserSummary is the projection of a user embedded in attendee rows.
type UserSummary struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
