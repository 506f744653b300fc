package model

import (
	"strings"
	"time"
)

// Session topics.  The set is closed; unknown values are rejected.
const (
	TopicGeneral  = "GENERAL"
	TopicAI       = "AI"
	TopicWeb      = "WEB"
	TopicCloud    = "CLOUD"
	TopicData     = "DATA"
	TopicSecurity = "SECURITY"
	TopicDevOps   = "DEVOPS"
	TopicMobile   = "MOBILE"
)

var topics = map[string]bool{
	TopicGeneral: true, TopicAI: true, TopicWeb: true, TopicCloud: true,
	TopicData: true, TopicSecurity: true, TopicDevOps: true, TopicMobile: true,
}

// NormalizeTopic upper-cases t and reports whether it is a known topic.
// An empty topic normalises to GENERAL.
func NormalizeTopic(t string) (string, bool) {
	t = strings.ToUpper(strings.TrimSpace(t))
	if t == "" {
		return TopicGeneral, true
	}
	return t, topics[t]
}

// Session is a talk, workshop or other slot on an event's programme.  When
// RoomID is set the room belongs to the same event.
//
// Fields:
//
//	ID              – primary key identifier.
//	EventID         – owning event.
//	RoomID          – optional room assignment.
//	Room            – room projection populated on reads.
//	Title           – session title.
//	DurationMinutes – length of the session, at least one minute.
//	StartTime       – optional absolute start instant (UTC).
//	Topic           – one of the fixed topics.
//	Capacity        – seat limit for the session, zero meaning unrestricted.
type Session struct {
	ID              uint64       `json:"id"`
	EventID         uint64       `json:"eventId"`
	RoomID          *uint64      `json:"roomId"`
	Room            *RoomSummary `json:"room,omitempty"`
	Title           string       `json:"title"`
	DurationMinutes int          `json:"durationMinutes"`
	StartTime       *time.Time   `json:"startTime"`
	Topic           string       `json:"topic"`
	Capacity        int          `json:"capacity"`
}

// Assignment is an externally proposed (session, room, start time) triple.
// StartTime is kept as the raw string the solver produced; it is parsed
// when the assignment is applied.
type Assignment struct {
	SessionID uint64  `json:"sessionId" validate:"required"`
	RoomID    *uint64 `json:"roomId,omitempty"`
	StartTime *string `json:"startTime,omitempty"`
}
