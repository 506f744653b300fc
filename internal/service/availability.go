package service

import (
	"context"
	"strings"

	"github.com/dileeka1998/Event-Planner-sub000/internal/model"
	"github.com/dileeka1998/Event-Planner-sub000/internal/repository"
)

// DatesOverlap reports whether the inclusive ranges [s1,e1] and [s2,e2]
// share at least one calendar day: s1 <= e2 AND e1 >= s2.
func DatesOverlap(s1, e1, s2, e2 model.Date) bool {
	return s1.OnOrBefore(e2) && s2.OnOrBefore(e1)
}

// AvailabilityChecker detects venue double bookings across events.
type AvailabilityChecker struct{}

// Overlaps returns the events booked at venueID whose date range
// intersects [start, end].  excludeEventID, when non-zero, is ignored so
// that an event can be rescheduled over its own dates.
func (AvailabilityChecker) Overlaps(ctx context.Context, r repository.Repos, venueID uint64, start, end model.Date, excludeEventID uint64) ([]model.Event, error) {
	events, err := r.Events.FindOverlapping(ctx, venueID, start, end, excludeEventID)
	if err != nil {
		return nil, err
	}
	// the query already filters; this keeps the inclusive rule authoritative
	out := events[:0]
	for _, ev := range events {
		if ev.ID != excludeEventID && DatesOverlap(ev.StartDate, ev.EndDate, start, end) {
			out = append(out, ev)
		}
	}
	return out, nil
}

// Ensure fails with BadRequest naming the conflicting dates when venueID
// is booked during [start, end].
func (c AvailabilityChecker) Ensure(ctx context.Context, r repository.Repos, venueID uint64, start, end model.Date, excludeEventID uint64) error {
	conflicts, err := c.Overlaps(ctx, r, venueID, start, end, excludeEventID)
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		return badRequest("%s", ConflictMessage(conflicts))
	}
	return nil
}

// ConflictMessage renders the user facing double-booking error.  A
// one-day event is shown as a single date, longer events as
// "start to end".
func ConflictMessage(conflicts []model.Event) string {
	ranges := make([]string, 0, len(conflicts))
	for _, ev := range conflicts {
		ranges = append(ranges, dateRange(ev.StartDate, ev.EndDate))
	}
	return "Venue is already booked for the selected dates. Conflicting dates: " + strings.Join(ranges, ", ")
}

func dateRange(start, end model.Date) string {
	if start.Equal(end.Time) {
		return start.String()
	}
	return start.String() + " to " + end.String()
}
