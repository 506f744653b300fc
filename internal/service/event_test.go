package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dileeka1998/Event-Planner-sub000/internal/model"
	"github.com/dileeka1998/Event-Planner-sub000/internal/planner"
)

type stubPlanner struct {
	brief      *planner.BriefFields
	briefErr   error
	proposal   []model.Assignment
	proposeErr error
	requests   []planner.ScheduleRequest
}

func (p *stubPlanner) ParseBrief(context.Context, string) (*planner.BriefFields, error) {
	if p.briefErr != nil {
		return nil, p.briefErr
	}
	if p.brief == nil {
		return &planner.BriefFields{}, nil
	}
	return p.brief, nil
}

func (p *stubPlanner) ProposeSchedule(_ context.Context, req planner.ScheduleRequest) ([]model.Assignment, error) {
	p.requests = append(p.requests, req)
	return p.proposal, p.proposeErr
}

func mustDate(t *testing.T, s string) *model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	if err != nil {
		t.Fatal(err)
	}
	return &d
}

func TestDatesOverlapBoundary(t *testing.T) {
	d := func(s string) model.Date { v, _ := model.ParseDate(s); return v }
	cases := []struct {
		name           string
		s1, e1, s2, e2 string
		want           bool
	}{
		{"shared last day", "2026-01-10", "2026-01-12", "2026-01-12", "2026-01-14", true},
		{"adjacent", "2026-01-10", "2026-01-12", "2026-01-13", "2026-01-14", false},
		{"contained", "2026-01-10", "2026-01-20", "2026-01-12", "2026-01-13", true},
		{"before", "2026-01-01", "2026-01-02", "2026-01-05", "2026-01-06", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DatesOverlap(d(tc.s1), d(tc.e1), d(tc.s2), d(tc.e2)); got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestConflictMessage(t *testing.T) {
	a, _ := model.ParseDate("2026-01-10")
	b, _ := model.ParseDate("2026-01-12")
	c, _ := model.ParseDate("2026-02-01")
	msg := ConflictMessage([]model.Event{
		{StartDate: a, EndDate: b},
		{StartDate: c, EndDate: c},
	})
	want := "Venue is already booked for the selected dates. Conflicting dates: 2026-01-10 to 2026-01-12, 2026-02-01"
	if msg != want {
		t.Fatalf("got %q\nwant %q", msg, want)
	}
}

func TestCreateEventSeedsBudget(t *testing.T) {
	m := newMemStore()
	org := m.addUser("Org", model.RoleOrganizer)
	actor := Actor{UserID: org.ID, Role: model.RoleOrganizer}
	svc := NewEventService(m, &stubPlanner{}, discardLogger())
	amt := decimal.NewFromInt(100000)

	ev, err := svc.Create(context.Background(), actor, CreateEventInput{
		Title: "Summit", StartDate: mustDate(t, "2026-05-01"), EndDate: mustDate(t, "2026-05-02"), BudgetAmount: &amt,
	})
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewBudgetService(m, discardLogger()).Get(context.Background(), actor, ev.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Items) != 4 || b.TotalEstimated.StringFixed(2) != "100000.00" {
		t.Fatalf("budget = %+v", b)
	}
}

func TestCreateEventExplicitItemsWin(t *testing.T) {
	m := newMemStore()
	org := m.addUser("Org", model.RoleOrganizer)
	actor := Actor{UserID: org.ID, Role: model.RoleOrganizer}
	svc := NewEventService(m, &stubPlanner{}, discardLogger())
	amt := decimal.NewFromInt(1000)

	ev, err := svc.Create(context.Background(), actor, CreateEventInput{
		Title: "Meetup", StartDate: mustDate(t, "2026-05-01"), EndDate: mustDate(t, "2026-05-01"), BudgetAmount: &amt,
		BudgetItems: []ItemInput{{Category: "Pizza", EstimatedAmount: dec("250")}},
	})
	if err != nil {
		t.Fatal(err)
	}
	b, _ := NewBudgetService(m, discardLogger()).Get(context.Background(), actor, ev.ID)
	if len(b.Items) != 1 || b.Items[0].Category != "Pizza" || b.TotalEstimated.StringFixed(2) != "250.00" {
		t.Fatalf("budget = %+v", b)
	}
}

func TestCreateEventFromBriefFillsBlanks(t *testing.T) {
	m := newMemStore()
	org := m.addUser("Org", model.RoleOrganizer)
	title, start, end, aud := "From Brief", "2026-06-01", "2026-06-03", 80
	stub := &stubPlanner{brief: &planner.BriefFields{Title: &title, StartDate: &start, EndDate: &end, ExpectedAudience: &aud}}
	svc := NewEventService(m, stub, discardLogger())

	ev, err := svc.Create(context.Background(), Actor{UserID: org.ID, Role: model.RoleOrganizer}, CreateEventInput{
		Title: "Mine", Brief: "three days in june for 80 people",
	})
	if err != nil {
		t.Fatal(err)
	}
	if ev.Title != "Mine" {
		t.Errorf("explicit title overwritten: %q", ev.Title)
	}
	if ev.StartDate.String() != start || ev.EndDate.String() != end {
		t.Errorf("dates = %s..%s", ev.StartDate, ev.EndDate)
	}
	if ev.ExpectedAudience == nil || *ev.ExpectedAudience != aud {
		t.Errorf("audience = %v", ev.ExpectedAudience)
	}
}

func TestCreateEventBriefFailureIsNotFatal(t *testing.T) {
	m := newMemStore()
	org := m.addUser("Org", model.RoleOrganizer)
	svc := NewEventService(m, &stubPlanner{briefErr: planner.ErrDisabled}, discardLogger())

	_, err := svc.Create(context.Background(), Actor{UserID: org.ID, Role: model.RoleOrganizer}, CreateEventInput{
		Title: "T", StartDate: mustDate(t, "2026-06-01"), EndDate: mustDate(t, "2026-06-01"), Brief: "anything",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
}

func TestCreateEventVenueRules(t *testing.T) {
	m := newMemStore()
	org := m.addUser("Org", model.RoleOrganizer)
	other := m.addUser("Other", model.RoleOrganizer)
	v := m.addVenue(org.ID, 100)
	foreign := m.addVenue(other.ID, 100)
	m.addEvent(org.ID, &v.ID, nil, "2026-01-10", "2026-01-12")
	actor := Actor{UserID: org.ID, Role: model.RoleOrganizer}
	svc := NewEventService(m, &stubPlanner{}, discardLogger())
	ctx := context.Background()

	_, err := svc.Create(ctx, actor, CreateEventInput{
		Title: "Clash", StartDate: mustDate(t, "2026-01-12"), EndDate: mustDate(t, "2026-01-14"), VenueID: &v.ID,
	})
	var se *Error
	if !errors.As(err, &se) || !errors.Is(err, ErrBadRequest) {
		t.Fatalf("overlap err = %v", err)
	}
	if se.Message != "Venue is already booked for the selected dates. Conflicting dates: 2026-01-10 to 2026-01-12" {
		t.Errorf("message = %q", se.Message)
	}

	if _, err := svc.Create(ctx, actor, CreateEventInput{
		Title: "Next", StartDate: mustDate(t, "2026-01-13"), EndDate: mustDate(t, "2026-01-14"), VenueID: &v.ID,
	}); err != nil {
		t.Fatalf("adjacent dates rejected: %v", err)
	}

	if _, err := svc.Create(ctx, actor, CreateEventInput{
		Title: "Big", StartDate: mustDate(t, "2026-03-01"), EndDate: mustDate(t, "2026-03-01"), VenueID: &v.ID, ExpectedAudience: intPtr(101),
	}); !errors.Is(err, ErrBadRequest) {
		t.Errorf("audience over capacity err = %v", err)
	}

	if _, err := svc.Create(ctx, actor, CreateEventInput{
		Title: "Foreign", StartDate: mustDate(t, "2026-03-01"), EndDate: mustDate(t, "2026-03-01"), VenueID: &foreign.ID,
	}); !errors.Is(err, ErrForbidden) {
		t.Errorf("foreign venue err = %v", err)
	}

	if _, err := svc.Create(ctx, actor, CreateEventInput{
		Title: "Backwards", StartDate: mustDate(t, "2026-03-02"), EndDate: mustDate(t, "2026-03-01"),
	}); !errors.Is(err, ErrBadRequest) {
		t.Errorf("reversed dates err = %v", err)
	}
}

func TestUpdateEventExcludesItself(t *testing.T) {
	m := newMemStore()
	org := m.addUser("Org", model.RoleOrganizer)
	v := m.addVenue(org.ID, 100)
	ev := m.addEvent(org.ID, &v.ID, nil, "2026-01-10", "2026-01-12")
	svc := NewEventService(m, &stubPlanner{}, discardLogger())
	actor := Actor{UserID: org.ID, Role: model.RoleOrganizer}

	got, err := svc.Update(context.Background(), actor, ev.ID, UpdateEventInput{EndDate: mustDate(t, "2026-01-13")})
	if err != nil {
		t.Fatalf("reschedule over own dates: %v", err)
	}
	if got.EndDate.String() != "2026-01-13" {
		t.Fatalf("end = %s", got.EndDate)
	}

	detach := uint64(0)
	got, err = svc.Update(context.Background(), actor, ev.ID, UpdateEventInput{VenueID: &detach})
	if err != nil {
		t.Fatal(err)
	}
	if got.VenueID != nil {
		t.Fatalf("venue not detached: %v", *got.VenueID)
	}
}

func TestDeleteEventCascades(t *testing.T) {
	m := newMemStore()
	org := m.addUser("Org", model.RoleOrganizer)
	a := m.addUser("A", model.RoleAttendee)
	actor := Actor{UserID: org.ID, Role: model.RoleOrganizer}
	evSvc := NewEventService(m, &stubPlanner{}, discardLogger())
	ctx := context.Background()
	amt := decimal.NewFromInt(500)

	ev, err := evSvc.Create(ctx, actor, CreateEventInput{
		Title: "Gone", StartDate: mustDate(t, "2026-04-01"), EndDate: mustDate(t, "2026-04-01"), BudgetAmount: &amt, ExpectedAudience: intPtr(5),
	})
	if err != nil {
		t.Fatal(err)
	}
	rm := m.addRoom(ev.ID, "A1", 5)
	ss := m.addSession(ev.ID, "Talk")
	ss.RoomID = &rm.ID
	m.sessions[ss.ID] = ss
	if _, err := newRegistration(m, "row", nil).Register(ctx, ev.ID, a.ID); err != nil {
		t.Fatal(err)
	}

	if err := evSvc.Delete(ctx, Actor{UserID: a.ID, Role: model.RoleAttendee}, ev.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("attendee delete err = %v", err)
	}
	if err := evSvc.Delete(ctx, actor, ev.ID); err != nil {
		t.Fatal(err)
	}
	if len(m.events)+len(m.rooms)+len(m.sessions)+len(m.attendees)+len(m.budgets)+len(m.items) != 0 {
		t.Fatalf("leftovers: events=%d rooms=%d sessions=%d attendees=%d budgets=%d items=%d",
			len(m.events), len(m.rooms), len(m.sessions), len(m.attendees), len(m.budgets), len(m.items))
	}
	if _, err := evSvc.Get(ctx, ev.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get after delete err = %v", err)
	}
}

func TestListEventsByRole(t *testing.T) {
	m := newMemStore()
	o1 := m.addUser("O1", model.RoleOrganizer)
	o2 := m.addUser("O2", model.RoleOrganizer)
	m.addEvent(o1.ID, nil, nil, "2026-01-01", "2026-01-01")
	m.addEvent(o2.ID, nil, nil, "2026-01-02", "2026-01-02")
	svc := NewEventService(m, &stubPlanner{}, discardLogger())
	ctx := context.Background()

	own, _ := svc.List(ctx, Actor{UserID: o1.ID, Role: model.RoleOrganizer})
	all, _ := svc.List(ctx, Actor{UserID: 99, Role: model.RoleAttendee})
	if len(own) != 1 || len(all) != 2 {
		t.Fatalf("own=%d all=%d", len(own), len(all))
	}
}

func TestConcurrentCreateCannotDoubleBookVenue(t *testing.T) {
	m := newMemStore()
	org := m.addUser("Org", model.RoleOrganizer)
	v := m.addVenue(org.ID, 100)
	actor := Actor{UserID: org.ID, Role: model.RoleOrganizer}
	svc := NewEventService(m, &stubPlanner{}, discardLogger())
	// widen the gap between the overlap check and the insert
	m.hook = func(point string) {
		if point == "overlap" {
			time.Sleep(time.Millisecond)
		}
	}

	start, end := mustDate(t, "2026-06-01"), mustDate(t, "2026-06-03")
	const attempts = 5
	var (
		wg       sync.WaitGroup
		created  atomic.Int32
		rejected atomic.Int32
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(context.Background(), actor, CreateEventInput{
				Title: "Expo", StartDate: start, EndDate: end, VenueID: &v.ID,
			})
			switch {
			case err == nil:
				created.Add(1)
			case errors.Is(err, ErrBadRequest):
				rejected.Add(1)
			default:
				t.Errorf("create: %v", err)
			}
		}()
	}
	wg.Wait()

	if created.Load() != 1 || rejected.Load() != attempts-1 {
		t.Fatalf("created %d, rejected %d; want 1 and %d", created.Load(), rejected.Load(), attempts-1)
	}
}
