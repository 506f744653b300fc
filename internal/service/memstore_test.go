package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/dileeka1998/Event-Planner-sub000/internal/model"
	"github.com/dileeka1998/Event-Planner-sub000/internal/repository"
)

// memStore is an in-memory repository.Store.  Transactions run
// concurrently: mu guards the maps for the length of one statement, the
// ForUpdate reads take a per-row lock held until the transaction ends,
// and a failed transaction replays its undo journal.
type memStore struct {
	mu sync.Mutex

	rowMu sync.Mutex
	rows  map[string]*sync.Mutex

	// hook, when set before any concurrent use, runs outside mu after
	// selected statements ("count:<STATUS>", "overlap") so tests can widen
	// the gap between a read and the write that depends on it.
	hook func(point string)

	seq       uint64
	users     map[uint64]model.User
	venues    map[uint64]model.Venue
	events    map[uint64]model.Event
	rooms     map[uint64]model.Room
	sessions  map[uint64]model.Session
	attendees map[uint64]model.Attendee
	budgets   map[uint64]model.Budget
	items     map[uint64]model.BudgetItem

	lockedReads int
}

func newMemStore() *memStore {
	return &memStore{
		rows:      map[string]*sync.Mutex{},
		users:     map[uint64]model.User{},
		venues:    map[uint64]model.Venue{},
		events:    map[uint64]model.Event{},
		rooms:     map[uint64]model.Room{},
		sessions:  map[uint64]model.Session{},
		attendees: map[uint64]model.Attendee{},
		budgets:   map[uint64]model.Budget{},
		items:     map[uint64]model.BudgetItem{},
	}
}

// next must be called with mu held, or before the store is shared.
func (m *memStore) next() uint64 { m.seq++; return m.seq }

func (m *memStore) lock() func() {
	m.mu.Lock()
	return m.mu.Unlock
}

func (m *memStore) pause(point string) {
	if m.hook != nil {
		m.hook(point)
	}
}

// lockRow takes the row lock for key.  Inside a transaction it is held
// until WithTx returns; outside one it only waits out current holders.
func (m *memStore) lockRow(tx *memTx, key string) {
	m.rowMu.Lock()
	l, ok := m.rows[key]
	if !ok {
		l = &sync.Mutex{}
		m.rows[key] = l
	}
	m.rowMu.Unlock()

	if tx == nil {
		l.Lock()
		l.Unlock()
		return
	}
	for _, h := range tx.held {
		if h == l {
			return
		}
	}
	l.Lock()
	tx.held = append(tx.held, l)
}

func (m *memStore) Repos() repository.Repos { return m.repos(nil) }

func (m *memStore) repos(tx *memTx) repository.Repos {
	return repository.Repos{
		Users:     memUsers{m, tx},
		Venues:    memVenues{m, tx},
		Events:    memEvents{m, tx},
		Rooms:     memRooms{m, tx},
		Sessions:  memSessions{m, tx},
		Attendees: memAttendees{m, tx},
		Budgets:   memBudgets{m, tx},
	}
}

func (m *memStore) WithTx(_ context.Context, fn func(r repository.Repos) error) error {
	tx := &memTx{}
	defer tx.release()
	if err := fn(m.repos(tx)); err != nil {
		m.mu.Lock()
		for i := len(tx.undo) - 1; i >= 0; i-- {
			tx.undo[i]()
		}
		m.mu.Unlock()
		return err
	}
	return nil
}

// memTx is the state of one WithTx call.
type memTx struct {
	undo []func()
	held []*sync.Mutex
}

func (tx *memTx) release() {
	for i := len(tx.held) - 1; i >= 0; i-- {
		tx.held[i].Unlock()
	}
}

// put and del write through to mp and, inside a transaction, journal the
// previous value.  Callers hold mu.
func put[V any](tx *memTx, mp map[uint64]V, id uint64, v V) {
	if tx != nil {
		old, existed := mp[id]
		tx.undo = append(tx.undo, func() {
			if existed {
				mp[id] = old
			} else {
				delete(mp, id)
			}
		})
	}
	mp[id] = v
}

func del[V any](tx *memTx, mp map[uint64]V, id uint64) {
	old, existed := mp[id]
	if !existed {
		return
	}
	if tx != nil {
		tx.undo = append(tx.undo, func() { mp[id] = old })
	}
	delete(mp, id)
}

func sortedIDs[V any](in map[uint64]V) []uint64 {
	ids := make([]uint64, 0, len(in))
	for id := range in {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ---- seeding helpers ----

func (m *memStore) addUser(name, role string) model.User {
	u := model.User{ID: m.next(), Name: name, Email: strings.ToLower(name) + "@example.com", Role: role}
	m.users[u.ID] = u
	return u
}

func (m *memStore) addVenue(ownerID uint64, capacity int) model.Venue {
	v := model.Venue{ID: m.next(), Name: "Hall", Capacity: capacity, OwnerID: ownerID}
	m.venues[v.ID] = v
	return v
}

func (m *memStore) addEvent(organizerID uint64, venueID *uint64, audience *int, start, end string) model.Event {
	s, _ := model.ParseDate(start)
	e, _ := model.ParseDate(end)
	ev := model.Event{
		ID: m.next(), Title: "Event", StartDate: s, EndDate: e, ExpectedAudience: audience,
		BudgetAmount: decimal.Zero, OrganizerID: organizerID, VenueID: venueID,
	}
	m.events[ev.ID] = ev
	return ev
}

func (m *memStore) addRoom(eventID uint64, name string, capacity int) model.Room {
	rm := model.Room{ID: m.next(), EventID: eventID, Name: name, Capacity: capacity}
	m.rooms[rm.ID] = rm
	return rm
}

func (m *memStore) addSession(eventID uint64, title string) model.Session {
	ss := model.Session{ID: m.next(), EventID: eventID, Title: title, DurationMinutes: 30, Topic: model.TopicGeneral}
	m.sessions[ss.ID] = ss
	return ss
}

// ---- users ----

type memUsers struct {
	m  *memStore
	tx *memTx
}

func (r memUsers) Create(_ context.Context, u *model.User) error {
	defer r.m.lock()()
	for _, x := range r.m.users {
		if x.Email == u.Email {
			return repository.ErrConflict
		}
	}
	u.ID = r.m.next()
	put(r.tx, r.m.users, u.ID, *u)
	return nil
}

func (r memUsers) GetByID(_ context.Context, id uint64) (*model.User, error) {
	defer r.m.lock()()
	u, ok := r.m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	defer r.m.lock()()
	for _, u := range r.m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

// ---- venues ----

type memVenues struct {
	m  *memStore
	tx *memTx
}

func (r memVenues) Create(_ context.Context, v *model.Venue) error {
	defer r.m.lock()()
	v.ID = r.m.next()
	put(r.tx, r.m.venues, v.ID, *v)
	return nil
}

func (r memVenues) GetByID(_ context.Context, id uint64) (*model.Venue, error) {
	defer r.m.lock()()
	v, ok := r.m.venues[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &v, nil
}

func (r memVenues) GetByIDForUpdate(ctx context.Context, id uint64) (*model.Venue, error) {
	r.m.lockRow(r.tx, fmt.Sprintf("venue:%d", id))
	return r.GetByID(ctx, id)
}

func (r memVenues) ListByOwner(_ context.Context, ownerID uint64) ([]model.Venue, error) {
	defer r.m.lock()()
	out := []model.Venue{}
	for _, id := range sortedIDs(r.m.venues) {
		if v := r.m.venues[id]; v.OwnerID == ownerID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r memVenues) ListAll(_ context.Context) ([]model.Venue, error) {
	defer r.m.lock()()
	out := []model.Venue{}
	for _, id := range sortedIDs(r.m.venues) {
		out = append(out, r.m.venues[id])
	}
	return out, nil
}

func (r memVenues) Update(_ context.Context, v *model.Venue) error {
	defer r.m.lock()()
	if _, ok := r.m.venues[v.ID]; !ok {
		return repository.ErrNotFound
	}
	put(r.tx, r.m.venues, v.ID, *v)
	return nil
}

func (r memVenues) Delete(_ context.Context, id uint64) error {
	defer r.m.lock()()
	if _, ok := r.m.venues[id]; !ok {
		return repository.ErrNotFound
	}
	del(r.tx, r.m.venues, id)
	return nil
}

func (r memVenues) CountEvents(_ context.Context, venueID uint64) (int, error) {
	defer r.m.lock()()
	n := 0
	for _, ev := range r.m.events {
		if ev.VenueID != nil && *ev.VenueID == venueID {
			n++
		}
	}
	return n, nil
}

// ---- events ----

type memEvents struct {
	m  *memStore
	tx *memTx
}

func (r memEvents) hydrate(ev model.Event) *model.Event {
	ev.Venue = nil
	if ev.VenueID != nil {
		if v, ok := r.m.venues[*ev.VenueID]; ok {
			ev.Venue = &v
		}
	}
	return &ev
}

func (r memEvents) Create(_ context.Context, e *model.Event) error {
	defer r.m.lock()()
	e.ID = r.m.next()
	stored := *e
	stored.Venue = nil
	put(r.tx, r.m.events, e.ID, stored)
	return nil
}

func (r memEvents) GetByID(_ context.Context, id uint64) (*model.Event, error) {
	defer r.m.lock()()
	ev, ok := r.m.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.hydrate(ev), nil
}

func (r memEvents) GetByIDForUpdate(ctx context.Context, id uint64) (*model.Event, error) {
	r.m.lockRow(r.tx, fmt.Sprintf("event:%d", id))
	r.m.mu.Lock()
	r.m.lockedReads++
	r.m.mu.Unlock()
	return r.GetByID(ctx, id)
}

func (r memEvents) ListByOrganizer(_ context.Context, organizerID uint64) ([]model.Event, error) {
	defer r.m.lock()()
	out := []model.Event{}
	for _, id := range sortedIDs(r.m.events) {
		if ev := r.m.events[id]; ev.OrganizerID == organizerID {
			out = append(out, *r.hydrate(ev))
		}
	}
	return out, nil
}

func (r memEvents) ListAll(_ context.Context) ([]model.Event, error) {
	defer r.m.lock()()
	out := []model.Event{}
	for _, id := range sortedIDs(r.m.events) {
		out = append(out, *r.hydrate(r.m.events[id]))
	}
	return out, nil
}

func (r memEvents) Update(_ context.Context, e *model.Event) error {
	defer r.m.lock()()
	if _, ok := r.m.events[e.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *e
	stored.Venue = nil
	put(r.tx, r.m.events, e.ID, stored)
	return nil
}

func (r memEvents) Delete(_ context.Context, id uint64) error {
	defer r.m.lock()()
	if _, ok := r.m.events[id]; !ok {
		return repository.ErrNotFound
	}
	del(r.tx, r.m.events, id)
	return nil
}

func (r memEvents) FindOverlapping(_ context.Context, venueID uint64, start, end model.Date, excludeID uint64) ([]model.Event, error) {
	defer r.m.pause("overlap")
	defer r.m.lock()()
	out := []model.Event{}
	for _, id := range sortedIDs(r.m.events) {
		ev := r.m.events[id]
		if ev.VenueID == nil || *ev.VenueID != venueID || ev.ID == excludeID {
			continue
		}
		if ev.StartDate.OnOrBefore(end) && start.OnOrBefore(ev.EndDate) {
			out = append(out, *r.hydrate(ev))
		}
	}
	return out, nil
}

// ---- rooms ----

type memRooms struct {
	m  *memStore
	tx *memTx
}

func (r memRooms) Create(_ context.Context, rm *model.Room) error {
	defer r.m.lock()()
	rm.ID = r.m.next()
	put(r.tx, r.m.rooms, rm.ID, *rm)
	return nil
}

func (r memRooms) GetByID(_ context.Context, id uint64) (*model.Room, error) {
	defer r.m.lock()()
	rm, ok := r.m.rooms[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rm, nil
}

func (r memRooms) ListByEvent(_ context.Context, eventID uint64) ([]model.Room, error) {
	defer r.m.lock()()
	out := []model.Room{}
	for _, id := range sortedIDs(r.m.rooms) {
		if rm := r.m.rooms[id]; rm.EventID == eventID {
			out = append(out, rm)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memRooms) Update(_ context.Context, rm *model.Room) error {
	defer r.m.lock()()
	if _, ok := r.m.rooms[rm.ID]; !ok {
		return repository.ErrNotFound
	}
	put(r.tx, r.m.rooms, rm.ID, *rm)
	return nil
}

func (r memRooms) Delete(_ context.Context, id uint64) error {
	defer r.m.lock()()
	if _, ok := r.m.rooms[id]; !ok {
		return repository.ErrNotFound
	}
	del(r.tx, r.m.rooms, id)
	return nil
}

func (r memRooms) DeleteByEvent(_ context.Context, eventID uint64) error {
	defer r.m.lock()()
	for id, rm := range r.m.rooms {
		if rm.EventID == eventID {
			del(r.tx, r.m.rooms, id)
		}
	}
	return nil
}

// ---- sessions ----

type memSessions struct {
	m  *memStore
	tx *memTx
}

func (r memSessions) hydrate(ss model.Session) *model.Session {
	ss.Room = nil
	if ss.RoomID != nil {
		if rm, ok := r.m.rooms[*ss.RoomID]; ok {
			ss.Room = &model.RoomSummary{ID: rm.ID, Name: rm.Name}
		}
	}
	return &ss
}

func (r memSessions) Create(_ context.Context, s *model.Session) error {
	defer r.m.lock()()
	s.ID = r.m.next()
	put(r.tx, r.m.sessions, s.ID, *s)
	return nil
}

func (r memSessions) GetByID(_ context.Context, id uint64) (*model.Session, error) {
	defer r.m.lock()()
	ss, ok := r.m.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.hydrate(ss), nil
}

func (r memSessions) ListByEvent(_ context.Context, eventID uint64) ([]model.Session, error) {
	defer r.m.lock()()
	out := []model.Session{}
	for _, id := range sortedIDs(r.m.sessions) {
		if ss := r.m.sessions[id]; ss.EventID == eventID {
			out = append(out, *r.hydrate(ss))
		}
	}
	return out, nil
}

func (r memSessions) Update(_ context.Context, s *model.Session) error {
	defer r.m.lock()()
	if _, ok := r.m.sessions[s.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *s
	stored.Room = nil
	put(r.tx, r.m.sessions, s.ID, stored)
	return nil
}

func (r memSessions) Delete(_ context.Context, id uint64) error {
	defer r.m.lock()()
	if _, ok := r.m.sessions[id]; !ok {
		return repository.ErrNotFound
	}
	del(r.tx, r.m.sessions, id)
	return nil
}

func (r memSessions) ClearRoom(_ context.Context, roomID uint64) error {
	defer r.m.lock()()
	for id, ss := range r.m.sessions {
		if ss.RoomID != nil && *ss.RoomID == roomID {
			ss.RoomID = nil
			put(r.tx, r.m.sessions, id, ss)
		}
	}
	return nil
}

func (r memSessions) DeleteByEvent(_ context.Context, eventID uint64) error {
	defer r.m.lock()()
	for id, ss := range r.m.sessions {
		if ss.EventID == eventID {
			del(r.tx, r.m.sessions, id)
		}
	}
	return nil
}

// ---- attendees ----

type memAttendees struct {
	m  *memStore
	tx *memTx
}

func (r memAttendees) hydrate(a model.Attendee) *model.Attendee {
	if u, ok := r.m.users[a.UserID]; ok {
		a.User = &model.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	return &a
}

func (r memAttendees) Create(_ context.Context, a *model.Attendee) error {
	defer r.m.lock()()
	for _, x := range r.m.attendees {
		if x.EventID == a.EventID && x.UserID == a.UserID {
			return repository.ErrConflict
		}
	}
	a.ID = r.m.next()
	put(r.tx, r.m.attendees, a.ID, *a)
	return nil
}

func (r memAttendees) GetByEventAndUser(_ context.Context, eventID, userID uint64) (*model.Attendee, error) {
	defer r.m.lock()()
	for _, a := range r.m.attendees {
		if a.EventID == eventID && a.UserID == userID {
			return r.hydrate(a), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memAttendees) CountByStatus(_ context.Context, eventID uint64, status model.AttendeeStatus) (int, error) {
	defer r.m.pause("count:" + string(status))
	defer r.m.lock()()
	n := 0
	for _, a := range r.m.attendees {
		if a.EventID == eventID && a.Status == status {
			n++
		}
	}
	return n, nil
}

func (r memAttendees) OldestByStatus(_ context.Context, eventID uint64, status model.AttendeeStatus) (*model.Attendee, error) {
	defer r.m.lock()()
	all := r.listByEvent(eventID)
	for _, a := range all {
		if a.Status == status {
			return &a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memAttendees) UpdateStatus(_ context.Context, id uint64, status model.AttendeeStatus) error {
	defer r.m.lock()()
	a, ok := r.m.attendees[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.Status = status
	put(r.tx, r.m.attendees, id, a)
	return nil
}

func (r memAttendees) ListByEvent(_ context.Context, eventID uint64) ([]model.Attendee, error) {
	defer r.m.lock()()
	return r.listByEvent(eventID), nil
}

func (r memAttendees) listByEvent(eventID uint64) []model.Attendee {
	out := []model.Attendee{}
	for _, id := range sortedIDs(r.m.attendees) {
		if a := r.m.attendees[id]; a.EventID == eventID {
			out = append(out, *r.hydrate(a))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].JoinedAt.Equal(out[j].JoinedAt) {
			return out[i].JoinedAt.Before(out[j].JoinedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r memAttendees) DeleteByEvent(_ context.Context, eventID uint64) error {
	defer r.m.lock()()
	for id, a := range r.m.attendees {
		if a.EventID == eventID {
			del(r.tx, r.m.attendees, id)
		}
	}
	return nil
}

// ---- budgets ----

type memBudgets struct {
	m  *memStore
	tx *memTx
}

func (r memBudgets) Create(_ context.Context, b *model.Budget) error {
	defer r.m.lock()()
	for _, x := range r.m.budgets {
		if x.EventID == b.EventID {
			return repository.ErrConflict
		}
	}
	b.ID = r.m.next()
	stored := *b
	stored.Items = nil
	put(r.tx, r.m.budgets, b.ID, stored)
	return nil
}

func (r memBudgets) GetByID(_ context.Context, id uint64) (*model.Budget, error) {
	defer r.m.lock()()
	b, ok := r.m.budgets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &b, nil
}

func (r memBudgets) GetByEvent(_ context.Context, eventID uint64) (*model.Budget, error) {
	defer r.m.lock()()
	for _, b := range r.m.budgets {
		if b.EventID == eventID {
			return &b, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memBudgets) UpdateTotals(_ context.Context, id uint64, estimated, actual decimal.Decimal) error {
	defer r.m.lock()()
	b, ok := r.m.budgets[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.TotalEstimated, b.TotalActual = estimated, actual
	put(r.tx, r.m.budgets, id, b)
	return nil
}

func (r memBudgets) Delete(_ context.Context, id uint64) error {
	defer r.m.lock()()
	if _, ok := r.m.budgets[id]; !ok {
		return repository.ErrNotFound
	}
	del(r.tx, r.m.budgets, id)
	return nil
}

func (r memBudgets) ListItems(_ context.Context, budgetID uint64) ([]model.BudgetItem, error) {
	defer r.m.lock()()
	out := []model.BudgetItem{}
	for _, id := range sortedIDs(r.m.items) {
		if it := r.m.items[id]; it.BudgetID == budgetID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r memBudgets) GetItem(_ context.Context, id uint64) (*model.BudgetItem, error) {
	defer r.m.lock()()
	it, ok := r.m.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &it, nil
}

func (r memBudgets) CreateItem(_ context.Context, it *model.BudgetItem) error {
	defer r.m.lock()()
	it.ID = r.m.next()
	put(r.tx, r.m.items, it.ID, *it)
	return nil
}

func (r memBudgets) UpdateItem(_ context.Context, it *model.BudgetItem) error {
	defer r.m.lock()()
	if _, ok := r.m.items[it.ID]; !ok {
		return repository.ErrNotFound
	}
	put(r.tx, r.m.items, it.ID, *it)
	return nil
}

func (r memBudgets) DeleteItem(_ context.Context, id uint64) error {
	defer r.m.lock()()
	if _, ok := r.m.items[id]; !ok {
		return repository.ErrNotFound
	}
	del(r.tx, r.m.items, id)
	return nil
}

func (r memBudgets) DeleteItemsByBudget(_ context.Context, budgetID uint64) error {
	defer r.m.lock()()
	for id, it := range r.m.items {
		if it.BudgetID == budgetID {
			del(r.tx, r.m.items, id)
		}
	}
	return nil
}
