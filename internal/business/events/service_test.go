package events

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weekgrid/calendar-backend/internal/database"
	"github.com/weekgrid/calendar-backend/internal/model"
)

// fakePGX satisfies database.PGX for services whose repositories ignore the
// queryable. The embedded interface is never called.
type fakePGX struct {
	database.Queryable
	commits   int
	rollbacks int
}

func (f *fakePGX) GetPool(_ context.Context) *pgxpool.Pool { return nil }

func (f *fakePGX) BeginTx(_ context.Context, _ *pgx.TxOptions) (database.Tx, error) {
	return &fakeTx{db: f}, nil
}

type fakeTx struct {
	database.Queryable
	db       *fakePGX
	finished bool
}

func (f *fakeTx) Commit(_ context.Context) error {
	f.finished = true
	f.db.commits++
	return nil
}

func (f *fakeTx) Rollback(_ context.Context) error {
	if !f.finished {
		f.db.rollbacks++
	}
	return nil
}

type storedInstance struct {
	headID int64
	event  *model.EventCreate
}

type fakeRepository struct {
	events       map[int64]*model.Event
	participants map[int64]*model.Participant
	instances    []storedInstance
	nextID       int64

	deletedEvents       []int64
	clearedParticipants []int64
}

func (f *fakeRepository) CreateEvent(_ context.Context, _ database.Queryable, event *model.EventCreate) (int64, error) {
	f.nextID++
	f.events[f.nextID] = &model.Event{ID: f.nextID, EventCreate: *event}
	return f.nextID, nil
}

func (f *fakeRepository) CreateInstances(_ context.Context, _ database.Queryable, headID int64, instances []*model.EventCreate) error {
	for _, instance := range instances {
		f.instances = append(f.instances, storedInstance{headID: headID, event: instance})
	}
	return nil
}

func (f *fakeRepository) CreateParticipants(_ context.Context, _ database.Queryable, eventID int64, participants []*model.Participant) error {
	for _, p := range participants {
		f.nextID++
		stored := *p
		stored.ID = f.nextID
		stored.EventID = eventID
		f.participants[f.nextID] = &stored
	}
	return nil
}

func (f *fakeRepository) GetEventByID(_ context.Context, _ database.Queryable, id int64) (*model.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, model.ErrNoRecord
	}
	copied := *e
	return &copied, nil
}

func (f *fakeRepository) GetEvents(_ context.Context, _ database.Queryable, filter model.EventsFilter) ([]*model.Event, error) {
	var res []*model.Event
	for _, e := range f.events {
		copied := *e
		res = append(res, &copied)
	}
	return res, nil
}

func (f *fakeRepository) CountEvents(_ context.Context, _ database.Queryable, _ model.EventsFilter) (int, error) {
	return len(f.events), nil
}

func (f *fakeRepository) GetParticipants(_ context.Context, _ database.Queryable, eventID int64) ([]*model.Participant, error) {
	var res []*model.Participant
	for _, p := range f.participants {
		if p.EventID == eventID {
			res = append(res, p)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (f *fakeRepository) GetParticipantsByEventIDs(_ context.Context, _ database.Queryable, eventIDs []int64) ([]*model.Participant, error) {
	var res []*model.Participant
	for _, id := range eventIDs {
		for _, p := range f.participants {
			if p.EventID == id {
				res = append(res, p)
			}
		}
	}
	return res, nil
}

func (f *fakeRepository) GetParticipantByID(_ context.Context, _ database.Queryable, id int64) (*model.Participant, error) {
	p, ok := f.participants[id]
	if !ok {
		return nil, model.ErrNoRecord
	}
	return p, nil
}

func (f *fakeRepository) UpdateEvent(_ context.Context, _ database.Queryable, id int64, info *model.EventUpdate) error {
	e := f.events[id]
	e.Title = info.Title
	e.Description = info.Description
	e.Location = info.Location
	e.From = info.From
	e.To = info.To
	e.AllDay = info.AllDay
	e.Color = info.Color
	e.CalendarID = info.CalendarID
	e.Recurring = info.Recurring
	e.RecurrenceRule = info.RecurrenceRule
	return nil
}

func (f *fakeRepository) UpdateParticipantStatus(_ context.Context, _ database.Queryable, id int64, status model.ParticipantStatus) error {
	f.participants[id].Status = status
	return nil
}

func (f *fakeRepository) DeleteEvent(_ context.Context, _ database.Queryable, id int64) error {
	delete(f.events, id)
	f.deletedEvents = append(f.deletedEvents, id)
	return nil
}

func (f *fakeRepository) DeleteParticipants(_ context.Context, _ database.Queryable, eventID int64) error {
	for id, p := range f.participants {
		if p.EventID == eventID {
			delete(f.participants, id)
		}
	}
	f.clearedParticipants = append(f.clearedParticipants, eventID)
	return nil
}

type fakeUsers struct {
	users map[string]*model.User
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, _ database.Queryable, email string) (*model.User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, model.ErrNoRecord
	}
	return u, nil
}

// fakeAccess grants calendar roles from a map and delegates event checks to
// the repository's owner field plus the same map.
type fakeAccess struct {
	repo   *fakeRepository
	grants map[int64]map[int64]model.Role
}

func (f *fakeAccess) ResolveCalendar(_ context.Context, _ database.Queryable, userID, calendarID int64, required *model.Role) (bool, error) {
	role, ok := f.grants[userID][calendarID]
	if !ok {
		return false, nil
	}
	if required == nil {
		return true, nil
	}
	return role.Covers(*required), nil
}

func (f *fakeAccess) ResolveEvent(ctx context.Context, q database.Queryable, userID, eventID int64, required *model.Role) (bool, error) {
	e, ok := f.repo.events[eventID]
	if !ok {
		return false, nil
	}
	if e.OwnerID == userID {
		return true, nil
	}
	for _, p := range f.repo.participants {
		if p.EventID == eventID && p.UserID != nil && *p.UserID == userID {
			return true, nil
		}
	}
	return f.ResolveCalendar(ctx, q, userID, e.CalendarID, required)
}

func newFixture() (*fakeRepository, *fakePGX, *Service) {
	repo := &fakeRepository{
		events:       map[int64]*model.Event{},
		participants: map[int64]*model.Participant{},
	}
	db := &fakePGX{}
	users := &fakeUsers{users: map[string]*model.User{
		"friend@example.com": {ID: 20, UserCreate: model.UserCreate{Email: "friend@example.com"}},
	}}
	access := &fakeAccess{repo: repo, grants: map[int64]map[int64]model.Role{
		10: {1: model.RoleOwner},
		20: {1: model.RoleViewer},
	}}

	return repo, db, NewService(db, repo, users, access)
}

func TestCreateEventRecurringFanOut(t *testing.T) {
	repo, db, s := newFixture()

	from := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	created, err := s.CreateEvent(context.Background(), 10, &model.EventCreate{
		Title:          "Standup",
		From:           from,
		To:             from.Add(30 * time.Minute),
		CalendarID:     1,
		Recurring:      true,
		RecurrenceRule: "FREQ=DAILY;COUNT=3",
	}, nil)
	require.NoError(t, err)

	// Head row covers the seed; two generated instances follow on the next
	// two days at the same clock time.
	require.Len(t, repo.instances, 2)
	assert.Equal(t, created.ID, repo.instances[0].headID)
	assert.Equal(t, created.ID, repo.instances[1].headID)

	first := repo.instances[0].event
	assert.Equal(t, from.AddDate(0, 0, 1), first.From)
	assert.Equal(t, 30*time.Minute, first.To.Sub(first.From))
	assert.False(t, first.Recurring)
	assert.Empty(t, first.RecurrenceRule)

	second := repo.instances[1].event
	assert.Equal(t, from.AddDate(0, 0, 2), second.From)

	assert.Equal(t, 1, db.commits)
	assert.Equal(t, 0, db.rollbacks)
}

func TestCreateEventRuleEndsBeforeStart(t *testing.T) {
	repo, db, s := newFixture()

	// An UNTIL in the past still yields the seed row; only the fan-out is
	// suppressed.
	from := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	created, err := s.CreateEvent(context.Background(), 10, &model.EventCreate{
		Title:          "Expired series",
		From:           from,
		To:             from.Add(time.Hour),
		CalendarID:     1,
		Recurring:      true,
		RecurrenceRule: "FREQ=DAILY;UNTIL=2020-01-01",
	}, nil)
	require.NoError(t, err)

	assert.NotZero(t, created.ID)
	assert.Empty(t, repo.instances)
	assert.Equal(t, 1, db.commits)
	assert.Equal(t, 0, db.rollbacks)
}

func TestCreateEventResolvesParticipantAccounts(t *testing.T) {
	repo, _, s := newFixture()

	from := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	created, err := s.CreateEvent(context.Background(), 10, &model.EventCreate{
		Title:      "Lunch",
		From:       from,
		To:         from.Add(time.Hour),
		CalendarID: 1,
	}, []*model.ParticipantCreate{
		{Email: "friend@example.com", Name: "Friend"},
		{Email: "stranger@example.com", Name: "Stranger"},
	})
	require.NoError(t, err)
	require.Len(t, created.Participants, 2)

	require.NotNil(t, created.Participants[0].UserID)
	assert.Equal(t, int64(20), *created.Participants[0].UserID)
	assert.Nil(t, created.Participants[1].UserID)
	assert.Equal(t, model.ParticipantPending, created.Participants[0].Status)

	stored, err := repo.GetParticipants(context.Background(), nil, created.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestCreateEventInvalidWindow(t *testing.T) {
	_, _, s := newFixture()

	from := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	_, err := s.CreateEvent(context.Background(), 10, &model.EventCreate{
		Title:      "Backwards",
		From:       from,
		To:         from.Add(-time.Hour),
		CalendarID: 1,
	}, nil)
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestCreateEventRecurringWithoutRule(t *testing.T) {
	_, _, s := newFixture()

	from := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	_, err := s.CreateEvent(context.Background(), 10, &model.EventCreate{
		Title:      "Broken",
		From:       from,
		To:         from.Add(time.Hour),
		CalendarID: 1,
		Recurring:  true,
	}, nil)
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestCreateEventViewerDenied(t *testing.T) {
	_, _, s := newFixture()

	from := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	_, err := s.CreateEvent(context.Background(), 20, &model.EventCreate{
		Title:      "Not yours",
		From:       from,
		To:         from.Add(time.Hour),
		CalendarID: 1,
	}, nil)
	assert.ErrorIs(t, err, model.ErrNoRecord)
}

func TestCreateEventClearsStaleRule(t *testing.T) {
	repo, _, s := newFixture()

	from := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	created, err := s.CreateEvent(context.Background(), 10, &model.EventCreate{
		Title:          "One-off",
		From:           from,
		To:             from.Add(time.Hour),
		CalendarID:     1,
		RecurrenceRule: "FREQ=DAILY",
	}, nil)
	require.NoError(t, err)

	assert.Empty(t, created.RecurrenceRule)
	assert.Empty(t, repo.events[created.ID].RecurrenceRule)
	assert.Empty(t, repo.instances)
}

func TestGetEventsPagination(t *testing.T) {
	repo, _, s := newFixture()

	from := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := repo.CreateEvent(context.Background(), nil, &model.EventCreate{
			Title:      "Event",
			From:       from.AddDate(0, 0, i),
			To:         from.AddDate(0, 0, i).Add(time.Hour),
			CalendarID: 1,
			OwnerID:    10,
		})
		require.NoError(t, err)
	}

	page, err := s.GetEvents(context.Background(), model.EventsFilter{UserID: 10})
	require.NoError(t, err)

	assert.Equal(t, 3, page.Total)
	assert.Equal(t, defaultPageLimit, page.Limit)
	assert.Len(t, page.Events, 3)
	assert.False(t, page.HasMore())
}

func TestUpdateEventParticipantSemantics(t *testing.T) {
	repo, _, s := newFixture()

	from := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	created, err := s.CreateEvent(context.Background(), 10, &model.EventCreate{
		Title:      "Review",
		From:       from,
		To:         from.Add(time.Hour),
		CalendarID: 1,
	}, []*model.ParticipantCreate{{Email: "friend@example.com", Name: "Friend"}})
	require.NoError(t, err)

	update := &model.EventUpdate{
		Title:      "Review (moved)",
		From:       from.Add(time.Hour),
		To:         from.Add(2 * time.Hour),
		CalendarID: 1,
	}

	// Nil slice leaves the invitee list alone.
	require.NoError(t, s.UpdateEvent(context.Background(), 10, created.ID, update, nil))
	stored, err := repo.GetParticipants(context.Background(), nil, created.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
	assert.Empty(t, repo.clearedParticipants)

	// Empty slice clears it.
	require.NoError(t, s.UpdateEvent(context.Background(), 10, created.ID, update, []*model.ParticipantCreate{}))
	stored, err = repo.GetParticipants(context.Background(), nil, created.ID)
	require.NoError(t, err)
	assert.Empty(t, stored)
	assert.Equal(t, []int64{created.ID}, repo.clearedParticipants)

	assert.Equal(t, "Review (moved)", repo.events[created.ID].Title)
}

func TestDeleteEventDoesNotCascade(t *testing.T) {
	repo, _, s := newFixture()

	from := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	created, err := s.CreateEvent(context.Background(), 10, &model.EventCreate{
		Title:          "Series",
		From:           from,
		To:             from.Add(time.Hour),
		CalendarID:     1,
		Recurring:      true,
		RecurrenceRule: "FREQ=DAILY;COUNT=3",
	}, nil)
	require.NoError(t, err)
	require.Len(t, repo.instances, 2)

	require.NoError(t, s.DeleteEvent(context.Background(), 10, created.ID))

	assert.Equal(t, []int64{created.ID}, repo.deletedEvents)
	assert.Len(t, repo.instances, 2)
}

func TestUpdateParticipantStatus(t *testing.T) {
	repo, _, s := newFixture()

	from := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	created, err := s.CreateEvent(context.Background(), 10, &model.EventCreate{
		Title:      "Party",
		From:       from,
		To:         from.Add(time.Hour),
		CalendarID: 1,
	}, []*model.ParticipantCreate{{Email: "friend@example.com", Name: "Friend"}})
	require.NoError(t, err)
	require.Len(t, created.Participants, 1)
	participantID := created.Participants[0].ID

	// The participant answers for themselves.
	require.NoError(t, s.UpdateParticipantStatus(context.Background(), 20, participantID, model.ParticipantAccepted))
	assert.Equal(t, model.ParticipantAccepted, repo.participants[participantID].Status)

	// The owner may answer for anyone.
	require.NoError(t, s.UpdateParticipantStatus(context.Background(), 10, participantID, model.ParticipantDeclined))
	assert.Equal(t, model.ParticipantDeclined, repo.participants[participantID].Status)

	// Bad status never reaches the repository.
	err = s.UpdateParticipantStatus(context.Background(), 20, participantID, "maybe")
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestUpdateParticipantStatusStrangerDenied(t *testing.T) {
	_, _, s := newFixture()

	from := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	created, err := s.CreateEvent(context.Background(), 10, &model.EventCreate{
		Title:      "Private",
		From:       from,
		To:         from.Add(time.Hour),
		CalendarID: 1,
	}, []*model.ParticipantCreate{{Email: "friend@example.com", Name: "Friend"}})
	require.NoError(t, err)

	err = s.UpdateParticipantStatus(context.Background(), 99, created.Participants[0].ID, model.ParticipantAccepted)
	assert.ErrorIs(t, err, model.ErrNoRecord)
}
