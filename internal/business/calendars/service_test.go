package calendars

import (
	"context"
	"testing"

	"github.com/gerow/go-color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weekgrid/calendar-backend/internal/database"
	"github.com/weekgrid/calendar-backend/internal/model"
)

type fakeRepository struct {
	calendars map[int64]*model.Calendar
	shares    map[int64]*model.CalendarShare
	nextID    int64

	deletedCalendars []int64
	deletedShares    []int64
}

func (f *fakeRepository) CreateCalendar(_ context.Context, _ database.Queryable, calendar *model.CalendarCreate) (int64, error) {
	f.nextID++
	f.calendars[f.nextID] = &model.Calendar{ID: f.nextID, CalendarCreate: *calendar}
	return f.nextID, nil
}

func (f *fakeRepository) GetCalendarByID(_ context.Context, _ database.Queryable, id int64) (*model.Calendar, error) {
	c, ok := f.calendars[id]
	if !ok {
		return nil, model.ErrNoRecord
	}
	return c, nil
}

func (f *fakeRepository) GetUserCalendars(_ context.Context, _ database.Queryable, userID int64, _ bool) ([]*model.Calendar, error) {
	var res []*model.Calendar
	for _, c := range f.calendars {
		if c.OwnerID == userID {
			res = append(res, c)
		}
	}
	return res, nil
}

func (f *fakeRepository) UpdateCalendar(_ context.Context, _ database.Queryable, id int64, info *model.CalendarUpdate) error {
	c := f.calendars[id]
	c.Name = info.Name
	c.Description = info.Description
	c.Color = info.Color
	c.IsPublic = info.IsPublic
	return nil
}

func (f *fakeRepository) DeleteCalendar(_ context.Context, _ database.Queryable, id int64) error {
	delete(f.calendars, id)
	f.deletedCalendars = append(f.deletedCalendars, id)
	return nil
}

func (f *fakeRepository) CreateShare(_ context.Context, _ database.Queryable, share *model.CalendarShare) (int64, error) {
	for _, s := range f.shares {
		if s.CalendarID == share.CalendarID && s.UserID == share.UserID {
			return 0, model.ErrAlreadyExists
		}
	}
	f.nextID++
	stored := *share
	stored.ID = f.nextID
	f.shares[f.nextID] = &stored
	return f.nextID, nil
}

func (f *fakeRepository) GetShareByID(_ context.Context, _ database.Queryable, id int64) (*model.CalendarShare, error) {
	s, ok := f.shares[id]
	if !ok {
		return nil, model.ErrNoRecord
	}
	return s, nil
}

func (f *fakeRepository) GetShares(_ context.Context, _ database.Queryable, calendarID int64) ([]*model.CalendarShare, error) {
	var res []*model.CalendarShare
	for _, s := range f.shares {
		if s.CalendarID == calendarID {
			res = append(res, s)
		}
	}
	return res, nil
}

func (f *fakeRepository) UpdateShareRole(_ context.Context, _ database.Queryable, id int64, role model.Role) error {
	f.shares[id].Role = role
	return nil
}

func (f *fakeRepository) DeleteShare(_ context.Context, _ database.Queryable, id int64) error {
	delete(f.shares, id)
	f.deletedShares = append(f.deletedShares, id)
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

// fakeAccess resolves from a grants map keyed by user then calendar.
type fakeAccess struct {
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

func newFixture() (*fakeRepository, *Service) {
	repo := &fakeRepository{
		calendars: map[int64]*model.Calendar{
			1: {ID: 1, CalendarCreate: model.CalendarCreate{Name: "Personal", IsDefault: true, OwnerID: 10}},
			2: {ID: 2, CalendarCreate: model.CalendarCreate{Name: "Work", OwnerID: 10}},
		},
		shares: map[int64]*model.CalendarShare{
			5: {ID: 5, CalendarID: 2, UserID: 20, Role: model.RoleViewer},
		},
		nextID: 100,
	}
	users := &fakeUsers{users: map[string]*model.User{
		"owner@example.com":  {ID: 10, UserCreate: model.UserCreate{Email: "owner@example.com"}},
		"friend@example.com": {ID: 20, UserCreate: model.UserCreate{Email: "friend@example.com"}},
		"other@example.com":  {ID: 30, UserCreate: model.UserCreate{Email: "other@example.com"}},
	}}
	access := &fakeAccess{grants: map[int64]map[int64]model.Role{
		10: {1: model.RoleOwner, 2: model.RoleOwner},
		20: {2: model.RoleViewer},
	}}

	return repo, NewService(nil, repo, users, access)
}

func TestCreateCalendarNeverDefault(t *testing.T) {
	repo, s := newFixture()

	created, err := s.CreateCalendar(context.Background(), &model.CalendarCreate{
		Name:      "Side project",
		Color:     color.RGB{R: 0.5},
		IsDefault: true,
		OwnerID:   10,
	})
	require.NoError(t, err)

	assert.False(t, created.IsDefault)
	assert.False(t, repo.calendars[created.ID].IsDefault)
}

func TestDeleteCalendar(t *testing.T) {
	repo, s := newFixture()

	require.NoError(t, s.DeleteCalendar(context.Background(), 10, 2))
	assert.Equal(t, []int64{2}, repo.deletedCalendars)
}

func TestDeleteDefaultCalendarRejected(t *testing.T) {
	repo, s := newFixture()

	err := s.DeleteCalendar(context.Background(), 10, 1)
	assert.ErrorIs(t, err, model.ErrDefaultCalendar)
	assert.Empty(t, repo.deletedCalendars)
}

func TestDeleteCalendarNotOwner(t *testing.T) {
	_, s := newFixture()

	err := s.DeleteCalendar(context.Background(), 20, 2)
	assert.ErrorIs(t, err, model.ErrNoRecord)
}

func TestShareCalendar(t *testing.T) {
	repo, s := newFixture()

	share, err := s.ShareCalendar(context.Background(), 10, 2, "other@example.com", model.RoleEditor)
	require.NoError(t, err)

	assert.Equal(t, int64(30), share.UserID)
	assert.Equal(t, model.RoleEditor, share.Role)
	assert.Equal(t, share, repo.shares[share.ID])
}

func TestShareCalendarDuplicate(t *testing.T) {
	_, s := newFixture()

	_, err := s.ShareCalendar(context.Background(), 10, 2, "friend@example.com", model.RoleEditor)
	assert.ErrorIs(t, err, model.ErrAlreadyExists)
}

func TestShareCalendarWithSelf(t *testing.T) {
	_, s := newFixture()

	_, err := s.ShareCalendar(context.Background(), 10, 2, "owner@example.com", model.RoleViewer)
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestShareCalendarOwnerRoleRejected(t *testing.T) {
	_, s := newFixture()

	_, err := s.ShareCalendar(context.Background(), 10, 2, "other@example.com", model.RoleOwner)
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestShareCalendarNotOwner(t *testing.T) {
	_, s := newFixture()

	// A viewer probing someone else's calendar sees the same not-found as a
	// stranger.
	_, err := s.ShareCalendar(context.Background(), 20, 2, "other@example.com", model.RoleViewer)
	assert.ErrorIs(t, err, model.ErrNoRecord)
}

func TestUpdateShareNotOwner(t *testing.T) {
	_, s := newFixture()

	err := s.UpdateShare(context.Background(), 20, 5, model.RoleEditor)
	assert.ErrorIs(t, err, model.ErrPermissionDenied)
}

func TestUpdateShare(t *testing.T) {
	repo, s := newFixture()

	require.NoError(t, s.UpdateShare(context.Background(), 10, 5, model.RoleEditor))
	assert.Equal(t, model.RoleEditor, repo.shares[5].Role)
}

func TestRemoveShareByGrantee(t *testing.T) {
	repo, s := newFixture()

	require.NoError(t, s.RemoveShare(context.Background(), 20, 5))
	assert.Equal(t, []int64{5}, repo.deletedShares)
}

func TestRemoveShareByStranger(t *testing.T) {
	_, s := newFixture()

	err := s.RemoveShare(context.Background(), 30, 5)
	assert.ErrorIs(t, err, model.ErrPermissionDenied)
}
