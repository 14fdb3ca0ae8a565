package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/weekgrid/calendar-backend/internal/database"
	"github.com/weekgrid/calendar-backend/internal/model"
	"github.com/weekgrid/calendar-backend/internal/recurrence"
)

// instancesHardCap bounds how many rows a single recurring event may fan out
// into, regardless of what its rule asks for.
const instancesHardCap = 30

const defaultPageLimit = 50

type Service struct {
	db               database.PGX
	eventsRepository eventsRepository
	usersRepository  usersRepository
	access           accessService
}

type eventsRepository interface {
	CreateEvent(ctx context.Context, q database.Queryable, event *model.EventCreate) (int64, error)
	CreateInstances(ctx context.Context, q database.Queryable, headID int64, instances []*model.EventCreate) error
	CreateParticipants(ctx context.Context, q database.Queryable, eventID int64, participants []*model.Participant) error
	GetEventByID(ctx context.Context, q database.Queryable, id int64) (*model.Event, error)
	GetEvents(ctx context.Context, q database.Queryable, filter model.EventsFilter) ([]*model.Event, error)
	CountEvents(ctx context.Context, q database.Queryable, filter model.EventsFilter) (int, error)
	GetParticipants(ctx context.Context, q database.Queryable, eventID int64) ([]*model.Participant, error)
	GetParticipantsByEventIDs(ctx context.Context, q database.Queryable, eventIDs []int64) ([]*model.Participant, error)
	GetParticipantByID(ctx context.Context, q database.Queryable, id int64) (*model.Participant, error)
	UpdateEvent(ctx context.Context, q database.Queryable, id int64, info *model.EventUpdate) error
	UpdateParticipantStatus(ctx context.Context, q database.Queryable, id int64, status model.ParticipantStatus) error
	DeleteEvent(ctx context.Context, q database.Queryable, id int64) error
	DeleteParticipants(ctx context.Context, q database.Queryable, eventID int64) error
}

type usersRepository interface {
	GetUserByEmail(ctx context.Context, q database.Queryable, email string) (*model.User, error)
}

type accessService interface {
	ResolveCalendar(ctx context.Context, q database.Queryable, userID, calendarID int64, required *model.Role) (bool, error)
	ResolveEvent(ctx context.Context, q database.Queryable, userID, eventID int64, required *model.Role) (bool, error)
}

func NewService(db database.PGX, events eventsRepository, users usersRepository, access accessService) *Service {
	return &Service{
		db:               db,
		eventsRepository: events,
		usersRepository:  users,
		access:           access,
	}
}

// CreateEvent stores the event and, for a recurring one, materializes its
// occurrences as linked rows in the same transaction. The creator must hold
// editor on the target calendar.
func (s *Service) CreateEvent(ctx context.Context, userID int64, info *model.EventCreate, participants []*model.ParticipantCreate) (*model.Event, error) {
	if info.To.Before(info.From) {
		return nil, model.ErrValidation
	}
	if info.Recurring && info.RecurrenceRule == "" {
		return nil, model.ErrValidation
	}
	if !info.Recurring {
		info.RecurrenceRule = ""
	}
	info.OwnerID = userID

	ok, err := s.access.ResolveCalendar(ctx, s.db, userID, info.CalendarID, rolePtr(model.RoleEditor))
	if err != nil {
		return nil, fmt.Errorf("access.ResolveCalendar: %w", err)
	}
	if !ok {
		return nil, model.ErrNoRecord
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	id, err := s.eventsRepository.CreateEvent(ctx, tx, info)
	if err != nil {
		return nil, fmt.Errorf("eventsRepository.CreateEvent: %w", err)
	}

	resolved, err := s.resolveParticipants(ctx, tx, id, participants)
	if err != nil {
		return nil, err
	}

	if err := s.eventsRepository.CreateParticipants(ctx, tx, id, resolved); err != nil {
		return nil, fmt.Errorf("eventsRepository.CreateParticipants: %w", err)
	}

	// Re-read so the response carries assigned participant ids.
	stored, err := s.eventsRepository.GetParticipants(ctx, tx, id)
	if err != nil {
		return nil, fmt.Errorf("eventsRepository.GetParticipants: %w", err)
	}

	if info.Recurring {
		if err := s.createInstances(ctx, tx, id, info); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &model.Event{
		ID:           id,
		Participants: stored,
		EventCreate:  *info,
	}, nil
}

func (s *Service) createInstances(ctx context.Context, tx database.Tx, headID int64, info *model.EventCreate) error {
	rule := recurrence.Parse(info.RecurrenceRule)
	occurrences := recurrence.Expand(info.From, info.To, rule, instancesHardCap)

	// The head row already covers the seed occurrence.
	instances := make([]*model.EventCreate, 0, len(occurrences))
	for _, occ := range occurrences[1:] {
		instance := *info
		instance.From = occ.Start
		instance.To = occ.End
		instance.Recurring = false
		instance.RecurrenceRule = ""
		instances = append(instances, &instance)
	}

	if err := s.eventsRepository.CreateInstances(ctx, tx, headID, instances); err != nil {
		return fmt.Errorf("eventsRepository.CreateInstances: %w", err)
	}

	return nil
}

// resolveParticipants links invitees to accounts by email where one exists;
// unknown emails stay as plain invitees.
func (s *Service) resolveParticipants(ctx context.Context, q database.Queryable, eventID int64, participants []*model.ParticipantCreate) ([]*model.Participant, error) {
	res := make([]*model.Participant, 0, len(participants))
	for _, p := range participants {
		participant := &model.Participant{
			EventID: eventID,
			Email:   p.Email,
			Name:    p.Name,
			Status:  model.ParticipantPending,
		}

		user, err := s.usersRepository.GetUserByEmail(ctx, q, p.Email)
		switch {
		case err == nil:
			participant.UserID = &user.ID
		case !errors.Is(err, model.ErrNoRecord):
			return nil, fmt.Errorf("usersRepository.GetUserByEmail: %w", err)
		}

		res = append(res, participant)
	}

	return res, nil
}

func (s *Service) GetEvent(ctx context.Context, userID, id int64) (*model.Event, error) {
	ok, err := s.access.ResolveEvent(ctx, s.db, userID, id, nil)
	if err != nil {
		return nil, fmt.Errorf("access.ResolveEvent: %w", err)
	}
	if !ok {
		return nil, model.ErrNoRecord
	}

	event, err := s.eventsRepository.GetEventByID(ctx, s.db, id)
	if err != nil {
		return nil, fmt.Errorf("eventsRepository.GetEventByID: %w", err)
	}

	participants, err := s.eventsRepository.GetParticipants(ctx, s.db, id)
	if err != nil {
		return nil, fmt.Errorf("eventsRepository.GetParticipants: %w", err)
	}
	event.Participants = participants

	return event, nil
}

func (s *Service) GetEvents(ctx context.Context, filter model.EventsFilter) (*model.EventsPage, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultPageLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	events, err := s.eventsRepository.GetEvents(ctx, s.db, filter)
	if err != nil {
		return nil, fmt.Errorf("eventsRepository.GetEvents: %w", err)
	}

	total, err := s.eventsRepository.CountEvents(ctx, s.db, filter)
	if err != nil {
		return nil, fmt.Errorf("eventsRepository.CountEvents: %w", err)
	}

	if err := s.attachParticipants(ctx, events); err != nil {
		return nil, err
	}

	return &model.EventsPage{
		Events: events,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}, nil
}

func (s *Service) attachParticipants(ctx context.Context, events []*model.Event) error {
	if len(events) == 0 {
		return nil
	}

	ids := make([]int64, len(events))
	byID := make(map[int64]*model.Event, len(events))
	for i, e := range events {
		ids[i] = e.ID
		byID[e.ID] = e
	}

	participants, err := s.eventsRepository.GetParticipantsByEventIDs(ctx, s.db, ids)
	if err != nil {
		return fmt.Errorf("eventsRepository.GetParticipantsByEventIDs: %w", err)
	}

	for _, p := range participants {
		e := byID[p.EventID]
		e.Participants = append(e.Participants, p)
	}

	return nil
}

// UpdateEvent rewrites the event in place. A nil participants slice leaves
// the invitee list untouched; an empty one clears it. Changes never propagate
// to already generated instances.
//
// info.CalendarID may move the event to another calendar; the move is
// authorized by editor access on the event alone, not on the target calendar.
func (s *Service) UpdateEvent(ctx context.Context, userID, id int64, info *model.EventUpdate, participants []*model.ParticipantCreate) error {
	if info.To.Before(info.From) {
		return model.ErrValidation
	}
	if info.Recurring && info.RecurrenceRule == "" {
		return model.ErrValidation
	}
	if !info.Recurring {
		info.RecurrenceRule = ""
	}

	ok, err := s.access.ResolveEvent(ctx, s.db, userID, id, rolePtr(model.RoleEditor))
	if err != nil {
		return fmt.Errorf("access.ResolveEvent: %w", err)
	}
	if !ok {
		return model.ErrNoRecord
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.eventsRepository.UpdateEvent(ctx, tx, id, info); err != nil {
		return fmt.Errorf("eventsRepository.UpdateEvent: %w", err)
	}

	if participants != nil {
		if err := s.eventsRepository.DeleteParticipants(ctx, tx, id); err != nil {
			return fmt.Errorf("eventsRepository.DeleteParticipants: %w", err)
		}

		resolved, err := s.resolveParticipants(ctx, tx, id, participants)
		if err != nil {
			return err
		}

		if err := s.eventsRepository.CreateParticipants(ctx, tx, id, resolved); err != nil {
			return fmt.Errorf("eventsRepository.CreateParticipants: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// DeleteEvent removes a single row. Deleting a series head orphans its
// generated instances rather than cascading onto them.
func (s *Service) DeleteEvent(ctx context.Context, userID, id int64) error {
	ok, err := s.access.ResolveEvent(ctx, s.db, userID, id, rolePtr(model.RoleEditor))
	if err != nil {
		return fmt.Errorf("access.ResolveEvent: %w", err)
	}
	if !ok {
		return model.ErrNoRecord
	}

	if err := s.eventsRepository.DeleteEvent(ctx, s.db, id); err != nil {
		return fmt.Errorf("eventsRepository.DeleteEvent: %w", err)
	}

	return nil
}

// UpdateParticipantStatus sets an RSVP. Participants answer for themselves;
// an event editor may answer for anyone.
func (s *Service) UpdateParticipantStatus(ctx context.Context, userID, participantID int64, status model.ParticipantStatus) error {
	if !status.Valid() {
		return model.ErrValidation
	}

	participant, err := s.eventsRepository.GetParticipantByID(ctx, s.db, participantID)
	if err != nil {
		if errors.Is(err, model.ErrNoRecord) {
			return model.ErrNoRecord
		}
		return fmt.Errorf("eventsRepository.GetParticipantByID: %w", err)
	}

	ok, err := s.access.ResolveEvent(ctx, s.db, userID, participant.EventID, nil)
	if err != nil {
		return fmt.Errorf("access.ResolveEvent: %w", err)
	}
	if !ok {
		return model.ErrNoRecord
	}

	self := participant.UserID != nil && *participant.UserID == userID
	if !self {
		editor, err := s.access.ResolveEvent(ctx, s.db, userID, participant.EventID, rolePtr(model.RoleEditor))
		if err != nil {
			return fmt.Errorf("access.ResolveEvent: %w", err)
		}
		if !editor {
			return model.ErrPermissionDenied
		}
	}

	if err := s.eventsRepository.UpdateParticipantStatus(ctx, s.db, participantID, status); err != nil {
		return fmt.Errorf("eventsRepository.UpdateParticipantStatus: %w", err)
	}

	return nil
}

func rolePtr(r model.Role) *model.Role { return &r }
