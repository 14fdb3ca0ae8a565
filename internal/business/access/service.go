package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/weekgrid/calendar-backend/internal/database"
	"github.com/weekgrid/calendar-backend/internal/model"
)

// Service answers whether a user may act on a calendar or event. Callers pass
// the minimum role the action needs; a nil role means any relationship with
// the resource is enough.
type Service struct {
	calendarsRepository calendarsRepository
	eventsRepository    eventsRepository
}

type calendarsRepository interface {
	GetCalendarByID(ctx context.Context, q database.Queryable, id int64) (*model.Calendar, error)
	GetShare(ctx context.Context, q database.Queryable, calendarID, userID int64) (*model.CalendarShare, error)
}

type eventsRepository interface {
	GetEventByID(ctx context.Context, q database.Queryable, id int64) (*model.Event, error)
	GetParticipantByUser(ctx context.Context, q database.Queryable, eventID, userID int64) (*model.Participant, error)
}

func NewService(calendars calendarsRepository, events eventsRepository) *Service {
	return &Service{
		calendarsRepository: calendars,
		eventsRepository:    events,
	}
}

// ResolveCalendar reports whether userID holds the required role on the
// calendar. A missing calendar resolves to false rather than an error, so
// callers can't distinguish denied from nonexistent.
func (s *Service) ResolveCalendar(ctx context.Context, q database.Queryable, userID, calendarID int64, required *model.Role) (bool, error) {
	calendar, err := s.calendarsRepository.GetCalendarByID(ctx, q, calendarID)
	if err != nil {
		if errors.Is(err, model.ErrNoRecord) {
			return false, nil
		}
		return false, fmt.Errorf("calendarsRepository.GetCalendarByID: %w", err)
	}

	return s.resolveCalendar(ctx, q, userID, calendar, required)
}

// ResolveEvent reports whether userID may act on the event. Participation
// grants access whatever role the action asks for, with no calendar grant
// needed; non-participants fall back to the containing calendar.
func (s *Service) ResolveEvent(ctx context.Context, q database.Queryable, userID, eventID int64, required *model.Role) (bool, error) {
	event, err := s.eventsRepository.GetEventByID(ctx, q, eventID)
	if err != nil {
		if errors.Is(err, model.ErrNoRecord) {
			return false, nil
		}
		return false, fmt.Errorf("eventsRepository.GetEventByID: %w", err)
	}

	if event.OwnerID == userID {
		return true, nil
	}

	if _, err := s.eventsRepository.GetParticipantByUser(ctx, q, eventID, userID); err == nil {
		return true, nil
	} else if !errors.Is(err, model.ErrNoRecord) {
		return false, fmt.Errorf("eventsRepository.GetParticipantByUser: %w", err)
	}

	calendar, err := s.calendarsRepository.GetCalendarByID(ctx, q, event.CalendarID)
	if err != nil {
		if errors.Is(err, model.ErrNoRecord) {
			return false, nil
		}
		return false, fmt.Errorf("calendarsRepository.GetCalendarByID: %w", err)
	}

	return s.resolveCalendar(ctx, q, userID, calendar, required)
}

func (s *Service) resolveCalendar(ctx context.Context, q database.Queryable, userID int64, calendar *model.Calendar, required *model.Role) (bool, error) {
	if calendar.OwnerID == userID {
		return true, nil
	}

	share, err := s.calendarsRepository.GetShare(ctx, q, calendar.ID, userID)
	if err != nil {
		if errors.Is(err, model.ErrNoRecord) {
			return false, nil
		}
		return false, fmt.Errorf("calendarsRepository.GetShare: %w", err)
	}

	if required == nil {
		return true, nil
	}

	return share.Role.Covers(*required), nil
}
