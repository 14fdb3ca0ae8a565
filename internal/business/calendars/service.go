package calendars

import (
	"context"
	"errors"
	"fmt"

	"github.com/weekgrid/calendar-backend/internal/database"
	"github.com/weekgrid/calendar-backend/internal/model"
)

type Service struct {
	db                  database.PGX
	calendarsRepository calendarsRepository
	usersRepository     usersRepository
	access              accessService
}

type calendarsRepository interface {
	CreateCalendar(ctx context.Context, q database.Queryable, calendar *model.CalendarCreate) (int64, error)
	GetCalendarByID(ctx context.Context, q database.Queryable, id int64) (*model.Calendar, error)
	GetUserCalendars(ctx context.Context, q database.Queryable, userID int64, includeShared bool) ([]*model.Calendar, error)
	UpdateCalendar(ctx context.Context, q database.Queryable, id int64, info *model.CalendarUpdate) error
	DeleteCalendar(ctx context.Context, q database.Queryable, id int64) error
	CreateShare(ctx context.Context, q database.Queryable, share *model.CalendarShare) (int64, error)
	GetShareByID(ctx context.Context, q database.Queryable, id int64) (*model.CalendarShare, error)
	GetShares(ctx context.Context, q database.Queryable, calendarID int64) ([]*model.CalendarShare, error)
	UpdateShareRole(ctx context.Context, q database.Queryable, id int64, role model.Role) error
	DeleteShare(ctx context.Context, q database.Queryable, id int64) error
}

type usersRepository interface {
	GetUserByEmail(ctx context.Context, q database.Queryable, email string) (*model.User, error)
}

type accessService interface {
	ResolveCalendar(ctx context.Context, q database.Queryable, userID, calendarID int64, required *model.Role) (bool, error)
}

func NewService(db database.PGX, calendars calendarsRepository, users usersRepository, access accessService) *Service {
	return &Service{
		db:                  db,
		calendarsRepository: calendars,
		usersRepository:     users,
		access:              access,
	}
}

func (s *Service) CreateCalendar(ctx context.Context, info *model.CalendarCreate) (*model.Calendar, error) {
	// The default calendar is created once at registration and never via this
	// path.
	info.IsDefault = false

	id, err := s.calendarsRepository.CreateCalendar(ctx, s.db, info)
	if err != nil {
		return nil, fmt.Errorf("calendarsRepository.CreateCalendar: %w", err)
	}

	return &model.Calendar{ID: id, CalendarCreate: *info}, nil
}

func (s *Service) GetCalendars(ctx context.Context, userID int64, includeShared bool) ([]*model.Calendar, error) {
	calendars, err := s.calendarsRepository.GetUserCalendars(ctx, s.db, userID, includeShared)
	if err != nil {
		return nil, fmt.Errorf("calendarsRepository.GetUserCalendars: %w", err)
	}

	return calendars, nil
}

func (s *Service) GetCalendar(ctx context.Context, userID, id int64) (*model.Calendar, error) {
	ok, err := s.access.ResolveCalendar(ctx, s.db, userID, id, nil)
	if err != nil {
		return nil, fmt.Errorf("access.ResolveCalendar: %w", err)
	}
	if !ok {
		return nil, model.ErrNoRecord
	}

	calendar, err := s.calendarsRepository.GetCalendarByID(ctx, s.db, id)
	if err != nil {
		return nil, fmt.Errorf("calendarsRepository.GetCalendarByID: %w", err)
	}

	return calendar, nil
}

func (s *Service) UpdateCalendar(ctx context.Context, userID, id int64, info *model.CalendarUpdate) error {
	ok, err := s.access.ResolveCalendar(ctx, s.db, userID, id, rolePtr(model.RoleEditor))
	if err != nil {
		return fmt.Errorf("access.ResolveCalendar: %w", err)
	}
	if !ok {
		return model.ErrNoRecord
	}

	if err := s.calendarsRepository.UpdateCalendar(ctx, s.db, id, info); err != nil {
		return fmt.Errorf("calendarsRepository.UpdateCalendar: %w", err)
	}

	return nil
}

func (s *Service) DeleteCalendar(ctx context.Context, userID, id int64) error {
	calendar, err := s.calendarsRepository.GetCalendarByID(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, model.ErrNoRecord) {
			return model.ErrNoRecord
		}
		return fmt.Errorf("calendarsRepository.GetCalendarByID: %w", err)
	}

	ok, err := s.access.ResolveCalendar(ctx, s.db, userID, id, rolePtr(model.RoleOwner))
	if err != nil {
		return fmt.Errorf("access.ResolveCalendar: %w", err)
	}
	if !ok {
		return model.ErrNoRecord
	}

	if calendar.IsDefault {
		return model.ErrDefaultCalendar
	}

	if err := s.calendarsRepository.DeleteCalendar(ctx, s.db, id); err != nil {
		return fmt.Errorf("calendarsRepository.DeleteCalendar: %w", err)
	}

	return nil
}

// ShareCalendar grants role on the calendar to the user registered under
// email. Only the owner may share, and only viewer or editor can be granted.
func (s *Service) ShareCalendar(ctx context.Context, userID, calendarID int64, email string, role model.Role) (*model.CalendarShare, error) {
	if !role.Valid() || role == model.RoleOwner {
		return nil, model.ErrValidation
	}

	ok, err := s.access.ResolveCalendar(ctx, s.db, userID, calendarID, rolePtr(model.RoleOwner))
	if err != nil {
		return nil, fmt.Errorf("access.ResolveCalendar: %w", err)
	}
	if !ok {
		return nil, model.ErrNoRecord
	}

	target, err := s.usersRepository.GetUserByEmail(ctx, s.db, email)
	if err != nil {
		if errors.Is(err, model.ErrNoRecord) {
			return nil, model.ErrNoRecord
		}
		return nil, fmt.Errorf("usersRepository.GetUserByEmail: %w", err)
	}

	if target.ID == userID {
		return nil, model.ErrValidation
	}

	share := &model.CalendarShare{
		CalendarID: calendarID,
		UserID:     target.ID,
		Role:       role,
	}

	id, err := s.calendarsRepository.CreateShare(ctx, s.db, share)
	if err != nil {
		if errors.Is(err, model.ErrAlreadyExists) {
			return nil, model.ErrAlreadyExists
		}
		return nil, fmt.Errorf("calendarsRepository.CreateShare: %w", err)
	}

	share.ID = id
	return share, nil
}

func (s *Service) GetShares(ctx context.Context, userID, calendarID int64) ([]*model.CalendarShare, error) {
	ok, err := s.access.ResolveCalendar(ctx, s.db, userID, calendarID, nil)
	if err != nil {
		return nil, fmt.Errorf("access.ResolveCalendar: %w", err)
	}
	if !ok {
		return nil, model.ErrNoRecord
	}

	shares, err := s.calendarsRepository.GetShares(ctx, s.db, calendarID)
	if err != nil {
		return nil, fmt.Errorf("calendarsRepository.GetShares: %w", err)
	}

	return shares, nil
}

func (s *Service) UpdateShare(ctx context.Context, userID, shareID int64, role model.Role) error {
	if !role.Valid() || role == model.RoleOwner {
		return model.ErrValidation
	}

	share, err := s.calendarsRepository.GetShareByID(ctx, s.db, shareID)
	if err != nil {
		if errors.Is(err, model.ErrNoRecord) {
			return model.ErrNoRecord
		}
		return fmt.Errorf("calendarsRepository.GetShareByID: %w", err)
	}

	ok, err := s.access.ResolveCalendar(ctx, s.db, userID, share.CalendarID, rolePtr(model.RoleOwner))
	if err != nil {
		return fmt.Errorf("access.ResolveCalendar: %w", err)
	}
	if !ok {
		return model.ErrPermissionDenied
	}

	if err := s.calendarsRepository.UpdateShareRole(ctx, s.db, shareID, role); err != nil {
		return fmt.Errorf("calendarsRepository.UpdateShareRole: %w", err)
	}

	return nil
}

// RemoveShare revokes a grant. The calendar owner may remove any share; the
// grantee may remove their own.
func (s *Service) RemoveShare(ctx context.Context, userID, shareID int64) error {
	share, err := s.calendarsRepository.GetShareByID(ctx, s.db, shareID)
	if err != nil {
		if errors.Is(err, model.ErrNoRecord) {
			return model.ErrNoRecord
		}
		return fmt.Errorf("calendarsRepository.GetShareByID: %w", err)
	}

	if share.UserID != userID {
		ok, err := s.access.ResolveCalendar(ctx, s.db, userID, share.CalendarID, rolePtr(model.RoleOwner))
		if err != nil {
			return fmt.Errorf("access.ResolveCalendar: %w", err)
		}
		if !ok {
			return model.ErrPermissionDenied
		}
	}

	if err := s.calendarsRepository.DeleteShare(ctx, s.db, shareID); err != nil {
		return fmt.Errorf("calendarsRepository.DeleteShare: %w", err)
	}

	return nil
}

func rolePtr(r model.Role) *model.Role { return &r }
