package calendar

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4"
	"github.com/weekgrid/calendar-backend/internal/database"
	"github.com/weekgrid/calendar-backend/internal/model"
)

func (*Repository) GetCalendarByID(ctx context.Context, q database.Queryable, id int64) (*model.Calendar, error) {
	qb := baseQuery.
		Where(sq.Eq{"id": id})

	dto := &calendarDTO{}
	if err := q.Get(ctx, dto, qb); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNoRecord
		}
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	return mapToCalendar(dto)
}

// GetUserCalendars returns calendars owned by the user, plus calendars shared
// with them when includeShared is set. Default calendars sort first.
func (*Repository) GetUserCalendars(ctx context.Context, q database.Queryable, userID int64, includeShared bool) ([]*model.Calendar, error) {
	access := sq.Or{sq.Eq{"owner_id": userID}}
	if includeShared {
		access = append(access, sq.Expr(
			"exists (select 1 from "+database.CalendarSharesTable+" cs where cs.calendar_id = "+database.CalendarsTable+".id and cs.user_id = ?)",
			userID,
		))
	}

	qb := baseQuery.
		Where(access).
		OrderBy("is_default desc", "id")

	var dtos []*calendarDTO
	if err := q.Select(ctx, &dtos, qb); err != nil {
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	res := make([]*model.Calendar, len(dtos))
	for i, d := range dtos {
		var err error
		res[i], err = mapToCalendar(d)
		if err != nil {
			return nil, fmt.Errorf("map calendar: %w", err)
		}
	}

	return res, nil
}

func (*Repository) GetDefaultCalendar(ctx context.Context, q database.Queryable, userID int64) (*model.Calendar, error) {
	qb := baseQuery.
		Where(sq.Eq{"owner_id": userID, "is_default": true})

	dto := &calendarDTO{}
	if err := q.Get(ctx, dto, qb); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNoRecord
		}
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	return mapToCalendar(dto)
}

// GetShare returns the share row for (calendarID, userID), unique by schema.
func (*Repository) GetShare(ctx context.Context, q database.Queryable, calendarID, userID int64) (*model.CalendarShare, error) {
	return getShare(ctx, q, sq.Eq{"calendar_id": calendarID, "user_id": userID})
}

func (*Repository) GetShareByID(ctx context.Context, q database.Queryable, id int64) (*model.CalendarShare, error) {
	return getShare(ctx, q, sq.Eq{"id": id})
}

func (*Repository) GetShares(ctx context.Context, q database.Queryable, calendarID int64) ([]*model.CalendarShare, error) {
	qb := shareQuery.
		Where(sq.Eq{"calendar_id": calendarID}).
		OrderBy("id")

	var dtos []*shareDTO
	if err := q.Select(ctx, &dtos, qb); err != nil {
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	res := make([]*model.CalendarShare, len(dtos))
	for i, d := range dtos {
		res[i] = mapToShare(d)
	}

	return res, nil
}

func getShare(ctx context.Context, q database.Queryable, predicate interface{}) (*model.CalendarShare, error) {
	qb := shareQuery.
		Where(predicate)

	dto := &shareDTO{}
	if err := q.Get(ctx, dto, qb); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNoRecord
		}
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	return mapToShare(dto), nil
}
