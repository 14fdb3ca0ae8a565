package calendar

import (
	"context"
	"fmt"

	"github.com/weekgrid/calendar-backend/internal/database"
	"github.com/weekgrid/calendar-backend/internal/model"
)

func (*Repository) CreateCalendar(ctx context.Context, q database.Queryable, calendar *model.CalendarCreate) (int64, error) {
	qb := database.PSQL.
		Insert(database.CalendarsTable).
		Columns("name", "description", "color", "is_default", "is_public", "owner_id").
		Values(
			calendar.Name,
			calendar.Description,
			"#"+calendar.Color.ToHTML(),
			calendar.IsDefault,
			calendar.IsPublic,
			calendar.OwnerID,
		).
		Suffix("returning id")

	var id int64
	if err := q.Get(ctx, &id, qb); err != nil {
		return 0, fmt.Errorf("SQL request: %w", err)
	}

	return id, nil
}

// CreateShare relies on the unique (calendar_id, user_id) constraint:
// re-sharing is rejected, never upserted.
func (*Repository) CreateShare(ctx context.Context, q database.Queryable, share *model.CalendarShare) (int64, error) {
	qb := database.PSQL.
		Insert(database.CalendarSharesTable).
		Columns("calendar_id", "user_id", "role").
		Values(
			share.CalendarID,
			share.UserID,
			string(share.Role),
		).
		Suffix("returning id")

	var id int64
	if err := q.Get(ctx, &id, qb); err != nil {
		if database.IsUniqueViolation(err) {
			return 0, model.ErrAlreadyExists
		}
		return 0, fmt.Errorf("SQL request: %w", err)
	}

	return id, nil
}
