package calendar

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/weekgrid/calendar-backend/internal/database"
	"github.com/weekgrid/calendar-backend/internal/model"
)

// UpdateCalendar never touches is_default or owner_id.
func (*Repository) UpdateCalendar(ctx context.Context, q database.Queryable, id int64, info *model.CalendarUpdate) error {
	qb := database.PSQL.
		Update(database.CalendarsTable).
		SetMap(map[string]interface{}{
			"name":        info.Name,
			"description": info.Description,
			"color":       "#" + info.Color.ToHTML(),
			"is_public":   info.IsPublic,
		}).
		Where(sq.Eq{"id": id})

	if _, err := q.Exec(ctx, qb); err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}

	return nil
}

func (*Repository) UpdateShareRole(ctx context.Context, q database.Queryable, id int64, role model.Role) error {
	qb := database.PSQL.
		Update(database.CalendarSharesTable).
		Set("role", string(role)).
		Where(sq.Eq{"id": id})

	if _, err := q.Exec(ctx, qb); err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}

	return nil
}
