package events

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/weekgrid/calendar-backend/internal/database"
	"github.com/weekgrid/calendar-backend/internal/model"
)

func (*Repository) UpdateEvent(ctx context.Context, q database.Queryable, id int64, info *model.EventUpdate) error {
	qb := database.PSQL.
		Update(database.EventsTable).
		SetMap(map[string]interface{}{
			"title":           info.Title,
			"description":     info.Description,
			"location":        info.Location,
			"start_time":      info.From,
			"end_time":        info.To,
			"all_day":         info.AllDay,
			"color":           "#" + info.Color.ToHTML(),
			"calendar_id":     info.CalendarID,
			"recurring":       info.Recurring,
			"recurrence_rule": info.RecurrenceRule,
		}).
		Where(sq.Eq{"id": id})

	if _, err := q.Exec(ctx, qb); err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}

	return nil
}

func (*Repository) UpdateParticipantStatus(ctx context.Context, q database.Queryable, id int64, status model.ParticipantStatus) error {
	qb := database.PSQL.
		Update(database.EventParticipantsTable).
		Set("status", string(status)).
		Where(sq.Eq{"id": id})

	if _, err := q.Exec(ctx, qb); err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}

	return nil
}
