package events

import (
	"context"
	"fmt"

	"github.com/weekgrid/calendar-backend/internal/database"
	"github.com/weekgrid/calendar-backend/internal/model"
)

func (*Repository) CreateEvent(ctx context.Context, q database.Queryable, event *model.EventCreate) (int64, error) {
	qb := database.PSQL.
		Insert(database.EventsTable).
		Columns(
			"title",
			"description",
			"location",
			"start_time",
			"end_time",
			"all_day",
			"color",
			"calendar_id",
			"owner_id",
			"recurring",
			"recurrence_rule",
		).
		Values(
			event.Title,
			event.Description,
			event.Location,
			event.From,
			event.To,
			event.AllDay,
			"#"+event.Color.ToHTML(),
			event.CalendarID,
			event.OwnerID,
			event.Recurring,
			event.RecurrenceRule,
		).
		Suffix("returning id")

	var id int64
	if err := q.Get(ctx, &id, qb); err != nil {
		return 0, fmt.Errorf("SQL request: %w", err)
	}

	return id, nil
}

// CreateInstances bulk-inserts the generated occurrences of a series head as
// independent non-recurring events linked back to it.
func (*Repository) CreateInstances(ctx context.Context, q database.Queryable, headID int64, instances []*model.EventCreate) error {
	if len(instances) == 0 {
		return nil
	}

	qb := database.PSQL.
		Insert(database.EventsTable).
		Columns(
			"title",
			"description",
			"location",
			"start_time",
			"end_time",
			"all_day",
			"color",
			"calendar_id",
			"owner_id",
			"recurring",
			"recurrence_rule",
			"parent_event_id",
			"original_event_id",
		)

	for _, instance := range instances {
		qb = qb.Values(
			instance.Title,
			instance.Description,
			instance.Location,
			instance.From,
			instance.To,
			instance.AllDay,
			"#"+instance.Color.ToHTML(),
			instance.CalendarID,
			instance.OwnerID,
			false,
			"",
			headID,
			headID,
		)
	}

	if _, err := q.Exec(ctx, qb); err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}

	return nil
}

func (*Repository) CreateParticipants(ctx context.Context, q database.Queryable, eventID int64, participants []*model.Participant) error {
	if len(participants) == 0 {
		return nil
	}

	qb := database.PSQL.
		Insert(database.EventParticipantsTable).
		Columns("event_id", "user_id", "email", "name", "status")

	for _, p := range participants {
		qb = qb.Values(
			eventID,
			p.UserID,
			p.Email,
			p.Name,
			string(p.Status),
		)
	}

	if _, err := q.Exec(ctx, qb); err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}

	return nil
}
