package events

import (
	"github.com/weekgrid/calendar-backend/internal/database"
)

type Repository struct{}

func NewRepository() *Repository {
	return &Repository{}
}

var baseQuery = database.PSQL.
	Select(
		"e.id",
		"e.title",
		"e.description",
		"e.location",
		"e.start_time",
		"e.end_time",
		"e.all_day",
		"e.color",
		"e.calendar_id",
		"e.owner_id",
		"e.recurring",
		"e.recurrence_rule",
		"e.parent_event_id",
		"e.original_event_id",
	).
	From(database.EventsTable + " e")

var participantQuery = database.PSQL.
	Select(
		"id",
		"event_id",
		"user_id",
		"email",
		"name",
		"status",
	).
	From(database.EventParticipantsTable)
