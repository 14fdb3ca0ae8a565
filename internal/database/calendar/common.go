package calendar

import (
	"github.com/weekgrid/calendar-backend/internal/database"
)

type Repository struct{}

func NewRepository() *Repository {
	return &Repository{}
}

var baseQuery = database.PSQL.
	Select(
		"id",
		"name",
		"description",
		"color",
		"is_default",
		"is_public",
		"owner_id",
	).
	From(database.CalendarsTable)

var shareQuery = database.PSQL.
	Select(
		"id",
		"calendar_id",
		"user_id",
		"role",
	).
	From(database.CalendarSharesTable)
