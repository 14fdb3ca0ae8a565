package user

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
		"email",
		"name",
		"timezone",
	).
	From(database.UsersTable)
