package database

import (
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgconn"
)

const (
	UsersTable             = "users"
	CalendarsTable         = "calendars"
	CalendarSharesTable    = "calendar_shares"
	EventsTable            = "events"
	EventParticipantsTable = "event_participants"
)

// PSQL is the shared builder with Postgres placeholders.
var PSQL = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const uniqueViolationCode = "23505"

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation, so repositories can map it to model.ErrAlreadyExists.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
