package events

import (
	sq "github.com/Masterminds/squirrel"
	"github.com/weekgrid/calendar-backend/internal/database"
	"github.com/weekgrid/calendar-backend/internal/model"
)

// sortColumns whitelists user-facing sort fields.
var sortColumns = map[string]string{
	"start_time": "e.start_time",
	"end_time":   "e.end_time",
	"title":      "e.title",
	"created_at": "e.created_at",
}

// visibilityCond scopes a query to rows the user may see: their own events,
// events on calendars shared with them, and events they participate in.
// Access lives in the WHERE clause so reads need no separate authorization
// query.
func visibilityCond(userID int64) sq.Sqlizer {
	return sq.Or{
		sq.Eq{"e.owner_id": userID},
		sq.Expr(
			"exists (select 1 from "+database.CalendarSharesTable+" cs where cs.calendar_id = e.calendar_id and cs.user_id = ?)",
			userID,
		),
		sq.Expr(
			"exists (select 1 from "+database.EventParticipantsTable+" ep where ep.event_id = e.id and ep.user_id = ?)",
			userID,
		),
	}
}

// applyFilter adds visibility plus the overlap window: an event intersects
// [From, To] when start_time <= To and end_time >= From. Either bound may be
// absent.
func applyFilter(qb sq.SelectBuilder, filter model.EventsFilter) sq.SelectBuilder {
	qb = qb.Where(visibilityCond(filter.UserID))

	if filter.To != nil {
		qb = qb.Where(sq.LtOrEq{"e.start_time": *filter.To})
	}

	if filter.From != nil {
		qb = qb.Where(sq.GtOrEq{"e.end_time": *filter.From})
	}

	if filter.CalendarID != nil {
		qb = qb.Where(sq.Eq{"e.calendar_id": *filter.CalendarID})
	}

	return qb
}

func orderClause(filter model.EventsFilter) string {
	column, ok := sortColumns[filter.SortField]
	if !ok {
		column = "e.start_time"
	}

	direction := "asc"
	if filter.SortDesc {
		direction = "desc"
	}

	return column + " " + direction
}
