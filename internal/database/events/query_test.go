package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weekgrid/calendar-backend/internal/model"
)

func TestApplyFilterOverlapWindow(t *testing.T) {
	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 30, 23, 59, 59, 0, time.UTC)

	sql, args, err := applyFilter(baseQuery, model.EventsFilter{
		UserID: 7,
		From:   &from,
		To:     &to,
	}).ToSql()
	require.NoError(t, err)

	// An event overlaps the window when it starts before the window ends and
	// ends after the window starts.
	assert.Contains(t, sql, "e.start_time <= $")
	assert.Contains(t, sql, "e.end_time >= $")
	assert.Contains(t, args, to)
	assert.Contains(t, args, from)
}

func TestApplyFilterVisibility(t *testing.T) {
	sql, args, err := applyFilter(baseQuery, model.EventsFilter{UserID: 42}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "e.owner_id = $")
	assert.Contains(t, sql, "exists (select 1 from calendar_shares cs where cs.calendar_id = e.calendar_id and cs.user_id = $")
	assert.Contains(t, sql, "exists (select 1 from event_participants ep where ep.event_id = e.id and ep.user_id = $")
	assert.Equal(t, []interface{}{int64(42), int64(42), int64(42)}, args)
}

func TestApplyFilterCalendarScope(t *testing.T) {
	calendarID := int64(3)

	sql, args, err := applyFilter(baseQuery, model.EventsFilter{
		UserID:     1,
		CalendarID: &calendarID,
	}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "e.calendar_id = $")
	assert.Contains(t, args, calendarID)
}

func TestOrderClause(t *testing.T) {
	tests := []struct {
		name   string
		filter model.EventsFilter
		want   string
	}{
		{"default", model.EventsFilter{}, "e.start_time asc"},
		{"title desc", model.EventsFilter{SortField: "title", SortDesc: true}, "e.title desc"},
		{"end time", model.EventsFilter{SortField: "end_time"}, "e.end_time asc"},
		{"unknown field falls back", model.EventsFilter{SortField: "owner_id"}, "e.start_time asc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, orderClause(tt.filter))
		})
	}
}

func TestGetEventsQueryCompiles(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	sql, _, err := applyFilter(baseQuery, model.EventsFilter{
		UserID: 5,
		From:   &from,
		Limit:  50,
		Offset: 100,
	}).
		OrderBy(orderClause(model.EventsFilter{})).
		Limit(50).
		Offset(100).
		ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "LIMIT 50")
	assert.Contains(t, sql, "OFFSET 100")
	assert.Contains(t, sql, "ORDER BY e.start_time asc")
}
