package events

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4"
	"github.com/weekgrid/calendar-backend/internal/database"
	"github.com/weekgrid/calendar-backend/internal/model"
)

func (*Repository) GetEventByID(ctx context.Context, q database.Queryable, id int64) (*model.Event, error) {
	qb := baseQuery.
		Where(sq.Eq{"e.id": id})

	dto := &eventDTO{}
	if err := q.Get(ctx, dto, qb); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNoRecord
		}
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	return mapToEvent(dto)
}

func (*Repository) GetEvents(ctx context.Context, q database.Queryable, filter model.EventsFilter) ([]*model.Event, error) {
	qb := applyFilter(baseQuery, filter).
		OrderBy(orderClause(filter)).
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset))

	var dtos []*eventDTO
	if err := q.Select(ctx, &dtos, qb); err != nil {
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	res := make([]*model.Event, len(dtos))
	for i, d := range dtos {
		var err error
		res[i], err = mapToEvent(d)
		if err != nil {
			return nil, fmt.Errorf("map event: %w", err)
		}
	}

	return res, nil
}

// CountEvents runs the same predicate as GetEvents without pagination, for
// the page total.
func (*Repository) CountEvents(ctx context.Context, q database.Queryable, filter model.EventsFilter) (int, error) {
	qb := applyFilter(
		database.PSQL.Select("count(*)").From(database.EventsTable+" e"),
		filter,
	)

	var total int
	if err := q.Get(ctx, &total, qb); err != nil {
		return 0, fmt.Errorf("SQL request: %w", err)
	}

	return total, nil
}

func (*Repository) GetParticipants(ctx context.Context, q database.Queryable, eventID int64) ([]*model.Participant, error) {
	return getParticipants(ctx, q, sq.Eq{"event_id": eventID})
}

func (*Repository) GetParticipantsByEventIDs(ctx context.Context, q database.Queryable, eventIDs []int64) ([]*model.Participant, error) {
	if len(eventIDs) == 0 {
		return nil, nil
	}

	return getParticipants(ctx, q, sq.Eq{"event_id": eventIDs})
}

func (*Repository) GetParticipantByID(ctx context.Context, q database.Queryable, id int64) (*model.Participant, error) {
	qb := participantQuery.
		Where(sq.Eq{"id": id})

	dto := &participantDTO{}
	if err := q.Get(ctx, dto, qb); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNoRecord
		}
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	return mapToParticipant(dto), nil
}

func (*Repository) GetParticipantByUser(ctx context.Context, q database.Queryable, eventID, userID int64) (*model.Participant, error) {
	qb := participantQuery.
		Where(sq.Eq{"event_id": eventID, "user_id": userID})

	dto := &participantDTO{}
	if err := q.Get(ctx, dto, qb); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNoRecord
		}
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	return mapToParticipant(dto), nil
}

func getParticipants(ctx context.Context, q database.Queryable, predicate interface{}) ([]*model.Participant, error) {
	qb := participantQuery.
		Where(predicate).
		OrderBy("id")

	var dtos []*participantDTO
	if err := q.Select(ctx, &dtos, qb); err != nil {
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	res := make([]*model.Participant, len(dtos))
	for i, d := range dtos {
		res[i] = mapToParticipant(d)
	}

	return res, nil
}
