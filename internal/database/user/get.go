package user

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4"
	"github.com/weekgrid/calendar-backend/internal/database"
	"github.com/weekgrid/calendar-backend/internal/model"
)

func (*Repository) GetUserByID(ctx context.Context, q database.Queryable, id int64) (*model.User, error) {
	return getUser(ctx, q, sq.Eq{"id": id})
}

func (*Repository) GetUserByEmail(ctx context.Context, q database.Queryable, email string) (*model.User, error) {
	return getUser(ctx, q, sq.Eq{"email": email})
}

func (*Repository) GetCredentialsByEmail(ctx context.Context, q database.Queryable, email string) (*model.Credentials, error) {
	qb := database.PSQL.
		Select("id user_id", "password_hash").
		From(database.UsersTable).
		Where(sq.Eq{"email": email})

	dto := &model.Credentials{}
	if err := q.Get(ctx, dto, qb); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNoRecord
		}
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	return dto, nil
}

func (*Repository) GetCredentialsByID(ctx context.Context, q database.Queryable, id int64) (*model.Credentials, error) {
	qb := database.PSQL.
		Select("id user_id", "password_hash").
		From(database.UsersTable).
		Where(sq.Eq{"id": id})

	dto := &model.Credentials{}
	if err := q.Get(ctx, dto, qb); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNoRecord
		}
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	return dto, nil
}

func getUser(ctx context.Context, q database.Queryable, predicate interface{}) (*model.User, error) {
	qb := baseQuery.
		Where(predicate)

	dto := &userDTO{}
	if err := q.Get(ctx, dto, qb); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNoRecord
		}
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	return mapToUser(dto), nil
}
