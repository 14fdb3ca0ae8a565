package user

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/weekgrid/calendar-backend/internal/database"
	"github.com/weekgrid/calendar-backend/internal/model"
)

func (*Repository) UpdateProfile(ctx context.Context, q database.Queryable, id int64, info *model.UserUpdate) error {
	qb := database.PSQL.
		Update(database.UsersTable).
		SetMap(map[string]interface{}{
			"name":     info.Name,
			"timezone": info.Timezone,
		}).
		Where(sq.Eq{"id": id})

	if _, err := q.Exec(ctx, qb); err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}

	return nil
}

func (*Repository) UpdatePassword(ctx context.Context, q database.Queryable, id int64, passwordHash string) error {
	qb := database.PSQL.
		Update(database.UsersTable).
		Set("password_hash", passwordHash).
		Where(sq.Eq{"id": id})

	if _, err := q.Exec(ctx, qb); err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}

	return nil
}
