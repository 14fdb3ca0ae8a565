package user

import (
	"context"
	"fmt"

	"github.com/weekgrid/calendar-backend/internal/database"
	"github.com/weekgrid/calendar-backend/internal/model"
)

func (*Repository) CreateUser(ctx context.Context, q database.Queryable, user *model.UserCreate, passwordHash string) (int64, error) {
	qb := database.PSQL.
		Insert(database.UsersTable).
		Columns("email", "name", "timezone", "password_hash").
		Values(
			user.Email,
			user.Name,
			user.Timezone,
			passwordHash,
		).
		Suffix("returning id")

	var id int64
	if err := q.Get(ctx, &id, qb); err != nil {
		if database.IsUniqueViolation(err) {
			return 0, model.ErrAlreadyExists
		}
		return 0, fmt.Errorf("SQL request: %w", err)
	}

	return id, nil
}
