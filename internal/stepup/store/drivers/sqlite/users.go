package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/shiftwise/stepup/internal/stepup/domain"
)

type usersRepo struct {
	db dbtx
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, username, email, phone, is_admin, created_at, updated_at
		FROM users WHERE id = ?`, id)

	var (
		u         domain.User
		phone     sql.NullString
		isAdmin   int
		createdAt int64
		updatedAt int64
	)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &phone, &isAdmin, &createdAt, &updatedAt); err != nil {
		return domain.User{}, mapNotFound(err)
	}

	u.Phone = mapNullString(phone)
	u.IsAdmin = isAdmin != 0
	u.CreatedAt = fromUnix(createdAt)
	u.UpdatedAt = fromUnix(updatedAt)
	return u, nil
}

func (r *usersRepo) UpsertUser(ctx context.Context, u domain.User) error {
	now := time.Now()
	createdAt := u.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, username, email, phone, is_admin, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			username = excluded.username,
			email = excluded.email,
			phone = excluded.phone,
			is_admin = excluded.is_admin,
			updated_at = excluded.updated_at`,
		u.ID, u.Username, u.Email, mapOptionalString(u.Phone), boolToInt(u.IsAdmin),
		toUnix(createdAt), toUnix(now))
	return err
}

func (r *usersRepo) DeleteUser(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
