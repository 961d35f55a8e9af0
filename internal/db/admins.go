package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Spok95/course-registration/internal/models"
)

func InsertAdmin(ctx context.Context, q Querier, username string, passwordHash []byte) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, `
		INSERT INTO admins (username, password_hash) VALUES ($1, $2) RETURNING id
	`, username, passwordHash).Scan(&id)
	return id, err
}

// GetAdmin: администратор по логину. (nil, nil), если не найден.
func GetAdmin(ctx context.Context, q Querier, username string) (*models.Admin, error) {
	var a models.Admin
	err := q.QueryRowContext(ctx, `
		SELECT id, username, password_hash FROM admins WHERE username = $1
	`, username).Scan(&a.ID, &a.Username, &a.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
