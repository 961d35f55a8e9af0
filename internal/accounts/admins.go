package accounts

import (
	"context"
	"fmt"
	"strings"

	"github.com/Spok95/course-registration/internal/apperr"
	"github.com/Spok95/course-registration/internal/db"
	"go.uber.org/zap"
)

// CreateAdmin заводит администратора (из CLI). Занятый логин даёт ConflictError.
func (s *Service) CreateAdmin(ctx context.Context, username, password string) (int64, error) {
	const op = "accounts.CreateAdmin"
	username = strings.TrimSpace(username)
	ctx, dbctx, cancel := dbCtx(ctx, op, "")
	defer cancel()

	if err := required(op, "username", username, "password", password); err != nil {
		return 0, s.fail(ctx, op, err)
	}
	h, err := s.hash(op, "password", password)
	if err != nil {
		return 0, s.fail(ctx, op, err)
	}
	id, err := db.InsertAdmin(dbctx, s.db, username, h)
	if db.IsUniqueViolation(err) {
		return 0, s.fail(ctx, op, apperr.Conflict(op, fmt.Errorf("%w: %s", apperr.ErrDuplicateAdmin, username)))
	}
	if err != nil {
		return 0, s.fail(ctx, op, err)
	}
	s.log.Info("admin created", zap.String("op", op), zap.String("username", username), zap.Int64("admin_id", id))
	return id, nil
}

// AdminLogin проверяет логин и пароль администратора.
func (s *Service) AdminLogin(ctx context.Context, username, password string) error {
	const op = "accounts.AdminLogin"
	username = strings.TrimSpace(username)
	ctx, dbctx, cancel := dbCtx(ctx, op, "")
	defer cancel()

	if err := required(op, "username", username, "password", password); err != nil {
		return s.fail(ctx, op, err)
	}
	a, err := db.GetAdmin(dbctx, s.db, username)
	if err != nil {
		return s.fail(ctx, op, err)
	}
	if a == nil || !matches(a.PasswordHash, password) {
		return s.fail(ctx, op, apperr.Validation(op, apperr.ErrInvalidCredentials))
	}
	return nil
}
