package courses

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Spok95/course-registration/internal/apperr"
	"github.com/Spok95/course-registration/internal/ctxutil"
	"github.com/Spok95/course-registration/internal/db"
	"github.com/Spok95/course-registration/internal/lifecycle"
	"github.com/Spok95/course-registration/internal/metrics"
	"go.uber.org/zap"
)

// Archive прячет курс из активных списков. Записи, посещаемость и итоги остаются.
func (s *Service) Archive(ctx context.Context, courseID string) error {
	return s.toggle(ctx, "courses.Archive", courseID, lifecycle.ActionArchive)
}

// Restore возвращает курс из архива.
func (s *Service) Restore(ctx context.Context, courseID string) error {
	return s.toggle(ctx, "courses.Restore", courseID, lifecycle.ActionRestore)
}

func invalidTransition(op string, err error) error {
	return apperr.Conflict(op, fmt.Errorf("%w: %w", apperr.ErrInvalidTransition, err))
}

func (s *Service) toggle(ctx context.Context, op, courseID string, action lifecycle.Action) error {
	ctx = scope(ctx, op, "", courseID)
	if err := required(op, "course_id", courseID); err != nil {
		return s.fail(ctx, op, err)
	}
	dbctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	c, err := s.course(dbctx, s.db, op, courseID)
	if err != nil {
		return s.fail(ctx, op, err)
	}
	from := c.State()
	to, err := lifecycle.Transition(from, action)
	if err != nil {
		return s.fail(ctx, op, invalidTransition(op, err))
	}

	ok, err := db.SetCourseDeleted(dbctx, s.db, courseID, from == lifecycle.Archived, to == lifecycle.Archived)
	if err != nil {
		return s.fail(ctx, op, err)
	}
	if !ok {
		// между чтением и обновлением курс изменили или удалили
		cur, err := s.course(dbctx, s.db, op, courseID)
		if err != nil {
			return s.fail(ctx, op, err)
		}
		return s.fail(ctx, op, invalidTransition(op, &lifecycle.TransitionError{From: cur.State(), Action: action}))
	}

	metrics.Transitions.WithLabelValues(string(action)).Inc()
	s.info(ctx, "course state changed", zap.String("from", string(from)), zap.String("to", string(to)))
	return nil
}

// Purge необратимо удаляет курс вместе с посещаемостью, итогами и записями.
// Всё в одной транзакции, дети удаляются раньше родителя. Любой сбой откатывает всё.
func (s *Service) Purge(ctx context.Context, courseID string) (db.PurgeCounts, error) {
	const op = "courses.Purge"
	ctx = scope(ctx, op, "", courseID)
	if err := required(op, "course_id", courseID); err != nil {
		return db.PurgeCounts{}, s.fail(ctx, op, err)
	}
	dbctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var pc db.PurgeCounts
	err := db.WithTx(dbctx, s.db, func(tx *sql.Tx) error {
		c, err := s.course(dbctx, tx, op, courseID)
		if err != nil {
			return err
		}
		if _, err := lifecycle.Transition(c.State(), lifecycle.ActionPurge); err != nil {
			return invalidTransition(op, err)
		}
		var existed bool
		pc, existed, err = db.DeleteCourseCascade(dbctx, tx, courseID)
		if err != nil {
			return err
		}
		if !existed {
			return apperr.NotFound(op, fmt.Errorf("%w: %s", apperr.ErrCourseNotFound, courseID))
		}
		return nil
	})
	if err != nil {
		return db.PurgeCounts{}, s.fail(ctx, op, err)
	}

	metrics.Transitions.WithLabelValues(string(lifecycle.ActionPurge)).Inc()
	s.info(ctx, "course purged",
		zap.Int64("attendance", pc.Attendance),
		zap.Int64("results", pc.Results),
		zap.Int64("registrations", pc.Registrations))
	return pc, nil
}
