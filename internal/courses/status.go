package courses

import (
	"context"

	"github.com/Spok95/course-registration/internal/apperr"
	"github.com/Spok95/course-registration/internal/ctxutil"
	"github.com/Spok95/course-registration/internal/db"
	"github.com/Spok95/course-registration/internal/lifecycle"
	"github.com/Spok95/course-registration/internal/models"
)

// TemporalState: Upcoming/Past для курса по текущим часам движка.
func (s *Service) TemporalState(ctx context.Context, courseID string) (lifecycle.TemporalState, error) {
	const op = "courses.TemporalState"
	ctx = scope(ctx, op, "", courseID)
	if err := required(op, "course_id", courseID); err != nil {
		return "", s.fail(ctx, op, err)
	}
	dbctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	c, err := s.course(dbctx, s.db, op, courseID)
	if err != nil {
		return "", s.fail(ctx, op, err)
	}
	st, err := s.classify(op, c)
	if err != nil {
		return "", s.fail(ctx, op, err)
	}
	return st, nil
}

func (s *Service) classify(op string, c *models.Course) (lifecycle.TemporalState, error) {
	start, err := s.start(op, c)
	if err != nil {
		return "", err
	}
	return lifecycle.Classify(start, s.now()), nil
}

// StudentCourseOutcome: EXPIRED/ABSENT/COMPLETED для прошедшего курса. Вычисляется
// по истории записей и посещаемости, итоговая таблица не читается.
func (s *Service) StudentCourseOutcome(ctx context.Context, admissionNo, courseID string) (lifecycle.Outcome, error) {
	const op = "courses.StudentCourseOutcome"
	ctx = scope(ctx, op, admissionNo, courseID)
	if err := required(op, "admission_no", admissionNo, "course_id", courseID); err != nil {
		return "", s.fail(ctx, op, err)
	}
	dbctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	if err := s.requireStudent(dbctx, op, admissionNo); err != nil {
		return "", s.fail(ctx, op, err)
	}
	c, err := s.course(dbctx, s.db, op, courseID)
	if err != nil {
		return "", s.fail(ctx, op, err)
	}
	st, err := s.classify(op, c)
	if err != nil {
		return "", s.fail(ctx, op, err)
	}
	if st != lifecycle.Past {
		return "", s.fail(ctx, op, apperr.Validation(op, apperr.ErrCourseNotPast))
	}
	out, err := s.outcome(dbctx, admissionNo, courseID)
	if err != nil {
		return "", s.fail(ctx, op, err)
	}
	return out, nil
}

func (s *Service) outcome(ctx context.Context, admissionNo, courseID string) (lifecycle.Outcome, error) {
	ever, err := db.EverRegistered(ctx, s.db, admissionNo, courseID)
	if err != nil {
		return "", err
	}
	if !ever {
		return lifecycle.Expired, nil
	}
	present, err := db.CountPresent(ctx, s.db, admissionNo, courseID)
	if err != nil {
		return "", err
	}
	return lifecycle.DeriveOutcome(true, present), nil
}
