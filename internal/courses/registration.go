package courses

import (
	"context"
	"fmt"

	"github.com/Spok95/course-registration/internal/apperr"
	"github.com/Spok95/course-registration/internal/ctxutil"
	"github.com/Spok95/course-registration/internal/db"
	"github.com/Spok95/course-registration/internal/lifecycle"
	"github.com/Spok95/course-registration/internal/metrics"
	"github.com/Spok95/course-registration/internal/models"
	"go.uber.org/zap"
)

// EligibleToRegister отвечает на вопрос «пройдёт ли Register»: студент существует,
// курс не в архиве и ещё Upcoming, активной записи нет. Неизвестный студент или курс
// дают NotFoundError, как и в Register; архивный или прошедший курс дают false.
func (s *Service) EligibleToRegister(ctx context.Context, admissionNo, courseID string) (bool, error) {
	const op = "courses.EligibleToRegister"
	ctx = scope(ctx, op, admissionNo, courseID)
	if err := required(op, "admission_no", admissionNo, "course_id", courseID); err != nil {
		return false, s.fail(ctx, op, err)
	}
	dbctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	if err := s.requireStudent(dbctx, op, admissionNo); err != nil {
		return false, s.fail(ctx, op, err)
	}
	c, err := s.course(dbctx, s.db, op, courseID)
	if err != nil {
		return false, s.fail(ctx, op, err)
	}
	if c.IsDeleted {
		return false, nil
	}
	start, err := s.start(op, c)
	if err != nil {
		return false, s.fail(ctx, op, err)
	}
	if lifecycle.Classify(start, s.now()) == lifecycle.Past {
		return false, nil
	}
	active, err := db.HasActiveRegistration(dbctx, s.db, admissionNo, courseID)
	if err != nil {
		return false, s.fail(ctx, op, err)
	}
	return !active, nil
}

// Register записывает студента на курс. Запись открыта, пока курс Upcoming.
// Вторая активная запись на ту же пару: ConflictError(ErrDuplicateRegistration),
// в том числе когда гонку проигрывает вставка (частичный уникальный индекс).
func (s *Service) Register(ctx context.Context, admissionNo, courseID string) (*models.Registration, error) {
	const op = "courses.Register"
	ctx = scope(ctx, op, admissionNo, courseID)
	if err := required(op, "admission_no", admissionNo, "course_id", courseID); err != nil {
		return nil, s.fail(ctx, op, err)
	}
	dbctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	if err := s.requireStudent(dbctx, op, admissionNo); err != nil {
		return nil, s.fail(ctx, op, err)
	}
	c, err := s.activeCourse(dbctx, s.db, op, courseID)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	start, err := s.start(op, c)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	now := s.now()
	if lifecycle.Classify(start, now) == lifecycle.Past {
		return nil, s.fail(ctx, op, apperr.Deadline(op, apperr.ErrRegistrationClosed))
	}

	active, err := db.HasActiveRegistration(dbctx, s.db, admissionNo, courseID)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	if active {
		return nil, s.fail(ctx, op, apperr.Conflict(op, apperr.ErrDuplicateRegistration))
	}

	id, err := db.InsertRegistration(dbctx, s.db, admissionNo, courseID, now)
	if db.IsUniqueViolation(err) {
		return nil, s.fail(ctx, op, apperr.Conflict(op, apperr.ErrDuplicateRegistration))
	}
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}

	metrics.Registrations.Inc()
	s.info(ctx, "registered", zap.Int64("registration_id", id))
	return &models.Registration{
		ID:           id,
		AdmissionNo:  admissionNo,
		CourseID:     courseID,
		RegisteredAt: now,
	}, nil
}

// CancelRegistration: мягкая отмена активной записи не позже чем за 24 часа до начала.
// Порядок проверок: курс → активная запись → дедлайн.
func (s *Service) CancelRegistration(ctx context.Context, admissionNo, courseID string) error {
	const op = "courses.CancelRegistration"
	ctx = scope(ctx, op, admissionNo, courseID)
	if err := required(op, "admission_no", admissionNo, "course_id", courseID); err != nil {
		return s.fail(ctx, op, err)
	}
	dbctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	c, err := s.course(dbctx, s.db, op, courseID)
	if err != nil {
		return s.fail(ctx, op, err)
	}
	active, err := db.HasActiveRegistration(dbctx, s.db, admissionNo, courseID)
	if err != nil {
		return s.fail(ctx, op, err)
	}
	if !active {
		return s.fail(ctx, op, apperr.NotFound(op, apperr.ErrNotRegistered))
	}

	start, err := s.start(op, c)
	if err != nil {
		return s.fail(ctx, op, err)
	}
	now := s.now()
	if !lifecycle.CanCancel(start, now) {
		deadline := lifecycle.CancellationDeadline(start).In(s.loc).Format("2006-01-02 15:04")
		return s.fail(ctx, op, apperr.Deadline(op, fmt.Errorf("%w (deadline %s)", apperr.ErrDeadlinePassed, deadline)))
	}

	ok, err := db.CancelActiveRegistration(dbctx, s.db, admissionNo, courseID, now)
	if err != nil {
		return s.fail(ctx, op, err)
	}
	if !ok {
		// запись отменили параллельно между проверкой и обновлением
		return s.fail(ctx, op, apperr.NotFound(op, apperr.ErrNotRegistered))
	}

	metrics.Cancellations.Inc()
	s.info(ctx, "registration cancelled")
	return nil
}
