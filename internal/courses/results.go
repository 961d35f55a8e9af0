package courses

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Spok95/course-registration/internal/ctxutil"
	"github.com/Spok95/course-registration/internal/db"
	"github.com/Spok95/course-registration/internal/lifecycle"
	"github.com/Spok95/course-registration/internal/metrics"
	"github.com/Spok95/course-registration/internal/models"
	"go.uber.org/zap"
)

// errNoCandidates откатывает пустую финализацию. Наружу не выходит.
var errNoCandidates = errors.New("no finalize candidates")

// FinalizeResults: Completed для каждого студента с хотя бы одним Present.
// Возвращает число обработанных кандидатов: повторный запуск на тех же данных
// вернёт то же число и не изменит строки. Ноль кандидатов означает откат и 0 без ошибки.
func (s *Service) FinalizeResults(ctx context.Context, courseID string) (int, error) {
	const op = "courses.FinalizeResults"
	ctx = scope(ctx, op, "", courseID)
	if err := required(op, "course_id", courseID); err != nil {
		return 0, s.fail(ctx, op, err)
	}
	dbctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	completion := lifecycle.CivilDate(s.now(), s.loc)
	var n int64
	err := db.WithTx(dbctx, s.db, func(tx *sql.Tx) error {
		if _, err := s.course(dbctx, tx, op, courseID); err != nil {
			return err
		}
		var err error
		n, err = db.FinalizeCourseResults(dbctx, tx, courseID, completion)
		if err != nil {
			return err
		}
		if n == 0 {
			return errNoCandidates
		}
		return nil
	})
	if errors.Is(err, errNoCandidates) {
		s.info(ctx, "nothing to finalize")
		return 0, nil
	}
	if err != nil {
		return 0, s.fail(ctx, op, err)
	}

	metrics.FinalizedResults.Add(float64(n))
	s.info(ctx, "results finalized", zap.Int64("candidates", n), zap.String("completion_date", completion))
	return int(n), nil
}

// Results: итоговые записи курса.
func (s *Service) Results(ctx context.Context, courseID string) ([]models.CourseResult, error) {
	const op = "courses.Results"
	ctx = scope(ctx, op, "", courseID)
	if err := required(op, "course_id", courseID); err != nil {
		return nil, s.fail(ctx, op, err)
	}
	dbctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	if _, err := s.course(dbctx, s.db, op, courseID); err != nil {
		return nil, s.fail(ctx, op, err)
	}
	out, err := db.ListCourseResults(dbctx, s.db, courseID)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	return out, nil
}

// AutoFinalize финализирует неархивные курсы с незакрытыми Present, если с начала
// курса прошло больше grace+after. Возвращает число затронутых курсов.
func (s *Service) AutoFinalize(ctx context.Context, after time.Duration) (int, error) {
	const op = "courses.AutoFinalize"
	ctx = scope(ctx, op, "", "")
	dbctx, cancel := ctxutil.WithDBTimeout(ctx)
	pending, err := db.CoursesPendingFinalize(dbctx, s.db)
	cancel()
	if err != nil {
		return 0, s.fail(ctx, op, err)
	}

	now := s.now()
	done := 0
	var errs []error
	for i := range pending {
		c := &pending[i]
		start, err := s.start(op, c)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if now.Before(start.Add(lifecycle.GracePeriod + after)) {
			continue
		}
		n, err := s.FinalizeResults(ctx, c.ID)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if n > 0 {
			done++
		}
	}
	return done, errors.Join(errs...)
}
