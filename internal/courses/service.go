package courses

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Spok95/course-registration/internal/apperr"
	"github.com/Spok95/course-registration/internal/ctxutil"
	"github.com/Spok95/course-registration/internal/db"
	"github.com/Spok95/course-registration/internal/metrics"
	"github.com/Spok95/course-registration/internal/models"
	"github.com/Spok95/course-registration/internal/observability"
	"go.uber.org/zap"
)

// Clock: источник «сейчас». В тестах подменяется через WithClock.
type Clock func() time.Time

// Service реализует жизненный цикл курсов: классификация по времени, запись/отмена,
// посещаемость, итоги, архив и удаление. Каждая мутирующая операция идёт одной транзакцией.
type Service struct {
	db  *sql.DB
	log *zap.Logger
	loc *time.Location
	now Clock
}

type Option func(*Service)

func WithClock(c Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.now = c
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithLocation: пояс, в котором склеиваются дата и время курса. По умолчанию UTC.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func New(database *sql.DB, opts ...Option) *Service {
	s := &Service{
		db:  database,
		log: zap.NewNop(),
		loc: time.UTC,
		now: time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) Location() *time.Location { return s.loc }

// Now: текущее время движка в его поясе.
func (s *Service) Now() time.Time { return s.now().In(s.loc) }

// scope кладёт в контекст операцию, студента и курс: их подхватывают логи.
func scope(ctx context.Context, op, admissionNo, courseID string) context.Context {
	ctx = ctxutil.WithOp(ctx, op)
	if admissionNo != "" {
		ctx = ctxutil.WithStudent(ctx, admissionNo)
	}
	if courseID != "" {
		ctx = ctxutil.WithCourse(ctx, courseID)
	}
	return ctx
}

func logFields(ctx context.Context, extra ...zap.Field) []zap.Field {
	fields := make([]zap.Field, 0, len(extra)+3)
	if op, ok := ctxutil.Op(ctx); ok {
		fields = append(fields, zap.String("op", op))
	}
	if st, ok := ctxutil.Student(ctx); ok {
		fields = append(fields, zap.String("student", st))
	}
	if c, ok := ctxutil.Course(ctx); ok {
		fields = append(fields, zap.String("course", c))
	}
	return append(fields, extra...)
}

func (s *Service) info(ctx context.Context, msg string, extra ...zap.Field) {
	s.log.Info(msg, logFields(ctx, extra...)...)
}

// fail - общий выход с ошибкой. Сырые ошибки хранилища становятся PersistenceError,
// считаются в метриках, сбои хранилища уходят в sentry.
func (s *Service) fail(ctx context.Context, op string, err error) error {
	err = apperr.Persistence(op, err)
	kind := apperr.KindOf(err)
	metrics.ObserveError(op, kind.String())
	fields := logFields(ctx, zap.String("kind", kind.String()), zap.Error(err))
	if kind == apperr.KindPersistence {
		s.log.Error("operation failed", fields...)
		observability.CaptureErr(err)
	} else {
		s.log.Warn("operation rejected", fields...)
	}
	return err
}

// required: ValidationError по пустым обязательным полям (пары имя/значение).
func required(op string, kv ...string) error {
	var missing []string
	for i := 0; i+1 < len(kv); i += 2 {
		if strings.TrimSpace(kv[i+1]) == "" {
			missing = append(missing, kv[i])
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return apperr.Missing(op, missing...)
}

// course ищет курс по id, включая архивные. Если курса нет, возвращает NotFoundError.
func (s *Service) course(ctx context.Context, q db.Querier, op, courseID string) (*models.Course, error) {
	c, err := db.GetCourse(ctx, q, courseID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound(op, fmt.Errorf("%w: %s", apperr.ErrCourseNotFound, courseID))
	}
	return c, nil
}

// activeCourse: как course, но архивный курс тоже считается ненайденным.
func (s *Service) activeCourse(ctx context.Context, q db.Querier, op, courseID string) (*models.Course, error) {
	c, err := s.course(ctx, q, op, courseID)
	if err != nil {
		return nil, err
	}
	if c.IsDeleted {
		return nil, apperr.NotFound(op, fmt.Errorf("%w: %s", apperr.ErrCourseArchived, courseID))
	}
	return c, nil
}

func (s *Service) requireStudent(ctx context.Context, op, admissionNo string) error {
	ok, err := db.StudentExists(ctx, s.db, admissionNo)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound(op, fmt.Errorf("%w: %s", apperr.ErrStudentNotFound, admissionNo))
	}
	return nil
}

// start возвращает момент начала курса. Битые дата/время в хранилище считаются сбоем хранилища.
func (s *Service) start(op string, c *models.Course) (time.Time, error) {
	t, err := c.Start(s.loc)
	if err != nil {
		return time.Time{}, apperr.Persistence(op, err)
	}
	return t, nil
}
