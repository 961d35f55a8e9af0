package accounts

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/Spok95/course-registration/internal/apperr"
	"github.com/Spok95/course-registration/internal/ctxutil"
	"github.com/Spok95/course-registration/internal/metrics"
	"github.com/Spok95/course-registration/internal/observability"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Service: учётные записи студентов и администраторов. Пароли и ответы
// на секретный вопрос хранятся только как bcrypt-хэши.
type Service struct {
	db   *sql.DB
	log  *zap.Logger
	cost int
}

type Option func(*Service)

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithBcryptCost: стоимость хэширования; в тестах bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.cost = cost
		}
	}
}

func New(database *sql.DB, opts ...Option) *Service {
	s := &Service{db: database, log: zap.NewNop(), cost: bcrypt.DefaultCost}
	for _, o := range opts {
		o(s)
	}
	return s
}

// hash: bcrypt-хэш секрета; field называет поле формы в ошибке про длину.
func (s *Service) hash(op, field, secret string) ([]byte, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(secret), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, apperr.Validation(op, err, apperr.FieldError{Field: field, Error: "must be at most 72 bytes"})
	}
	return h, err
}

func matches(hash []byte, secret string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(secret)) == nil
}

func (s *Service) fail(ctx context.Context, op string, err error) error {
	err = apperr.Persistence(op, err)
	kind := apperr.KindOf(err)
	metrics.ObserveError(op, kind.String())
	fields := []zap.Field{zap.String("op", op), zap.String("kind", kind.String()), zap.Error(err)}
	if st, ok := ctxutil.Student(ctx); ok {
		fields = append(fields, zap.String("student", st))
	}
	if kind == apperr.KindPersistence {
		s.log.Error("operation failed", fields...)
		observability.CaptureErr(err)
	} else {
		s.log.Warn("operation rejected", fields...)
	}
	return err
}

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

func dbCtx(ctx context.Context, op, admissionNo string) (context.Context, context.Context, context.CancelFunc) {
	ctx = ctxutil.WithOp(ctx, op)
	if admissionNo != "" {
		ctx = ctxutil.WithStudent(ctx, admissionNo)
	}
	dbctx, cancel := ctxutil.WithDBTimeout(ctx)
	return ctx, dbctx, cancel
}
