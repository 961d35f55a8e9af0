package observability

import (
	"time"

	"github.com/Spok95/course-registration/internal/apperr"
	"github.com/getsentry/sentry-go"
)

func InitSentry(dsn, env, release string) (func(), error) {
	if dsn == "" {
		return func() {}, nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: env,
		Release:     release,
	}); err != nil {
		return func() {}, err
	}
	return func() { sentry.Flush(2 * time.Second) }, nil
}

// CaptureErr отправляет в sentry только сбои хранилища и неклассифицированные ошибки.
// Доменные отказы (валидация, дедлайн, конфликт): штатное поведение, их не шлём.
func CaptureErr(err error) {
	if !Reportable(err) {
		return
	}
	sentry.CaptureException(err)
}

func Reportable(err error) bool {
	if err == nil {
		return false
	}
	k := apperr.KindOf(err)
	return k == 0 || k == apperr.KindPersistence
}
