package ctxutil

import (
	"context"
	"time"
)

// приватные ключи, чтобы исключить коллизии
type key int

const (
	keyStudent key = iota
	keyCourse
	keyOpName
)

// WithStudent /Student: номер зачётки студента, от имени которого идёт операция
func WithStudent(ctx context.Context, admissionNo string) context.Context {
	return context.WithValue(ctx, keyStudent, admissionNo)
}

func Student(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(keyStudent).(string)
	return v, ok && v != ""
}

// WithCourse /Course: идентификатор курса
func WithCourse(ctx context.Context, courseID string) context.Context {
	return context.WithValue(ctx, keyCourse, courseID)
}

func Course(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(keyCourse).(string)
	return v, ok && v != ""
}

// WithOp /Op: имя операции (для логов/метрик)
func WithOp(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, keyOpName, name)
}

func Op(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(keyOpName).(string)
	return v, ok && v != ""
}

// Таймауты для БД. Бизнес-операции синхронные, поэтому одного значения достаточно.
var (
	DefaultDBTimeout = 5 * time.Second
)

// WithTimeout: context.WithTimeout, где d <= 0 означает «без дедлайна, только отмена».
func WithTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, d)
}

// WithDBTimeout: стандартный таймаут для БД.
func WithDBTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if dl, ok := parent.Deadline(); ok {
		// если у родителя осталось меньше DefaultDBTimeout: берем остаток
		remain := time.Until(dl)
		if remain < DefaultDBTimeout {
			return context.WithTimeout(parent, remain)
		}
	}
	return context.WithTimeout(parent, DefaultDBTimeout)
}
