package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind: закрытый набор категорий ошибок, которые видит вызывающая сторона.
type Kind uint8

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
	KindDeadline
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindDeadline:
		return "deadline"
	case KindPersistence:
		return "persistence"
	default:
		return "unknown"
	}
}

// FieldError указывает на ошибку в конкретном поле ввода.
type FieldError struct {
	Field string
	Error string
}

// Error - ошибка движка с категорией, именем операции и причиной.
type Error struct {
	Kind   Kind
	Op     string
	Err    error
	Fields []FieldError
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	if e.Err != nil {
		b.WriteString(e.Err.Error())
	} else {
		b.WriteString(e.Kind.String())
	}
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			parts = append(parts, f.Field+": "+f.Error)
		}
		b.WriteString(" (")
		b.WriteString(strings.Join(parts, "; "))
		b.WriteString(")")
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is сравнивает по категории, если target: «голый» sentinel категории (без Op и причины).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinel'ы категорий: errors.Is(err, apperr.ErrConflict).
var (
	ErrValidation  = &Error{Kind: KindValidation}
	ErrNotFound    = &Error{Kind: KindNotFound}
	ErrConflict    = &Error{Kind: KindConflict}
	ErrDeadline    = &Error{Kind: KindDeadline}
	ErrPersistence = &Error{Kind: KindPersistence}
)

func E(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func Validation(op string, err error, fields ...FieldError) error {
	return &Error{Kind: KindValidation, Op: op, Err: err, Fields: fields}
}

func NotFound(op string, err error) error { return E(KindNotFound, op, err) }

func Conflict(op string, err error) error { return E(KindConflict, op, err) }

func Deadline(op string, err error) error { return E(KindDeadline, op, err) }

// Persistence оборачивает ошибку хранилища. Уже типизированные ошибки не переупаковываются.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	return E(KindPersistence, op, err)
}

// Missing: ValidationError для незаполненных обязательных полей.
func Missing(op string, fields ...string) error {
	fe := make([]FieldError, 0, len(fields))
	for _, f := range fields {
		fe = append(fe, FieldError{Field: f, Error: "this field is required"})
	}
	return Validation(op, fmt.Errorf("missing required fields"), fe...)
}

// KindOf возвращает категорию ошибки; 0: если это не ошибка движка.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return 0
}

// FieldsOf возвращает ошибки полей, если они есть.
func FieldsOf(err error) []FieldError {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Fields
	}
	return nil
}
