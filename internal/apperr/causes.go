package apperr

import "errors"

// Именованные причины. Оборачиваются в *Error нужной категории.
var (
	ErrCourseNotFound        = errors.New("course not found")
	ErrStudentNotFound       = errors.New("student not found")
	ErrCourseArchived        = errors.New("course is archived")
	ErrDuplicateRegistration = errors.New("student already has an active registration for this course")
	ErrNotRegistered         = errors.New("no active registration for this course")
	ErrDeadlinePassed        = errors.New("cancellation deadline passed")
	ErrRegistrationClosed    = errors.New("registration is closed for past courses")
	ErrCourseNotPast         = errors.New("outcome is only defined for past courses")
	ErrInvalidTransition     = errors.New("invalid course lifecycle transition")
	ErrNoResult              = errors.New("no finalized result for this course")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrDuplicateStudent      = errors.New("admission number or registration number already exists")
	ErrDuplicateCourse       = errors.New("course id already exists")
	ErrDuplicateAdmin        = errors.New("admin username already exists")
	ErrWrongSecurityAnswer   = errors.New("incorrect security answer")
	ErrPasswordReused        = errors.New("password must be new")
)
