package models

import "time"

type Registration struct {
	ID           int64      `db:"registration_id"`
	AdmissionNo  string     `db:"student_admission_no"`
	CourseID     string     `db:"course_id"`
	IsCancelled  bool       `db:"is_cancelled"`
	RegisteredAt time.Time  `db:"registered_at"`
	CancelledAt  *time.Time `db:"cancellation_date"`
}

type AttendanceStatus string

const (
	Present AttendanceStatus = "Present"
	Absent  AttendanceStatus = "Absent"
)

func (s AttendanceStatus) Valid() bool {
	return s == Present || s == Absent
}

type Attendance struct {
	CourseID    string           `db:"course_id"`
	AdmissionNo string           `db:"admission_no"`
	Date        string           `db:"date_recorded"` // 2006-01-02
	Status      AttendanceStatus `db:"status"`
}

// AttendanceMark: одна строка пакетной отметки посещаемости.
type AttendanceMark struct {
	AdmissionNo string
	Status      AttendanceStatus
}

// RosterEntry: студент с активной записью на курс.
type RosterEntry struct {
	AdmissionNo string
	FullName    string
	Email       string
	Phone       string
	Semester    string
	Batch       string
	Dept        string
	ClassNo     string
}

// SheetRow: строка ведомости посещаемости за день.
type SheetRow struct {
	AdmissionNo string
	FullName    string
	Status      AttendanceStatus
	Recorded    bool
}
