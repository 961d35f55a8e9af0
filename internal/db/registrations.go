package db

import (
	"context"
	"time"

	"github.com/Spok95/course-registration/internal/models"
	"github.com/lib/pq"
)

// HasActiveRegistration: есть ли неотменённая запись студента на курс.
func HasActiveRegistration(ctx context.Context, q Querier, admissionNo, courseID string) (bool, error) {
	var ok bool
	err := q.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM course_registrations
			WHERE student_admission_no = $1 AND course_id = $2 AND NOT is_cancelled
		)
	`, admissionNo, courseID).Scan(&ok)
	return ok, err
}

// EverRegistered: была ли хоть одна запись, включая отменённые.
func EverRegistered(ctx context.Context, q Querier, admissionNo, courseID string) (bool, error) {
	var ok bool
	err := q.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM course_registrations
			WHERE student_admission_no = $1 AND course_id = $2
		)
	`, admissionNo, courseID).Scan(&ok)
	return ok, err
}

// InsertRegistration: новая активная запись. Вторая активная запись даёт unique violation
// (частичный индекс ux_course_registrations_active).
func InsertRegistration(ctx context.Context, q Querier, admissionNo, courseID string, at time.Time) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, `
		INSERT INTO course_registrations (student_admission_no, course_id, registered_at)
		VALUES ($1, $2, $3)
		RETURNING registration_id
	`, admissionNo, courseID, at).Scan(&id)
	return id, err
}

// CancelActiveRegistration - атомарная отмена, флаг ставится только на активной записи.
func CancelActiveRegistration(ctx context.Context, q Querier, admissionNo, courseID string, at time.Time) (bool, error) {
	res, err := q.ExecContext(ctx, `
		UPDATE course_registrations
		SET is_cancelled = TRUE, cancellation_date = $3
		WHERE student_admission_no = $1 AND course_id = $2 AND NOT is_cancelled
	`, admissionNo, courseID, at)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n == 1, nil
}

// ListRegistrations: вся история записей студента на курс, от старых к новым.
func ListRegistrations(ctx context.Context, q Querier, admissionNo, courseID string) ([]models.Registration, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT registration_id, student_admission_no, course_id, is_cancelled, registered_at, cancellation_date
		FROM course_registrations
		WHERE student_admission_no = $1 AND course_id = $2
		ORDER BY registration_id
	`, admissionNo, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Registration
	for rows.Next() {
		var r models.Registration
		if err := rows.Scan(&r.ID, &r.AdmissionNo, &r.CourseID, &r.IsCancelled, &r.RegisteredAt, &r.CancelledAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ActivelyRegistered возвращает подмножество admissionNos с активной записью на курс.
func ActivelyRegistered(ctx context.Context, q Querier, courseID string, admissionNos []string) (map[string]bool, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT DISTINCT student_admission_no
		FROM course_registrations
		WHERE course_id = $1 AND NOT is_cancelled AND student_admission_no = ANY($2)
	`, courseID, pq.Array(admissionNos))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]bool, len(admissionNos))
	for rows.Next() {
		var a string
		if err := rows.Scan(&a); err != nil {
			return nil, err
		}
		out[a] = true
	}
	return out, rows.Err()
}

// Roster: студенты с активной записью на курс, по ФИО.
func Roster(ctx context.Context, q Querier, courseID string) ([]models.RosterEntry, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT s.admission_no, s.full_name, s.email, s.phone, s.semester, s.batch, s.dept, s.class_no
		FROM course_registrations r
		JOIN students s ON s.admission_no = r.student_admission_no
		WHERE r.course_id = $1 AND NOT r.is_cancelled
		ORDER BY s.full_name, s.admission_no
	`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.RosterEntry
	for rows.Next() {
		var e models.RosterEntry
		if err := rows.Scan(&e.AdmissionNo, &e.FullName, &e.Email, &e.Phone, &e.Semester, &e.Batch, &e.Dept, &e.ClassNo); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CountActiveRegistrations: число активных записей по всем курсам.
func CountActiveRegistrations(ctx context.Context, q Querier) (int, error) {
	var n int
	err := q.QueryRowContext(ctx, `SELECT count(*) FROM course_registrations WHERE NOT is_cancelled`).Scan(&n)
	return n, err
}
