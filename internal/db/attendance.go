package db

import (
	"context"
	"database/sql"

	"github.com/Spok95/course-registration/internal/models"
)

// UpsertAttendance пишет отметки за дату пачкой. Повторная отметка того же студента
// за ту же дату перезаписывает статус. Вызывать внутри транзакции.
func UpsertAttendance(ctx context.Context, tx *sql.Tx, courseID, date string, marks []models.AttendanceMark) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO attendance (course_id, admission_no, date_recorded, status)
		VALUES ($1, $2, $3::date, $4)
		ON CONFLICT (course_id, admission_no, date_recorded)
		DO UPDATE SET status = EXCLUDED.status, updated_at = now()
	`)
	if err != nil {
		return 0, err
	}
	defer func() { _ = stmt.Close() }()

	written := 0
	for _, m := range marks {
		if _, err := stmt.ExecContext(ctx, courseID, m.AdmissionNo, date, string(m.Status)); err != nil {
			return 0, err
		}
		written++
	}
	return written, nil
}

// CountPresent: сколько раз студент отмечен присутствующим на курсе.
func CountPresent(ctx context.Context, q Querier, admissionNo, courseID string) (int, error) {
	var n int
	err := q.QueryRowContext(ctx, `
		SELECT count(*) FROM attendance
		WHERE admission_no = $1 AND course_id = $2 AND status = 'Present'
	`, admissionNo, courseID).Scan(&n)
	return n, err
}

// AttendanceSheet: активный состав курса и отметки за дату. Без отметки статус пустой, recorded=false.
func AttendanceSheet(ctx context.Context, q Querier, courseID, date string) ([]models.SheetRow, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT s.admission_no, s.full_name, COALESCE(a.status, ''), a.status IS NOT NULL
		FROM course_registrations r
		JOIN students s ON s.admission_no = r.student_admission_no
		LEFT JOIN attendance a
		       ON a.course_id = r.course_id
		      AND a.admission_no = r.student_admission_no
		      AND a.date_recorded = $2::date
		WHERE r.course_id = $1 AND NOT r.is_cancelled
		ORDER BY s.full_name, s.admission_no
	`, courseID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.SheetRow
	for rows.Next() {
		var sr models.SheetRow
		var status string
		if err := rows.Scan(&sr.AdmissionNo, &sr.FullName, &status, &sr.Recorded); err != nil {
			return nil, err
		}
		sr.Status = models.AttendanceStatus(status)
		out = append(out, sr)
	}
	return out, rows.Err()
}

// ListAttendance: все отметки курса, по дате и студенту.
func ListAttendance(ctx context.Context, q Querier, courseID string) ([]models.Attendance, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT course_id, admission_no, to_char(date_recorded, 'YYYY-MM-DD'), status
		FROM attendance
		WHERE course_id = $1
		ORDER BY date_recorded, admission_no
	`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Attendance
	for rows.Next() {
		var a models.Attendance
		if err := rows.Scan(&a.CourseID, &a.AdmissionNo, &a.Date, &a.Status); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
