package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Spok95/course-registration/internal/models"
	"github.com/lib/pq"
)

// FinalizeCourseResults: Completed для каждого студента с хотя бы одним Present.
// Повторный запуск обновляет статус, дата завершения остаётся от первого.
// Возвращает число обработанных кандидатов (вставленных и обновлённых).
func FinalizeCourseResults(ctx context.Context, tx *sql.Tx, courseID, completionDate string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO course_results (admission_no, course_id, status, completion_date)
		SELECT DISTINCT a.admission_no, a.course_id, 'Completed', $2::date
		FROM attendance a
		WHERE a.course_id = $1 AND a.status = 'Present'
		ON CONFLICT (admission_no, course_id)
		DO UPDATE SET status = 'Completed'
	`, courseID, completionDate)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// GetResult: итоговая запись. (nil, nil), если её нет.
func GetResult(ctx context.Context, q Querier, admissionNo, courseID string) (*models.CourseResult, error) {
	var r models.CourseResult
	err := q.QueryRowContext(ctx, `
		SELECT admission_no, course_id, status, to_char(completion_date, 'YYYY-MM-DD')
		FROM course_results WHERE admission_no = $1 AND course_id = $2
	`, admissionNo, courseID).Scan(&r.AdmissionNo, &r.CourseID, &r.Status, &r.CompletionDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func ListCourseResults(ctx context.Context, q Querier, courseID string) ([]models.CourseResult, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT admission_no, course_id, status, to_char(completion_date, 'YYYY-MM-DD')
		FROM course_results WHERE course_id = $1
		ORDER BY admission_no
	`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.CourseResult
	for rows.Next() {
		var r models.CourseResult
		if err := rows.Scan(&r.AdmissionNo, &r.CourseID, &r.Status, &r.CompletionDate); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func certifiableStatuses() []string {
	out := make([]string, 0, len(models.Certifiable))
	for _, s := range models.Certifiable {
		out = append(out, string(s))
	}
	return out
}

const certificateSelect = `
	SELECT cr.admission_no, s.full_name, cr.course_id, c.course_name, cr.status,
	       to_char(cr.completion_date, 'YYYY-MM-DD')
	FROM course_results cr
	JOIN courses c ON c.course_id = cr.course_id
	JOIN students s ON s.admission_no = cr.admission_no
	WHERE cr.admission_no = $1 AND NOT c.is_deleted AND cr.status = ANY($2)`

func scanCertificate(r rowScanner) (models.CertificateRecord, error) {
	var rec models.CertificateRecord
	err := r.Scan(&rec.AdmissionNo, &rec.StudentName, &rec.CourseID, &rec.CourseName, &rec.Status, &rec.CompletionDate)
	return rec, err
}

// ListCertifiable: итоги студента, по которым положен сертификат, новые сверху.
func ListCertifiable(ctx context.Context, q Querier, admissionNo string) ([]models.CertificateRecord, error) {
	rows, err := q.QueryContext(ctx, certificateSelect+`
		ORDER BY cr.completion_date DESC, cr.course_id
	`, admissionNo, pq.Array(certifiableStatuses()))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.CertificateRecord
	for rows.Next() {
		rec, err := scanCertificate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// GetCertifiable: один сертифицируемый итог. (nil, nil), если сертификат не положен.
func GetCertifiable(ctx context.Context, q Querier, admissionNo, courseID string) (*models.CertificateRecord, error) {
	row := q.QueryRowContext(ctx, certificateSelect+` AND cr.course_id = $3`,
		admissionNo, pq.Array(certifiableStatuses()), courseID)
	rec, err := scanCertificate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
