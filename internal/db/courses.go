package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/Spok95/course-registration/internal/models"
)

const courseColumns = `
	c.course_id, c.course_name, c.description,
	to_char(c.course_date, 'YYYY-MM-DD'), to_char(c.course_time, 'HH24:MI:SS'),
	c.mode, c.poster, c.coordinator1, c.coordinator2, c.is_deleted, c.created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(r rowScanner) (models.Course, error) {
	var c models.Course
	err := r.Scan(&c.ID, &c.Name, &c.Description, &c.Date, &c.Time,
		&c.Mode, &c.Poster, &c.Coordinator1, &c.Coordinator2, &c.IsDeleted, &c.CreatedAt)
	return c, err
}

func scanCourses(rows *sql.Rows) ([]models.Course, error) {
	defer rows.Close()
	var out []models.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// InsertCourse: новый курс. Дубликат course_id возвращается как unique violation.
func InsertCourse(ctx context.Context, q Querier, c models.Course) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO courses (course_id, course_name, description, course_date, course_time,
		                     mode, poster, coordinator1, coordinator2)
		VALUES ($1, $2, $3, $4::date, $5::time, $6, $7, $8, $9)
	`, c.ID, c.Name, c.Description, c.Date, c.Time, string(c.Mode), c.Poster, c.Coordinator1, c.Coordinator2)
	return err
}

// UpdateCourse перезаписывает редактируемые поля. false: курса нет.
func UpdateCourse(ctx context.Context, q Querier, c models.Course) (bool, error) {
	res, err := q.ExecContext(ctx, `
		UPDATE courses
		SET course_name = $2, description = $3, course_date = $4::date, course_time = $5::time,
		    mode = $6, poster = $7, coordinator1 = $8, coordinator2 = $9
		WHERE course_id = $1
	`, c.ID, c.Name, c.Description, c.Date, c.Time, string(c.Mode), c.Poster, c.Coordinator1, c.Coordinator2)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n == 1, nil
}

// GetCourse: курс по id, включая архивные. (nil, nil), если не найден.
func GetCourse(ctx context.Context, q Querier, courseID string) (*models.Course, error) {
	row := q.QueryRowContext(ctx, `SELECT `+courseColumns+` FROM courses c WHERE c.course_id = $1`, courseID)
	c, err := scanCourse(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CourseFilter - фильтр списка курсов. Search ищет подстроку id или названия без учёта регистра.
type CourseFilter struct {
	Archived bool
	Search   string
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern: шаблон ILIKE «содержит s», где % и _ из ввода ищутся буквально.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// ListCourses: курсы по флагу архива, отсортированные по началу.
func ListCourses(ctx context.Context, q Querier, f CourseFilter) ([]models.Course, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+courseColumns+`
		FROM courses c
		WHERE c.is_deleted = $1
		  AND ($2::text = '' OR c.course_id ILIKE $3 ESCAPE '\' OR c.course_name ILIKE $3 ESCAPE '\')
		ORDER BY c.course_date, c.course_time, c.course_id
	`, f.Archived, f.Search, containsPattern(f.Search))
	if err != nil {
		return nil, err
	}
	return scanCourses(rows)
}

// ListStudentCourses: неархивные курсы, на которые у студента есть (registered=true)
// или нет (registered=false) активной записи.
func ListStudentCourses(ctx context.Context, q Querier, admissionNo string, registered bool) ([]models.Course, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+courseColumns+`
		FROM courses c
		WHERE NOT c.is_deleted
		  AND EXISTS (
		      SELECT 1 FROM course_registrations r
		      WHERE r.course_id = c.course_id
		        AND r.student_admission_no = $1
		        AND NOT r.is_cancelled
		  ) = $2
		ORDER BY c.course_date, c.course_time, c.course_id
	`, admissionNo, registered)
	if err != nil {
		return nil, err
	}
	return scanCourses(rows)
}

// SetCourseDeleted условно меняет флаг архива from -> to. false, если курса нет или флаг уже другой.
func SetCourseDeleted(ctx context.Context, q Querier, courseID string, from, to bool) (bool, error) {
	res, err := q.ExecContext(ctx, `
		UPDATE courses SET is_deleted = $3
		WHERE course_id = $1 AND is_deleted = $2
	`, courseID, from, to)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n == 1, nil
}

// PurgeCounts: сколько строк удалено при полном удалении курса.
type PurgeCounts struct {
	Attendance    int64
	Results       int64
	Registrations int64
}

// DeleteCourseCascade удаляет курс и всё, что на него ссылается. Вызывать внутри транзакции.
// false: курса не было.
func DeleteCourseCascade(ctx context.Context, tx *sql.Tx, courseID string) (PurgeCounts, bool, error) {
	var pc PurgeCounts
	steps := []struct {
		query string
		dst   *int64
	}{
		{`DELETE FROM attendance WHERE course_id = $1`, &pc.Attendance},
		{`DELETE FROM course_results WHERE course_id = $1`, &pc.Results},
		{`DELETE FROM course_registrations WHERE course_id = $1`, &pc.Registrations},
	}
	for _, s := range steps {
		res, err := tx.ExecContext(ctx, s.query, courseID)
		if err != nil {
			return pc, false, err
		}
		*s.dst, _ = res.RowsAffected()
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM courses WHERE course_id = $1`, courseID)
	if err != nil {
		return pc, false, err
	}
	n, _ := res.RowsAffected()
	return pc, n == 1, nil
}

// CourseStateCounts: количество активных и архивных курсов.
func CourseStateCounts(ctx context.Context, q Querier) (active, archived int, err error) {
	err = q.QueryRowContext(ctx, `
		SELECT count(*) FILTER (WHERE NOT is_deleted), count(*) FILTER (WHERE is_deleted)
		FROM courses
	`).Scan(&active, &archived)
	return active, archived, err
}

// CoursesPendingFinalize: неархивные курсы, где есть Present без итоговой записи.
func CoursesPendingFinalize(ctx context.Context, q Querier) ([]models.Course, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+courseColumns+`
		FROM courses c
		WHERE NOT c.is_deleted
		  AND EXISTS (
		      SELECT 1 FROM attendance a
		      LEFT JOIN course_results cr
		             ON cr.course_id = a.course_id AND cr.admission_no = a.admission_no
		      WHERE a.course_id = c.course_id AND a.status = 'Present' AND cr.course_id IS NULL
		  )
		ORDER BY c.course_date, c.course_time, c.course_id
	`)
	if err != nil {
		return nil, err
	}
	return scanCourses(rows)
}
