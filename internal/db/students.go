package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Spok95/course-registration/internal/models"
)

const studentColumns = `
	admission_no, reg_no, full_name, gender, COALESCE(to_char(dob, 'YYYY-MM-DD'), ''),
	class_no, dept, semester, batch, phone, email, security_question, created_at`

func scanStudent(r rowScanner) (models.Student, error) {
	var s models.Student
	err := r.Scan(&s.AdmissionNo, &s.RegNo, &s.FullName, &s.Gender, &s.DOB,
		&s.ClassNo, &s.Dept, &s.Semester, &s.Batch, &s.Phone, &s.Email, &s.SecurityQuestion, &s.CreatedAt)
	return s, err
}

// InsertStudent: регистрация студента вместе с хэшами пароля и ответа на секретный вопрос.
func InsertStudent(ctx context.Context, q Querier, s models.Student, passwordHash, answerHash []byte) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO students (admission_no, reg_no, full_name, gender, dob, class_no, dept,
		                      semester, batch, phone, email, password_hash,
		                      security_question, security_answer_hash)
		VALUES ($1, $2, $3, $4, NULLIF($5, '')::date, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, s.AdmissionNo, s.RegNo, s.FullName, s.Gender, s.DOB, s.ClassNo, s.Dept,
		s.Semester, s.Batch, s.Phone, s.Email, passwordHash, s.SecurityQuestion, answerHash)
	return err
}

// GetStudent: профиль без секретов. (nil, nil), если не найден.
func GetStudent(ctx context.Context, q Querier, admissionNo string) (*models.Student, error) {
	row := q.QueryRowContext(ctx, `SELECT `+studentColumns+` FROM students WHERE admission_no = $1`, admissionNo)
	s, err := scanStudent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func StudentExists(ctx context.Context, q Querier, admissionNo string) (bool, error) {
	var ok bool
	err := q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM students WHERE admission_no = $1)`, admissionNo).Scan(&ok)
	return ok, err
}

// GetCredentials: хэши для проверки входа и сброса пароля. (nil, nil), если не найден.
func GetCredentials(ctx context.Context, q Querier, admissionNo string) (*models.Credentials, error) {
	var c models.Credentials
	err := q.QueryRowContext(ctx, `
		SELECT admission_no, full_name, password_hash, security_answer_hash
		FROM students WHERE admission_no = $1
	`, admissionNo).Scan(&c.AdmissionNo, &c.FullName, &c.PasswordHash, &c.SecurityAnswerHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func UpdateStudentPassword(ctx context.Context, q Querier, admissionNo string, hash []byte) (bool, error) {
	res, err := q.ExecContext(ctx, `UPDATE students SET password_hash = $2 WHERE admission_no = $1`, admissionNo, hash)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n == 1, nil
}

// UpdateStudentProfile: редактируемые поля профиля. Номер зачётки не меняется,
// занятый рег. номер возвращается как unique violation.
func UpdateStudentProfile(ctx context.Context, q Querier, s models.Student) (bool, error) {
	res, err := q.ExecContext(ctx, `
		UPDATE students
		SET reg_no = $2, full_name = $3, gender = $4, dob = NULLIF($5, '')::date, class_no = $6,
		    dept = $7, semester = $8, batch = $9, phone = $10, email = $11
		WHERE admission_no = $1
	`, s.AdmissionNo, s.RegNo, s.FullName, s.Gender, s.DOB, s.ClassNo, s.Dept, s.Semester, s.Batch, s.Phone, s.Email)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n == 1, nil
}
