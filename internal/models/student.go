package models

import "time"

type Student struct {
	AdmissionNo      string    `db:"admission_no"`
	RegNo            string    `db:"reg_no"`
	FullName         string    `db:"full_name"`
	Gender           string    `db:"gender"`
	DOB              string    `db:"dob"`
	ClassNo          string    `db:"class_no"`
	Dept             string    `db:"dept"`
	Semester         string    `db:"semester"`
	Batch            string    `db:"batch"`
	Phone            string    `db:"phone"`
	Email            string    `db:"email"`
	SecurityQuestion string    `db:"security_question"`
	CreatedAt        time.Time `db:"created_at"`
}

// Credentials: хэши, которые никогда не покидают слой accounts.
type Credentials struct {
	AdmissionNo        string `db:"admission_no"`
	FullName           string `db:"full_name"`
	PasswordHash       []byte `db:"password_hash"`
	SecurityAnswerHash []byte `db:"security_answer_hash"`
}

type Admin struct {
	ID           int64  `db:"id"`
	Username     string `db:"username"`
	PasswordHash []byte `db:"password_hash"`
}
