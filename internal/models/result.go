package models

type ResultStatus string

const (
	ResultCompleted ResultStatus = "Completed"
	ResultPassed    ResultStatus = "Passed"
)

// Certifiable: статусы, по которым выдаётся сертификат.
var Certifiable = []ResultStatus{ResultPassed, ResultCompleted}

type CourseResult struct {
	AdmissionNo    string       `db:"admission_no"`
	CourseID       string       `db:"course_id"`
	Status         ResultStatus `db:"status"`
	CompletionDate string       `db:"completion_date"` // 2006-01-02
}

// CertificateRecord: итог, по которому можно выдать сертификат.
type CertificateRecord struct {
	AdmissionNo    string
	StudentName    string
	CourseID       string
	CourseName     string
	Status         ResultStatus
	CompletionDate string
}
