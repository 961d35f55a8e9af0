package export

import (
	"fmt"

	"github.com/Spok95/course-registration/internal/models"
)

var rosterHeader = []string{"Admission No", "Full Name", "Email", "Phone", "Semester", "Batch", "Dept", "Class"}

// RosterWorkbook: состав курса.
func RosterWorkbook(c models.Course, roster []models.RosterEntry) (*Workbook, error) {
	rows := make([][]string, 0, len(roster))
	for _, e := range roster {
		rows = append(rows, []string{e.AdmissionNo, e.FullName, e.Email, e.Phone, e.Semester, e.Batch, e.Dept, e.ClassNo})
	}
	return NewWorkbook([]SheetSpec{{
		Name:   "Roster",
		Title:  fmt.Sprintf("%s (%s), %s %s, %s", c.Name, c.ID, c.Date, c.Time, c.Mode),
		Header: rosterHeader,
		Rows:   rows,
	}})
}

// AttendanceWorkbook: ведомость посещаемости за дату.
func AttendanceWorkbook(c models.Course, date string, sheet []models.SheetRow) (*Workbook, error) {
	rows := make([][]string, 0, len(sheet))
	for _, r := range sheet {
		recorded := "no"
		if r.Recorded {
			recorded = "yes"
		}
		rows = append(rows, []string{r.AdmissionNo, r.FullName, string(r.Status), recorded})
	}
	return NewWorkbook([]SheetSpec{{
		Name:   "Attendance",
		Title:  fmt.Sprintf("Attendance: %s (%s) on %s", c.Name, c.ID, date),
		Header: []string{"Admission No", "Full Name", "Status", "Recorded"},
		Rows:   rows,
	}})
}

// CertificateData: поля документа сертификата.
type CertificateData struct {
	Number         string
	StudentName    string
	AdmissionNo    string
	CourseID       string
	CourseName     string
	Status         string
	CompletionDate string
	IssuedAt       string
}

// CertificateWorkbook строит сертификат одним листом из пар «поле, значение».
func CertificateWorkbook(d CertificateData) (*Workbook, error) {
	return NewWorkbook([]SheetSpec{{
		Name:   "Certificate",
		Title:  "Certificate of Completion",
		Header: []string{"Field", "Value"},
		Rows: [][]string{
			{"Certificate No", d.Number},
			{"Awarded to", d.StudentName},
			{"Admission No", d.AdmissionNo},
			{"Course", fmt.Sprintf("%s (%s)", d.CourseName, d.CourseID)},
			{"Result", d.Status},
			{"Completed on", d.CompletionDate},
			{"Issued at", d.IssuedAt},
		},
	}})
}
