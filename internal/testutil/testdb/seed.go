//go:build testutil
// +build testutil

package testdb

import (
	"context"
	"database/sql"
	"testing"

	"github.com/Spok95/course-registration/internal/db"
	"github.com/Spok95/course-registration/internal/models"
)

// MustStudent создаёт студента с фиктивными хэшами.
func MustStudent(t *testing.T, database *sql.DB, admissionNo, fullName string) {
	t.Helper()
	s := models.Student{
		AdmissionNo: admissionNo,
		RegNo:       "REG-" + admissionNo,
		FullName:    fullName,
		Email:       admissionNo + "@college.com",
		Phone:       "9876543210",
	}
	if err := db.InsertStudent(context.Background(), database, s, []byte("x"), []byte("x")); err != nil {
		t.Fatalf("seed student %s: %v", admissionNo, err)
	}
}

// MustCourse создаёт активный онлайн-курс.
func MustCourse(t *testing.T, database *sql.DB, courseID, name, date, clock string) {
	t.Helper()
	c := models.Course{ID: courseID, Name: name, Date: date, Time: clock, Mode: models.ModeOnline}
	if err := db.InsertCourse(context.Background(), database, c); err != nil {
		t.Fatalf("seed course %s: %v", courseID, err)
	}
}
