package export

import (
	"path/filepath"
	"testing"

	"github.com/Spok95/course-registration/internal/models"
	"github.com/xuri/excelize/v2"
)

func TestRosterWorkbook(t *testing.T) {
	c := models.Course{ID: "GO1", Name: "Go Basics", Date: "2025-06-20", Time: "10:00:00", Mode: models.ModeOnline}
	wb, err := RosterWorkbook(c, []models.RosterEntry{
		{AdmissionNo: "A1", FullName: "Anna", Email: "anna@college.com", Phone: "9876543210", Semester: "S5", Dept: "CSE", ClassNo: "7"},
		{AdmissionNo: "A2", FullName: "Boris"},
	})
	if err != nil {
		t.Fatal(err)
	}
	path, err := wb.SaveIn(t.TempDir(), BuildRosterFilename(c.ID, c.Name))
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "Roster - GO1 - Go Basics.xlsx" {
		t.Fatalf("имя файла: %s", filepath.Base(path))
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()

	checks := map[string]string{
		"A1": "Go Basics (GO1), 2025-06-20 10:00:00, Online",
		"A3": "Admission No",
		"H3": "Class",
		"A4": "A1",
		"C4": "anna@college.com",
		"B5": "Boris",
	}
	for cell, want := range checks {
		got, err := f.GetCellValue("Roster", cell)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("%s: ожидали %q, получили %q", cell, want, got)
		}
	}
}

func TestAttendanceWorkbook(t *testing.T) {
	c := models.Course{ID: "GO1", Name: "Go Basics"}
	wb, err := AttendanceWorkbook(c, "2025-06-20", []models.SheetRow{
		{AdmissionNo: "A1", FullName: "Anna", Status: models.Present, Recorded: true},
		{AdmissionNo: "A2", FullName: "Boris", Status: models.Present},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = wb.Close() }()

	for cell, want := range map[string]string{"C4": "Present", "D4": "yes", "D5": "no"} {
		got, _ := wb.File.GetCellValue("Attendance", cell)
		if got != want {
			t.Fatalf("%s: ожидали %q, получили %q", cell, want, got)
		}
	}
}

func TestSanitizeFileName(t *testing.T) {
	cases := map[string]string{
		"  a   b  ":             "a b",
		"Roster - A/B - x.xlsx": "Roster - A_B - x.xlsx",
		`c:\evil?.xlsx`:         "c_evil_.xlsx",
	}
	for in, want := range cases {
		if got := sanitizeFileName(in); got != want {
			t.Fatalf("%q: ожидали %q, получили %q", in, want, got)
		}
	}
	if got := BuildAttendanceFilename("GO1", ""); got != "Attendance - GO1 - -.xlsx" {
		t.Fatalf("пустая дата: %q", got)
	}
	if columnName(1) != "A" || columnName(27) != "AA" {
		t.Fatal("columnName")
	}
}
