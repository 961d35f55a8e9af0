//go:build testutil
// +build testutil

package db_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/Spok95/course-registration/internal/db"
	"github.com/Spok95/course-registration/internal/models"
	"github.com/Spok95/course-registration/internal/testutil/testdb"
)

func TestCourses_ListAndArchiveFlag(t *testing.T) {
	ctx := context.Background()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	testdb.MustCourse(t, h.DB, "GO101", "Go Basics", "2030-01-10", "10:00")
	testdb.MustCourse(t, h.DB, "PY201", "Python Data", "2030-01-09", "09:30")

	c, err := db.GetCourse(ctx, h.DB, "GO101")
	if err != nil || c == nil {
		t.Fatalf("get: %v %v", c, err)
	}
	if c.Date != "2030-01-10" || c.Time != "10:00:00" {
		t.Fatalf("дата/время: %q %q", c.Date, c.Time)
	}
	if missing, err := db.GetCourse(ctx, h.DB, "NOPE"); err != nil || missing != nil {
		t.Fatalf("ожидали (nil, nil), получили %v %v", missing, err)
	}

	all, err := db.ListCourses(ctx, h.DB, db.CourseFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].ID != "PY201" {
		t.Fatalf("ожидали сортировку по дате: %#v", all)
	}
	found, err := db.ListCourses(ctx, h.DB, db.CourseFilter{Search: "go b"})
	if err != nil {
		t.Fatal(err)
	}
	if len(found) != 1 || found[0].ID != "GO101" {
		t.Fatalf("поиск: %#v", found)
	}

	testdb.MustCourse(t, h.DB, "SALE_50", "50% off Go", "2030-01-11", "10:00")
	testdb.MustCourse(t, h.DB, "SALEX500", "500 lessons", "2030-01-12", "10:00")
	for search, want := range map[string]string{"50%": "SALE_50", "sale_": "SALE_50"} {
		got, err := db.ListCourses(ctx, h.DB, db.CourseFilter{Search: search})
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 || got[0].ID != want {
			t.Fatalf("%q ищется буквально, получили %#v", search, got)
		}
	}

	ok, err := db.SetCourseDeleted(ctx, h.DB, "GO101", false, true)
	if err != nil || !ok {
		t.Fatalf("archive: %v %v", ok, err)
	}
	ok, err = db.SetCourseDeleted(ctx, h.DB, "GO101", false, true)
	if err != nil || ok {
		t.Fatalf("повторный archive должен вернуть false: %v %v", ok, err)
	}
	archived, err := db.ListCourses(ctx, h.DB, db.CourseFilter{Archived: true})
	if err != nil || len(archived) != 1 {
		t.Fatalf("archived: %#v %v", archived, err)
	}
	active, arch, err := db.CourseStateCounts(ctx, h.DB)
	if err != nil || active != 3 || arch != 1 {
		t.Fatalf("counts: %d %d %v", active, arch, err)
	}

	if err := db.InsertCourse(ctx, h.DB, models.Course{ID: "GO101", Name: "dup", Date: "2030-01-01", Time: "10:00", Mode: models.ModeOffline}); !db.IsUniqueViolation(err) {
		t.Fatalf("ожидали unique violation, получили %v", err)
	}
}

func TestDeleteCourseCascade(t *testing.T) {
	ctx := context.Background()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	testdb.MustStudent(t, h.DB, "A1", "Anna")
	testdb.MustCourse(t, h.DB, "C1", "Go Basics", "2025-01-10", "10:00")
	if _, err := db.InsertRegistration(ctx, h.DB, "A1", "C1", time.Now()); err != nil {
		t.Fatal(err)
	}
	err = db.WithTx(ctx, h.DB, func(tx *sql.Tx) error {
		if _, err := db.UpsertAttendance(ctx, tx, "C1", "2025-01-10", []models.AttendanceMark{{AdmissionNo: "A1", Status: models.Present}}); err != nil {
			return err
		}
		_, err := db.FinalizeCourseResults(ctx, tx, "C1", "2025-01-10")
		return err
	})
	if err != nil {
		t.Fatal(err)
	}

	var pc db.PurgeCounts
	var existed bool
	err = db.WithTx(ctx, h.DB, func(tx *sql.Tx) error {
		var err error
		pc, existed, err = db.DeleteCourseCascade(ctx, tx, "C1")
		return err
	})
	if err != nil || !existed {
		t.Fatalf("purge: %v %v", existed, err)
	}
	if pc != (db.PurgeCounts{Attendance: 1, Results: 1, Registrations: 1}) {
		t.Fatalf("counts: %#v", pc)
	}
	for _, table := range []string{"attendance", "course_results", "course_registrations", "courses"} {
		var n int
		if err := h.DB.QueryRowContext(ctx, `SELECT count(*) FROM `+table).Scan(&n); err != nil {
			t.Fatal(err)
		}
		if n != 0 {
			t.Fatalf("%s: осталось %d строк", table, n)
		}
	}
}
