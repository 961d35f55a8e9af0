//go:build testutil
// +build testutil

package certificate_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Spok95/course-registration/internal/apperr"
	"github.com/Spok95/course-registration/internal/certificate"
	"github.com/Spok95/course-registration/internal/db"
	"github.com/Spok95/course-registration/internal/models"
	"github.com/Spok95/course-registration/internal/testutil/testdb"
)

func TestIssue(t *testing.T) {
	ctx := context.Background()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	testdb.MustStudent(t, h.DB, "A1", "Anna Karenina")
	testdb.MustStudent(t, h.DB, "A2", "Boris")
	testdb.MustCourse(t, h.DB, "GO1", "Go Basics", "2025-06-10", "10:00")
	for _, a := range []string{"A1", "A2"} {
		if _, err := db.InsertRegistration(ctx, h.DB, a, "GO1", time.Now()); err != nil {
			t.Fatal(err)
		}
	}
	err = db.WithTx(ctx, h.DB, func(tx *sql.Tx) error {
		marks := []models.AttendanceMark{{AdmissionNo: "A1", Status: models.Present}, {AdmissionNo: "A2", Status: models.Absent}}
		if _, err := db.UpsertAttendance(ctx, tx, "GO1", "2025-06-10", marks); err != nil {
			return err
		}
		_, err := db.FinalizeCourseResults(ctx, tx, "GO1", "2025-06-11")
		return err
	})
	if err != nil {
		t.Fatal(err)
	}

	root := t.TempDir()
	svc := certificate.New(h.DB, root)

	list, err := svc.List(ctx, "A1")
	if err != nil || len(list) != 1 || list[0].CompletionDate != "2025-06-11" {
		t.Fatalf("list: %#v %v", list, err)
	}

	c, err := svc.Issue(ctx, "A1", "GO1")
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(root, "Certificate_GO1", "A1", "go_basics", "Anna_Karenina_Cert_GO1.xlsx")
	if c.Path != want || c.Number == "" {
		t.Fatalf("certificate: %#v", c)
	}
	if _, err := os.Stat(c.Path); err != nil {
		t.Fatalf("файл не создан: %v", err)
	}

	_, err = svc.Issue(ctx, "A2", "GO1")
	if !errors.Is(err, apperr.ErrNotFound) || !errors.Is(err, apperr.ErrNoResult) {
		t.Fatalf("без итога сертификата нет: %v", err)
	}

	// архивный курс пропадает из списка сертификатов
	if ok, err := db.SetCourseDeleted(ctx, h.DB, "GO1", false, true); err != nil || !ok {
		t.Fatal(err)
	}
	list, err = svc.List(ctx, "A1")
	if err != nil || len(list) != 0 {
		t.Fatalf("archived: %#v %v", list, err)
	}
}
