//go:build testutil
// +build testutil

package db_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Spok95/course-registration/internal/db"
	"github.com/Spok95/course-registration/internal/testutil/testdb"
)

func TestRegistrations_ActiveUniqueness(t *testing.T) {
	ctx := context.Background()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	testdb.MustStudent(t, h.DB, "A100", "Anna")
	testdb.MustCourse(t, h.DB, "C1", "Go Basics", "2030-01-10", "10:00:00")
	now := time.Now()

	if _, err := db.InsertRegistration(ctx, h.DB, "A100", "C1", now); err != nil {
		t.Fatal(err)
	}
	_, err = db.InsertRegistration(ctx, h.DB, "A100", "C1", now)
	if !db.IsUniqueViolation(err) {
		t.Fatalf("ожидали unique violation, получили %v", err)
	}

	ok, err := db.CancelActiveRegistration(ctx, h.DB, "A100", "C1", now)
	if err != nil || !ok {
		t.Fatalf("cancel: %v %v", ok, err)
	}
	ok, err = db.CancelActiveRegistration(ctx, h.DB, "A100", "C1", now)
	if err != nil || ok {
		t.Fatalf("повторная отмена не должна ничего менять: %v %v", ok, err)
	}

	// после отмены можно записаться снова, история сохраняется
	if _, err := db.InsertRegistration(ctx, h.DB, "A100", "C1", now); err != nil {
		t.Fatal(err)
	}
	regs, err := db.ListRegistrations(ctx, h.DB, "A100", "C1")
	if err != nil {
		t.Fatal(err)
	}
	if len(regs) != 2 || !regs[0].IsCancelled || regs[0].CancelledAt == nil || regs[1].IsCancelled {
		t.Fatalf("неожиданная история: %#v", regs)
	}
}

func TestRegistrations_ParallelInsertOneWins(t *testing.T) {
	ctx := context.Background()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	testdb.MustStudent(t, h.DB, "A100", "Anna")
	testdb.MustCourse(t, h.DB, "C1", "Go Basics", "2030-01-10", "10:00:00")

	var wins, dups int32
	wg := sync.WaitGroup{}
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := db.InsertRegistration(ctx, h.DB, "A100", "C1", time.Now())
			switch {
			case err == nil:
				atomic.AddInt32(&wins, 1)
			case db.IsUniqueViolation(err):
				atomic.AddInt32(&dups, 1)
			default:
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	if wins != 1 || dups != 19 {
		t.Fatalf("ожидали 1 успешную запись и 19 конфликтов, получили %d/%d", wins, dups)
	}
}

func TestActivelyRegistered(t *testing.T) {
	ctx := context.Background()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	testdb.MustStudent(t, h.DB, "A1", "Anna")
	testdb.MustStudent(t, h.DB, "A2", "Boris")
	testdb.MustStudent(t, h.DB, "A3", "Vera")
	testdb.MustCourse(t, h.DB, "C1", "Go Basics", "2030-01-10", "10:00:00")
	now := time.Now()
	for _, a := range []string{"A1", "A2"} {
		if _, err := db.InsertRegistration(ctx, h.DB, a, "C1", now); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := db.CancelActiveRegistration(ctx, h.DB, "A2", "C1", now); err != nil {
		t.Fatal(err)
	}

	got, err := db.ActivelyRegistered(ctx, h.DB, "C1", []string{"A1", "A2", "A3"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || !got["A1"] {
		t.Fatalf("ожидали только A1, получили %v", got)
	}

	roster, err := db.Roster(ctx, h.DB, "C1")
	if err != nil {
		t.Fatal(err)
	}
	if len(roster) != 1 || roster[0].AdmissionNo != "A1" {
		t.Fatalf("roster: %#v", roster)
	}
}
