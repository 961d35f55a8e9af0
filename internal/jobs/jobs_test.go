package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Spok95/course-registration/internal/courses"
	"github.com/Spok95/course-registration/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type statsStub struct {
	st  courses.Stats
	err error
}

func (s statsStub) Stats(context.Context) (courses.Stats, error) { return s.st, s.err }

type finalizerStub struct {
	after time.Duration
	calls int
}

func (f *finalizerStub) AutoFinalize(_ context.Context, after time.Duration) (int, error) {
	f.after = after
	f.calls++
	return 2, nil
}

func TestCourseStats(t *testing.T) {
	r := New(context.Background(), nil)
	if err := r.Once("stats", CourseStats(statsStub{st: courses.Stats{Active: 3, Archived: 1, ActiveRegistrations: 7}})); err != nil {
		t.Fatal(err)
	}
	if v := testutil.ToFloat64(metrics.Courses.WithLabelValues("active")); v != 3 {
		t.Fatalf("active: %v", v)
	}
	if v := testutil.ToFloat64(metrics.Courses.WithLabelValues("archived")); v != 1 {
		t.Fatalf("archived: %v", v)
	}
	if v := testutil.ToFloat64(metrics.ActiveRegistrations); v != 7 {
		t.Fatalf("registrations: %v", v)
	}

	before := testutil.ToFloat64(jobErrors.WithLabelValues("stats_err"))
	boom := errors.New("boom")
	if err := r.Once("stats_err", CourseStats(statsStub{err: boom})); !errors.Is(err, boom) {
		t.Fatalf("ожидали boom, получили %v", err)
	}
	if v := testutil.ToFloat64(jobErrors.WithLabelValues("stats_err")); v != before+1 {
		t.Fatalf("ошибка задачи не посчитана: %v", v)
	}
}

func TestOnce_RecoversPanic(t *testing.T) {
	r := New(context.Background(), nil)
	err := r.Once("panicky", func(context.Context) error { panic("oops") })
	if err == nil {
		t.Fatal("паника должна превратиться в ошибку")
	}
}

func TestAutoFinalize(t *testing.T) {
	f := &finalizerStub{}
	r := New(context.Background(), nil)
	if err := r.Once("finalize", AutoFinalize(f, 2*time.Hour, nil)); err != nil {
		t.Fatal(err)
	}
	if f.calls != 1 || f.after != 2*time.Hour {
		t.Fatalf("finalizer: %+v", f)
	}
}

func TestEvery_StopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ticks := make(chan struct{}, 10)
	New(ctx, nil).Every(5*time.Millisecond, "tick", func(context.Context) error {
		ticks <- struct{}{}
		return nil
	})
	select {
	case <-ticks:
	case <-time.After(2 * time.Second):
		t.Fatal("задача не запустилась")
	}
	cancel()
}

func TestEvery_RunIsBoundedByInterval(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	const interval = 20 * time.Millisecond
	left := make(chan time.Duration, 10)
	New(ctx, nil).Every(interval, "bounded", func(ctx context.Context) error {
		dl, ok := ctx.Deadline()
		if !ok {
			left <- -1
			return nil
		}
		left <- time.Until(dl)
		return nil
	})
	select {
	case d := <-left:
		if d < 0 || d > interval {
			t.Fatalf("прогон должен иметь дедлайн не дальше интервала, осталось %s", d)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("задача не запустилась")
	}
}

func TestOnce_HasNoOwnDeadline(t *testing.T) {
	r := New(context.Background(), nil)
	err := r.Once("unbounded", func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); ok {
			return errors.New("неожиданный дедлайн")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}
