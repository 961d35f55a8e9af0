package lifecycle

import (
	"errors"
	"testing"
	"time"
)

func mustStart(t *testing.T, date, clock string, loc *time.Location) time.Time {
	t.Helper()
	s, err := CombineDateTime(date, clock, loc)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestCombineDateTime(t *testing.T) {
	start := mustStart(t, "2025-03-10", "10:30", time.UTC)
	want := time.Date(2025, 3, 10, 10, 30, 0, 0, time.UTC)
	if !start.Equal(want) {
		t.Fatalf("ожидали %s, получили %s", want, start)
	}

	withSeconds := mustStart(t, "2025-03-10", "10:30:15", nil)
	if withSeconds.Second() != 15 || withSeconds.Location() != time.UTC {
		t.Fatalf("секунды/пояс потерялись: %s", withSeconds)
	}

	moscow := time.FixedZone("MSK", 3*60*60)
	local := mustStart(t, "2025-03-10", "10:30", moscow)
	if !local.Equal(want.Add(-3 * time.Hour)) {
		t.Fatalf("пояс не учтён: %s", local.UTC())
	}

	if _, err := CombineDateTime("10.03.2025", "10:30", time.UTC); err == nil {
		t.Fatal("ожидали ошибку формата даты")
	}
	if _, err := CombineDateTime("2025-03-10", "half past ten", time.UTC); err == nil {
		t.Fatal("ожидали ошибку формата времени")
	}
}

func TestClassify_Boundary(t *testing.T) {
	start := mustStart(t, "2025-03-10", "10:00", time.UTC)
	threshold := start.Add(GracePeriod)

	cases := []struct {
		name string
		now  time.Time
		want TemporalState
	}{
		{"day_before", start.Add(-24 * time.Hour), Upcoming},
		{"during_grace", start.Add(59 * time.Minute), Upcoming},
		{"one_ns_before_threshold", threshold.Add(-time.Nanosecond), Upcoming},
		{"exactly_threshold", threshold, Past},
		{"after", threshold.Add(time.Second), Past},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(start, tc.now); got != tc.want {
				t.Fatalf("ожидали %s, получили %s", tc.want, got)
			}
		})
	}
}

func TestCanCancel_Boundary(t *testing.T) {
	start := mustStart(t, "2025-03-10", "10:00", time.UTC)
	deadline := CancellationDeadline(start)
	if !deadline.Equal(start.Add(-24 * time.Hour)) {
		t.Fatalf("неверный дедлайн: %s", deadline)
	}
	if !CanCancel(start, deadline.Add(-time.Hour)) {
		t.Fatal("до дедлайна отмена разрешена")
	}
	if !CanCancel(start, deadline) {
		t.Fatal("ровно в дедлайн отмена разрешена")
	}
	if CanCancel(start, deadline.Add(time.Second)) {
		t.Fatal("через секунду после дедлайна отмена запрещена")
	}
}

func TestDeriveOutcome(t *testing.T) {
	if got := DeriveOutcome(false, 3); got != Expired {
		t.Fatalf("без регистрации ожидали EXPIRED, получили %s", got)
	}
	if got := DeriveOutcome(true, 1); got != Completed {
		t.Fatalf("ожидали COMPLETED, получили %s", got)
	}
	if got := DeriveOutcome(true, 0); got != Absent {
		t.Fatalf("ожидали ABSENT, получили %s", got)
	}
}

func TestTransition(t *testing.T) {
	ok := []struct {
		from State
		a    Action
		to   State
	}{
		{Active, ActionArchive, Archived},
		{Archived, ActionRestore, Active},
		{Active, ActionPurge, Purged},
		{Archived, ActionPurge, Purged},
	}
	for _, tc := range ok {
		got, err := Transition(tc.from, tc.a)
		if err != nil || got != tc.to {
			t.Fatalf("%s/%s: ожидали %s, получили %s (%v)", tc.from, tc.a, tc.to, got, err)
		}
	}

	bad := []struct {
		from State
		a    Action
	}{
		{Archived, ActionArchive},
		{Active, ActionRestore},
		{Purged, ActionRestore},
		{Purged, ActionPurge},
	}
	for _, tc := range bad {
		got, err := Transition(tc.from, tc.a)
		var te *TransitionError
		if !errors.As(err, &te) {
			t.Fatalf("%s/%s: ожидали TransitionError, получили %v", tc.from, tc.a, err)
		}
		if got != tc.from {
			t.Fatalf("состояние не должно меняться: %s", got)
		}
	}
}

func TestCivilDate(t *testing.T) {
	ts := time.Date(2025, 3, 10, 22, 30, 0, 0, time.UTC)
	if got := CivilDate(ts, time.UTC); got != "2025-03-10" {
		t.Fatalf("получили %s", got)
	}
	if got := CivilDate(ts, time.FixedZone("MSK", 3*60*60)); got != "2025-03-11" {
		t.Fatalf("в МСК уже следующий день, получили %s", got)
	}
}
