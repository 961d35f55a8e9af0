package observability

import (
	"errors"
	"testing"

	"github.com/Spok95/course-registration/internal/apperr"
)

func TestReportable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("boom"), true},
		{"persistence", apperr.Persistence("op", errors.New("conn reset")), true},
		{"validation", apperr.Missing("op", "course_id"), false},
		{"deadline", apperr.Deadline("op", apperr.ErrDeadlinePassed), false},
		{"conflict", apperr.Conflict("op", apperr.ErrDuplicateRegistration), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Reportable(tc.err); got != tc.want {
				t.Fatalf("ожидали %v, получили %v", tc.want, got)
			}
		})
	}

	// без DSN клиента нет, вызов безопасен
	CaptureErr(errors.New("ignored"))
}
