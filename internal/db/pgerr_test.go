package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestSQLState(t *testing.T) {
	cases := []struct {
		name         string
		err          error
		unique, fkey bool
	}{
		{"pgx_unique", &pgconn.PgError{Code: "23505"}, true, false},
		{"pq_unique_wrapped", fmt.Errorf("insert: %w", &pq.Error{Code: "23505"}), true, false},
		{"pgx_fkey", fmt.Errorf("exec: %w", &pgconn.PgError{Code: "23503"}), false, true},
		{"pq_fkey", &pq.Error{Code: "23503"}, false, true},
		{"not_null", &pq.Error{Code: "23502"}, false, false},
		{"plain", errors.New("boom"), false, false},
		{"nil", nil, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsUniqueViolation(tc.err); got != tc.unique {
				t.Fatalf("unique: ожидали %v, получили %v", tc.unique, got)
			}
			if got := IsForeignKeyViolation(tc.err); got != tc.fkey {
				t.Fatalf("fkey: ожидали %v, получили %v", tc.fkey, got)
			}
		})
	}
}

func TestContainsPattern(t *testing.T) {
	cases := map[string]string{
		"go":         "%go%",
		"50%":        `%50\%%`,
		"go_1":       `%go\_1%`,
		`C:\courses`: `%C:\\courses%`,
		"":           "%%",
	}
	for in, want := range cases {
		if got := containsPattern(in); got != want {
			t.Fatalf("%q: ожидали %q, получили %q", in, want, got)
		}
	}
}
