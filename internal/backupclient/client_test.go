package backupclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/cgi-bin/backup":
			_, _ = w.Write([]byte("  backup_2025.sql.gz\n"))
		default:
			http.Error(w, "restore disabled", http.StatusForbidden)
		}
	}))
	defer srv.Close()

	c := New(srv.URL + "/")
	got, err := c.Snapshot(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got != "backup_2025.sql.gz" {
		t.Fatalf("получили %q", got)
	}

	_, err = c.RestoreLatest(context.Background())
	if err == nil || !strings.Contains(err.Error(), "http 403") || !strings.Contains(err.Error(), "restore disabled") {
		t.Fatalf("ожидали http 403, получили %v", err)
	}
}

func TestNew_DefaultURL(t *testing.T) {
	if c := New(""); c.BaseURL != DefaultURL {
		t.Fatalf("получили %q", c.BaseURL)
	}
}
