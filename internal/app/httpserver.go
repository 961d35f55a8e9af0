package app

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Spok95/course-registration/internal/db"
	"github.com/Spok95/course-registration/internal/metrics"
	"go.uber.org/zap"
)

type HTTPServer struct {
	srv  *http.Server
	done chan struct{}
}

// Handler: /healthz (ping БД + версия схемы) и /metrics.
func Handler(database *sql.DB) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 800*time.Millisecond)
		defer cancel()
		t0 := time.Now()
		if err := database.PingContext(ctx); err != nil {
			http.Error(w, "db not ok: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
		metrics.ObserveDBPing(time.Since(t0))
		if v, err := db.MigrationVersion(ctx, database); err == nil {
			w.Header().Set("X-Schema-Version", strconv.FormatInt(v, 10))
		}
		_, _ = w.Write([]byte("ok"))
	})

	mux.Handle("/metrics", metrics.Handler())
	return mux
}

func StartHTTP(ctx context.Context, addr string, database *sql.DB, log *zap.Logger) *HTTPServer {
	srv := &http.Server{Addr: addr, Handler: Handler(database), ReadHeaderTimeout: 5 * time.Second}
	h := &HTTPServer{srv: srv, done: make(chan struct{})}

	go func() {
		defer close(h.done)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", zap.String("addr", addr), zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
	}()

	return h
}

// Wait ждёт остановки сервера.
func (h *HTTPServer) Wait() { <-h.done }
