package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/Spok95/course-registration/internal/ctxutil"
	"github.com/Spok95/course-registration/internal/observability"
	"go.uber.org/zap"
)

type Job func(ctx context.Context) error

type Runner struct {
	ctx context.Context
	log *zap.Logger
}

func New(ctx context.Context, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{ctx: ctx, log: log}
}

// Every запускает fn по тикеру до отмены контекста раннера. interval <= 0: задача выключена.
// Один прогон ограничен интервалом, чтобы зависшая задача не наслаивалась на следующую.
func (r *Runner) Every(interval time.Duration, name string, fn Job) {
	if interval <= 0 {
		r.log.Info("job disabled", zap.String("job", name))
		return
	}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-r.ctx.Done():
				return
			case <-t.C:
				_ = r.run(name, interval, fn)
			}
		}
	}()
}

// Once: один прогон задачи с учётом метрик, без собственного таймаута.
func (r *Runner) Once(name string, fn Job) error { return r.run(name, 0, fn) }

func (r *Runner) run(name string, timeout time.Duration, fn Job) (err error) {
	ctx, cancel := ctxutil.WithTimeout(r.ctx, timeout)
	defer cancel()
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic in job %s: %v", name, p)
			observability.CaptureErr(err)
		}
		if err != nil {
			jobErrors.WithLabelValues(name).Inc()
			r.log.Warn("job failed", zap.String("job", name), zap.Error(err))
		}
		jobRuns.WithLabelValues(name).Inc()
		jobDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}()
	return fn(ctx)
}
