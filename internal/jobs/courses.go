package jobs

import (
	"context"
	"time"

	"github.com/Spok95/course-registration/internal/courses"
	"github.com/Spok95/course-registration/internal/metrics"
	"go.uber.org/zap"
)

type StatsSource interface {
	Stats(ctx context.Context) (courses.Stats, error)
}

// CourseStats обновляет гейджи курсов и активных записей.
func CourseStats(src StatsSource) Job {
	return func(ctx context.Context) error {
		st, err := src.Stats(ctx)
		if err != nil {
			return err
		}
		metrics.Courses.WithLabelValues("active").Set(float64(st.Active))
		metrics.Courses.WithLabelValues("archived").Set(float64(st.Archived))
		metrics.ActiveRegistrations.Set(float64(st.ActiveRegistrations))
		return nil
	}
}

type Finalizer interface {
	AutoFinalize(ctx context.Context, after time.Duration) (int, error)
}

// AutoFinalize закрывает итоги курсов, прошедших больше after назад.
func AutoFinalize(f Finalizer, after time.Duration, log *zap.Logger) Job {
	return func(ctx context.Context) error {
		n, err := f.AutoFinalize(ctx, after)
		if n > 0 && log != nil {
			log.Info("courses finalized", zap.Int("courses", n))
		}
		return err
	}
}
