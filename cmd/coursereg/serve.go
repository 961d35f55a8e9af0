package main

import (
	"github.com/Spok95/course-registration/internal/app"
	"github.com/Spok95/course-registration/internal/db"
	"github.com/Spok95/course-registration/internal/jobs"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Apply migrations, expose /healthz and /metrics, run background jobs",
	Long: `Runs until interrupted:
  - course_stats every STATS_INTERVAL refreshes course and registration gauges
  - auto_finalize (only when AUTO_FINALIZE_AFTER > 0) finalizes results of past courses`,
	Args: cobra.NoArgs,
	RunE: withDeps(runServe),
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Args:  cobra.NoArgs,
	RunE: withDeps(func(cmd *cobra.Command, d *deps, _ []string) error {
		if err := db.Migrate(cmd.Context(), d.db); err != nil {
			return err
		}
		v, err := db.MigrationVersion(cmd.Context(), d.db)
		if err != nil {
			return err
		}
		printf(cmd, "schema version %d\n", v)
		return nil
	}),
}

func runServe(cmd *cobra.Command, d *deps, _ []string) error {
	ctx := cmd.Context()
	if err := db.Migrate(ctx, d.db); err != nil {
		return err
	}
	log := d.log.Base

	srv := app.StartHTTP(ctx, d.cfg.HTTPAddr, d.db, d.log.Component("http"))

	runner := jobs.New(ctx, d.log.Component("jobs"))
	stats := jobs.CourseStats(d.courses)
	_ = runner.Once("course_stats", stats)
	runner.Every(d.cfg.StatsInterval, "course_stats", stats)
	if d.cfg.AutoFinalizeAfter > 0 {
		runner.Every(d.cfg.StatsInterval, "auto_finalize",
			jobs.AutoFinalize(d.courses, d.cfg.AutoFinalizeAfter, d.log.Component("jobs")))
	}

	log.Info("service started",
		zap.String("addr", d.cfg.HTTPAddr),
		zap.String("tz", d.cfg.Location.String()),
		zap.Duration("stats_interval", d.cfg.StatsInterval),
		zap.Duration("auto_finalize_after", d.cfg.AutoFinalizeAfter))

	<-ctx.Done()
	srv.Wait()
	log.Info("service stopped")
	return nil
}
