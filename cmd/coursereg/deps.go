package main

import (
	"context"
	"database/sql"

	"github.com/Spok95/course-registration/internal/accounts"
	"github.com/Spok95/course-registration/internal/backupclient"
	"github.com/Spok95/course-registration/internal/certificate"
	"github.com/Spok95/course-registration/internal/config"
	"github.com/Spok95/course-registration/internal/courses"
	"github.com/Spok95/course-registration/internal/db"
	"github.com/Spok95/course-registration/internal/logging"
	"github.com/Spok95/course-registration/internal/observability"
	"github.com/Spok95/course-registration/internal/posters"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// deps собирает то, что нужно командам: конфиг, логгер, БД и сервисы поверх неё.
type deps struct {
	cfg      *config.Config
	log      *logging.Log
	db       *sql.DB
	courses  *courses.Service
	accounts *accounts.Service
	certs    *certificate.Service
	posters  *posters.Store
	backup   *backupclient.Client // nil, если BACKUPCTL_URL не задан

	flushSentry func()
}

func open(ctx context.Context) (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	lg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		return nil, err
	}
	flush, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, cfg.Release)
	if err != nil {
		lg.Base.Warn("sentry init failed", zap.Error(err))
	}
	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		flush()
		lg.Closer()
		return nil, err
	}

	d := &deps{
		cfg:         cfg,
		log:         lg,
		db:          database,
		posters:     posters.New(cfg.PostersDir),
		flushSentry: flush,
	}
	d.courses = courses.New(database,
		courses.WithLogger(lg.Component("courses")),
		courses.WithLocation(cfg.Location))
	d.accounts = accounts.New(database, accounts.WithLogger(lg.Component("accounts")))
	d.certs = certificate.New(database, cfg.CertificatesDir,
		certificate.WithLogger(lg.Component("certificate")))
	if cfg.BackupURL != "" {
		d.backup = backupclient.New(cfg.BackupURL)
	}
	return d, nil
}

func (d *deps) Close() {
	_ = d.db.Close()
	d.flushSentry()
	d.log.Closer()
}

// withDeps оборачивает RunE: открывает зависимости и закрывает их после команды.
func withDeps(fn func(cmd *cobra.Command, d *deps, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		d, err := open(cmd.Context())
		if err != nil {
			return err
		}
		defer d.Close()
		return fn(cmd, d, args)
	}
}
