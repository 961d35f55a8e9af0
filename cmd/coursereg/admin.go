package main

import (
	"errors"

	"github.com/Spok95/course-registration/internal/backupclient"
	"github.com/Spok95/course-registration/internal/config"
	"github.com/spf13/cobra"
)

var restoreYes bool

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administrator accounts",
}

var adminCreateCmd = &cobra.Command{
	Use:   "create [username]",
	Short: "Create an administrator",
	Args:  cobra.ExactArgs(1),
	RunE: withDeps(func(cmd *cobra.Command, d *deps, args []string) error {
		id, err := d.accounts.CreateAdmin(cmd.Context(), args[0], secret(password, "COURSEREG_PASSWORD"))
		if err != nil {
			return err
		}
		printf(cmd, "admin %s created (id %d)\n", args[0], id)
		return nil
	}),
}

var adminLoginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Check an administrator's password",
	Args:  cobra.ExactArgs(1),
	RunE: withDeps(func(cmd *cobra.Command, d *deps, args []string) error {
		if err := d.accounts.AdminLogin(cmd.Context(), args[0], secret(password, "COURSEREG_PASSWORD")); err != nil {
			return err
		}
		printf(cmd, "ok\n")
		return nil
	}),
}

// Восстановление заменяет базу целиком, поэтому соединение с ней команда не открывает.
var adminRestoreCmd = &cobra.Command{
	Use:   "restore-latest",
	Short: "Restore the database from the latest pgbackup snapshot",
	Long:  "Restore overwrites the current database and requires --yes and BACKUPCTL_URL.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.BackupURL == "" {
			return errors.New("BACKUPCTL_URL is not set")
		}
		if !restoreYes {
			return errors.New("restore overwrites the database: rerun with --yes")
		}
		res, err := backupclient.New(cfg.BackupURL).RestoreLatest(cmd.Context())
		if err != nil {
			return err
		}
		printf(cmd, "restored: %s\n", res)
		return nil
	},
}

func init() {
	adminRestoreCmd.Flags().BoolVar(&restoreYes, "yes", false, "confirm overwriting the database")
	for _, c := range []*cobra.Command{adminCreateCmd, adminLoginCmd} {
		c.Flags().StringVar(&password, "password", "", "password (or COURSEREG_PASSWORD)")
	}
	adminCmd.AddCommand(adminCreateCmd, adminLoginCmd, adminRestoreCmd)
}
