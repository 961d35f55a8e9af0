package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "coursereg",
	Short: "Course registration: lifecycle, attendance, results and certificates",
	Long: `coursereg manages courses, student registrations, attendance and results.

Configuration comes from the environment (and .env if present):
  DATABASE_URL (required), TZ, HTTP_ADDR, LOG_LEVEL, ENV, SENTRY_DSN, RELEASE,
  POSTERS_DIR, CERTIFICATES_DIR, EXPORT_DIR, BACKUPCTL_URL,
  STATS_INTERVAL, AUTO_FINALIZE_AFTER`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, courseCmd, registerCmd, cancelCmd, outcomeCmd, eligibleCmd,
		attendanceCmd, resultsCmd, certificateCmd, studentCmd, adminCmd)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		report(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}
