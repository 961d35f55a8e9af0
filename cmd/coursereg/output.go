package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Spok95/course-registration/internal/apperr"
	"github.com/Spok95/course-registration/internal/models"
	"github.com/spf13/cobra"
)

// exitCode: у каждой категории ошибки свой код, чтобы скрипты могли их различать.
func exitCode(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return 2
	case apperr.KindNotFound:
		return 3
	case apperr.KindConflict:
		return 4
	case apperr.KindDeadline:
		return 5
	default:
		return 1
	}
}

func report(w io.Writer, err error) {
	if k := apperr.KindOf(err); k != 0 {
		_, _ = fmt.Fprintf(w, "error [%s]: %v\n", k, err)
	} else {
		_, _ = fmt.Fprintf(w, "error: %v\n", err)
	}
	for _, f := range apperr.FieldsOf(err) {
		_, _ = fmt.Fprintf(w, "  %s: %s\n", f.Field, f.Error)
	}
}

func table(w io.Writer, header ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, strings.Join(header, "\t"))
	return tw
}

func row(tw *tabwriter.Writer, cols ...string) {
	_, _ = fmt.Fprintln(tw, strings.Join(cols, "\t"))
}

// parseMarks разбирает аргументы вида ADMISSION=Present|Absent (регистр статуса не важен).
func parseMarks(args []string) ([]models.AttendanceMark, error) {
	out := make([]models.AttendanceMark, 0, len(args))
	for _, a := range args {
		adm, st, ok := strings.Cut(a, "=")
		if !ok || strings.TrimSpace(adm) == "" {
			return nil, fmt.Errorf("bad mark %q: expected ADMISSION=Present|Absent", a)
		}
		switch strings.ToLower(strings.TrimSpace(st)) {
		case "present", "p":
			out = append(out, models.AttendanceMark{AdmissionNo: strings.TrimSpace(adm), Status: models.Present})
		case "absent", "a":
			out = append(out, models.AttendanceMark{AdmissionNo: strings.TrimSpace(adm), Status: models.Absent})
		default:
			return nil, fmt.Errorf("bad mark %q: status must be Present or Absent", a)
		}
	}
	if len(out) == 0 {
		return nil, errors.New("no attendance marks given")
	}
	return out, nil
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// secret берёт значение флага, а если он пуст: переменную окружения.
func secret(flagValue, env string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(env)
}

func parseDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", s)
	}
	return d, nil
}

func printf(cmd *cobra.Command, format string, a ...any) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), format, a...)
}
