package main

import (
	"strings"

	"github.com/Spok95/course-registration/internal/export"
	"github.com/Spok95/course-registration/internal/lifecycle"
	"github.com/spf13/cobra"
)

var (
	attendanceDate string
	finalizeAfter  string
)

var attendanceCmd = &cobra.Command{
	Use:   "attendance",
	Short: "Record and view daily attendance",
}

var attendanceRecordCmd = &cobra.Command{
	Use:     "record [course-id] [admission=Present|Absent]...",
	Short:   "Record attendance for a date; all marks are saved or none",
	Example: `  coursereg attendance record GO1 --date 2025-06-10 A100=Present A101=Absent`,
	Args:    cobra.MinimumNArgs(2),
	RunE: withDeps(func(cmd *cobra.Command, d *deps, args []string) error {
		marks, err := parseMarks(args[1:])
		if err != nil {
			return err
		}
		date := attendanceDate
		if date == "" {
			date = lifecycle.CivilDate(d.courses.Now(), d.courses.Location())
		}
		n, err := d.courses.RecordAttendance(cmd.Context(), args[0], date, marks)
		if err != nil {
			return err
		}
		printf(cmd, "%d attendance rows saved for %s on %s\n", n, args[0], date)
		return nil
	}),
}

var attendanceSheetCmd = &cobra.Command{
	Use:   "sheet [course-id]",
	Short: "Show the attendance sheet for a date",
	Args:  cobra.ExactArgs(1),
	RunE: withDeps(func(cmd *cobra.Command, d *deps, args []string) error {
		sheet, err := d.courses.AttendanceSheet(cmd.Context(), args[0], attendanceDate)
		if err != nil {
			return err
		}
		tw := table(cmd.OutOrStdout(), "ADMISSION", "NAME", "STATUS", "RECORDED")
		for _, r := range sheet {
			rec := "no"
			if r.Recorded {
				rec = "yes"
			}
			row(tw, r.AdmissionNo, r.FullName, string(r.Status), rec)
		}
		return tw.Flush()
	}),
}

var attendanceExportCmd = &cobra.Command{
	Use:   "export [course-id]",
	Short: "Write the attendance sheet for a date as xlsx",
	Args:  cobra.ExactArgs(1),
	RunE: withDeps(func(cmd *cobra.Command, d *deps, args []string) error {
		ctx := cmd.Context()
		c, err := d.courses.GetCourse(ctx, args[0])
		if err != nil {
			return err
		}
		date := attendanceDate
		if date == "" {
			date = lifecycle.CivilDate(d.courses.Now(), d.courses.Location())
		}
		sheet, err := d.courses.AttendanceSheet(ctx, c.ID, date)
		if err != nil {
			return err
		}
		wb, err := export.AttendanceWorkbook(*c, date, sheet)
		if err != nil {
			return err
		}
		defer func() { _ = wb.Close() }()
		path, err := wb.SaveIn(exportDir(d), export.BuildAttendanceFilename(c.ID, date))
		if err != nil {
			return err
		}
		printf(cmd, "attendance written to %s\n", path)
		return nil
	}),
}

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Finalize and view course results",
}

var resultsFinalizeCmd = &cobra.Command{
	Use:   "finalize [course-id]",
	Short: "Mark every student with at least one Present as Completed",
	Args:  cobra.ExactArgs(1),
	RunE: withDeps(func(cmd *cobra.Command, d *deps, args []string) error {
		n, err := d.courses.FinalizeResults(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printf(cmd, "%d results finalized for %s\n", n, args[0])
		return nil
	}),
}

var resultsListCmd = &cobra.Command{
	Use:   "list [course-id]",
	Short: "List finalized results of a course",
	Args:  cobra.ExactArgs(1),
	RunE: withDeps(func(cmd *cobra.Command, d *deps, args []string) error {
		list, err := d.courses.Results(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		tw := table(cmd.OutOrStdout(), "ADMISSION", "STATUS", "COMPLETED")
		for _, r := range list {
			row(tw, r.AdmissionNo, string(r.Status), r.CompletionDate)
		}
		return tw.Flush()
	}),
}

var resultsAutoCmd = &cobra.Command{
	Use:   "auto-finalize",
	Short: "Finalize every past course that started more than --after ago",
	Args:  cobra.NoArgs,
	RunE: withDeps(func(cmd *cobra.Command, d *deps, _ []string) error {
		after := d.cfg.AutoFinalizeAfter
		if strings.TrimSpace(finalizeAfter) != "" {
			var err error
			if after, err = parseDuration(finalizeAfter); err != nil {
				return err
			}
		}
		n, err := d.courses.AutoFinalize(cmd.Context(), after)
		if err != nil {
			return err
		}
		printf(cmd, "%d courses finalized\n", n)
		return nil
	}),
}

func init() {
	for _, c := range []*cobra.Command{attendanceRecordCmd, attendanceSheetCmd, attendanceExportCmd} {
		c.Flags().StringVar(&attendanceDate, "date", "", "attendance date, YYYY-MM-DD (default today)")
	}
	attendanceExportCmd.Flags().StringVar(&exportOut, "out", "", "export directory (default EXPORT_DIR)")
	resultsAutoCmd.Flags().StringVar(&finalizeAfter, "after", "", "extra delay after the grace hour, e.g. 24h (default AUTO_FINALIZE_AFTER)")

	attendanceCmd.AddCommand(attendanceRecordCmd, attendanceSheetCmd, attendanceExportCmd)
	resultsCmd.AddCommand(resultsFinalizeCmd, resultsListCmd, resultsAutoCmd)
}
