package main

import (
	"fmt"
	"strings"

	"github.com/Spok95/course-registration/internal/courses"
	"github.com/Spok95/course-registration/internal/export"
	"github.com/Spok95/course-registration/internal/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	courseName, courseDesc, courseDate, courseTime, courseMode string
	coursePoster, courseCoord1, courseCoord2                   string

	listCategory, listSearch string
	purgeYes, purgeNoBackup  bool
	rosterExport             bool
	exportOut                string
)

var courseCmd = &cobra.Command{
	Use:   "course",
	Short: "Manage courses: add, edit, list, archive, restore, purge",
}

var courseAddCmd = &cobra.Command{
	Use:   "add [course-id]",
	Short: "Create a course",
	Example: `  coursereg course add GO1 --name "Go Basics" --date 2025-06-10 --time 10:00 --mode Online \
    --poster ./go.png --coordinator1 "Ivanov"`,
	Args: cobra.ExactArgs(1),
	RunE: withDeps(runCourseAdd),
}

var courseEditCmd = &cobra.Command{
	Use:   "edit [course-id]",
	Short: "Edit a course; only the given flags change",
	Args:  cobra.ExactArgs(1),
	RunE:  withDeps(runCourseEdit),
}

var courseShowCmd = &cobra.Command{
	Use:   "show [course-id]",
	Short: "Show a course with its temporal state",
	Args:  cobra.ExactArgs(1),
	RunE:  withDeps(runCourseShow),
}

var courseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List courses by category (upcoming|completed|archived)",
	Args:  cobra.NoArgs,
	RunE:  withDeps(runCourseList),
}

var courseArchiveCmd = &cobra.Command{
	Use:   "archive [course-id]",
	Short: "Archive (soft-delete) a course",
	Args:  cobra.ExactArgs(1),
	RunE: withDeps(func(cmd *cobra.Command, d *deps, args []string) error {
		if err := d.courses.Archive(cmd.Context(), args[0]); err != nil {
			return err
		}
		printf(cmd, "course %s archived\n", args[0])
		return nil
	}),
}

var courseRestoreCmd = &cobra.Command{
	Use:   "restore [course-id]",
	Short: "Restore an archived course",
	Args:  cobra.ExactArgs(1),
	RunE: withDeps(func(cmd *cobra.Command, d *deps, args []string) error {
		if err := d.courses.Restore(cmd.Context(), args[0]); err != nil {
			return err
		}
		printf(cmd, "course %s restored\n", args[0])
		return nil
	}),
}

var coursePurgeCmd = &cobra.Command{
	Use:   "purge [course-id]",
	Short: "Permanently delete a course with its registrations, attendance and results",
	Long: `Purge is irreversible and requires --yes.
When BACKUPCTL_URL is set a database snapshot is taken first; a failed snapshot
aborts the purge unless --skip-backup is given.`,
	Args: cobra.ExactArgs(1),
	RunE: withDeps(runCoursePurge),
}

var courseRosterCmd = &cobra.Command{
	Use:   "roster [course-id]",
	Short: "List actively registered students; --export writes an xlsx",
	Args:  cobra.ExactArgs(1),
	RunE:  withDeps(runCourseRoster),
}

func init() {
	for _, c := range []*cobra.Command{courseAddCmd, courseEditCmd} {
		c.Flags().StringVar(&courseName, "name", "", "course name")
		c.Flags().StringVar(&courseDesc, "description", "", "description")
		c.Flags().StringVar(&courseDate, "date", "", "course date, YYYY-MM-DD")
		c.Flags().StringVar(&courseTime, "time", "", "start time, HH:MM")
		c.Flags().StringVar(&courseMode, "mode", string(models.ModeOnline), "Online or Offline")
		c.Flags().StringVar(&coursePoster, "poster", "", "path to a poster image")
		c.Flags().StringVar(&courseCoord1, "coordinator1", "", "first coordinator")
		c.Flags().StringVar(&courseCoord2, "coordinator2", "", "second coordinator")
	}
	courseListCmd.Flags().StringVar(&listCategory, "category", string(courses.CategoryUpcoming), "upcoming|completed|archived")
	courseListCmd.Flags().StringVar(&listSearch, "search", "", "substring of course id or name")
	coursePurgeCmd.Flags().BoolVar(&purgeYes, "yes", false, "confirm permanent deletion")
	coursePurgeCmd.Flags().BoolVar(&purgeNoBackup, "skip-backup", false, "do not take a snapshot before purging")
	courseRosterCmd.Flags().BoolVar(&rosterExport, "export", false, "write the roster workbook instead of printing it")
	courseRosterCmd.Flags().StringVar(&exportOut, "out", "", "export directory (default EXPORT_DIR)")

	courseCmd.AddCommand(courseAddCmd, courseEditCmd, courseShowCmd, courseListCmd,
		courseArchiveCmd, courseRestoreCmd, coursePurgeCmd, courseRosterCmd)
}

func savePoster(d *deps) (string, error) {
	if coursePoster == "" {
		return "", nil
	}
	name, err := d.posters.Save(coursePoster)
	if err != nil {
		return "", err
	}
	d.log.Base.Info("poster stored", zap.String("poster", name))
	return name, nil
}

func runCourseAdd(cmd *cobra.Command, d *deps, args []string) error {
	poster, err := savePoster(d)
	if err != nil {
		return err
	}
	c, err := d.courses.AddCourse(cmd.Context(), courses.NewCourse{
		ID: args[0],
		CourseUpdate: courses.CourseUpdate{
			Name: courseName, Description: courseDesc, Date: courseDate, Time: courseTime,
			Mode: models.Mode(courseMode), Poster: poster,
			Coordinator1: courseCoord1, Coordinator2: courseCoord2,
		},
	})
	if err != nil {
		return err
	}
	printf(cmd, "course %s added: %s on %s %s\n", c.ID, c.Name, c.Date, c.Time)
	return nil
}

func runCourseEdit(cmd *cobra.Command, d *deps, args []string) error {
	ctx := cmd.Context()
	cur, err := d.courses.GetCourse(ctx, args[0])
	if err != nil {
		return err
	}
	u := courses.CourseUpdate{
		Name: cur.Name, Description: cur.Description, Date: cur.Date, Time: cur.Time,
		Mode: cur.Mode, Coordinator1: cur.Coordinator1, Coordinator2: cur.Coordinator2,
	}
	f := cmd.Flags()
	set := func(name string, dst *string, v string) {
		if f.Changed(name) {
			*dst = v
		}
	}
	set("name", &u.Name, courseName)
	set("description", &u.Description, courseDesc)
	set("date", &u.Date, courseDate)
	set("time", &u.Time, courseTime)
	set("coordinator1", &u.Coordinator1, courseCoord1)
	set("coordinator2", &u.Coordinator2, courseCoord2)
	if f.Changed("mode") {
		u.Mode = models.Mode(courseMode)
	}
	if u.Poster, err = savePoster(d); err != nil {
		return err
	}

	c, err := d.courses.EditCourse(ctx, args[0], u)
	if err != nil {
		return err
	}
	printf(cmd, "course %s updated: %s on %s %s\n", c.ID, c.Name, c.Date, c.Time)
	return nil
}

func runCourseShow(cmd *cobra.Command, d *deps, args []string) error {
	ctx := cmd.Context()
	c, err := d.courses.GetCourse(ctx, args[0])
	if err != nil {
		return err
	}
	state, err := d.courses.TemporalState(ctx, c.ID)
	if err != nil {
		return err
	}
	tw := table(cmd.OutOrStdout(), "FIELD", "VALUE")
	row(tw, "id", c.ID)
	row(tw, "name", c.Name)
	row(tw, "description", dash(c.Description))
	row(tw, "starts", c.Date+" "+c.Time)
	row(tw, "mode", string(c.Mode))
	row(tw, "poster", dash(c.Poster))
	row(tw, "coordinators", dash(strings.TrimSpace(c.Coordinator1+" "+c.Coordinator2)))
	row(tw, "lifecycle", string(c.State()))
	row(tw, "temporal", string(state))
	return tw.Flush()
}

func runCourseList(cmd *cobra.Command, d *deps, _ []string) error {
	cat, err := courses.ParseCategory(listCategory)
	if err != nil {
		return err
	}
	list, err := d.courses.ListCourses(cmd.Context(), cat, listSearch)
	if err != nil {
		return err
	}
	tw := table(cmd.OutOrStdout(), "ID", "NAME", "DATE", "TIME", "MODE", "STATE")
	for _, v := range list {
		row(tw, v.Course.ID, v.Course.Name, v.Course.Date, v.Course.Time, string(v.Course.Mode), string(v.State))
	}
	return tw.Flush()
}

func runCoursePurge(cmd *cobra.Command, d *deps, args []string) error {
	if !purgeYes {
		return fmt.Errorf("purge of %s is permanent: rerun with --yes", args[0])
	}
	ctx := cmd.Context()
	if d.backup != nil && !purgeNoBackup {
		snap, err := d.backup.Snapshot(ctx)
		if err != nil {
			return fmt.Errorf("backup before purge failed (use --skip-backup to proceed anyway): %w", err)
		}
		d.log.Base.Info("snapshot taken before purge", zap.String("course", args[0]), zap.String("snapshot", snap))
	}
	pc, err := d.courses.Purge(ctx, args[0])
	if err != nil {
		return err
	}
	printf(cmd, "course %s purged: %d attendance rows, %d results, %d registrations removed\n",
		args[0], pc.Attendance, pc.Results, pc.Registrations)
	return nil
}

func runCourseRoster(cmd *cobra.Command, d *deps, args []string) error {
	ctx := cmd.Context()
	c, err := d.courses.GetCourse(ctx, args[0])
	if err != nil {
		return err
	}
	roster, err := d.courses.Roster(ctx, c.ID)
	if err != nil {
		return err
	}
	if rosterExport {
		wb, err := export.RosterWorkbook(*c, roster)
		if err != nil {
			return err
		}
		defer func() { _ = wb.Close() }()
		path, err := wb.SaveIn(exportDir(d), export.BuildRosterFilename(c.ID, c.Name))
		if err != nil {
			return err
		}
		printf(cmd, "roster written to %s\n", path)
		return nil
	}
	tw := table(cmd.OutOrStdout(), "ADMISSION", "NAME", "EMAIL", "PHONE", "DEPT", "SEMESTER")
	for _, r := range roster {
		row(tw, r.AdmissionNo, r.FullName, r.Email, r.Phone, r.Dept, r.Semester)
	}
	return tw.Flush()
}

func exportDir(d *deps) string {
	if exportOut != "" {
		return exportOut
	}
	return d.cfg.ExportDir
}
