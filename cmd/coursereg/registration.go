package main

import (
	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register [admission-no] [course-id]",
	Short: "Register a student for an upcoming course",
	Args:  cobra.ExactArgs(2),
	RunE: withDeps(func(cmd *cobra.Command, d *deps, args []string) error {
		r, err := d.courses.Register(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		printf(cmd, "registered %s for %s (registration #%d)\n", r.AdmissionNo, r.CourseID, r.ID)
		return nil
	}),
}

var cancelCmd = &cobra.Command{
	Use:   "cancel [admission-no] [course-id]",
	Short: "Cancel a registration (allowed until 24h before the start)",
	Args:  cobra.ExactArgs(2),
	RunE: withDeps(func(cmd *cobra.Command, d *deps, args []string) error {
		if err := d.courses.CancelRegistration(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		printf(cmd, "registration of %s for %s cancelled\n", args[0], args[1])
		return nil
	}),
}

var eligibleCmd = &cobra.Command{
	Use:   "eligible [admission-no] [course-id]",
	Short: "Tell whether a student may register for a course",
	Args:  cobra.ExactArgs(2),
	RunE: withDeps(func(cmd *cobra.Command, d *deps, args []string) error {
		ok, err := d.courses.EligibleToRegister(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		if ok {
			printf(cmd, "eligible\n")
		} else {
			printf(cmd, "not eligible\n")
		}
		return nil
	}),
}

var outcomeCmd = &cobra.Command{
	Use:   "outcome [admission-no] [course-id]",
	Short: "Show a student's outcome for a past course (EXPIRED|ABSENT|COMPLETED)",
	Args:  cobra.ExactArgs(2),
	RunE: withDeps(func(cmd *cobra.Command, d *deps, args []string) error {
		o, err := d.courses.StudentCourseOutcome(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		printf(cmd, "%s\n", string(o))
		return nil
	}),
}
