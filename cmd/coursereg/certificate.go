package main

import (
	"github.com/spf13/cobra"
)

var certificateCmd = &cobra.Command{
	Use:   "certificate",
	Short: "List and issue completion certificates",
}

var certificateListCmd = &cobra.Command{
	Use:   "list [admission-no]",
	Short: "List courses a student can get a certificate for",
	Args:  cobra.ExactArgs(1),
	RunE: withDeps(func(cmd *cobra.Command, d *deps, args []string) error {
		list, err := d.certs.List(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		tw := table(cmd.OutOrStdout(), "COURSE", "NAME", "STATUS", "COMPLETED")
		for _, c := range list {
			row(tw, c.CourseID, c.CourseName, string(c.Status), c.CompletionDate)
		}
		return tw.Flush()
	}),
}

var certificateIssueCmd = &cobra.Command{
	Use:   "issue [admission-no] [course-id]",
	Short: "Issue a certificate document under CERTIFICATES_DIR",
	Args:  cobra.ExactArgs(2),
	RunE: withDeps(func(cmd *cobra.Command, d *deps, args []string) error {
		c, err := d.certs.Issue(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		printf(cmd, "certificate %s written to %s\n", c.Number, c.Path)
		return nil
	}),
}

func init() {
	certificateCmd.AddCommand(certificateListCmd, certificateIssueCmd)
}
