package main

import (
	"github.com/Spok95/course-registration/internal/accounts"
	"github.com/Spok95/course-registration/internal/courses"
	"github.com/spf13/cobra"
)

var (
	profile accounts.Profile

	password, confirmPassword     string
	securityQuestion, securityAns string
)

var studentCmd = &cobra.Command{
	Use:   "student",
	Short: "Student accounts and course lists",
}

var studentSignupCmd = &cobra.Command{
	Use:   "signup [admission-no]",
	Short: "Create a student account",
	Long: `Creates a student account. Passwords may also come from COURSEREG_PASSWORD
and COURSEREG_CONFIRM_PASSWORD, the security answer from COURSEREG_SECURITY_ANSWER.`,
	Args: cobra.ExactArgs(1),
	RunE: withDeps(func(cmd *cobra.Command, d *deps, args []string) error {
		st, err := d.accounts.Signup(cmd.Context(), accounts.NewStudent{
			AdmissionNo:      args[0],
			Profile:          profile,
			Password:         secret(password, "COURSEREG_PASSWORD"),
			ConfirmPassword:  secret(confirmPassword, "COURSEREG_CONFIRM_PASSWORD"),
			SecurityQuestion: securityQuestion,
			SecurityAnswer:   secret(securityAns, "COURSEREG_SECURITY_ANSWER"),
		})
		if err != nil {
			return err
		}
		printf(cmd, "student %s (%s) signed up\n", st.AdmissionNo, st.FullName)
		return nil
	}),
}

var studentLoginCmd = &cobra.Command{
	Use:   "login [admission-no]",
	Short: "Check a student's password",
	Args:  cobra.ExactArgs(1),
	RunE: withDeps(func(cmd *cobra.Command, d *deps, args []string) error {
		name, err := d.accounts.Login(cmd.Context(), args[0], secret(password, "COURSEREG_PASSWORD"))
		if err != nil {
			return err
		}
		printf(cmd, "welcome, %s\n", name)
		return nil
	}),
}

var studentQuestionCmd = &cobra.Command{
	Use:   "question [admission-no]",
	Short: "Show the security question used for password reset",
	Args:  cobra.ExactArgs(1),
	RunE: withDeps(func(cmd *cobra.Command, d *deps, args []string) error {
		q, err := d.accounts.SecurityQuestion(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printf(cmd, "%s\n", q)
		return nil
	}),
}

var studentResetCmd = &cobra.Command{
	Use:   "reset-password [admission-no]",
	Short: "Reset a password with the security answer",
	Args:  cobra.ExactArgs(1),
	RunE: withDeps(func(cmd *cobra.Command, d *deps, args []string) error {
		err := d.accounts.ResetPassword(cmd.Context(), accounts.PasswordReset{
			AdmissionNo:     args[0],
			Answer:          secret(securityAns, "COURSEREG_SECURITY_ANSWER"),
			NewPassword:     secret(password, "COURSEREG_PASSWORD"),
			ConfirmPassword: secret(confirmPassword, "COURSEREG_CONFIRM_PASSWORD"),
		})
		if err != nil {
			return err
		}
		printf(cmd, "password changed\n")
		return nil
	}),
}

var studentProfileCmd = &cobra.Command{
	Use:   "profile [admission-no]",
	Short: "Show a student profile",
	Args:  cobra.ExactArgs(1),
	RunE: withDeps(func(cmd *cobra.Command, d *deps, args []string) error {
		st, err := d.accounts.Profile(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		tw := table(cmd.OutOrStdout(), "FIELD", "VALUE")
		row(tw, "admission_no", st.AdmissionNo)
		row(tw, "reg_no", st.RegNo)
		row(tw, "full_name", st.FullName)
		row(tw, "gender", st.Gender)
		row(tw, "dob", dash(st.DOB))
		row(tw, "class_no", st.ClassNo)
		row(tw, "dept", st.Dept)
		row(tw, "semester", st.Semester)
		row(tw, "batch", dash(st.Batch))
		row(tw, "phone", st.Phone)
		row(tw, "email", st.Email)
		return tw.Flush()
	}),
}

var studentEditCmd = &cobra.Command{
	Use:   "edit [admission-no]",
	Short: "Edit a student profile; only the given flags change",
	Args:  cobra.ExactArgs(1),
	RunE: withDeps(func(cmd *cobra.Command, d *deps, args []string) error {
		ctx := cmd.Context()
		st, err := d.accounts.Profile(ctx, args[0])
		if err != nil {
			return err
		}
		p := accounts.Profile{
			RegNo: st.RegNo, FullName: st.FullName, Gender: st.Gender, DOB: st.DOB, ClassNo: st.ClassNo,
			Dept: st.Dept, Semester: st.Semester, Batch: st.Batch, Phone: st.Phone, Email: st.Email,
		}
		f := cmd.Flags()
		for name, pair := range profileFlags(&p) {
			if f.Changed(name) {
				*pair[0] = *pair[1]
			}
		}
		st, err = d.accounts.UpdateProfile(ctx, args[0], p)
		if err != nil {
			return err
		}
		printf(cmd, "profile of %s updated\n", st.AdmissionNo)
		return nil
	}),
}

// profileFlags: имя флага -> (поле профиля, значение флага).
func profileFlags(p *accounts.Profile) map[string][2]*string {
	return map[string][2]*string{
		"reg-no":    {&p.RegNo, &profile.RegNo},
		"full-name": {&p.FullName, &profile.FullName},
		"gender":    {&p.Gender, &profile.Gender},
		"dob":       {&p.DOB, &profile.DOB},
		"class-no":  {&p.ClassNo, &profile.ClassNo},
		"dept":      {&p.Dept, &profile.Dept},
		"semester":  {&p.Semester, &profile.Semester},
		"batch":     {&p.Batch, &profile.Batch},
		"phone":     {&p.Phone, &profile.Phone},
		"email":     {&p.Email, &profile.Email},
	}
}

func splitRows(cmd *cobra.Command, s courses.Split) error {
	tw := table(cmd.OutOrStdout(), "ID", "NAME", "STARTS", "STATE", "OUTCOME")
	for _, part := range [][]courses.CourseView{s.Upcoming, s.Past} {
		for _, v := range part {
			row(tw, v.Course.ID, v.Course.Name, v.Course.Date+" "+v.Course.Time, string(v.State), dash(string(v.Outcome)))
		}
	}
	return tw.Flush()
}

var studentAvailableCmd = &cobra.Command{
	Use:   "available [admission-no]",
	Short: "Courses the student is not registered for",
	Args:  cobra.ExactArgs(1),
	RunE: withDeps(func(cmd *cobra.Command, d *deps, args []string) error {
		s, err := d.courses.AvailableCourses(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return splitRows(cmd, s)
	}),
}

var studentCoursesCmd = &cobra.Command{
	Use:   "courses [admission-no]",
	Short: "Courses the student is registered for",
	Args:  cobra.ExactArgs(1),
	RunE: withDeps(func(cmd *cobra.Command, d *deps, args []string) error {
		s, err := d.courses.MyCourses(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return splitRows(cmd, s)
	}),
}

func init() {
	for _, c := range []*cobra.Command{studentSignupCmd, studentEditCmd} {
		fl := c.Flags()
		fl.StringVar(&profile.RegNo, "reg-no", "", "registration number")
		fl.StringVar(&profile.FullName, "full-name", "", "full name")
		fl.StringVar(&profile.Gender, "gender", "", "gender")
		fl.StringVar(&profile.DOB, "dob", "", "date of birth, YYYY-MM-DD")
		fl.StringVar(&profile.ClassNo, "class-no", "", "class number (1-2 digits)")
		fl.StringVar(&profile.Dept, "dept", "", "department")
		fl.StringVar(&profile.Semester, "semester", "", "semester")
		fl.StringVar(&profile.Batch, "batch", "", "batch (optional)")
		fl.StringVar(&profile.Phone, "phone", "", "10-digit phone")
		fl.StringVar(&profile.Email, "email", "", "e-mail ending in .com")
	}
	for _, c := range []*cobra.Command{studentSignupCmd, studentResetCmd} {
		c.Flags().StringVar(&confirmPassword, "confirm-password", "", "password confirmation")
		c.Flags().StringVar(&securityAns, "security-answer", "", "security answer (case-sensitive)")
	}
	for _, c := range []*cobra.Command{studentSignupCmd, studentLoginCmd, studentResetCmd} {
		c.Flags().StringVar(&password, "password", "", "password (or COURSEREG_PASSWORD)")
	}
	studentSignupCmd.Flags().StringVar(&securityQuestion, "security-question", "", "security question")

	studentCmd.AddCommand(studentSignupCmd, studentLoginCmd, studentQuestionCmd, studentResetCmd,
		studentProfileCmd, studentEditCmd, studentAvailableCmd, studentCoursesCmd)
}
