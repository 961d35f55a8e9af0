package accounts

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Spok95/course-registration/internal/apperr"
	"golang.org/x/crypto/bcrypt"
)

func validStudent() NewStudent {
	return NewStudent{
		AdmissionNo: "A100",
		Profile: Profile{
			RegNo: "R100", FullName: "Anna Karenina", Gender: "Female", DOB: "2003-04-05",
			ClassNo: "7", Dept: "CSE", Semester: "S5", Phone: "9876543210", Email: "anna@college.com",
		},
		Password: "secret", ConfirmPassword: "secret",
		SecurityQuestion: "Pet name?", SecurityAnswer: "Rex",
	}
}

// ошибки валидации возвращаются до обращения к базе, поэтому db не нужен
func TestSignup_ValidationBeforeStorage(t *testing.T) {
	svc := New(nil)
	cases := []struct {
		name  string
		mut   func(*NewStudent)
		field string
	}{
		{"no_admission", func(n *NewStudent) { n.AdmissionNo = " " }, "admission_no"},
		{"phone_9_digits", func(n *NewStudent) { n.Phone = "987654321" }, "phone"},
		{"email_not_com", func(n *NewStudent) { n.Email = "anna@college.in" }, "email"},
		{"class_no_3_digits", func(n *NewStudent) { n.ClassNo = "100" }, "class_no"},
		{"password_mismatch", func(n *NewStudent) { n.ConfirmPassword = "Secret" }, "confirm_password"},
		{"bad_dob", func(n *NewStudent) { n.DOB = "05/04/2003" }, "dob"},
		{"no_answer", func(n *NewStudent) { n.SecurityAnswer = "" }, "security_answer"},
		{"answer_over_72_chars", func(n *NewStudent) { n.SecurityAnswer = strings.Repeat("x", 73) }, "security_answer"},
		{"answer_over_72_bytes", func(n *NewStudent) { n.SecurityAnswer = strings.Repeat("я", 37) }, "security_answer"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ns := validStudent()
			tc.mut(&ns)
			_, err := svc.Signup(context.Background(), ns)
			if !errors.Is(err, apperr.ErrValidation) {
				t.Fatalf("ожидали ValidationError, получили %v", err)
			}
			fields := apperr.FieldsOf(err)
			if len(fields) != 1 || fields[0].Field != tc.field {
				t.Fatalf("ожидали ошибку поля %s, получили %#v", tc.field, fields)
			}
		})
	}
}

func TestLogin_RequiresFields(t *testing.T) {
	svc := New(nil)
	_, err := svc.Login(context.Background(), "", "")
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("ожидали ValidationError, получили %v", err)
	}
	if got := len(apperr.FieldsOf(err)); got != 2 {
		t.Fatalf("ожидали 2 поля, получили %d", got)
	}
}

func TestResetPassword_Mismatch(t *testing.T) {
	svc := New(nil)
	err := svc.ResetPassword(context.Background(), PasswordReset{
		AdmissionNo: "A100", Answer: "Rex", NewPassword: "one", ConfirmPassword: "two",
	})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("ожидали ValidationError, получили %v", err)
	}
}

func TestHash_TooLongNamesField(t *testing.T) {
	svc := New(nil, WithBcryptCost(bcrypt.MinCost))
	_, err := svc.hash("accounts.Signup", "security_answer", strings.Repeat("x", 73))
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("ожидали ValidationError, получили %v", err)
	}
	fields := apperr.FieldsOf(err)
	if len(fields) != 1 || fields[0].Field != "security_answer" {
		t.Fatalf("ошибка должна указывать на security_answer, получили %#v", fields)
	}
	if _, err := svc.hash("accounts.Signup", "password", strings.Repeat("x", 72)); err != nil {
		t.Fatalf("72 байта допустимы: %v", err)
	}
}
