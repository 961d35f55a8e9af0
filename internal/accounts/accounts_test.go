//go:build testutil
// +build testutil

package accounts_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Spok95/course-registration/internal/accounts"
	"github.com/Spok95/course-registration/internal/apperr"
	"github.com/Spok95/course-registration/internal/db"
	"github.com/Spok95/course-registration/internal/testutil/testdb"
	"golang.org/x/crypto/bcrypt"
)

func newStudent(adm, reg string) accounts.NewStudent {
	return accounts.NewStudent{
		AdmissionNo: adm,
		Profile: accounts.Profile{
			RegNo: reg, FullName: "Anna Karenina", Gender: "Female", DOB: "2003-04-05",
			ClassNo: "7", Dept: "CSE", Semester: "S5", Batch: "2021", Phone: "9876543210", Email: "anna@college.com",
		},
		Password: "secret", ConfirmPassword: "secret",
		SecurityQuestion: "Pet name?", SecurityAnswer: "Rex",
	}
}

func TestStudentAccountFlow(t *testing.T) {
	ctx := context.Background()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	svc := accounts.New(h.DB, accounts.WithBcryptCost(bcrypt.MinCost))

	st, err := svc.Signup(ctx, newStudent("A100", "R100"))
	if err != nil {
		t.Fatal(err)
	}
	if st.DOB != "2003-04-05" || st.SecurityQuestion != "Pet name?" {
		t.Fatalf("профиль: %#v", st)
	}

	// хранятся хэши, а не открытый текст
	cred, err := db.GetCredentials(ctx, h.DB, "A100")
	if err != nil || cred == nil {
		t.Fatal(err)
	}
	if string(cred.PasswordHash) == "secret" || string(cred.SecurityAnswerHash) == "Rex" {
		t.Fatal("секреты сохранены открытым текстом")
	}

	_, err = svc.Signup(ctx, newStudent("A100", "R999"))
	if !errors.Is(err, apperr.ErrConflict) || !errors.Is(err, apperr.ErrDuplicateStudent) {
		t.Fatalf("дубликат зачётки: %v", err)
	}
	_, err = svc.Signup(ctx, newStudent("A200", "R100"))
	if !errors.Is(err, apperr.ErrDuplicateStudent) {
		t.Fatalf("дубликат рег. номера: %v", err)
	}

	name, err := svc.Login(ctx, "A100", "secret")
	if err != nil || name != "Anna Karenina" {
		t.Fatalf("login: %q %v", name, err)
	}
	for _, tc := range []struct{ adm, pw string }{{"A100", "wrong"}, {"NOPE", "secret"}} {
		if _, err := svc.Login(ctx, tc.adm, tc.pw); !errors.Is(err, apperr.ErrInvalidCredentials) {
			t.Fatalf("%s/%s: ожидали ErrInvalidCredentials, получили %v", tc.adm, tc.pw, err)
		}
	}

	q, err := svc.SecurityQuestion(ctx, "A100")
	if err != nil || q != "Pet name?" {
		t.Fatalf("question: %q %v", q, err)
	}

	reset := func(answer, pw string) error {
		return svc.ResetPassword(ctx, accounts.PasswordReset{AdmissionNo: "A100", Answer: answer, NewPassword: pw, ConfirmPassword: pw})
	}
	if err := reset("rex", "fresh"); !errors.Is(err, apperr.ErrWrongSecurityAnswer) {
		t.Fatalf("ответ чувствителен к регистру: %v", err)
	}
	if err := reset("Rex", "secret"); !errors.Is(err, apperr.ErrPasswordReused) {
		t.Fatalf("новый пароль должен отличаться: %v", err)
	}
	if err := reset("Rex", "fresh"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Login(ctx, "A100", "fresh"); err != nil {
		t.Fatalf("вход с новым паролем: %v", err)
	}
	if err := svc.ResetPassword(ctx, accounts.PasswordReset{AdmissionNo: "NOPE", Answer: "x", NewPassword: "y", ConfirmPassword: "y"}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("неизвестный студент: %v", err)
	}

	p := newStudent("A100", "R101").Profile
	p.Semester = "S6"
	p.DOB = "2003-04-06"
	upd, err := svc.UpdateProfile(ctx, "A100", p)
	if err != nil {
		t.Fatal(err)
	}
	if upd.RegNo != "R101" || upd.Semester != "S6" || upd.DOB != "2003-04-06" {
		t.Fatalf("update: %#v", upd)
	}
	if _, err := svc.UpdateProfile(ctx, "GHOST", p); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("неизвестный студент: %v", err)
	}
}

func TestAdminAccount(t *testing.T) {
	ctx := context.Background()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	svc := accounts.New(h.DB, accounts.WithBcryptCost(bcrypt.MinCost))

	if _, err := svc.CreateAdmin(ctx, "root", "toor"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateAdmin(ctx, "root", "other"); !errors.Is(err, apperr.ErrDuplicateAdmin) {
		t.Fatalf("дубликат логина: %v", err)
	}
	if err := svc.AdminLogin(ctx, "root", "toor"); err != nil {
		t.Fatal(err)
	}
	if err := svc.AdminLogin(ctx, "root", "TOOR"); !errors.Is(err, apperr.ErrInvalidCredentials) {
		t.Fatalf("неверный пароль: %v", err)
	}
}
