package accounts

import (
	"context"
	"fmt"
	"strings"

	"github.com/Spok95/course-registration/internal/apperr"
	"github.com/Spok95/course-registration/internal/db"
	"github.com/Spok95/course-registration/internal/models"
	"github.com/Spok95/course-registration/internal/validate"
	"go.uber.org/zap"
)

// Profile: поля профиля, общие для регистрации и редактирования.
type Profile struct {
	RegNo    string `field:"reg_no" validate:"notblank"`
	FullName string `field:"full_name" validate:"notblank"`
	Gender   string `field:"gender" validate:"notblank"`
	DOB      string `field:"dob" validate:"civil_date"`
	ClassNo  string `field:"class_no" validate:"class_no"`
	Dept     string `field:"dept" validate:"notblank"`
	Semester string `field:"semester" validate:"notblank"`
	Batch    string `field:"batch"`
	Phone    string `field:"phone" validate:"phone10"`
	Email    string `field:"email" validate:"dotcom_email"`
}

func (p Profile) trimmed() Profile {
	for _, f := range []*string{&p.RegNo, &p.FullName, &p.Gender, &p.DOB, &p.ClassNo, &p.Dept, &p.Semester, &p.Batch, &p.Phone, &p.Email} {
		*f = strings.TrimSpace(*f)
	}
	return p
}

func (p Profile) student(admissionNo string) models.Student {
	return models.Student{
		AdmissionNo: admissionNo,
		RegNo:       p.RegNo,
		FullName:    p.FullName,
		Gender:      p.Gender,
		DOB:         p.DOB,
		ClassNo:     p.ClassNo,
		Dept:        p.Dept,
		Semester:    p.Semester,
		Batch:       p.Batch,
		Phone:       p.Phone,
		Email:       p.Email,
	}
}

type NewStudent struct {
	AdmissionNo string `field:"admission_no" validate:"notblank"`
	Profile
	Password         string `field:"password" validate:"notblank,max=72"`
	ConfirmPassword  string `field:"confirm_password" validate:"eqfield=Password"`
	SecurityQuestion string `field:"security_question" validate:"notblank"`
	SecurityAnswer   string `field:"security_answer" validate:"notblank,max=72"`
}

// Signup регистрирует студента. Занятый номер зачётки или рег. номер: ConflictError.
func (s *Service) Signup(ctx context.Context, ns NewStudent) (*models.Student, error) {
	const op = "accounts.Signup"
	ns.AdmissionNo = strings.TrimSpace(ns.AdmissionNo)
	ns.Profile = ns.Profile.trimmed()
	ns.SecurityQuestion = strings.TrimSpace(ns.SecurityQuestion)
	ctx, dbctx, cancel := dbCtx(ctx, op, ns.AdmissionNo)
	defer cancel()

	if err := validate.Struct(op, ns); err != nil {
		return nil, s.fail(ctx, op, err)
	}
	pw, err := s.hash(op, "password", ns.Password)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	ans, err := s.hash(op, "security_answer", ns.SecurityAnswer)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}

	st := ns.Profile.student(ns.AdmissionNo)
	st.SecurityQuestion = ns.SecurityQuestion
	err = db.InsertStudent(dbctx, s.db, st, pw, ans)
	if db.IsUniqueViolation(err) {
		return nil, s.fail(ctx, op, apperr.Conflict(op, fmt.Errorf("%w: %s", apperr.ErrDuplicateStudent, ns.AdmissionNo)))
	}
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	s.log.Info("student signed up", zap.String("op", op), zap.String("student", ns.AdmissionNo))
	created, err := s.profile(dbctx, op, ns.AdmissionNo)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	return created, nil
}

// Login проверяет пароль студента и возвращает его ФИО.
// Неизвестный номер и неверный пароль неразличимы: ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, admissionNo, password string) (string, error) {
	const op = "accounts.Login"
	admissionNo = strings.TrimSpace(admissionNo)
	ctx, dbctx, cancel := dbCtx(ctx, op, admissionNo)
	defer cancel()

	if err := required(op, "admission_no", admissionNo, "password", password); err != nil {
		return "", s.fail(ctx, op, err)
	}
	cred, err := db.GetCredentials(dbctx, s.db, admissionNo)
	if err != nil {
		return "", s.fail(ctx, op, err)
	}
	if cred == nil || !matches(cred.PasswordHash, password) {
		return "", s.fail(ctx, op, apperr.Validation(op, apperr.ErrInvalidCredentials))
	}
	return cred.FullName, nil
}

// SecurityQuestion: вопрос для восстановления пароля.
func (s *Service) SecurityQuestion(ctx context.Context, admissionNo string) (string, error) {
	const op = "accounts.SecurityQuestion"
	admissionNo = strings.TrimSpace(admissionNo)
	ctx, dbctx, cancel := dbCtx(ctx, op, admissionNo)
	defer cancel()

	if err := required(op, "admission_no", admissionNo); err != nil {
		return "", s.fail(ctx, op, err)
	}
	st, err := s.profile(dbctx, op, admissionNo)
	if err != nil {
		return "", s.fail(ctx, op, err)
	}
	return st.SecurityQuestion, nil
}

type PasswordReset struct {
	AdmissionNo     string `field:"admission_no" validate:"notblank"`
	Answer          string `field:"security_answer" validate:"notblank,max=72"`
	NewPassword     string `field:"new_password" validate:"notblank,max=72"`
	ConfirmPassword string `field:"confirm_password" validate:"eqfield=NewPassword"`
}

// ResetPassword: смена пароля по ответу на секретный вопрос (с учётом регистра).
// Новый пароль должен отличаться от текущего.
func (s *Service) ResetPassword(ctx context.Context, r PasswordReset) error {
	const op = "accounts.ResetPassword"
	r.AdmissionNo = strings.TrimSpace(r.AdmissionNo)
	ctx, dbctx, cancel := dbCtx(ctx, op, r.AdmissionNo)
	defer cancel()

	if err := validate.Struct(op, r); err != nil {
		return s.fail(ctx, op, err)
	}
	cred, err := db.GetCredentials(dbctx, s.db, r.AdmissionNo)
	if err != nil {
		return s.fail(ctx, op, err)
	}
	if cred == nil {
		return s.fail(ctx, op, apperr.NotFound(op, fmt.Errorf("%w: %s", apperr.ErrStudentNotFound, r.AdmissionNo)))
	}
	if !matches(cred.SecurityAnswerHash, r.Answer) {
		return s.fail(ctx, op, apperr.Validation(op, apperr.ErrWrongSecurityAnswer))
	}
	if matches(cred.PasswordHash, r.NewPassword) {
		return s.fail(ctx, op, apperr.Validation(op, apperr.ErrPasswordReused))
	}
	h, err := s.hash(op, "new_password", r.NewPassword)
	if err != nil {
		return s.fail(ctx, op, err)
	}
	ok, err := db.UpdateStudentPassword(dbctx, s.db, r.AdmissionNo, h)
	if err != nil {
		return s.fail(ctx, op, err)
	}
	if !ok {
		return s.fail(ctx, op, apperr.NotFound(op, apperr.ErrStudentNotFound))
	}
	s.log.Info("password reset", zap.String("op", op), zap.String("student", r.AdmissionNo))
	return nil
}

func (s *Service) profile(ctx context.Context, op, admissionNo string) (*models.Student, error) {
	st, err := db.GetStudent(ctx, s.db, admissionNo)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, apperr.NotFound(op, fmt.Errorf("%w: %s", apperr.ErrStudentNotFound, admissionNo))
	}
	return st, nil
}

func (s *Service) Profile(ctx context.Context, admissionNo string) (*models.Student, error) {
	const op = "accounts.Profile"
	admissionNo = strings.TrimSpace(admissionNo)
	ctx, dbctx, cancel := dbCtx(ctx, op, admissionNo)
	defer cancel()

	if err := required(op, "admission_no", admissionNo); err != nil {
		return nil, s.fail(ctx, op, err)
	}
	st, err := s.profile(dbctx, op, admissionNo)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	return st, nil
}

// UpdateProfile перезаписывает поля профиля. Номер зачётки неизменен.
func (s *Service) UpdateProfile(ctx context.Context, admissionNo string, p Profile) (*models.Student, error) {
	const op = "accounts.UpdateProfile"
	admissionNo = strings.TrimSpace(admissionNo)
	p = p.trimmed()
	ctx, dbctx, cancel := dbCtx(ctx, op, admissionNo)
	defer cancel()

	if err := required(op, "admission_no", admissionNo); err != nil {
		return nil, s.fail(ctx, op, err)
	}
	if err := validate.Struct(op, p); err != nil {
		return nil, s.fail(ctx, op, err)
	}
	ok, err := db.UpdateStudentProfile(dbctx, s.db, p.student(admissionNo))
	if db.IsUniqueViolation(err) {
		return nil, s.fail(ctx, op, apperr.Conflict(op, fmt.Errorf("%w: reg_no %s", apperr.ErrDuplicateStudent, p.RegNo)))
	}
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	if !ok {
		return nil, s.fail(ctx, op, apperr.NotFound(op, fmt.Errorf("%w: %s", apperr.ErrStudentNotFound, admissionNo)))
	}
	s.log.Info("profile updated", zap.String("op", op), zap.String("student", admissionNo))
	st, err := s.profile(dbctx, op, admissionNo)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	return st, nil
}
