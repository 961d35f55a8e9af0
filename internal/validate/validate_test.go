package validate

import (
	"errors"
	"testing"

	"github.com/Spok95/course-registration/internal/apperr"
)

type sample struct {
	Name  string `field:"name" validate:"notblank"`
	Phone string `field:"phone" validate:"phone10"`
	Email string `field:"email" validate:"dotcom_email"`
	Class string `field:"class_no" validate:"class_no"`
	Date  string `field:"date" validate:"civil_date"`
	Time  string `field:"time" validate:"clock"`
	Mode  string `field:"mode" validate:"oneof=Online Offline"`
}

func valid() sample {
	return sample{
		Name: "Anna", Phone: "9876543210", Email: "anna.k@college.com",
		Class: "12", Date: "2025-03-10", Time: "10:30", Mode: "Online",
	}
}

func TestStruct_OK(t *testing.T) {
	if err := Struct("op", valid()); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
}

func TestStruct_FieldErrors(t *testing.T) {
	cases := []struct {
		name  string
		mut   func(*sample)
		field string
	}{
		{"blank_name", func(s *sample) { s.Name = "   " }, "name"},
		{"short_phone", func(s *sample) { s.Phone = "12345" }, "phone"},
		{"letters_phone", func(s *sample) { s.Phone = "98765abcde" }, "phone"},
		{"org_email", func(s *sample) { s.Email = "anna@college.org" }, "email"},
		{"class_3_digits", func(s *sample) { s.Class = "123" }, "class_no"},
		{"date_format", func(s *sample) { s.Date = "10.03.2025" }, "date"},
		{"time_format", func(s *sample) { s.Time = "25:00" }, "time"},
		{"mode", func(s *sample) { s.Mode = "Hybrid" }, "mode"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := valid()
			tc.mut(&s)
			err := Struct("op", s)
			if !errors.Is(err, apperr.ErrValidation) {
				t.Fatalf("ожидали ValidationError, получили %v", err)
			}
			fields := apperr.FieldsOf(err)
			if len(fields) != 1 || fields[0].Field != tc.field || fields[0].Error == "" {
				t.Fatalf("ожидали одну ошибку поля %s, получили %#v", tc.field, fields)
			}
		})
	}
}
