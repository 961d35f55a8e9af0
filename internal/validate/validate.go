package validate

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/Spok95/course-registration/internal/apperr"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	// custom validation tags
	notBlankTag = "notblank"
	phoneTag    = "phone10"
	emailTag    = "dotcom_email"
	classNoTag  = "class_no"
	dateTag     = "civil_date"
	clockTag    = "clock"

	phoneRe   = regexp.MustCompile(`^\d{10}$`)
	emailRe   = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.com$`)
	classNoRe = regexp.MustCompile(`^\d{1,2}$`)
	clockRe   = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d(:[0-5]\d)?$`)
)

func init() {
	Validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	Translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(Validate, Translator)

	// имена полей в ошибках берём из тега field
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("field"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	_ = Validate.RegisterValidation(notBlankTag, notBlank)
	_ = Validate.RegisterValidation(phoneTag, matches(phoneRe))
	_ = Validate.RegisterValidation(emailTag, matches(emailRe))
	_ = Validate.RegisterValidation(classNoTag, matches(classNoRe))
	_ = Validate.RegisterValidation(clockTag, matches(clockRe))
	_ = Validate.RegisterValidation(dateTag, civilDate)

	registerCustomTranslations(notBlankTag, phoneTag, emailTag, classNoTag, dateTag, clockTag)
}

// заглушка registerFn: переводы кастомных тегов отдаёт translateCustom
func registerCustomTranslations(tags ...string) {
	registerFn := func(ut.Translator) error { return nil }
	for _, tag := range tags {
		_ = Validate.RegisterTranslation(tag, Translator, registerFn, translateCustom)
	}
}

func translateCustom(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case notBlankTag:
		return "this field is required"
	case phoneTag:
		return "phone number must be exactly 10 digits"
	case emailTag:
		return "invalid email format"
	case classNoTag:
		return "class number must be 1 or 2 digits"
	case dateTag:
		return "date must be in YYYY-MM-DD format"
	case clockTag:
		return "time must be in HH:MM or HH:MM:SS format"
	default:
		return ""
	}
}

func notBlank(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		str, ok := fl.Field().Interface().(string)
		return ok && re.MatchString(str)
	}
}

func civilDate(fl validator.FieldLevel) bool {
	str, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, err := time.Parse("2006-01-02", str)
	return err == nil
}

// Struct проверяет v и переводит ошибки validator в apperr.Validation с ошибками по полям.
func Struct(op string, v any) error {
	err := Validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Validation(op, err)
	}
	fields := make([]apperr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperr.FieldError{Field: fe.Field(), Error: fe.Translate(Translator)})
	}
	return apperr.Validation(op, errors.New("invalid input"), fields...)
}
