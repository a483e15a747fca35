package forms

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = newValidate()

var (
	zipRe    = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	cardRe   = regexp.MustCompile(`^\d{16}$`)
	expiryRe = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvRe    = regexp.MustCompile(`^\d{3,4}$`)
)

func newValidate() *validator.Validate {
	v := validator.New()

	// Report fields by their json name so error keys match the wire format.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	must(v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if len(s) < 8 {
			return false
		}
		return strings.ContainsFunc(s, isUpper) &&
			strings.ContainsFunc(s, isLower) &&
			strings.ContainsFunc(s, isDigit)
	}))
	must(v.RegisterValidation("zipcode", func(fl validator.FieldLevel) bool {
		return zipRe.MatchString(fl.Field().String())
	}))
	must(v.RegisterValidation("cardnumber", func(fl validator.FieldLevel) bool {
		return cardRe.MatchString(fl.Field().String())
	}))
	must(v.RegisterValidation("expiry", func(fl validator.FieldLevel) bool {
		return expiryRe.MatchString(fl.Field().String())
	}))
	must(v.RegisterValidation("cvv", func(fl validator.FieldLevel) bool {
		return cvvRe.MatchString(fl.Field().String())
	}))

	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
func isLower(r rune) bool { return r >= 'a' && r <= 'z' }
func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// Schema is a declarative validation schema for one step form. Fields are
// listed in declaration order; build assembles the typed struct that the
// validator tags live on.
type Schema struct {
	fields []string
	build  func(values map[string]string) any
}

// Fields returns the schema's field names in declaration order.
func (s *Schema) Fields() []string {
	return s.fields
}

// Validate checks the whole value set and returns one message per invalid
// field, the first failing rule winning for each.
func (s *Schema) Validate(values map[string]string) map[string]string {
	err := validate.Struct(s.build(values))
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// Not field-level, attribute it to the first field so it surfaces.
		return map[string]string{s.fields[0]: err.Error()}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, dup := out[fe.Field()]; !dup {
			out[fe.Field()] = messageFor(fe)
		}
	}
	return out
}

// messageFor converts a validator error into the user-facing message.
func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", labelFor(fe.Field()))
	case "email":
		return "Invalid email address"
	case "password":
		return "Password must be at least 8 characters with uppercase, lowercase, and number"
	case "len":
		return fmt.Sprintf("%s must be %s characters", labelFor(fe.Field()), fe.Param())
	case "zipcode":
		return "Invalid ZIP code format"
	case "cardnumber":
		return "Card number must be 16 digits"
	case "expiry":
		return "Expiry date must be MM/YY format"
	case "cvv":
		return "CVV must be 3 or 4 digits"
	default:
		return fmt.Sprintf("%s is invalid", labelFor(fe.Field()))
	}
}

// labelFor turns a camelCase field name into a sentence-leading label,
// e.g. "firstName" -> "First name".
func labelFor(field string) string {
	if field == "" {
		return field
	}
	var b strings.Builder
	for i, r := range field {
		switch {
		case i == 0:
			b.WriteRune(unicode.ToUpper(r))
		case r >= 'A' && r <= 'Z':
			b.WriteByte(' ')
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
