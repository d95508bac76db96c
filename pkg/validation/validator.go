package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Errors is a field-level validation report: field name -> message.
// It is returned as an error by services so handlers can re-render the form.
type Errors map[string]string

func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records msg for field unless the field already carries a message.
func (e Errors) Add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// Err returns nil for an empty report so callers can `return errs.Err()`.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

var (
	once     sync.Once
	validate *validator.Validate
)

func configure(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	v.RegisterAlias("pwd", "min=8")
	v.RegisterAlias("username", "min=2,max=20")
	v.RegisterAlias("title", "max=100")
}

// Init configures the validator used by Gin's binding the same way as the
// standalone one used by services.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		configure(v)
	}
}

func engine() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		configure(validate)
	})
	return validate
}

// Struct validates s against its `validate` tags and returns the report,
// which is empty when s is valid.
func Struct(s any) Errors {
	out := Errors{}
	err := engine().Struct(s)
	if err == nil {
		return out
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			out.Add(fe.Field(), formatFieldError(fe))
		}
		return out
	}
	out.Add("payload", "invalid payload")
	return out
}

// Var validates a single value, e.g. Var(email, "required,email").
func Var(field string, value any, tag string) Errors {
	out := Errors{}
	err := engine().Var(value, tag)
	if err == nil {
		return out
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		out.Add(field, formatFieldError(verrs[0]))
		return out
	}
	out.Add(field, "invalid value")
	return out
}

// ToDetails converts validation/binding errors into a map[field]message suitable for API error details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	var errs Errors
	if errors.As(err, &errs) {
		return errs
	}

	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]string{"payload": "invalid json"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}

	return map[string]string{"payload": "invalid payload"}
}

func formatFieldError(fe validator.FieldError) string {
	param := fe.Param()

	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Invalid email address."
	case "eqfield":
		return "Field must be equal to " + toSnake(param) + "."
	case "username":
		return "Field must be between 2 and 20 characters long."
	case "pwd":
		return "Field must be at least 8 characters long."
	case "title":
		return "Field cannot be longer than 100 characters."
	case "min":
		if isNumberKind(fe.Kind()) {
			return "Number must be at least " + param + "."
		}
		return "Field must be at least " + param + " characters long."
	case "max":
		if isNumberKind(fe.Kind()) {
			return "Number must be at most " + param + "."
		}
		return "Field cannot be longer than " + param + " characters."
	case "len":
		return "Field must be exactly " + param + " characters long."
	case "oneof":
		return "Not a valid choice: " + strings.Join(strings.Fields(param), ", ") + "."
	default:
		if param != "" {
			return fmt.Sprintf("Failed '%s=%s' validation.", fe.Tag(), param)
		}
		return fmt.Sprintf("Failed '%s' validation.", fe.Tag())
	}
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// toSnake turns a Go field name such as ConfirmPassword into confirm_password.
func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
