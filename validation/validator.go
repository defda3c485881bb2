package validation

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/kbukum/inkflow/errors"
)

// FieldError is one rejected config key.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (f FieldError) String() string {
	return f.Field + ": " + f.Message
}

// Validator accumulates problems from chained checks. Checks never stop the
// chain, so one call reports every bad key at once.
type Validator struct {
	problems []FieldError
}

// New returns an empty Validator.
func New() *Validator {
	return &Validator{}
}

func (v *Validator) fail(field, format string, args ...any) *Validator {
	v.problems = append(v.problems, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
	return v
}

// Required rejects blank values.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) != "" {
		return v
	}
	return v.fail(field, "is required")
}

// OneOf rejects a value outside allowed. Empty values pass; pair with
// Required when the key is mandatory.
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	if value == "" || slices.Contains(allowed, value) {
		return v
	}
	return v.fail(field, "must be one of: %s", strings.Join(allowed, ", "))
}

// OptionalURL rejects a non-blank value that is not an absolute http(s) URL.
func (v *Validator) OptionalURL(field, value string) *Validator {
	value = strings.TrimSpace(value)
	if value == "" {
		return v
	}
	u, err := url.Parse(value)
	if err == nil && u.Host != "" && (u.Scheme == "http" || u.Scheme == "https") {
		return v
	}
	return v.fail(field, "must be an http or https URL")
}

// Check records message for field when ok is false.
func (v *Validator) Check(ok bool, field, message string) *Validator {
	if ok {
		return v
	}
	return v.fail(field, "%s", message)
}

// HasErrors reports whether any check failed.
func (v *Validator) HasErrors() bool { return len(v.problems) > 0 }

// Errors returns the failed checks in the order they ran.
func (v *Validator) Errors() []FieldError { return v.problems }

// Validate folds the problems into one INVALID_INPUT error, or nil.
func (v *Validator) Validate() *errors.AppError {
	if len(v.problems) == 0 {
		return nil
	}
	return toAppError(v.problems)
}

func toAppError(problems []FieldError) *errors.AppError {
	parts := make([]string, 0, len(problems))
	for _, p := range problems {
		parts = append(parts, p.String())
	}
	return errors.Validation(strings.Join(parts, "; ")).WithDetail("fields", problems)
}
