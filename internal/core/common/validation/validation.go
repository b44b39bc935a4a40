package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	errors "github.com/frahmantamala/asset-custody/internal"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type ValidatorFunc func(interface{}) *errors.ValidationError

type FieldValidator struct {
	FieldName  string
	Value      interface{}
	Validators []ValidatorFunc
}

// ValidationBuilder runs every registered check and collects all failures before reporting.
type ValidationBuilder struct {
	fields []*FieldValidator
	extra  []errors.ValidationError
}

func NewValidator() *ValidationBuilder {
	return &ValidationBuilder{}
}

func (v *ValidationBuilder) Field(name string, value interface{}) *FieldValidator {
	fv := &FieldValidator{FieldName: name, Value: value}
	v.fields = append(v.fields, fv)
	return fv
}

// Add records a violation found outside the field checks, e.g. by a uniqueness query.
func (v *ValidationBuilder) Add(field, message string, code errors.ErrorCode) *ValidationBuilder {
	v.extra = append(v.extra, errors.ValidationError{Field: field, Message: message, Code: string(code)})
	return v
}

func (v *ValidationBuilder) Errors() []errors.ValidationError {
	var out []errors.ValidationError
	for _, field := range v.fields {
		for _, check := range field.Validators {
			if verr := check(field.Value); verr != nil {
				out = append(out, *verr)
				// one message per field is enough; later checks usually restate the first
				break
			}
		}
	}
	return append(out, v.extra...)
}

func (v *ValidationBuilder) HasErrors() bool {
	return len(v.Errors()) > 0
}

func (v *ValidationBuilder) Validate() *errors.AppError {
	if errs := v.Errors(); len(errs) > 0 {
		return errors.NewValidationErrors(errs)
	}
	return nil
}

func (fv *FieldValidator) fail(message string, code errors.ErrorCode) *errors.ValidationError {
	return &errors.ValidationError{Field: fv.FieldName, Message: message, Code: string(code)}
}

func (fv *FieldValidator) Required() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.ValidationError {
		missing := false
		switch v := value.(type) {
		case string:
			missing = strings.TrimSpace(v) == ""
		case int64:
			missing = v == 0
		case *string:
			missing = v == nil || strings.TrimSpace(*v) == ""
		case nil:
			missing = true
		}
		if missing {
			return fv.fail(fmt.Sprintf("%s is required", fv.FieldName), errors.ErrCodeRequired)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MaxLength(max int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.ValidationError {
		if v, ok := value.(string); ok && utf8.RuneCountInString(v) > max {
			return fv.fail(fmt.Sprintf("%s must not exceed %d characters", fv.FieldName, max), errors.ErrCodeTooLong)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) Email() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.ValidationError {
		v, _ := value.(string)
		if err := validate.Var(v, "required,email"); err != nil {
			return fv.fail(fmt.Sprintf("%s must be a valid email address", fv.FieldName), errors.ErrCodeInvalidEmail)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) OneOf(allowed ...string) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.ValidationError {
		v, _ := value.(string)
		if err := validate.Var(v, "oneof="+strings.Join(allowed, " ")); err != nil {
			return fv.fail(fmt.Sprintf("%s must be one of: %s", fv.FieldName, strings.Join(allowed, ", ")), errors.ErrCodeInvalidChoice)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) Positive() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.ValidationError {
		if v, ok := value.(int64); ok && v <= 0 {
			return fv.fail(fmt.Sprintf("%s must be a positive id", fv.FieldName), errors.ErrCodeRequired)
		}
		return nil
	})
	return fv
}
