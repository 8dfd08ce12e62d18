package mutation

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/learnconnect/learnconnect.go/pkg/connection"
	"github.com/learnconnect/learnconnect.go/pkg/constants"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// Form holds the input of a creation form. P is the request payload; its
// `validate` tags are checked before anything is sent.
type Form[P any] struct {
	mu         sync.Mutex
	open       bool
	values     P
	defaults   P
	message    string
	submitting bool
}

func NewForm[P any](defaults P) *Form[P] {
	return &Form[P]{values: defaults, defaults: defaults}
}

func (f *Form[P]) Open() {
	f.mu.Lock()
	f.open = true
	f.mu.Unlock()
}

// Close hides the form. Input is kept until Reset.
func (f *Form[P]) Close() {
	f.mu.Lock()
	f.open = false
	f.mu.Unlock()
}

func (f *Form[P]) Toggle() {
	f.mu.Lock()
	f.open = !f.open
	f.mu.Unlock()
}

func (f *Form[P]) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

// Set edits the form values in place.
func (f *Form[P]) Set(edit func(*P)) {
	f.mu.Lock()
	edit(&f.values)
	f.mu.Unlock()
}

func (f *Form[P]) Values() P {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

func (f *Form[P]) Reset() {
	f.mu.Lock()
	f.values = f.defaults
	f.message = ""
	f.mu.Unlock()
}

// Message is the last validation or submission error.
func (f *Form[P]) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

// Submit validates the values and passes them to send. On success the form
// resets and closes. On failure it stays open with the input intact.
func (f *Form[P]) Submit(ctx context.Context, send func(context.Context, P) error) error {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return constants.ErrMutationPending
	}
	f.submitting = true
	values := f.values
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.submitting = false
		f.mu.Unlock()
	}()

	if err := validatorInstance().Struct(values); err != nil {
		f.fail(validationMessage(err))
		return err
	}

	if err := send(ctx, values); err != nil {
		f.fail(connection.Message(err, "Submit"))
		return err
	}

	f.mu.Lock()
	f.values = f.defaults
	f.message = ""
	f.open = false
	f.mu.Unlock()
	return nil
}

func (f *Form[P]) fail(msg string) {
	f.mu.Lock()
	f.message = msg
	f.mu.Unlock()
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
