package profile

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/mmcdole/streambox/internal/domain"
	"github.com/mmcdole/streambox/internal/state"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// form mirrors the editable profile fields with their rules
type form struct {
	FirstName string `validate:"required,min=2"`
	LastName  string `validate:"required,min=2"`
	Email     string `validate:"required,email"`
	Username  string `validate:"required,min=3,username"`
}

var messages = map[string]map[string]string{
	"FirstName": {
		"required": "First name is required",
		"min":      "First name must be at least 2 characters",
	},
	"LastName": {
		"required": "Last name is required",
		"min":      "Last name must be at least 2 characters",
	},
	"Email": {
		"required": "Email is required",
		"email":    "Please enter a valid email",
	},
	"Username": {
		"required": "Username is required",
		"min":      "Username must be at least 3 characters",
		"username": "Username can only contain letters, numbers, and underscores",
	},
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return v
}

// ValidationError names the first profile field that failed validation
type ValidationError struct {
	Field   string // FirstName, LastName, Email or Username
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate checks the editable fields of p. Fields are checked in form
// order and the first failure is returned.
func Validate(p domain.Profile) error {
	err := validate.Struct(form{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Username:  p.Username,
	})
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	msg, ok := messages[fe.Field()][fe.Tag()]
	if !ok {
		msg = fe.Field() + " is invalid"
	}
	return &ValidationError{Field: fe.Field(), Message: msg}
}

// FormValues returns the values the edit form starts with: each profile
// field, falling back to the session user's field.
func FormValues(st state.State) domain.Profile {
	var p domain.Profile
	if st.Profile.Profile != nil {
		p = *st.Profile.Profile
	}
	if u := st.Session.User; u != nil {
		p.FirstName = firstNonEmpty(p.FirstName, u.FirstName)
		p.LastName = firstNonEmpty(p.LastName, u.LastName)
		p.Email = firstNonEmpty(p.Email, u.Email)
		p.Username = firstNonEmpty(p.Username, u.Username)
		p.Avatar = firstNonEmpty(p.Avatar, u.Image)
	}
	return p
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
