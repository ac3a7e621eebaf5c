// Package newsletter records newsletter signups in a storage slot, enforcing
// a syntactic email check and one subscription per address.
package newsletter

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Subscriber is one newsletter signup.
type Subscriber struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	SubscribedAt time.Time `json:"subscribedAt"`
	Source       string    `json:"source"`
}

// Result is what a signup attempt reports back to the visitor.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

const (
	MsgInvalidEmail = "Please enter a valid email address."
	MsgDuplicate    = "This email is already subscribed!"
	MsgWelcome      = "Welcome aboard! 🎉 You'll receive our latest posts in your inbox."
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type signup struct {
	Email string `validate:"required,newsletter_email"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("newsletter_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	return v
}

// ValidEmail reports whether email has the local@domain.tld shape with no
// whitespace. The address is not trimmed first.
func ValidEmail(email string) bool {
	return validate.Struct(signup{Email: email}) == nil
}

func sameEmail(a, b string) bool {
	return strings.ToLower(a) == strings.ToLower(b)
}
