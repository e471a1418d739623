package users

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type signUpFields struct {
	Email    string `validate:"required,email"`
	Nickname string `validate:"required,min=2,max=30"`
}

// Characters allowed in a password besides letters and digits.
const passwordSymbols = "!@#$%^&*()-_=+[]{}:.?"

// ValidatePassword checks the password strength policy: at least two
// uppercase letters, two lowercase letters and two digits, minimum length 6,
// and only characters from the restricted set (no spaces, no commas).
func ValidatePassword(password string) bool {
	if len(password) < 6 {
		return false
	}
	var upper, lower, digit int
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper++
		case r >= 'a' && r <= 'z':
			lower++
		case r >= '0' && r <= '9':
			digit++
		case strings.ContainsRune(passwordSymbols, r):
			// allowed, counts toward length only
		default:
			return false
		}
	}
	return upper >= 2 && lower >= 2 && digit >= 2
}

func validateSignUp(email, nickname, password string) map[string]any {
	details := make(map[string]any)
	if err := validate.Struct(signUpFields{Email: email, Nickname: nickname}); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				switch fe.Field() {
				case "Email":
					details["email"] = "must be a valid email address"
				case "Nickname":
					details["nickname"] = "must be between 2 and 30 characters"
				}
			}
		} else {
			details["input"] = err.Error()
		}
	}
	if !ValidatePassword(password) {
		details["password"] = "must contain at least two uppercase letters, two lowercase letters and two digits, be at least 6 characters long, and avoid spaces and commas"
	}
	if len(details) == 0 {
		return nil
	}
	return details
}
