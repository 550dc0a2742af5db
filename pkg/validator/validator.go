// Package validator registers custom request validation rules.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// chatIDPattern matches chat identifiers: 1 to 128 characters drawn from
// letters, digits, dot, dash and underscore.
var chatIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,128}$`)

// ValidChatID reports whether s is a well-formed chat identifier.
func ValidChatID(s string) bool {
	return chatIDPattern.MatchString(s)
}

// RegisterCustomValidators installs custom rules on gin's binding validator.
// Safe to call more than once.
func RegisterCustomValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("chatid", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			// Emptiness is the business of the required tag.
			return true
		}
		return ValidChatID(s)
	})
}
