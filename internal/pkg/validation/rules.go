// Package validation registers the custom binding tags used by request DTOs.
package validation

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// IdentifierPattern matches client-supplied ids such as STU001, U-42 or a UUID
	IdentifierPattern = `^[A-Za-z0-9][A-Za-z0-9._-]*$`

	// IdentifierMaxLength matches the VARCHAR(64) id columns
	IdentifierMaxLength = 64
)

var identifierRegexp = regexp.MustCompile(IdentifierPattern)

// Custom tag names
const (
	TagEntityID = "entity_id"
	TagNotBlank = "not_blank"
)

// Register adds the custom tags to v
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation(TagEntityID, entityID); err != nil {
		return err
	}
	return v.RegisterValidation(TagNotBlank, notBlank)
}

// MustRegister is Register for package init, where a failure is a programming error
func MustRegister(v *validator.Validate) {
	if err := Register(v); err != nil {
		panic(err)
	}
}

// IsIdentifier reports whether s is usable as a student, user or class id
func IsIdentifier(s string) bool {
	return len(s) <= IdentifierMaxLength && identifierRegexp.MatchString(s)
}

func entityID(fl validator.FieldLevel) bool {
	return IsIdentifier(fl.Field().String())
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
