package validation

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/go-playground/validator/v10"
	"uk.co.dudmesh.board/internal/model"
)

// MaxMessageLength is counted in UTF-16 code units, so a character outside
// the Basic Multilingual Plane (most emoji) counts twice.
const MaxMessageLength = 280

var validate = newValidate()

var maxLengthTag = fmt.Sprintf("utf16max=%d", MaxMessageLength)

func newValidate() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("utf16max", utf16Max); err != nil {
		panic(fmt.Sprintf("registering utf16max: %v", err))
	}
	return v
}

func utf16Max(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return Length(fl.Field().String()) <= limit
}

// Length reports the length of s in UTF-16 code units.
func Length(s string) int {
	return len(utf16.Encode([]rune(s)))
}

// isTrimmable matches the characters stripped from both ends of a message:
// Unicode white space and line terminators plus the byte order mark, but not
// NEL (U+0085).
func isTrimmable(r rune) bool {
	if r == '\uFEFF' {
		return true
	}
	return r != '\u0085' && unicode.IsSpace(r)
}

// Trim strips leading and trailing white space from s.
func Trim(s string) string {
	return strings.TrimFunc(s, isTrimmable)
}

// Message checks a raw request value and returns it trimmed. The rules run in
// order and the first failure wins: missing or non-string, empty after
// trimming, longer than MaxMessageLength.
func Message(raw interface{}) (string, error) {
	text, ok := raw.(string)
	if !ok || text == "" {
		return "", model.ErrorMessageRequired
	}

	trimmed := Trim(text)
	if err := validate.Var(trimmed, "required"); err != nil {
		return "", model.ErrorMessageEmpty
	}
	if err := validate.Var(trimmed, maxLengthTag); err != nil {
		return "", model.ErrorMessageTooLong
	}

	return trimmed, nil
}
