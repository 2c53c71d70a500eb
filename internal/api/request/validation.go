package request

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

var codeRegex = regexp.MustCompile(`^\d{6}$`)

func init() {
	validate.RegisterValidation("code6", func(fl validator.FieldLevel) bool {
		return codeRegex.MatchString(fl.Field().String())
	})
}

func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	return nil
}

// RequirePhone checks that s is an E.164 phone number.
func RequirePhone(s string) (string, error) {
	if err := validate.Var(s, "required,e164"); err != nil {
		return "", fmt.Errorf("invalid phone number %q", s)
	}
	return s, nil
}

func RequireID(s string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("missing required ID")
	}
	return s, nil
}

// Limit parses an optional limit query parameter, clamped to [1, max].
func Limit(r *http.Request, def, max int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid limit %q", raw)
	}
	return min(n, max), nil
}
