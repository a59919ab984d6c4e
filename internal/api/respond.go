package api

import (
	"net/mail"
	"regexp"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// response is the JSON envelope every endpoint answers with
type response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func respondOK(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, response{Success: true, Message: message, Data: data})
}

func respondErr(c echo.Context, status int, message string) error {
	return c.JSON(status, response{Success: false, Message: message})
}

// parseID parses a numeric path parameter
func parseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// parsePositiveInt parses a query parameter, falling back to def when the
// value is absent, malformed or not positive.
func parsePositiveInt(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}

type requiredField struct {
	name  string
	value string
}

// missingFields returns the names of fields that are empty after trimming
func missingFields(fields ...requiredField) []string {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

func respondMissing(c echo.Context, missing []string) error {
	return respondErr(c, 400, "Missing required fields: "+strings.Join(missing, ", "))
}

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

func validEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}
