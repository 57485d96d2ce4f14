//go:generate go run github.com/abice/go-enum@v0.5.6 --marshal

package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ENUM(unknown, bad_param, missing_param, not_found, invalid_cursor, unauthorized)
type ApiErrorType int

type ApiError struct {
	Type    ApiErrorType
	Details []string
}

func (res ApiError) Description() string {
	switch res.Type {
	case ApiErrorTypeBadParam:
		return "A validation error occurred"
	case ApiErrorTypeMissingParam:
		return "A required parameter is missing"
	case ApiErrorTypeNotFound:
		return "The requested resource could not be found"
	case ApiErrorTypeInvalidCursor:
		return "The pagination cursor is malformed or was issued for another listing"
	case ApiErrorTypeUnauthorized:
		return "A valid bearer token is required"
	default:
		return "An unknown error occurred"
	}
}

func (res ApiError) MarshalJSON() ([]byte, error) {
	details := res.Details
	if details == nil {
		details = []string{}
	}
	return json.Marshal(struct {
		Type        ApiErrorType `json:"error"`
		Description string       `json:"error_description"`
		Details     []string     `json:"error_details"`
	}{
		Type:        res.Type,
		Description: res.Description(),
		Details:     details,
	})
}

func (res ApiError) Error() string {
	return fmt.Sprintf("%s: %s\n%s", res.Type, res.Description(), strings.Join(res.Details, "\n"))
}
