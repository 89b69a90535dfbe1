package common

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ValidateUUID parses a required UUID parameter.
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("%s is required", fieldName)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s must be a valid UUID", fieldName)
	}
	if id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%s must not be the nil UUID", fieldName)
	}
	return id, nil
}

// ValidateOptionalUUID parses an optional UUID parameter, returning nil
// when the value is absent.
func ValidateOptionalUUID(idStr *string, fieldName string) (*uuid.UUID, error) {
	if idStr == nil || strings.TrimSpace(*idStr) == "" {
		return nil, nil
	}
	id, err := ValidateUUID(*idStr, fieldName)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// ValidatePaginationParams clamps limit and offset to sane bounds.
func ValidatePaginationParams(limit, offset int) (int, int) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
