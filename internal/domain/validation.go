package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Validation errors
var (
	ErrInvalidTenderID   = errors.New("invalid tender id")
	ErrInvalidOrderID    = errors.New("invalid order id")
	ErrInvalidTenderName = errors.New("invalid tender name")
)

// Validation constants
const (
	MaxIDLength         = 64
	MaxTenderNameLength = 255
)

// idPattern accepts procurement identifiers such as "123-1-LE24" or "4587-OC25".
var idPattern = regexp.MustCompile(`^[0-9A-Za-z][0-9A-Za-z._/-]*$`)

// ValidateTenderID validates a tender identifier.
func ValidateTenderID(id string) error {
	id = strings.TrimSpace(id)

	if id == "" {
		return fmt.Errorf("%w: id cannot be empty", ErrInvalidTenderID)
	}

	if len(id) > MaxIDLength {
		return fmt.Errorf("%w: id exceeds %d characters", ErrInvalidTenderID, MaxIDLength)
	}

	if !idPattern.MatchString(id) {
		return fmt.Errorf("%w: %q contains forbidden characters", ErrInvalidTenderID, id)
	}

	return nil
}

// ValidateOrderID validates a purchase order identifier.
func ValidateOrderID(id string) error {
	id = strings.TrimSpace(id)

	if id == "" {
		return fmt.Errorf("%w: id cannot be empty", ErrInvalidOrderID)
	}

	if len(id) > MaxIDLength {
		return fmt.Errorf("%w: id exceeds %d characters", ErrInvalidOrderID, MaxIDLength)
	}

	if !idPattern.MatchString(id) {
		return fmt.Errorf("%w: %q contains forbidden characters", ErrInvalidOrderID, id)
	}

	return nil
}

// ValidateTenderName validates a tender display name.
func ValidateTenderName(name string) error {
	if len(strings.TrimSpace(name)) > MaxTenderNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidTenderName, MaxTenderNameLength)
	}

	return nil
}
