package model

import (
	"fmt"
	"strings"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// maxNameLen bounds channel names; names travel in every event payload and
// in list output, so an unbounded name is a liability.
const maxNameLen = 100

// ValidateChannel checks a Channel for constraint violations.
// It returns a *ValidationError if any rules fail, or nil if the channel is valid.
func ValidateChannel(c *Channel) error {
	var ve ValidationError

	name := strings.TrimSpace(c.Name)
	if name == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "name", Message: "is required"})
	} else if len([]rune(name)) > maxNameLen {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "name",
			Message: fmt.Sprintf("must be %d characters or fewer", maxNameLen),
		})
	}

	if !c.Visibility.IsValid() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "visibility",
			Message: fmt.Sprintf("invalid value %q", c.Visibility),
		})
	}

	// The member set only carries meaning on private channels; a public
	// channel must persist an empty set.
	if c.Visibility == VisibilityPublic && len(c.Members) > 0 {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "members",
			Message: "must be empty on a public channel",
		})
	}
	for _, m := range c.Members {
		if strings.TrimSpace(m) == "" {
			ve.Errors = append(ve.Errors, FieldError{Field: "members", Message: "contains an empty id"})
			break
		}
	}

	if c.Creator.IsZero() {
		ve.Errors = append(ve.Errors, FieldError{Field: "creator", Message: "is required"})
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// ValidateMessage checks a Message for constraint violations.
func ValidateMessage(m *Message) error {
	var ve ValidationError

	if m.ChannelID == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "channelID", Message: "is required"})
	}
	if strings.TrimSpace(m.Body) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "body", Message: "is required"})
	}
	if m.Creator.IsZero() {
		ve.Errors = append(ve.Errors, FieldError{Field: "creator", Message: "is required"})
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}
