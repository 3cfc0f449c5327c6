package model

import "strings"

// ValidationMessage is shown to the user when required fields are missing.
const ValidationMessage = "Please fill at least your role and daily tasks."

// ValidationError reports required profile fields that were left empty.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: missing " + strings.Join(e.Fields, ", ")
}

// Message returns the user-facing text for the error.
func (e *ValidationError) Message() string {
	return ValidationMessage
}
