package service

import "fmt"

// MissingColumnError: a required header is absent from a table.
type MissingColumnError struct {
	Table  string // "source" | "lookup"
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("the %s file column (%s) does not exist", e.Table, e.Column)
}

// ConfigurationError: unusable path or option, reported before anything is processed.
type ConfigurationError struct {
	Field string
	Path  string
	Err   error
}

func (e *ConfigurationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %q: %v", e.Field, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }
