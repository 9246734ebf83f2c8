package cli

import (
	"errors"
	"fmt"

	rasErrors "mercator-hq/xrdscan/pkg/ras/errors"
)

// Exit codes returned by the xrdscan command.
const (
	ExitOK = 0
	// ExitFailure covers I/O failures and unexpected errors.
	ExitFailure = 1
	// ExitUsage covers invalid flags and configuration.
	ExitUsage = 2
	// ExitInvalidScan means at least one file is not a valid scan or its
	// segments could not be joined.
	ExitInvalidScan = 3
)

// ConfigError represents an error in configuration.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

// CommandError represents an error from a command execution.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	var cfgErr *ConfigError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &cfgErr):
		return ExitUsage
	case rasErrors.IsFormat(err), rasErrors.IsIncompatible(err):
		return ExitInvalidScan
	default:
		return ExitFailure
	}
}
