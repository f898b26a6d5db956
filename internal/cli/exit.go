// exit.go defines the CLI error type and the exit codes it maps to.
// Commands return *CLIError from their RunE functions; Execute translates
// the code into the process exit status so scripts can branch on outcomes
// without parsing messages.
package cli

// ExitCode defines the standard exit codes of the freeport binary.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitLockedPort indicates the requested port is reserved by an
	// in-process lock. Retrying after the reservation expires may succeed.
	ExitLockedPort ExitCode = 2

	// ExitPortUnavailable indicates no port could be bound: the requested
	// port is taken, not bindable on any interface, or every candidate was
	// exhausted.
	ExitPortUnavailable ExitCode = 3

	// ExitUsageError indicates invalid arguments, such as non-integer or
	// out-of-range port bounds.
	ExitUsageError ExitCode = 4
)

// CLIError is an error that carries an exit code. The CLI layer uses it to
// translate library errors into process exit statuses.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error returns the message, including the underlying error when present.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes the underlying error to errors.Is / errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
