package cli

// SilentError signals that the command already printed its own error output;
// main should set the exit code without printing the error again.
type SilentError struct {
	Err  error
	Code int
}

// NewSilentError wraps an error whose message was already shown to the user.
func NewSilentError(err error) *SilentError {
	return &SilentError{Err: err, Code: 1}
}

// NewExitError wraps an error that must map to a specific exit code, e.g.
// the dispatch protocol's exit 2 for a blocked action.
func NewExitError(code int, err error) *SilentError {
	return &SilentError{Err: err, Code: code}
}

func (e *SilentError) Error() string {
	if e.Err == nil {
		return "silent error"
	}
	return e.Err.Error()
}

func (e *SilentError) Unwrap() error { return e.Err }

// ExitCode returns the process exit code the error asks for.
func (e *SilentError) ExitCode() int {
	if e.Code == 0 {
		return 1
	}
	return e.Code
}
