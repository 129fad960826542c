package types

import "errors"

// Refresh failures fall into three kinds. None of them ever leave Records;
// they are logged, counted and kept for Status.
var (
	// ErrConfiguration means the credentials could not be loaded at startup.
	// It is permanent for the lifetime of the process.
	ErrConfiguration = errors.New("configuration error")

	// ErrRemoteLookup means the spreadsheet ID or the worksheet name was not found.
	ErrRemoteLookup = errors.New("remote lookup error")

	// ErrTransientRemote covers every other network or API failure.
	ErrTransientRemote = errors.New("transient remote error")
)

// RefreshError carries the failing operation, its kind and the underlying cause.
type RefreshError struct {
	Op   string
	Kind error
	Err  error
}

func (e *RefreshError) Error() string {
	return e.Op + ": " + e.Kind.Error() + ": " + e.Err.Error()
}

func (e *RefreshError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// NewRefreshError wraps err as a failure of op. A nil kind defaults to ErrTransientRemote.
func NewRefreshError(op string, kind, err error) *RefreshError {
	if kind == nil {
		kind = ErrTransientRemote
	}
	return &RefreshError{Op: op, Kind: kind, Err: err}
}

// ErrorKind names the kind of err for logs and metric labels.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrRemoteLookup):
		return "remote_lookup"
	default:
		return "transient"
	}
}
