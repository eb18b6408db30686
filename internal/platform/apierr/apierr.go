// Package apierr lets the service layer pin an HTTP status and error code
// onto a failure so handlers can respond without mapping every error by hand.
package apierr

import "fmt"

// Error pairs a status and a machine-readable code with the underlying
// cause. Handlers pull it out with errors.As and feed it straight into the
// response envelope.
type Error struct {
	Status int
	Code   string
	Err    error
}

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return ""
	case e.Err != nil:
		return e.Err.Error()
	case e.Code != "":
		return e.Code
	case e.Status != 0:
		return fmt.Sprintf("api error (%d)", e.Status)
	default:
		return "api error"
	}
}

func (e *Error) Unwrap() error { return e.Err }
