package exitcode

import (
	"errors"

	"go.uber.org/multierr"
)

const (
	Success = 0
	Failure = 1

	// The command line couldn't be understood, so nothing was transformed
	Usage = 2
)

// Coder is an interface to control what value Get returns.
type Coder interface {
	error
	ExitCode() int
}

// Get gets the exit code associated with an error. Cases:
//
//	nil => 0
//	errors implementing Coder => value returned by ExitCode
//	all other errors => 1
//
// An error combined with multierr gets the largest code of its parts.
func Get(err error) int {
	if err == nil {
		return Success
	}

	code := Success
	for _, err := range multierr.Errors(err) {
		each := Failure
		if coder := Coder(nil); errors.As(err, &coder) {
			each = coder.ExitCode()
		}
		if each > code {
			code = each
		}
	}
	return code
}

// Set wraps an error in a Coder, setting its error code.
func Set(err error, code int) error {
	if err == nil {
		return nil
	}
	return coder{err, code}
}

var _ Coder = coder{}

type coder struct {
	error
	int
}

func (co coder) ExitCode() int {
	return co.int
}

func (co coder) Unwrap() error {
	return co.error
}
