package symbolizer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

var (
	ErrNoCandidates = errors.New("no code objects found")
	ErrNoReader     = errors.New("no working reader")
	ErrUnresolved   = errors.New("address could not be resolved to a line")
)

// NoCandidatesFoundError is returned when no locator produced a code
// object. Errors holds locator failures other than "not applicable".
type NoCandidatesFoundError struct {
	ProjectRoot string
	Locators    []string
	Errors      *multierror.Error
}

func (e *NoCandidatesFoundError) Error() string {
	msg := fmt.Sprintf("%s in %s (tried %s); build the project first", ErrNoCandidates, e.ProjectRoot, strings.Join(e.Locators, ", "))
	if e.Errors.ErrorOrNil() != nil {
		msg += ": " + e.Errors.Error()
	}
	return msg
}

func (e *NoCandidatesFoundError) Is(target error) bool {
	return target == ErrNoCandidates
}

func (e *NoCandidatesFoundError) Unwrap() error {
	return e.Errors.ErrorOrNil()
}

// AllReadersUnavailableError is returned when none of the configured
// debug-info tools can be invoked.
type AllReadersUnavailableError struct {
	Readers []string
}

func (e *AllReadersUnavailableError) Error() string {
	return fmt.Sprintf("%s: install one of: %s", ErrNoReader, strings.Join(e.Readers, ", "))
}

func (e *AllReadersUnavailableError) Is(target error) bool {
	return target == ErrNoReader
}

// AllCandidatesFailedError aggregates the error of every code object the
// reader was asked about.
type AllCandidatesFailedError struct {
	Address uint64
	Errors  *multierror.Error
}

func (e *AllCandidatesFailedError) Error() string {
	return fmt.Sprintf("%s: 0x%x: %s", ErrUnresolved, e.Address, e.Errors.Error())
}

func (e *AllCandidatesFailedError) Is(target error) bool {
	return target == ErrUnresolved
}

func (e *AllCandidatesFailedError) Unwrap() error {
	return e.Errors.ErrorOrNil()
}

func appendError(errs *multierror.Error, err error) *multierror.Error {
	errs = multierror.Append(errs, err)
	errs.ErrorFormat = listFormat
	return errs
}

func listFormat(es []error) string {
	if len(es) == 1 {
		return es[0].Error()
	}
	msgs := make([]string, len(es))
	for i, err := range es {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d errors: [%s]", len(es), strings.Join(msgs, "; "))
}
