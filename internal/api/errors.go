package api

import (
	"fmt"

	"github.com/pkg/errors"
)

// reqError ties an error to the request that produced it.
type reqError struct {
	reqID string
	err   error
}

func (e reqError) wrap(cause error, msg string) error {
	e.err = errors.Wrap(cause, msg)
	return e
}

func (e reqError) text(msg string) error {
	e.err = errors.New(msg)
	return e
}

func (e reqError) Error() string {
	return fmt.Sprintf("%s: %s", e.reqID, e.err.Error())
}

// Cause returns the underlying error for errors.Cause.
func (e reqError) Cause() error {
	return errors.Cause(e.err)
}

func (e reqError) Unwrap() error {
	return e.err
}
