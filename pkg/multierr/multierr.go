package multierr

import (
	"bytes"
	"fmt"
)

// Error collects multiple errors into one. The zero value is usable:
//
//	var e Error
//	e.Append(doThing())
//	return e.ErrOrNil()
type Error []error

func (e Error) Error() string {
	switch len(e) {
	case 0:
		return "<nil>"

	case 1:
		return e[0].Error()

	default:
		buf := new(bytes.Buffer)
		fmt.Fprintf(buf, "%d errors occurred:", len(e))
		for _, err := range e {
			fmt.Fprintf(buf, "\n\t* %v", err)
		}
		return buf.String()
	}
}

// Append adds err to the collection, ignoring nil errors.
func (e *Error) Append(err error) {
	switch {
	case e == nil:
		// nothing we can do; callers should be using Error, not *Error

	case err == nil:
		// no-op

	case *e == nil:
		*e = Error{err}

	default:
		*e = append(*e, err)
	}
}

// ErrOrNil converts the collection into a plain error. It returns nil when
// empty (avoiding the typed-nil pitfall) and unwraps a single element.
func (e Error) ErrOrNil() error {
	switch len(e) {
	case 0:
		return nil

	case 1:
		return e[0]

	default:
		return e
	}
}

// Unwrap implements the interface used by [errors.Unwrap].
func (e Error) Unwrap() error {
	switch len(e) {
	case 0:
		return nil

	case 1:
		return e[0]

	default:
		return e[1:]
	}
}
