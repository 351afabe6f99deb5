// Package panicerr runs functions in an isolated goroutine, turning a panic or
// runtime.Goexit into an error return.
package panicerr

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// Recover runs f in a new goroutine, and waits for it. A panic in f comes
// back as a *PanicError, an early runtime.Goexit as an *ExitError; any other
// error from f is returned unchanged.
func Recover(name string, f func() error) error {
	errch := make(chan error, 1)
	go func() {
		returned := false
		defer func() {
			if e := recover(); e != nil {
				errch <- &PanicError{Name: name, Value: e, Stack: debug.Stack()}
			} else if !returned {
				errch <- &ExitError{Name: name}
			}
		}()
		err := f()
		returned = true
		errch <- err
	}()
	return <-errch
}

// ExitError reports a goroutine that called runtime.Goexit.
type ExitError struct{ Name string }

func (err *ExitError) Error() string {
	if err.Name == "" {
		return "exited early"
	}
	return fmt.Sprintf("%v exited early", err.Name)
}

// PanicError carries a recovered panic value, and the stack it came from.
type PanicError struct {
	Name  string
	Value interface{}
	Stack []byte
}

func (err *PanicError) Error() string {
	if err.Name == "" {
		return fmt.Sprintf("panicked: %v", err.Value)
	}
	return fmt.Sprintf("%v panicked: %v", err.Name, err.Value)
}

// Format adds the panic stack under %+v.
func (err *PanicError) Format(f fmt.State, c rune) {
	fmt.Fprint(f, err.Error())
	if c == 'v' && f.Flag('+') {
		fmt.Fprintf(f, "\n%s", err.Stack)
	}
}

// Unwrap returns the panic value if it was an error.
func (err *PanicError) Unwrap() error {
	e, _ := err.Value.(error)
	return e
}

// IsExit returns true if err is a recovered runtime.Goexit.
func IsExit(err error) bool {
	var xe *ExitError
	return errors.As(err, &xe)
}

// IsPanic returns true if err is a recovered panic.
func IsPanic(err error) bool {
	var pe *PanicError
	return errors.As(err, &pe)
}

// PanicStack returns the stack trace of a recovered panic, or "".
func PanicStack(err error) string {
	var pe *PanicError
	if errors.As(err, &pe) {
		return string(pe.Stack)
	}
	return ""
}
