// Package library stores postfix program sources by name.
package library

import (
	"errors"
	"fmt"

	"github.com/jcorbin/gopostfix"
)

// ErrNotFound is returned when getting a name that was never stored.
var ErrNotFound = errors.New("program not found")

// Store is a named collection of program sources.
type Store interface {
	// Get retrieves a source by name, or returns ErrNotFound.
	Get(name string) (string, error)
	// Put stores a source by name, replacing any prior one.
	Put(name, src string) error
	// Delete removes a source by name.
	Delete(name string) error
	// Names lists stored names in order.
	Names() ([]string, error)
	// Close releases resources.
	Close() error
}

// Save compiles src and stores it under name; a source that fails to compile
// is not stored. The stored text is the compiled program's canonical form.
func Save(st Store, name, src string) (*postfix.Program, error) {
	if name == "" {
		return nil, errors.New("program name must not be empty")
	}
	prog, err := postfix.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", name, err)
	}
	return prog, st.Put(name, prog.String())
}

// Load gets the named source from st and compiles it.
func Load(st Store, name string) (*postfix.Program, error) {
	src, err := st.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", name, err)
	}
	prog, err := postfix.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", name, err)
	}
	return prog, nil
}
