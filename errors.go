package postfix

import (
	"errors"
	"fmt"
)

// Error categories; every error returned by this package matches exactly one
// of these under errors.Is.
var (
	ErrLexical    = errors.New("lexical error")
	ErrSyntax     = errors.New("syntax error")
	ErrArity      = errors.New("arity error")
	ErrType       = errors.New("type error")
	ErrDomain     = errors.New("domain error")
	ErrFinalState = errors.New("final state error")
)

var (
	ErrMalformedHeader      = kindError(ErrSyntax, "program must be of the form (postfix N ...)")
	ErrUnmatchedRightParen  = kindError(ErrSyntax, "unmatched right parenthesis")
	ErrUnmatchedLeftParen   = kindError(ErrSyntax, "unmatched left parenthesis")
	ErrDivideByZero         = kindError(ErrDomain, "divide by zero")
	ErrEmptyStackFinalState = kindError(ErrFinalState, "empty stack at end of program")
)

type categorized struct {
	kind error
	mess string
}

func kindError(kind error, mess string) error { return &categorized{kind, mess} }

func (err *categorized) Error() string        { return err.mess }
func (err *categorized) Is(target error) bool { return target == err.kind }

// InvalidCharacterError is returned for any character outside of letters,
// digits, brackets and space.
type InvalidCharacterError struct{ Char rune }

// NumberFollowedByLetterError is returned when a letter directly follows the
// digits of a number literal.
type NumberFollowedByLetterError struct {
	Value  int
	Letter rune
}

// NumberOverflowError is returned when a number literal does not fit an int.
type NumberOverflowError struct {
	Value int
	Digit int
}

// InvalidFunctionNameError carries a word that names no keyword.
type InvalidFunctionNameError struct{ Name string }

// InvalidKeywordError is returned for a keyword used where it may not appear,
// i.e. the postfix header marker inside a program body.
type InvalidKeywordError struct{ Keyword Keyword }

// WrongNumberOfArgumentsError is returned when a program is run with a
// different number of arguments than it declares.
type WrongNumberOfArgumentsError struct {
	Expected int
	Actual   []int
}

// FunctionArityError is returned when the stack holds too few operands for a
// builtin.
type FunctionArityError struct {
	Function Function
	Expected int
}

// FunctionTypeError is returned when a builtin operand is of the wrong kind.
type FunctionTypeError struct{ Function Function }

// IndexOutOfRangeError is returned by nget for an index outside [Min, Max].
type IndexOutOfRangeError struct{ Index, Min, Max int }

// InvalidNGetValueError is returned by nget when the addressed element is not
// an integer.
type InvalidNGetValueError struct{ Command Command }

// NonNumeralFinalStateError is returned when a program ends with something
// other than an integer on top of the stack.
type NonNumeralFinalStateError struct{ Command Command }

func (err InvalidCharacterError) Error() string {
	return fmt.Sprintf("invalid character %q", err.Char)
}
func (err NumberFollowedByLetterError) Error() string {
	return fmt.Sprintf("number literal %d followed by letter %q", err.Value, err.Letter)
}
func (err NumberOverflowError) Error() string {
	return fmt.Sprintf("number literal %d%d overflows int", err.Value, err.Digit)
}
func (err InvalidFunctionNameError) Error() string {
	return fmt.Sprintf("invalid function name %q", err.Name)
}
func (err InvalidKeywordError) Error() string {
	return fmt.Sprintf("keyword %v not allowed here", err.Keyword)
}
func (err WrongNumberOfArgumentsError) Error() string {
	return fmt.Sprintf("program expects %d arguments, given %d %v", err.Expected, len(err.Actual), err.Actual)
}
func (err FunctionArityError) Error() string {
	return fmt.Sprintf("%v expects %d operands", err.Function, err.Expected)
}
func (err FunctionTypeError) Error() string {
	return fmt.Sprintf("wrong type of operands for %v", err.Function)
}
func (err IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("nget index %d out of range [%d, %d]", err.Index, err.Min, err.Max)
}
func (err InvalidNGetValueError) Error() string {
	return fmt.Sprintf("nget addressed non-integer %v", err.Command)
}
func (err NonNumeralFinalStateError) Error() string {
	return fmt.Sprintf("program ended with non-integer %v", err.Command)
}

func (InvalidCharacterError) Is(target error) bool       { return target == ErrLexical }
func (NumberFollowedByLetterError) Is(target error) bool { return target == ErrLexical }
func (NumberOverflowError) Is(target error) bool         { return target == ErrLexical }
func (InvalidFunctionNameError) Is(target error) bool    { return target == ErrLexical }
func (InvalidKeywordError) Is(target error) bool         { return target == ErrSyntax }
func (WrongNumberOfArgumentsError) Is(target error) bool { return target == ErrArity }
func (FunctionArityError) Is(target error) bool          { return target == ErrArity }
func (FunctionTypeError) Is(target error) bool           { return target == ErrType }
func (IndexOutOfRangeError) Is(target error) bool        { return target == ErrDomain }
func (InvalidNGetValueError) Is(target error) bool       { return target == ErrDomain }
func (NonNumeralFinalStateError) Is(target error) bool   { return target == ErrFinalState }

func (code codeError) Error() string { return fmt.Sprintf("invalid function code %v", uint8(code)) }
