package postfix

// Command is an executable unit of a program: an Integer constant, a builtin
// Function, or a nested Block. Commands are immutable once parsed; a Block
// may be shared by any number of stacks and pending lists.
type Command interface {
	String() string
	command()
}

// Integer is a constant command, pushing its value.
type Integer int

// Block is an executable sequence of commands; it is pushed as data and only
// runs under exec.
type Block []Command

// Function is a builtin operation.
type Function uint8

const (
	Add Function = iota + 1
	Sub
	Mul
	Div
	Rem
	Eq
	Lt
	Gt

	Exec
	NGet
	Pop
	Sel
	Swap

	functionMax
)

var functionNames = [functionMax]string{
	Add:  "add",
	Sub:  "sub",
	Mul:  "mul",
	Div:  "div",
	Rem:  "rem",
	Eq:   "eq",
	Lt:   "lt",
	Gt:   "gt",
	Exec: "exec",
	NGet: "nget",
	Pop:  "pop",
	Sel:  "sel",
	Swap: "swap",
}

func (Integer) command()  {}
func (Block) command()    {}
func (Function) command() {}

// Arithmetic returns true for the binary integer operations, relational ones
// included.
func (fn Function) Arithmetic() bool { return Add <= fn && fn <= Gt }

func (fn Function) apply(a, b int) int {
	switch fn {
	case Add:
		return a + b
	case Sub:
		return a - b
	case Mul:
		return a * b
	case Div:
		return a / b
	case Rem:
		return a % b
	case Eq:
		return boolInt(a == b)
	case Lt:
		return boolInt(a < b)
	case Gt:
		return boolInt(a > b)
	}
	panic(codeError(fn))
}

// Keyword is a resolved word: either the program header marker or a builtin
// function reference.
type Keyword struct{ fn Function }

// Head is the "postfix" header marker.
var Head = Keyword{}

// FunctionKeyword returns the keyword naming fn.
func FunctionKeyword(fn Function) Keyword { return Keyword{fn} }

// Function returns the builtin named by kw, false for Head.
func (kw Keyword) Function() (Function, bool) { return kw.fn, kw.fn != 0 }

// Program is a compiled postfix program. Run never modifies it, so one
// Program may be run any number of times, concurrently.
type Program struct {
	Params   int
	Commands []Command
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

type codeError uint8
