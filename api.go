package postfix

// New creates a Machine.
func New(opts ...Option) *Machine {
	var m Machine
	Options(opts).apply(&m)
	return &m
}

// Compile tokenizes and parses source into a program.
func Compile(source string) (*Program, error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}

// Run evaluates prog on a new Machine.
func (prog *Program) Run(args []int, opts ...Option) (int, error) {
	return New(opts...).Run(prog, args...)
}

// CompileAndRun compiles source and runs it with args. The first error from
// any stage is returned as is, and later stages do not run.
func CompileAndRun(source string, args []int, opts ...Option) (int, error) {
	m := New(opts...)
	m.logf("compile %q", source)
	prog, err := Compile(source)
	if err != nil {
		m.logf("compile error: %v", err)
		return 0, err
	}
	return m.Run(prog, args...)
}
