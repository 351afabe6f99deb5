package postfix

// Machine evaluates programs. Rather than recursing into blocks, it keeps an
// explicit list of pending commands, so that exec splices a block's commands
// into the remaining instruction stream.
//
// A Machine is reusable but not safe for concurrent runs; every Run resets its
// operand stack and pending list.
type Machine struct {
	logfn func(mess string, args ...interface{})

	// The operand stack holds commands: integers and blocks are both data.
	stack []Command

	// Pending commands are stored in reverse, the next one to run last.
	pending []Command
}

// Run evaluates prog with the given arguments, returning the integer left on
// top of the stack.
func (m *Machine) Run(prog *Program, args ...int) (int, error) {
	if len(args) != prog.Params {
		return 0, WrongNumberOfArgumentsError{prog.Params, append([]int{}, args...)}
	}
	m.load(prog, args)
	defer m.unload()
	for len(m.pending) > 0 {
		if err := m.step(); err != nil {
			m.logf("halt error: %v", err)
			return 0, err
		}
	}
	return m.result()
}

// load sets up the stack so that the first argument is on top, and queues
// the program's commands.
func (m *Machine) load(prog *Program, args []int) {
	m.stack = make([]Command, 0, len(args))
	for i := len(args) - 1; i >= 0; i-- {
		m.stack = append(m.stack, Integer(args[i]))
	}
	m.pending = nil
	m.queue(prog.Commands)
}

func (m *Machine) unload() {
	m.stack = nil
	m.pending = nil
}

// queue schedules cmds to run next, ahead of anything already pending.
func (m *Machine) queue(cmds []Command) {
	for i := len(cmds) - 1; i >= 0; i-- {
		m.pending = append(m.pending, cmds[i])
	}
}

func (m *Machine) step() error {
	i := len(m.pending) - 1
	cmd := m.pending[i]
	m.pending = m.pending[:i]
	if m.logfn != nil {
		m.logf("exec %v -- p:%v s:%v", cmd, pendingString(m.pending), stackString(m.stack))
	}
	if fn, ok := cmd.(Function); ok {
		return m.call(fn)
	}
	m.push(cmd)
	return nil
}

func (m *Machine) result() (int, error) {
	i := len(m.stack) - 1
	if i < 0 {
		return 0, ErrEmptyStackFinalState
	}
	if n, ok := m.stack[i].(Integer); ok {
		return int(n), nil
	}
	return 0, NonNumeralFinalStateError{m.stack[i]}
}

func (m *Machine) push(cmd Command) { m.stack = append(m.stack, cmd) }

func (m *Machine) pop() Command {
	i := len(m.stack) - 1
	cmd := m.stack[i]
	m.stack = m.stack[:i]
	return cmd
}

// peek returns the i-th command from the top, 0 being the top.
func (m *Machine) peek(i int) Command { return m.stack[len(m.stack)-1-i] }

func (m *Machine) logf(mess string, args ...interface{}) {
	if m.logfn != nil {
		m.logfn(mess, args...)
	}
}
