package postfix

// Builtins check every precondition before touching the stack; a failed
// builtin leaves the stack as it found it.

func (m *Machine) call(fn Function) error {
	switch {
	case fn.Arithmetic():
		return m.arithmetic(fn)
	case fn == Exec:
		return m.exec()
	case fn == NGet:
		return m.nget()
	case fn == Pop:
		return m.drop()
	case fn == Sel:
		return m.sel()
	case fn == Swap:
		return m.swap()
	}
	return codeError(fn)
}

func (m *Machine) need(fn Function, n int) error {
	if len(m.stack) < n {
		return FunctionArityError{fn, n}
	}
	return nil
}

// arithmetic pops the right operand, then the left one, and pushes the
// result; relational functions push 1 for true, 0 for false.
func (m *Machine) arithmetic(fn Function) error {
	if err := m.need(fn, 2); err != nil {
		return err
	}
	b, bok := m.peek(0).(Integer)
	a, aok := m.peek(1).(Integer)
	if !aok || !bok {
		return FunctionTypeError{fn}
	}
	if b == 0 && (fn == Div || fn == Rem) {
		return ErrDivideByZero
	}
	m.pop()
	m.pop()
	m.push(Integer(fn.apply(int(a), int(b))))
	return nil
}

// exec pops a block and runs its commands next.
func (m *Machine) exec() error {
	if err := m.need(Exec, 1); err != nil {
		return err
	}
	block, ok := m.peek(0).(Block)
	if !ok {
		return FunctionTypeError{Exec}
	}
	m.pop()
	m.queue(block)
	return nil
}

// nget pops an index n, and pushes a copy of the n-th integer on the
// remaining stack, 1 being the top.
func (m *Machine) nget() error {
	if err := m.need(NGet, 1); err != nil {
		return err
	}
	n, ok := m.peek(0).(Integer)
	if !ok {
		return FunctionTypeError{NGet}
	}
	size := len(m.stack) - 1
	if n < 1 || int(n) > size {
		return IndexOutOfRangeError{Index: int(n), Min: 1, Max: size}
	}
	val, ok := m.peek(int(n)).(Integer)
	if !ok {
		return InvalidNGetValueError{m.peek(int(n))}
	}
	m.pop()
	m.push(val)
	return nil
}

func (m *Machine) drop() error {
	if err := m.need(Pop, 1); err != nil {
		return err
	}
	m.pop()
	return nil
}

// sel pops two alternatives and a condition: a zero condition selects the
// first alternative popped (the top), any other value the second.
func (m *Machine) sel() error {
	if err := m.need(Sel, 3); err != nil {
		return err
	}
	cond, ok := m.peek(2).(Integer)
	if !ok {
		return FunctionTypeError{Sel}
	}
	top, next := m.pop(), m.pop()
	m.pop()
	if cond == 0 {
		m.push(top)
	} else {
		m.push(next)
	}
	return nil
}

func (m *Machine) swap() error {
	if err := m.need(Swap, 2); err != nil {
		return err
	}
	a, b := m.pop(), m.pop()
	m.push(a)
	m.push(b)
	return nil
}
