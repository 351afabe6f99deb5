package postfix

// Option configures a Machine.
type Option interface{ apply(m *Machine) }

// Options combines any number of options into one.
type Options []Option

func (opts Options) apply(m *Machine) {
	for _, opt := range opts {
		if opt != nil {
			opt.apply(m)
		}
	}
}

type withLogfn func(mess string, args ...interface{})

func (logfn withLogfn) apply(m *Machine) {
	m.logfn = logfn
}

// WithLogf traces every evaluation step through the given printf-style
// function.
func WithLogf(logfn func(mess string, args ...interface{})) Option { return withLogfn(logfn) }
