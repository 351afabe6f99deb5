package postfix

// Parse builds a program from a token sequence of the form
// ( postfix N ... ), nesting a Block for every bracket pair in the body.
func Parse(tokens []Token) (*Program, error) {
	n := len(tokens)
	if n < 4 ||
		tokens[0].Kind != LeftParen ||
		tokens[1].Kind != Word || tokens[1].Keyword != Head ||
		tokens[2].Kind != Number ||
		tokens[n-1].Kind != RightParen {
		return nil, ErrMalformedHeader
	}

	var pb programBuilder
	for _, tok := range tokens[3 : n-1] {
		if err := pb.consume(tok); err != nil {
			return nil, err
		}
	}
	if len(pb.open) > 0 {
		return nil, ErrUnmatchedLeftParen
	}
	return &Program{Params: tokens[2].Value, Commands: pb.commands}, nil
}

// programBuilder holds the top level command sequence, and a stack of blocks
// that have been opened but not yet closed.
type programBuilder struct {
	commands []Command
	open     []Block
}

func (pb *programBuilder) consume(tok Token) error {
	switch tok.Kind {
	case LeftParen:
		pb.open = append(pb.open, Block{})

	case RightParen:
		i := len(pb.open) - 1
		if i < 0 {
			return ErrUnmatchedRightParen
		}
		var block Block
		block, pb.open = pb.open[i], pb.open[:i]
		pb.emit(block)

	case Number:
		pb.emit(Integer(tok.Value))

	case Word:
		fn, ok := tok.Keyword.Function()
		if !ok {
			return InvalidKeywordError{tok.Keyword}
		}
		pb.emit(fn)
	}
	return nil
}

// emit appends cmd to the innermost open block, or to the program itself.
func (pb *programBuilder) emit(cmd Command) {
	if i := len(pb.open) - 1; i >= 0 {
		pb.open[i] = append(pb.open[i], cmd)
	} else {
		pb.commands = append(pb.commands, cmd)
	}
}
