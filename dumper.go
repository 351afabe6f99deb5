package postfix

import (
	"fmt"
	"strconv"
	"strings"
)

type fmtBuf interface {
	WriteByte(c byte) error
	WriteString(s string) (n int, err error)
}

func (fn Function) String() string {
	if 0 < fn && fn < functionMax {
		return functionNames[fn]
	}
	return fmt.Sprintf("Function(%d)", uint8(fn))
}

func (n Integer) String() string { return strconv.Itoa(int(n)) }

func (block Block) String() string {
	var sb strings.Builder
	formatBlock(&sb, block)
	return sb.String()
}

// String renders the program in source form; compiling the result yields an
// equal program.
func (prog *Program) String() string {
	var sb strings.Builder
	sb.WriteString("(" + headWord + " ")
	sb.WriteString(strconv.Itoa(prog.Params))
	for _, cmd := range prog.Commands {
		sb.WriteByte(' ')
		formatCommand(&sb, cmd)
	}
	sb.WriteByte(')')
	return sb.String()
}

func formatCommand(buf fmtBuf, cmd Command) {
	if block, ok := cmd.(Block); ok {
		formatBlock(buf, block)
	} else {
		buf.WriteString(cmd.String())
	}
}

func formatBlock(buf fmtBuf, block Block) {
	buf.WriteByte('(')
	for i, cmd := range block {
		if i > 0 {
			buf.WriteByte(' ')
		}
		formatCommand(buf, cmd)
	}
	buf.WriteByte(')')
}

// stackString renders a stack bottom to top.
func stackString(stack []Command) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, cmd := range stack {
		if i > 0 {
			sb.WriteByte(' ')
		}
		formatCommand(&sb, cmd)
	}
	sb.WriteByte(']')
	return sb.String()
}

// pendingString renders pending commands in the order they will run.
func pendingString(pending []Command) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i := len(pending) - 1; i >= 0; i-- {
		formatCommand(&sb, pending[i])
		if i > 0 {
			sb.WriteByte(' ')
		}
	}
	sb.WriteByte(']')
	return sb.String()
}
