// Package source reads postfix program text from named inputs.
package source

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Location names a line in an input.
type Location struct {
	Name string
	Line int
}

func (loc Location) String() string { return fmt.Sprintf("%v:%v", loc.Name, loc.Line) }

// Line is one line of input text, without its line ending.
type Line struct {
	Location
	Text string
}

func (il Line) String() string { return fmt.Sprintf("%v %q", il.Location, il.Text) }

// Input reads lines sequentially through a Queue of one or more input
// streams, closing each stream that can be closed once it is exhausted.
type Input struct {
	Queue []io.Reader

	br   *bufio.Reader
	in   io.Reader
	scan Location
}

// ReadLine returns the next line from the current input, moving on through
// the queue; it returns io.EOF once every input is exhausted.
func (in *Input) ReadLine() (Line, error) {
	for {
		if in.br == nil && !in.nextIn() {
			return Line{}, io.EOF
		}
		text, err := in.br.ReadString('\n')
		if text != "" {
			in.scan.Line++
			return Line{in.scan, strings.TrimRight(text, "\r\n")}, nil
		}
		if err != nil && err != io.EOF {
			return Line{}, fmt.Errorf("%v: %w", in.scan.Name, err)
		}
		in.close()
	}
}

func (in *Input) nextIn() bool {
	if len(in.Queue) == 0 {
		return false
	}
	in.in = in.Queue[0]
	in.Queue = in.Queue[1:]
	in.br = bufio.NewReader(in.in)
	in.scan = Location{Name: NameOf(in.in)}
	return true
}

func (in *Input) close() {
	if cl, ok := in.in.(io.Closer); ok {
		cl.Close()
	}
	in.in = nil
	in.br = nil
}

// Close closes the current input and any still queued.
func (in *Input) Close() error {
	if in.in != nil {
		in.close()
	}
	for _, r := range in.Queue {
		if cl, ok := r.(io.Closer); ok {
			cl.Close()
		}
	}
	in.Queue = nil
	return nil
}

// NameOf returns the name of a reader, like *os.File's, or a placeholder.
func NameOf(obj interface{}) string {
	if nom, ok := obj.(interface{ Name() string }); ok {
		return nom.Name()
	}
	return fmt.Sprintf("<unnamed %T>", obj)
}

// NamedReader attaches a name to a reader.
func NamedReader(name string, r io.Reader) io.Reader {
	return namedReader{r, name}
}

type namedReader struct {
	io.Reader
	name string
}

func (nr namedReader) Name() string { return nr.name }

// Read reads a whole program from r: its lines are joined with spaces,
// since a program is a single line of postfix text.
func Read(r io.Reader) (string, error) {
	in := Input{Queue: []io.Reader{r}}
	var sb strings.Builder
	for {
		line, err := in.ReadLine()
		if err == io.EOF {
			return sb.String(), nil
		} else if err != nil {
			return "", err
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(line.Text)
	}
}

// ReadFile reads a program from the named file.
func ReadFile(name string) (string, error) {
	f, err := os.Open(name)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return Read(f)
}
