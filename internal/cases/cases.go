// Package cases reads and runs batches of postfix cases: one program with its
// arguments per line, like
//
//	(postfix 2 sub) 7 3
package cases

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jcorbin/gopostfix"
	"github.com/jcorbin/gopostfix/internal/panicerr"
	"github.com/jcorbin/gopostfix/internal/source"
)

// ErrUnbalanced is returned for a case line whose program never closes.
var ErrUnbalanced = errors.New("unbalanced program brackets")

// Case is a program source with arguments to run it with.
type Case struct {
	source.Location
	Source string
	Args   []int
}

func (c Case) String() string {
	var sb strings.Builder
	sb.WriteString(c.Source)
	for _, arg := range c.Args {
		sb.WriteByte(' ')
		sb.WriteString(strconv.Itoa(arg))
	}
	return sb.String()
}

// Parse parses a case from text: a bracketed program, followed by integer
// arguments separated by spaces.
func Parse(text string) (c Case, _ error) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "(") {
		return c, fmt.Errorf("case must start with a program, got %q", text)
	}
	end, depth := 0, 0
	for i, r := range text {
		if r == '(' {
			depth++
		} else if r == ')' {
			depth--
			if depth == 0 {
				end = i + 1
				break
			}
		}
	}
	if end == 0 {
		return c, ErrUnbalanced
	}
	c.Source = text[:end]
	for _, field := range strings.Fields(text[end:]) {
		arg, err := strconv.Atoi(field)
		if err != nil {
			return c, fmt.Errorf("invalid case argument %q: %w", field, err)
		}
		c.Args = append(c.Args, arg)
	}
	return c, nil
}

// ReadAll reads cases from every line of in, skipping blank lines and
// comment lines that start with "#".
func ReadAll(in *source.Input) (all []Case, _ error) {
	for {
		line, err := in.ReadLine()
		if err == io.EOF {
			return all, nil
		} else if err != nil {
			return all, err
		}
		text := strings.TrimSpace(line.Text)
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		c, err := Parse(text)
		if err != nil {
			return all, fmt.Errorf("%v: %w", line.Location, err)
		}
		c.Location = line.Location
		all = append(all, c)
	}
}

// Result is the outcome of running a Case.
type Result struct {
	Case
	Value int
	Err   error
}

func (res Result) String() string {
	if res.Err != nil {
		return fmt.Sprintf("%v => error: %v", res.Case, res.Err)
	}
	return fmt.Sprintf("%v => %v", res.Case, res.Value)
}

// Runner runs cases concurrently.
type Runner struct {
	// Jobs limits how many cases run at once; no limit if not positive.
	Jobs int

	// Logf, if set, receives each case's evaluation trace, prefixed by the
	// case location.
	Logf func(mess string, args ...interface{})
}

// Run runs every case, returning results in the same order as cases. A case
// failing is reported in its Result; the returned error is only non-nil if
// ctx ended before every case could run, in which case the unrun cases'
// results carry the context error.
func (r Runner) Run(ctx context.Context, cases []Case) ([]Result, error) {
	results := make([]Result, len(cases))
	for i, c := range cases {
		results[i].Case = c
	}

	eg, egctx := errgroup.WithContext(ctx)
	if r.Jobs > 0 {
		eg.SetLimit(r.Jobs)
	}
	for i := range results {
		res := &results[i]
		if err := egctx.Err(); err != nil {
			res.Err = err
			continue
		}
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				res.Err = err
				return nil
			}
			r.run(res)
			return nil
		})
	}
	// case failures land in results; no goroutine returns an error
	_ = eg.Wait()
	if err := ctx.Err(); err != nil {
		for _, res := range results {
			if errors.Is(res.Err, err) {
				return results, err
			}
		}
	}
	return results, nil
}

func (r Runner) run(res *Result) {
	var opts []postfix.Option
	if r.Logf != nil {
		loc := res.Location
		opts = append(opts, postfix.WithLogf(func(mess string, args ...interface{}) {
			r.Logf("%v: "+mess, append([]interface{}{loc}, args...)...)
		}))
	}
	res.Err = panicerr.Recover(res.Location.String(), func() (err error) {
		res.Value, err = postfix.CompileAndRun(res.Source, res.Args, opts...)
		return err
	})
}
