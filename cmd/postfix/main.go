// Command postfix compiles and runs postfix programs.
//
// Usage:
//
//	postfix FILE ARGS...            run the program in FILE
//	postfix -e SOURCE ARGS...       run an inline program
//	postfix -cases FILE             run a batch of "(program) args..." lines
//	postfix -db PATH -save NAME FILE|-e SOURCE
//	postfix -db PATH -run NAME ARGS...
//	postfix -db PATH -list
//	postfix -db PATH -delete NAME
//
// With no program given, case lines are read from stdin; a prompt is shown
// when stdin is a terminal. At the prompt, "NAME = (postfix ...)" saves a
// program, and "NAME ARGS..." runs a saved one; programs are kept in the -db
// library if given, otherwise only for the session.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goforj/godump"
	"github.com/xyproto/env/v2"
	"golang.org/x/term"

	"github.com/jcorbin/gopostfix"
	"github.com/jcorbin/gopostfix/internal/cases"
	"github.com/jcorbin/gopostfix/internal/flushio"
	"github.com/jcorbin/gopostfix/internal/library"
	"github.com/jcorbin/gopostfix/internal/logio"
	"github.com/jcorbin/gopostfix/internal/panicerr"
	"github.com/jcorbin/gopostfix/internal/source"
)

func main() {
	log := logio.New(os.Stderr)
	cmd := command{
		stdin:       os.Stdin,
		interactive: term.IsTerminal(int(os.Stdin.Fd())),
		out:         flushio.NewWriteFlusher(os.Stdout),
		errOut:      os.Stderr,
		log:         log,
	}
	cmd.main(context.Background(), os.Args[1:])
	os.Exit(log.ExitCode())
}

type command struct {
	stdin       io.Reader
	interactive bool
	out         flushio.WriteFlusher
	errOut      io.Writer
	log         *logio.Logger

	eval       string
	casesFile  string
	dbPath     string
	save       string
	runName    string
	deleteName string
	list       bool
	trace      bool
	dump       bool
	jobs       int
	timeout    time.Duration

	opts []postfix.Option
}

func (cmd *command) main(ctx context.Context, args []string) {
	defer func() { cmd.log.ErrorIf(cmd.out.Flush()) }()

	flags := flag.NewFlagSet("postfix", flag.ContinueOnError)
	flags.SetOutput(cmd.errOut)
	flags.StringVar(&cmd.eval, "e", "", "run the given program source")
	flags.StringVar(&cmd.casesFile, "cases", "", "run every case line in a file; - reads stdin")
	flags.StringVar(&cmd.dbPath, "db", env.Str("POSTFIX_DB", ""), "program library database path")
	flags.StringVar(&cmd.save, "save", "", "compile a program and save it to the library under a name")
	flags.StringVar(&cmd.runName, "run", "", "run a program from the library")
	flags.StringVar(&cmd.deleteName, "delete", "", "delete a program from the library")
	flags.BoolVar(&cmd.list, "list", false, "list programs in the library")
	flags.BoolVar(&cmd.trace, "trace", env.Bool("POSTFIX_TRACE"), "enable trace logging")
	flags.BoolVar(&cmd.dump, "dump", false, "dump compiled programs before running them")
	flags.IntVar(&cmd.jobs, "jobs", env.Int("POSTFIX_JOBS", 4), "how many cases to run at once")
	flags.DurationVar(&cmd.timeout, "timeout", 0, "specify a time limit for running cases")
	if err := flags.Parse(args); err != nil {
		if err != flag.ErrHelp {
			cmd.log.ErrorIf(err)
		}
		return
	}

	if cmd.trace {
		cmd.opts = append(cmd.opts, postfix.WithLogf(cmd.log.Leveledf("TRACE")))
	}
	if cmd.timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cmd.timeout)
		defer cancel()
	}

	if cmd.list || cmd.save != "" || cmd.runName != "" || cmd.deleteName != "" {
		cmd.log.ErrorIf(cmd.withLibrary(flags.Args()))
		return
	}

	switch {
	case cmd.casesFile != "":
		cmd.log.ErrorIf(cmd.runCasesFile(ctx, cmd.casesFile))
	case cmd.eval != "":
		cmd.log.ErrorIf(cmd.runSource("-e", cmd.eval, flags.Args()))
	case flags.NArg() > 0:
		cmd.log.ErrorIf(cmd.runFile(flags.Arg(0), flags.Args()[1:]))
	case cmd.interactive:
		cmd.log.ErrorIf(cmd.prompt(ctx))
	default:
		cmd.log.ErrorIf(cmd.runCases(ctx, source.NamedReader("<stdin>", cmd.stdin)))
	}
}

func (cmd *command) withLibrary(args []string) error {
	if cmd.dbPath == "" {
		return errors.New("no library database given; use -db or set POSTFIX_DB")
	}
	st, err := library.OpenSQLite(cmd.dbPath)
	if err != nil {
		return fmt.Errorf("%v: %w", cmd.dbPath, err)
	}
	defer func() { cmd.log.ErrorIf(st.Close()) }()

	switch {
	case cmd.deleteName != "":
		if _, err := st.Get(cmd.deleteName); err != nil {
			return fmt.Errorf("%v: %w", cmd.deleteName, err)
		}
		return st.Delete(cmd.deleteName)

	case cmd.list:
		names, err := st.Names()
		for _, name := range names {
			fmt.Fprintln(cmd.out, name)
		}
		return err

	case cmd.save != "":
		src := cmd.eval
		if src == "" {
			if len(args) == 0 {
				return errors.New("-save needs a program FILE or -e SOURCE")
			}
			if src, err = source.ReadFile(args[0]); err != nil {
				return err
			}
		}
		prog, err := library.Save(st, cmd.save, src)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.out, "%v = %v\n", cmd.save, prog)
		return nil

	default:
		prog, err := library.Load(st, cmd.runName)
		if err != nil {
			return err
		}
		return cmd.runProgram(cmd.runName, prog, args)
	}
}

func (cmd *command) runFile(name string, args []string) error {
	src, err := source.ReadFile(name)
	if err != nil {
		return err
	}
	return cmd.runSource(name, src, args)
}

func (cmd *command) runSource(name, src string, args []string) error {
	prog, err := postfix.Compile(src)
	if err != nil {
		return fmt.Errorf("%v: %w", name, err)
	}
	return cmd.runProgram(name, prog, args)
}

func (cmd *command) runProgram(name string, prog *postfix.Program, strArgs []string) error {
	args, err := parseArgs(strArgs)
	if err != nil {
		return fmt.Errorf("%v: %w", name, err)
	}
	if cmd.dump {
		if err := cmd.out.Flush(); err != nil {
			return err
		}
		godump.Dump(prog)
	}
	value, err := prog.Run(args, cmd.opts...)
	if err != nil {
		return fmt.Errorf("%v: %w", name, err)
	}
	_, err = fmt.Fprintln(cmd.out, value)
	return err
}

func (cmd *command) runCasesFile(ctx context.Context, name string) error {
	if name == "-" {
		return cmd.runCases(ctx, source.NamedReader("<stdin>", cmd.stdin))
	}
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	return cmd.runCases(ctx, f)
}

func (cmd *command) runCases(ctx context.Context, r io.Reader) error {
	in := source.Input{Queue: []io.Reader{r}}
	defer in.Close()
	all, err := cases.ReadAll(&in)
	if err != nil {
		return err
	}
	if cmd.dump {
		if err := cmd.out.Flush(); err != nil {
			return err
		}
		godump.Dump(all)
	}

	results, err := cmd.runner().Run(ctx, all)
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			cmd.logAbnormal(res)
			failed++
		}
		fmt.Fprintln(cmd.out, res)
	}
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%v of %v cases failed", failed, len(results))
	}
	return nil
}

func (cmd *command) prompt(ctx context.Context) error {
	var st library.Store = library.NewMemory()
	if cmd.dbPath != "" {
		sqlst, err := library.OpenSQLite(cmd.dbPath)
		if err != nil {
			return fmt.Errorf("%v: %w", cmd.dbPath, err)
		}
		st = sqlst
	}
	defer func() { cmd.log.ErrorIf(st.Close()) }()

	in := source.Input{Queue: []io.Reader{source.NamedReader("<stdin>", cmd.stdin)}}
	defer in.Close()
	for {
		fmt.Fprint(cmd.out, "postfix> ")
		if err := cmd.out.Flush(); err != nil {
			return err
		}
		line, err := in.ReadLine()
		if err == io.EOF {
			fmt.Fprintln(cmd.out)
			return nil
		} else if err != nil {
			return err
		}
		text := strings.TrimSpace(line.Text)
		if text == "" {
			continue
		}

		if !strings.HasPrefix(text, "(") {
			if err := cmd.promptLibrary(st, text); err != nil {
				fmt.Fprintf(cmd.out, "error: %v\n", err)
			}
			continue
		}

		c, err := cases.Parse(text)
		if err != nil {
			fmt.Fprintf(cmd.out, "error: %v\n", err)
			continue
		}
		c.Location = line.Location
		results, err := cmd.runner().Run(ctx, []cases.Case{c})
		if err != nil {
			return err
		}
		if res := results[0]; res.Err != nil {
			cmd.logAbnormal(res)
			fmt.Fprintf(cmd.out, "error: %v\n", res.Err)
		} else {
			fmt.Fprintln(cmd.out, res.Value)
		}
	}
}

// promptLibrary handles "NAME = SOURCE" and "NAME ARGS..." prompt lines.
func (cmd *command) promptLibrary(st library.Store, text string) error {
	if i := strings.IndexByte(text, '='); i >= 0 {
		name := strings.TrimSpace(text[:i])
		prog, err := library.Save(st, name, strings.TrimSpace(text[i+1:]))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.out, "%v = %v\n", name, prog)
		return err
	}
	fields := strings.Fields(text)
	prog, err := library.Load(st, fields[0])
	if err != nil {
		return err
	}
	return cmd.runProgram(fields[0], prog, fields[1:])
}

// logAbnormal logs the stack of a case that panicked, under -trace.
func (cmd *command) logAbnormal(res cases.Result) {
	if !cmd.trace {
		return
	}
	switch {
	case panicerr.IsPanic(res.Err):
		cmd.log.Printf("TRACE", "%v: %v\n%s", res.Location, res.Err, panicerr.PanicStack(res.Err))
	case panicerr.IsExit(res.Err):
		cmd.log.Printf("TRACE", "%v: %v", res.Location, res.Err)
	}
}

func (cmd *command) runner() cases.Runner {
	runner := cases.Runner{Jobs: cmd.jobs}
	if cmd.trace {
		runner.Logf = cmd.log.Leveledf("TRACE")
	}
	return runner
}

func parseArgs(strs []string) ([]int, error) {
	args := make([]int, len(strs))
	for i, s := range strs {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid argument %q: %w", s, err)
		}
		args[i] = n
	}
	return args, nil
}
