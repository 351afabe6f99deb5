package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jcorbin/gopostfix/internal/cases"
	"github.com/jcorbin/gopostfix/internal/flushio"
	"github.com/jcorbin/gopostfix/internal/logio"
	"github.com/jcorbin/gopostfix/internal/panicerr"
	"github.com/jcorbin/gopostfix/internal/source"
)

type cmdTest struct {
	name        string
	args        []string
	stdin       string
	interactive bool
	files       map[string]string

	expectOut  string
	expectLog  []string
	expectCode int
}

func runTest(name string, args ...string) cmdTest {
	return cmdTest{name: name, args: args}
}

func (ct cmdTest) withStdin(s string) cmdTest    { ct.stdin = s; return ct }
func (ct cmdTest) withTerminal() cmdTest         { ct.interactive = true; return ct }
func (ct cmdTest) expectOutput(s string) cmdTest { ct.expectOut = s; return ct }

func (ct cmdTest) withFile(name, content string) cmdTest {
	files := make(map[string]string, len(ct.files)+1)
	for k, v := range ct.files {
		files[k] = v
	}
	files[name] = content
	ct.files = files
	return ct
}

func (ct cmdTest) expectLogs(lines ...string) cmdTest {
	ct.expectLog = lines
	return ct
}

func (ct cmdTest) expectError(lines ...string) cmdTest {
	ct = ct.expectLogs(lines...)
	ct.expectCode = 1
	return ct
}

func (ct cmdTest) run(t *testing.T) {
	dir := t.TempDir()
	for name, content := range ct.files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	args := make([]string, len(ct.args))
	for i, arg := range ct.args {
		args[i] = strings.ReplaceAll(arg, "$DIR", dir)
	}

	var out, logOut bytes.Buffer
	log := logio.New(&logOut)
	cmd := command{
		stdin:       strings.NewReader(ct.stdin),
		interactive: ct.interactive,
		out:         flushio.NewWriteFlusher(&out),
		errOut:      &logOut,
		log:         log,
	}
	cmd.main(context.Background(), args)

	assert.Equal(t, ct.expectOut, out.String(), "expected output")
	if len(ct.expectLog) > 0 {
		logText := strings.ReplaceAll(logOut.String(), dir, "$DIR")
		for _, line := range ct.expectLog {
			assert.Contains(t, logText, line, "expected log line")
		}
	} else {
		assert.Equal(t, "", logOut.String(), "expected no log output")
	}
	assert.Equal(t, ct.expectCode, log.ExitCode(), "expected exit code")
}

func Test_command(t *testing.T) {
	t.Setenv("POSTFIX_DB", "")
	t.Setenv("POSTFIX_TRACE", "")

	for _, ct := range []cmdTest{
		runTest("inline", "-e", "(postfix 2 sub)", "7", "3").
			expectOutput("-4\n"),

		runTest("inline error", "-e", "(postfix 2 sub)", "7").
			expectError("ERROR: -e: program expects 2 arguments, given 1"),

		runTest("inline bad arg", "-e", "(postfix 1)", "seven").
			expectError(`ERROR: -e: invalid argument "seven"`),

		runTest("file", "$DIR/abs.postfix", "7").
			withFile("abs.postfix", "(postfix 1\n  1 nget 0 lt\n  (0 swap sub) () sel exec)\n").
			expectOutput("7\n"),

		runTest("missing file", "$DIR/nope.postfix").
			expectError("ERROR: open $DIR/nope.postfix"),

		runTest("cases", "-cases", "$DIR/cases.txt").
			withFile("cases.txt", "# some cases\n(postfix 2 sub) 7 3\n\n(postfix 1 (2 mul) exec) 7\n").
			expectOutput("(postfix 2 sub) 7 3 => -4\n(postfix 1 (2 mul) exec) 7 => 14\n"),

		runTest("failing cases", "-jobs", "1", "-cases", "$DIR/cases.txt").
			withFile("cases.txt", "(postfix 0 1 0 div)\n(postfix 0 1)\n").
			expectOutput("(postfix 0 1 0 div) => error: divide by zero\n(postfix 0 1) => 1\n").
			expectError("ERROR: 1 of 2 cases failed"),

		runTest("cases from stdin", "-cases", "-").
			withStdin("(postfix 0 4 5 add)\n").
			expectOutput("(postfix 0 4 5 add) => 9\n"),

		runTest("piped stdin").
			withStdin("(postfix 2 lt) 1 2\n").
			expectOutput("(postfix 2 lt) 1 2 => 0\n"),

		runTest("prompt").
			withTerminal().
			withStdin("(postfix 2 swap) 3 4\n\n(postfix 0 pop\n(postfix 0 1 0 rem)\n").
			expectOutput("postfix> 4\n" +
				"postfix> " +
				"postfix> error: unbalanced program brackets\n" +
				"postfix> error: divide by zero\n" +
				"postfix> \n"),

		runTest("prompt library").
			withTerminal().
			withStdin("double = (postfix 1 (2 mul) exec)\ndouble 21\nnope 1\nbad = (postfix 1\n").
			expectOutput("postfix> double = (postfix 1 (2 mul) exec)\n" +
				"postfix> 42\n" +
				"postfix> error: nope: program not found\n" +
				"postfix> error: bad: program must be of the form (postfix N ...)\n" +
				"postfix> \n"),

		runTest("trace", "-trace", "-e", "(postfix 0 1 (2 mul) exec)").
			expectOutput("2\n").
			expectLogs(
				"TRACE: exec 1 -- p:[(2 mul) exec] s:[]\n",
				"TRACE: exec mul -- p:[] s:[1 2]\n",
			),

		runTest("no library", "-list").
			expectError("ERROR: no library database given"),

		runTest("bad flag", "-nope").
			expectError("flag provided but not defined: -nope"),
	} {
		t.Run(ct.name, ct.run)
	}
}

func Test_command_library(t *testing.T) {
	t.Setenv("POSTFIX_TRACE", "")
	db := filepath.Join(t.TempDir(), "lib.db")

	runTest("save", "-db", db, "-save", "sub", "-e", "(postfix 2  sub)").
		expectOutput("sub = (postfix 2 sub)\n").run(t)
	runTest("save file", "-db", db, "-save", "double", "$DIR/double.postfix").
		withFile("double.postfix", "(postfix 1\n(2 mul)\nexec)").
		expectOutput("double = (postfix 1 (2 mul) exec)\n").run(t)
	runTest("save invalid", "-db", db, "-save", "broken", "-e", "(postfix 1 (2 mul exec)").
		expectError("ERROR: broken: unmatched left parenthesis").run(t)
	runTest("list", "-db", db, "-list").
		expectOutput("double\nsub\n").run(t)
	runTest("run", "-db", db, "-run", "sub", "10", "4").
		expectOutput("-6\n").run(t)
	runTest("run missing", "-db", db, "-run", "broken").
		expectError("ERROR: broken: program not found").run(t)

	t.Setenv("POSTFIX_DB", db)
	runTest("run from env", "-run", "double", "21").
		expectOutput("42\n").run(t)
	runTest("prompt from env").withTerminal().withStdin("sub 5 7\n").
		expectOutput("postfix> 2\npostfix> \n").run(t)

	runTest("delete", "-delete", "sub").run(t)
	runTest("delete missing", "-delete", "sub").
		expectError("ERROR: sub: program not found").run(t)
	runTest("list after delete", "-list").
		expectOutput("double\n").run(t)
}

func Test_command_logAbnormal(t *testing.T) {
	var out, logOut bytes.Buffer
	cmd := command{
		out:   flushio.NewWriteFlusher(&out),
		log:   logio.New(&logOut),
		trace: true,
	}
	res := cases.Result{Case: cases.Case{Location: source.Location{Name: "test", Line: 3}}}
	res.Err = panicerr.Recover("test:3", func() error { panic("boom") })
	cmd.logAbnormal(res)
	assert.Contains(t, logOut.String(), "TRACE: test:3: test:3 panicked: boom\n")
	assert.Contains(t, logOut.String(), panicerr.PanicStack(res.Err))

	logOut.Reset()
	res.Err = panicerr.Recover("test:3", func() error { runtime.Goexit(); return nil })
	cmd.logAbnormal(res)
	assert.Equal(t, "TRACE: test:3: test:3 exited early\n", logOut.String())

	logOut.Reset()
	cmd.trace = false
	cmd.logAbnormal(res)
	assert.Equal(t, "", logOut.String())
}
