package logio_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/jcorbin/gopostfix/internal/logio"
	"github.com/stretchr/testify/assert"
)

func Test_Logger(t *testing.T) {
	var out strings.Builder
	log := logio.New(&out)

	log.Printf("INFO", "hello %v", "world")
	log.Printf("", "plain")
	log.Leveledf("TRACE")("exec %v -- s:%v", "swap", "[3 4]")
	assert.Equal(t, 0, log.ExitCode(), "expected zero exit code before any error")

	log.ErrorIf(nil)
	assert.Equal(t, 0, log.ExitCode(), "expected nil error to not be logged")

	log.ErrorIf(errors.New("divide by zero"))
	assert.Equal(t, 1, log.ExitCode(), "expected non-zero exit code after error")

	assert.Equal(t, strings.Join([]string{
		"INFO: hello world",
		"plain",
		"TRACE: exec swap -- s:[3 4]",
		"ERROR: divide by zero",
		"",
	}, "\n"), out.String())
}

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) { return 0, errors.New("broken pipe") }

func Test_Logger_writeError(t *testing.T) {
	log := logio.New(failWriter{})
	log.Printf("INFO", "lost")
	assert.Equal(t, 2, log.ExitCode(), "expected write failure exit code")
}
