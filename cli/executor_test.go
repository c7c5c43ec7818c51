package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hellochain/hello-go/cli/app"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
)

const (
	authorityKey = "4uQeVj5tqViQh7yWWGStvkEG1Zmhx6uasJtWCJziofM"
	storageKey   = "TokenkegQfeZyiNwAJbNbGZPFXCWuWvf9Ss623VQ5DA"
)

// executor represents context for a test instance.
// It can be safely used in multiple tests, but not in parallel.
type executor struct {
	// CLI is a cli application to test.
	CLI *cli.App
	// ConfigFile is the node configuration used by commands.
	ConfigFile string
	// Out contains command output.
	Out *bytes.Buffer
	// Err contains command errors.
	Err *bytes.Buffer
}

func newExecutor(t *testing.T) *executor {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "hello.yml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(`ApplicationConfiguration:
  DBConfiguration:
    Type: leveldb
    LevelDBOptions:
      DataDirectoryPath: `+filepath.Join(dir, "chain")+`
  LogPath: `+filepath.Join(dir, "hello.log")+`
`), 0o644))

	e := &executor{
		CLI:        app.New(),
		ConfigFile: cfgFile,
		Out:        bytes.NewBuffer(nil),
		Err:        bytes.NewBuffer(nil),
	}
	e.CLI.Writer = e.Out
	e.CLI.ErrWriter = e.Err
	return e
}

func (e *executor) getNextLine(t *testing.T) string {
	line, err := e.Out.ReadString('\n')
	require.NoError(t, err)
	return strings.TrimSuffix(line, "\n")
}

func (e *executor) checkNextLine(t *testing.T, expected string) {
	line := e.getNextLine(t)
	e.checkLine(t, line, expected)
}

func (e *executor) checkLine(t *testing.T, line, expected string) {
	require.Regexp(t, expected, line)
}

func (e *executor) checkEOF(t *testing.T) {
	_, err := e.Out.ReadString('\n')
	require.True(t, errors.Is(err, io.EOF))
}

func setExitFunc() <-chan int {
	ch := make(chan int, 1)
	cli.OsExiter = func(code int) {
		ch <- code
	}
	return ch
}

func checkExit(t *testing.T, ch <-chan int, code int) {
	select {
	case c := <-ch:
		require.Equal(t, code, c)
	default:
		if code != 0 {
			require.Fail(t, "no exit was called")
		}
	}
}

// RunWithError runs command and checks that is exits with error.
func (e *executor) RunWithError(t *testing.T, args ...string) {
	ch := setExitFunc()
	require.Error(t, e.run(args...))
	checkExit(t, ch, 1)
}

// Run runs command and checks that there were no errors.
func (e *executor) Run(t *testing.T, args ...string) {
	ch := setExitFunc()
	require.NoError(t, e.run(args...))
	checkExit(t, ch, 0)
}

// RunWithConfig runs the command with the executor configuration appended.
func (e *executor) RunWithConfig(t *testing.T, args ...string) {
	e.Run(t, e.withConfig(args)...)
}

// RunWithConfigError runs the command with the executor configuration
// appended and checks that it fails.
func (e *executor) RunWithConfigError(t *testing.T, args ...string) {
	e.RunWithError(t, e.withConfig(args)...)
}

// withConfig inserts --config-file right after the (sub)command name so
// that positional arguments stay at the end.
func (e *executor) withConfig(args []string) []string {
	i := 1
	for i < len(args) && !strings.HasPrefix(args[i], "-") {
		i++
	}
	res := append([]string{}, args[:i]...)
	res = append(res, "--config-file", e.ConfigFile)
	return append(res, args[i:]...)
}

func (e *executor) run(args ...string) error {
	e.Out.Reset()
	e.Err.Reset()
	return e.CLI.Run(args)
}
