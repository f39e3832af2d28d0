package probe

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// CommandRunner abstracts process invocation so the engine can run against
// the local host or a remote one. A non-zero exit or execution failure is
// reported through exitCode/err and treated by callers as "source absent".
type CommandRunner interface {
	// Run executes name with args and returns its stdout and exit code.
	Run(ctx context.Context, name string, args ...string) (stdout string, exitCode int, err error)

	// LookPath reports whether name resolves to an executable.
	LookPath(name string) bool
}

// FileReader abstracts pseudo-file access. A missing or unreadable path is
// "source absent", never a fault.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
	Glob(pattern string) ([]string, error)
}

// LocalRunner executes commands on the local system.
type LocalRunner struct{}

func NewLocalRunner() *LocalRunner {
	return &LocalRunner{}
}

// Run executes the command locally. Stderr is discarded; inventory tools
// print warnings there that are of no use to the engine.
func (r *LocalRunner) Run(ctx context.Context, name string, args ...string) (string, int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.Output()
	if err != nil {
		exitCode := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		return "", exitCode, err
	}
	return string(output), 0, nil
}

// LookPath checks the local search path.
func (r *LocalRunner) LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// LocalFS reads files from the local filesystem.
type LocalFS struct{}

func NewLocalFS() *LocalFS {
	return &LocalFS{}
}

func (f *LocalFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (f *LocalFS) Glob(pattern string) ([]string, error) {
	return filepath.Glob(pattern)
}

// firstLine returns the first line of s with surrounding whitespace removed.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
