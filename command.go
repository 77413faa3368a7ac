package sifbuild

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Command is a structured description of one external invocation: a program
// name plus an ordered argument list. Commands are spawned directly, never
// passed through a shell.
type Command struct {
	// Program is the binary to invoke
	Program string

	// Args are the arguments, in order, not including the program itself
	Args []string

	// Dir is the working directory for the invocation. Empty means the
	// current process directory.
	Dir string
}

// String formats the command for display. Values containing spaces or
// quotes are escaped so the printed line round-trips readably.
func (c Command) String() string {
	parts := []string{c.Program}
	for _, arg := range c.Args {
		if strings.ContainsAny(arg, " \"") {
			arg = strconv.Quote(arg)
		}
		parts = append(parts, arg)
	}
	return strings.Join(parts, " ")
}

// Runner executes external commands. The orchestrator depends on this
// interface so tests can substitute a fake that records invocations.
type Runner interface {
	// Run executes the command, streaming its output to the terminal, and
	// returns an error if it exits non-zero
	Run(cmd Command) error

	// Output executes the command and returns its standard output
	Output(cmd Command) (string, error)

	// LookPath reports whether the given program can be found on PATH
	LookPath(program string) error
}

// ExecRunner runs commands via os/exec with stdout and stderr wired to the
// terminal. Stderr is additionally captured so failures carry the tool's
// diagnostics.
type ExecRunner struct{}

// Run executes the command, streaming output to the terminal
func (ExecRunner) Run(command Command) error {
	zlog.Debug("executing command",
		zap.String("program", command.Program),
		zap.Strings("args", command.Args))

	cmd := exec.Command(command.Program, command.Args...)
	cmd.Dir = command.Dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", command.Program, err)
	}
	return nil
}

// Output executes the command and returns its trimmed standard output
func (ExecRunner) Output(command Command) (string, error) {
	zlog.Debug("executing command for output",
		zap.String("program", command.Program),
		zap.Strings("args", command.Args))

	cmd := exec.Command(command.Program, command.Args...)
	cmd.Dir = command.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s failed: %w (stderr: %s)", command.Program, err, stderr.String())
	}
	return strings.TrimSpace(stdout.String()), nil
}

// LookPath reports whether the program is available on PATH
func (ExecRunner) LookPath(program string) error {
	_, err := exec.LookPath(program)
	return err
}
