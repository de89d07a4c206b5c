// Package e2e provides testing infrastructure for end-to-end CLI tests.
// It includes a test harness for running CLI commands, fixture management,
// and utilities for setting up isolated storage and project directories.
package e2e

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauern/skillcast/internal/cli"
	"github.com/klauern/skillcast/internal/util"
)

// Result contains the outcome of running a CLI command.
type Result struct {
	// Stdout contains the captured standard output.
	Stdout string
	// Err is the error returned by the CLI command, if any.
	Err error
	// Message is the line main prints for Err.
	Message string
	// ExitCode is the inferred exit code (0 for success, 1 for error).
	ExitCode int
}

// Success returns true if the command completed without error.
func (r *Result) Success() bool {
	return r.Err == nil
}

// Harness provides a test harness for running E2E CLI tests.
// It manages environment isolation, temp directories, and output capture.
type Harness struct {
	t          *testing.T
	homeDir    string
	storageDir string
	projectDir string
}

// NewHarness creates a new E2E test harness.
// It points SKILLCAST_HOME and SKILLCAST_PROJECT at fresh directories and
// disables colors so output can be matched literally.
func NewHarness(t *testing.T) *Harness {
	t.Helper()

	homeDir := util.CreateTempDir(t)
	h := &Harness{
		t:          t,
		homeDir:    homeDir,
		storageDir: filepath.Join(homeDir, ".skillcast"),
		projectDir: filepath.Join(homeDir, "project"),
	}
	if err := os.MkdirAll(h.projectDir, 0o750); err != nil {
		t.Fatalf("failed to create project directory: %v", err)
	}

	t.Setenv("HOME", homeDir)
	t.Setenv(util.HomeEnv, h.storageDir)
	t.Setenv(util.ProjectEnv, h.projectDir)
	t.Setenv("SKILLCAST_OUTPUT_COLOR", "never")
	t.Setenv("SKILLCAST_OUTPUT_FORMAT", "")
	t.Setenv("SKILLCAST_LANG", "")

	return h
}

// SetEnv sets an environment variable for CLI commands run through this harness.
// The environment will be restored after the test completes.
func (h *Harness) SetEnv(key, value string) {
	h.t.Helper()
	h.t.Setenv(key, value)
}

// HomeDir returns the isolated home directory for this test harness.
func (h *Harness) HomeDir() string {
	return h.homeDir
}

// StorageDir returns the skillcast home ($SKILLCAST_HOME).
func (h *Harness) StorageDir() string {
	return h.storageDir
}

// SourcesDir returns the directory holding one entry per registered source.
func (h *Harness) SourcesDir() string {
	return filepath.Join(h.storageDir, "sources")
}

// ProjectDir returns the project root commands act on.
func (h *Harness) ProjectDir() string {
	return h.projectDir
}

// Run executes a CLI command with the given arguments and captures the output.
func (h *Harness) Run(args ...string) *Result {
	h.t.Helper()

	// Prepend "skillcast" as the program name if not provided
	if len(args) == 0 || args[0] != "skillcast" {
		args = append([]string{"skillcast"}, args...)
	}

	// Capture stdout
	oldStdout := os.Stdout
	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		h.t.Fatalf("failed to create stdout pipe: %v", err)
	}
	os.Stdout = stdoutW

	// Read stdout concurrently so output larger than the pipe buffer
	// cannot block the command.
	var stdoutBuf bytes.Buffer
	var copyErr error
	copyDone := make(chan struct{})
	go func() {
		defer close(copyDone)
		_, copyErr = io.Copy(&stdoutBuf, stdoutR)
	}()

	cmdErr := cli.Run(context.Background(), args)

	// Restore stdout and close writer to signal EOF to the reader goroutine
	if err := stdoutW.Close(); err != nil {
		h.t.Fatalf("failed to close stdout pipe writer: %v", err)
	}
	os.Stdout = oldStdout

	<-copyDone
	if copyErr != nil {
		h.t.Fatalf("failed to read captured stdout: %v", copyErr)
	}

	result := &Result{Stdout: stdoutBuf.String(), Err: cmdErr}
	if cmdErr != nil {
		result.ExitCode = 1
		result.Message = cli.FormatError(cmdErr)
	}
	return result
}
