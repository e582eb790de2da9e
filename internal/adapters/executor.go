package adapters

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	codejudgeerrors "codejudge/internal/errors"
	"codejudge/internal/verdict"
)

// maxOutputBytes caps how much of a program's stdout/stderr is retained.
const maxOutputBytes = 10 << 20

// LocalExecutor compiles and runs a program with the local toolchain,
// standing in for the hosted sandboxed execution service. Each invocation
// owns a private temp directory which is removed on every exit path; the
// run is bounded by the caller's context deadline.
type LocalExecutor struct {
	Compilers map[string][]string // language tag -> compiler argv prefix
	Logger    *zap.Logger
}

// NewLocalExecutor builds a LocalExecutor with clang/clang++ defaults.
func NewLocalExecutor(logger *zap.Logger) *LocalExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalExecutor{
		Compilers: map[string][]string{
			"c":   {"clang", "-x", "c"},
			"cpp": {"clang++", "-x", "c++"},
		},
		Logger: logger,
	}
}

// Execute implements verdict.Executor: write the source to a temp file,
// compile it, run the binary with the given stdin, and report stdout,
// stderr, exit code, and wall time. Output beyond the buffer cap is
// discarded rather than failing the run.
func (e *LocalExecutor) Execute(ctx context.Context, in verdict.ProgramInput, stdin string) (verdict.ExecResult, error) {
	argv, ok := e.Compilers[in.Language]
	if !ok {
		return verdict.ExecResult{}, codejudgeerrors.New(codejudgeerrors.InvalidInput, "unsupported language: "+in.Language)
	}

	dir, err := os.MkdirTemp("", "codejudge-exec-*")
	if err != nil {
		return verdict.ExecResult{}, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	srcPath := filepath.Join(dir, "prog."+in.Language)
	binPath := filepath.Join(dir, "prog")
	if err := os.WriteFile(srcPath, []byte(in.Source), 0o600); err != nil {
		return verdict.ExecResult{}, fmt.Errorf("writing source: %w", err)
	}

	compileArgs := append(append([]string(nil), argv[1:]...), srcPath, "-o", binPath)
	compile := exec.CommandContext(ctx, argv[0], compileArgs...)
	var compileErr bytes.Buffer
	compile.Stderr = &compileErr
	if err := compile.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return verdict.ExecResult{}, codejudgeerrors.Wrap(codejudgeerrors.ExecTimeout, "compilation timed out", err)
		}
		return verdict.ExecResult{
			Stderr:   truncate(compileErr.String()),
			ExitCode: exitCode(err),
		}, nil
	}

	var stdout, stderr cappedBuffer
	run := exec.CommandContext(ctx, binPath)
	run.Dir = dir
	run.Stdin = bytes.NewBufferString(stdin)
	run.Stdout = &stdout
	run.Stderr = &stderr

	start := time.Now()
	runErr := run.Run()
	wall := time.Since(start)

	if ctx.Err() == context.DeadlineExceeded {
		return verdict.ExecResult{
			Stdout:          stdout.String(),
			Stderr:          stderr.String(),
			ExitCode:        -1,
			WallTimeSeconds: wall.Seconds(),
		}, codejudgeerrors.Wrap(codejudgeerrors.ExecTimeout, "execution timed out", runErr)
	}

	result := verdict.ExecResult{
		Stdout:          stdout.String(),
		Stderr:          stderr.String(),
		ExitCode:        exitCode(runErr),
		WallTimeSeconds: wall.Seconds(),
	}
	e.Logger.Debug("program executed",
		zap.String("language", in.Language),
		zap.Int("exit_code", result.ExitCode),
		zap.Float64("wall_seconds", result.WallTimeSeconds))
	return result, nil
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if ee, ok := err.(*exec.ExitError); ok {
		return ee.ExitCode()
	}
	return -1
}

func truncate(s string) string {
	if len(s) > maxOutputBytes {
		return s[:maxOutputBytes]
	}
	return s
}

// cappedBuffer is a bytes.Buffer that silently stops retaining data past
// the output cap, so a runaway program cannot exhaust memory.
type cappedBuffer struct {
	buf bytes.Buffer
}

func (c *cappedBuffer) Write(p []byte) (int, error) {
	remaining := maxOutputBytes - c.buf.Len()
	if remaining <= 0 {
		return len(p), nil
	}
	if len(p) > remaining {
		_, _ = c.buf.Write(p[:remaining])
		return len(p), nil
	}
	return c.buf.Write(p)
}

func (c *cappedBuffer) String() string { return c.buf.String() }
