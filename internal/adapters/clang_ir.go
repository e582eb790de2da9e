// Package adapters holds the CLI-local, best-effort implementations of the
// external collaborators the comparison core treats as out of scope:
// IR production, parsing, sandboxed execution, and the secondary judge.
// They are thin and swappable: production
// deployments would replace ClangIR with the hosted IR-production service
// and CParser with a real tree-sitter binding, without touching the core.
package adapters

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	codejudgeerrors "codejudge/internal/errors"
	"codejudge/internal/verdict"
)

// ClangIR shells out to a local clang binary to lower a source program to
// LLVM textual IR. Bounded entirely by the context deadline the
// orchestrator assigns per call; never retried.
type ClangIR struct {
	BinaryPath string // defaults to "clang" on PATH when empty
	Logger     *zap.Logger
}

// NewClangIR builds a ClangIR adapter. A nil logger falls back to a no-op.
func NewClangIR(binaryPath string, logger *zap.Logger) *ClangIR {
	if binaryPath == "" {
		binaryPath = "clang"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClangIR{BinaryPath: binaryPath, Logger: logger}
}

var languageFlag = map[string]string{
	"c":   "c",
	"cpp": "c++",
}

// ProduceIR implements verdict.IRProducer by invoking
// `clang -S -emit-llvm -x <lang> -o - -` with the source fed over stdin.
func (c *ClangIR) ProduceIR(ctx context.Context, in verdict.ProgramInput) (string, error) {
	lang, ok := languageFlag[in.Language]
	if !ok {
		return "", codejudgeerrors.New(codejudgeerrors.InvalidInput, "unsupported language: "+in.Language)
	}

	cmd := exec.CommandContext(ctx, c.BinaryPath, "-S", "-emit-llvm", "-x", lang, "-o", "-", "-")
	cmd.Stdin = strings.NewReader(in.Source)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", codejudgeerrors.Wrap(codejudgeerrors.ExecTimeout, "clang timed out", err)
		}
		c.Logger.Warn("clang invocation failed", zap.Error(err), zap.String("stderr", stderr.String()))
		return "", codejudgeerrors.Wrap(codejudgeerrors.IRUnavailable, "clang failed: "+stderr.String(), err)
	}
	return stdout.String(), nil
}
