package adapters

import (
	"context"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	codejudgeerrors "codejudge/internal/errors"
	"codejudge/internal/verdict"
)

func TestCappedBuffer_StopsAtCap(t *testing.T) {
	var b cappedBuffer
	chunk := strings.Repeat("x", 1<<20)
	for i := 0; i < 12; i++ {
		n, err := b.Write([]byte(chunk))
		require.NoError(t, err)
		assert.Equal(t, len(chunk), n)
	}
	assert.Equal(t, maxOutputBytes, len(b.String()))
}

func TestLocalExecutor_UnsupportedLanguage(t *testing.T) {
	e := NewLocalExecutor(nil)
	_, err := e.Execute(context.Background(), verdict.ProgramInput{Language: "fortran"}, "")
	require.Error(t, err)
	assert.True(t, codejudgeerrors.Is(err, codejudgeerrors.InvalidInput))
}

func TestLocalExecutor_RunsProgram(t *testing.T) {
	if _, err := exec.LookPath("clang"); err != nil {
		t.Skip("clang not on PATH")
	}

	e := NewLocalExecutor(nil)
	res, err := e.Execute(context.Background(), verdict.ProgramInput{
		Language: "c",
		Source:   "#include <stdio.h>\nint main(void){int x;if(scanf(\"%d\",&x)!=1)return 1;printf(\"%d\\n\",x*2);return 0;}",
	}, "21\n")

	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "42\n", res.Stdout)
	assert.GreaterOrEqual(t, res.WallTimeSeconds, 0.0)
}

func TestLocalExecutor_CompileErrorReportsStderr(t *testing.T) {
	if _, err := exec.LookPath("clang"); err != nil {
		t.Skip("clang not on PATH")
	}

	e := NewLocalExecutor(nil)
	res, err := e.Execute(context.Background(), verdict.ProgramInput{
		Language: "c",
		Source:   "int main(void){return", // unterminated
	}, "")

	require.NoError(t, err)
	assert.NotEqual(t, 0, res.ExitCode)
	assert.NotEmpty(t, res.Stderr)
}
