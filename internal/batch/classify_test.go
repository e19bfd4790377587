package batch

import (
	"errors"
	"os/exec"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgxgame/ck-loader/internal/model"
)

func exitError(t *testing.T, code int) error {
	t.Helper()
	err := exec.Command("/bin/sh", "-c", "exit "+strconv.Itoa(code)).Run()
	require.Error(t, err)
	var ee *exec.ExitError
	require.ErrorAs(t, err, &ee)
	return err
}

func TestClassify_NilErrorIsSuccess(t *testing.T) {
	out := Classify(nil, []byte("ignored"), 2*time.Second)
	assert.Equal(t, model.OutcomeSuccess, out.Kind)
	assert.Equal(t, 2*time.Second, out.Elapsed)
	assert.Empty(t, out.Diagnostic)
}

func TestClassify_ExitErrorCarriesStderr(t *testing.T) {
	out := Classify(exitError(t, 2), []byte("Code: 27. DB::Exception: bad ORC\n"), time.Second)
	assert.Equal(t, model.OutcomeFailure, out.Kind)
	assert.Equal(t, "Code: 27. DB::Exception: bad ORC", out.Diagnostic)
}

func TestClassify_ExitErrorWithoutStderrReportsCode(t *testing.T) {
	out := Classify(exitError(t, 3), nil, time.Second)
	assert.Equal(t, model.OutcomeFailure, out.Kind)
	assert.Equal(t, "exit code: 3", out.Diagnostic)
}

func TestClassify_WaitErrorIsFailure(t *testing.T) {
	out := Classify(errors.New("waitid: no child processes"), nil, time.Second)
	assert.Equal(t, model.OutcomeFailure, out.Kind)
	assert.Contains(t, out.Diagnostic, "no child processes")
}

func TestClassify_TruncatesLongDiagnostics(t *testing.T) {
	long := strings.Repeat("x", 3*maxDiagnosticRunes)
	out := Classify(exitError(t, 1), []byte(long), time.Second)
	assert.Len(t, []rune(out.Diagnostic), maxDiagnosticRunes)
}

func TestClassify_ReplacesInvalidUTF8(t *testing.T) {
	out := Classify(exitError(t, 1), []byte{0xff, 0xfe, 'o', 'k'}, time.Second)
	assert.True(t, strings.ContainsRune(out.Diagnostic, '�'))
	assert.Contains(t, out.Diagnostic, "ok")
}
