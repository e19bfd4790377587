package batch

import (
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/bgxgame/ck-loader/internal/model"
)

// maxDiagnosticRunes bounds how much diagnostic text an outcome carries.
const maxDiagnosticRunes = 2000

// Classify maps a finished child's wait result and captured stderr to an
// outcome. It is a pure function: no I/O, no side effects.
//
// A nil wait error is a success. An exit error is a loader failure carrying
// the captured stderr; when the loader wrote nothing the exit code stands in.
// Any other wait error means the process could not be waited on and is also
// a failure, with the OS error as diagnostic.
func Classify(waitErr error, stderr []byte, elapsed time.Duration) model.Outcome {
	if waitErr == nil {
		return model.Outcome{Kind: model.OutcomeSuccess, Elapsed: elapsed}
	}

	var diagnostic string
	if exitErr, ok := waitErr.(*exec.ExitError); ok {
		diagnostic = sanitize(stderr)
		if diagnostic == "" {
			diagnostic = fmt.Sprintf("exit code: %d", exitErr.ExitCode())
		}
	} else {
		diagnostic = sanitize([]byte(waitErr.Error()))
	}

	return model.Outcome{
		Kind:       model.OutcomeFailure,
		Elapsed:    elapsed,
		Diagnostic: diagnostic,
	}
}

// sanitize decodes diagnostic bytes permissively and truncates them for
// display. Invalid UTF-8 is replaced, never rejected.
func sanitize(b []byte) string {
	s := strings.ToValidUTF8(strings.TrimSpace(string(b)), "�")
	runes := []rune(s)
	if len(runes) > maxDiagnosticRunes {
		return string(runes[:maxDiagnosticRunes])
	}
	return s
}
