package batch

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/bgxgame/ck-loader/internal/config"
	"github.com/bgxgame/ck-loader/internal/loader"
	"github.com/bgxgame/ck-loader/internal/model"
)

// runJob executes one admitted job start to finish: re-check the file,
// open it, start the loader and race its exit against the deadline. Every
// way a job can go wrong is contained in the returned outcome.
func runJob(log zerolog.Logger, cfg *config.Config, job model.Job) model.Outcome {
	start := time.Now()
	log.Info().Str("file", job.Name).Msg("job starting")

	// The file may have been moved or deleted between enumeration and
	// admission.
	if _, err := os.Stat(job.Path); err != nil {
		return model.Outcome{
			Kind:       model.OutcomeSkipped,
			Elapsed:    time.Since(start),
			Diagnostic: fmt.Sprintf("file vanished before start: %s", err),
		}
	}

	f, err := os.Open(job.Path)
	if err != nil {
		return model.Outcome{
			Kind:       model.OutcomeSkipped,
			Elapsed:    time.Since(start),
			Diagnostic: fmt.Sprintf("open: %s", err),
		}
	}
	defer f.Close()

	child, err := loader.Start(f, cfg)
	if err != nil {
		// A spawn error fails this job only, never the whole batch.
		return model.Outcome{
			Kind:       model.OutcomeFailure,
			Elapsed:    time.Since(start),
			Diagnostic: fmt.Sprintf("start loader: %s", err),
		}
	}

	waitErr, timedOut := supervise(log, job, child, cfg.Timeout())
	if timedOut {
		return model.Outcome{
			Kind:       model.OutcomeTimeout,
			Elapsed:    time.Since(start),
			Diagnostic: fmt.Sprintf("import exceeded %s, process killed", cfg.Timeout()),
		}
	}
	return Classify(waitErr, child.Stderr(), time.Since(start))
}

// supervise races the child's natural exit against the deadline. Exactly one
// branch wins. On timeout the child is killed best-effort and always reaped,
// so no zombie or wait goroutine outlives the job.
func supervise(log zerolog.Logger, job model.Job, child *loader.Child, timeout time.Duration) (waitErr error, timedOut bool) {
	done := make(chan error, 1)
	go func() {
		done <- child.Wait()
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		return err, false
	case <-timer.C:
		if err := child.Kill(); err != nil {
			log.Warn().Err(err).Str("file", job.Name).Msg("kill after timeout failed")
		}
		<-done
		return nil, true
	}
}
