// Package batch is the bounded-concurrency orchestrator: it turns one
// snapshot of the source directory into a supervised set of concurrent load
// jobs, classifies each outcome, relocates succeeded files and aggregates a
// run summary.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/bgxgame/ck-loader/internal/config"
	"github.com/bgxgame/ck-loader/internal/loader"
	"github.com/bgxgame/ck-loader/internal/model"
)

// RunError wraps a fatal setup error with the phase where it occurred.
// Per-job errors never surface here; they are contained in job outcomes.
type RunError struct {
	Phase string
	Err   error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// Enumerate takes one snapshot of the regular files in dir, non-recursive.
// Symlinks are followed, so a linked data file loads like any other;
// subdirectories, including the done directory, and broken links are
// skipped. Files that appear after the snapshot are picked up by the next
// run.
func Enumerate(dir string) ([]model.Job, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}
	jobs := make([]model.Job, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		jobs = append(jobs, model.NewJob(path))
	}
	return jobs, nil
}

// Run executes the whole batch: enumerate, prepare the done directory,
// launch one goroutine per file bounded by the worker semaphore, wait for
// all of them and aggregate. One outcome is produced per enumerated file no
// matter how individual jobs end; only enumeration, done-directory creation
// and the loader preflight are fatal.
func Run(ctx context.Context, log zerolog.Logger, cfg *config.Config) (*model.RunSummary, error) {
	start := time.Now()
	summary := &model.RunSummary{RunID: uuid.New().String()}
	log = log.With().Str("run_id", summary.RunID).Logger()

	jobs, err := Enumerate(cfg.Dir)
	if err != nil {
		return nil, &RunError{Phase: "enumerate", Err: err}
	}
	summary.Total = len(jobs)

	if len(jobs) == 0 {
		log.Info().Str("dir", cfg.Dir).Msg("no files found, nothing to do")
		summary.Elapsed = time.Since(start)
		return summary, nil
	}

	if err := os.MkdirAll(cfg.DoneDir(), 0o755); err != nil {
		return nil, &RunError{Phase: "prepare", Err: fmt.Errorf("create done directory: %w", err)}
	}

	if err := loader.Preflight(cfg); err != nil {
		return nil, &RunError{Phase: "preflight", Err: err}
	}

	log.Info().
		Int("files", len(jobs)).
		Int("workers", cfg.Workers).
		Int("threads", cfg.Threads).
		Str("table", cfg.Table).
		Msg("starting batch")

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	results := make(chan model.Outcome, len(jobs))
	var wg sync.WaitGroup

	for _, job := range jobs {
		wg.Add(1)
		go func(job model.Job) {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				out := model.Outcome{
					Kind:       model.OutcomeSkipped,
					Diagnostic: fmt.Sprintf("not admitted: %s", err),
				}
				report(log, job, out)
				results <- out
				return
			}
			defer sem.Release(1)

			out := runJob(log, cfg, job)
			if out.Kind == model.OutcomeSuccess {
				if err := relocate(job.Path, cfg.DoneDir(), job.Name); err != nil {
					// Load committed, so the job stays a success.
					log.Warn().Err(err).Str("file", job.Name).Msg("post-success move failed")
				}
			}
			report(log, job, out)
			results <- out
		}(job)
	}

	wg.Wait()
	close(results)

	for out := range results {
		summary.Record(out)
	}
	summary.Elapsed = time.Since(start)

	log.Info().
		Int("total", summary.Total).
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Int("timed_out", summary.TimedOut).
		Int("skipped", summary.Skipped).
		Dur("elapsed", summary.Elapsed).
		Msg("batch complete")

	return summary, nil
}

func report(log zerolog.Logger, job model.Job, out model.Outcome) {
	ev := log.Info()
	if out.Kind != model.OutcomeSuccess {
		ev = log.Error()
	}
	ev = ev.Str("file", job.Name).
		Str("outcome", out.Kind.String()).
		Dur("elapsed", out.Elapsed)
	if out.Diagnostic != "" {
		ev = ev.Str("diagnostic", out.Diagnostic)
	}
	ev.Msg("job finished")
}
