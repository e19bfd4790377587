package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bgxgame/ck-loader/internal/batch"
	"github.com/bgxgame/ck-loader/internal/exitcode"
	"github.com/bgxgame/ck-loader/internal/logging"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load every file in a directory, bounded by --workers",
	RunE:  runLoad,
}

func init() {
	f := loadCmd.Flags()
	f.StringVarP(&cfg.Dir, "dir", "d", "", "Directory containing ORC files (required)")
	f.IntVarP(&cfg.Workers, "workers", "w", 4, "Maximum files loading in parallel")
	f.IntVar(&cfg.TimeoutSecs, "timeout-secs", 1800, "Per-file import timeout in seconds")
	f.IntVar(&cfg.Nice, "nice", 10, "Niceness applied to each loader process (0 disables)")
	f.BoolVar(&cfg.FailOnError, "fail-on-error", false, "Exit non-zero when any file fails to load")
	_ = loadCmd.MarkFlagRequired("dir")
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	if err := cfg.Load(cfgFile); err != nil {
		log.Error().Err(err).Msg("config file load failed")
		os.Exit(exitcode.UsageError)
	}

	if err := cfg.ValidateBatch(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	summary, err := batch.Run(ctx, log, &cfg)
	if err != nil {
		var re *batch.RunError
		if errors.As(err, &re) {
			log.Error().Err(re.Err).Str("phase", re.Phase).Msg("batch aborted")
			switch re.Phase {
			case "enumerate":
				os.Exit(exitcode.EnumerationError)
			case "preflight":
				os.Exit(exitcode.PreflightError)
			default:
				os.Exit(exitcode.DirError)
			}
		}
		log.Error().Err(err).Msg("batch aborted")
		os.Exit(exitcode.DirError)
	}

	fmt.Printf("Batch complete: %d/%d succeeded, %d failed, %d timed out, %d skipped (%.1fs)\n",
		summary.Succeeded, summary.Total, summary.Failed, summary.TimedOut, summary.Skipped,
		summary.Elapsed.Seconds())

	if cfg.FailOnError && summary.Failures() > 0 {
		os.Exit(exitcode.PartialFailure)
	}
	return nil
}
