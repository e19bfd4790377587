package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bgxgame/ck-loader/internal/batch"
	"github.com/bgxgame/ck-loader/internal/exitcode"
	"github.com/bgxgame/ck-loader/internal/loader"
	"github.com/bgxgame/ck-loader/internal/logging"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Dry-run: show what a load would do (no writes)",
	RunE:  runPlan,
}

func init() {
	f := planCmd.Flags()
	f.StringVarP(&cfg.Dir, "dir", "d", "", "Directory containing ORC files (required)")
	f.IntVarP(&cfg.Workers, "workers", "w", 4, "Maximum files loading in parallel")
	f.IntVar(&cfg.TimeoutSecs, "timeout-secs", 1800, "Per-file import timeout in seconds")
	f.IntVar(&cfg.Nice, "nice", 10, "Niceness applied to each loader process (0 disables)")
	_ = planCmd.MarkFlagRequired("dir")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)

	if err := cfg.Load(cfgFile); err != nil {
		log.Error().Err(err).Msg("config file load failed")
		os.Exit(exitcode.UsageError)
	}
	if err := cfg.ValidateBatch(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	jobs, err := batch.Enumerate(cfg.Dir)
	if err != nil {
		log.Error().Err(err).Msg("cannot enumerate source directory")
		os.Exit(exitcode.EnumerationError)
	}

	fmt.Println("=== ckload plan ===")
	fmt.Printf("Directory:  %s\n", cfg.Dir)
	fmt.Printf("Table:      %s\n", cfg.Table)
	fmt.Printf("Workers:    %d\n", cfg.Workers)
	fmt.Printf("Timeout:    %ds per file\n", cfg.TimeoutSecs)
	fmt.Printf("Command:    %s\n", loader.CommandLine(&cfg))
	fmt.Println()

	if len(jobs) == 0 {
		fmt.Println("No files to load.")
		return nil
	}

	var totalBytes int64
	for _, job := range jobs {
		stat, err := os.Stat(job.Path)
		if err != nil {
			fmt.Printf("  %-40s (stat failed: %v)\n", job.Name, err)
			continue
		}
		totalBytes += stat.Size()
		fmt.Printf("  %-40s %12d bytes\n", job.Name, stat.Size())
	}

	fmt.Printf("\n%d files, %d bytes total\n", len(jobs), totalBytes)
	if err := loader.Preflight(&cfg); err != nil {
		fmt.Printf("Loader binary: NOT FOUND (%v)\n", err)
	} else {
		fmt.Println("Loader binary: OK")
	}
	return nil
}
