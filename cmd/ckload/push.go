package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bgxgame/ck-loader/internal/exitcode"
	"github.com/bgxgame/ck-loader/internal/httppush"
	"github.com/bgxgame/ck-loader/internal/logging"
)

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Stream a single file to ClickHouse over HTTP with LZ4 compression",
	RunE:  runPush,
}

func init() {
	f := pushCmd.Flags()
	f.StringVar(&cfg.FilePath, "file", "", "Path to the file to upload (required)")
	f.StringVar(&cfg.URL, "url", "http://localhost:8123", "ClickHouse HTTP endpoint")
	f.StringVar(&cfg.User, "user", "default", "ClickHouse user for basic auth")
	f.IntVar(&cfg.CapMB, "cap", 32, "Read buffer size in MB")
	_ = pushCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(pushCmd)
}

func runPush(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	if err := cfg.Load(cfgFile); err != nil {
		log.Error().Err(err).Msg("config file load failed")
		os.Exit(exitcode.UsageError)
	}
	if err := cfg.ValidatePush(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	f, err := os.Open(cfg.FilePath)
	if err != nil {
		log.Error().Err(err).Msg("cannot open file")
		os.Exit(exitcode.PushError)
	}
	defer f.Close()

	result, err := httppush.Push(ctx, log, f, &cfg)
	if err != nil {
		log.Error().Err(err).Msg("upload failed")
		os.Exit(exitcode.PushError)
	}
	if !result.OK() {
		log.Error().
			Int("status", result.Status).
			Str("diagnostic", result.Diagnostic).
			Msg("server rejected upload")
		os.Exit(exitcode.PushError)
	}

	fmt.Printf("Upload complete: HTTP %d (%.1fs)\n", result.Status, result.Elapsed.Seconds())
	return nil
}
