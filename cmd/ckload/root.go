package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/bgxgame/ck-loader/internal/config"
	"github.com/bgxgame/ck-loader/internal/loader"
)

var cfg config.Config
var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "ckload",
	Short: "Parallel ClickHouse bulk loader for ORC files",
	Long:  "Bulk-loads a directory of ORC files into ClickHouse via clickhouse-client, bounding concurrency, enforcing per-file timeouts and moving loaded files into a done/ subdirectory.",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfg.Table, "table", "t", "", "Target table name")
	pf.StringVar(&cfg.Password, "password", os.Getenv("CK_PASSWORD"), "ClickHouse password (or set CK_PASSWORD)")
	pf.IntVar(&cfg.Threads, "threads", 8, "Server-side max_insert_threads per file")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
	pf.StringVar(&cfgFile, "config", "", "Optional YAML config file")
	pf.StringVar(&cfg.LoaderBin, "loader-bin", loader.DefaultBin, "Loader binary to invoke")
}
