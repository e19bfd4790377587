package main

import (
	"os"

	"github.com/bgxgame/ck-loader/internal/exitcode"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitcode.UsageError)
	}
}
