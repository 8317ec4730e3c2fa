package main

import (
	"fmt"
	"os"

	"github.com/fintrack/fintrack/cmd/cli/auth"
	"github.com/fintrack/fintrack/cmd/cli/records"
	"github.com/fintrack/fintrack/cmd/cli/root"
	"github.com/fintrack/fintrack/cmd/cli/summary"
)

func main() {
	rootCmd := root.New()
	auth.InitAuth(rootCmd)
	records.InitRecords(rootCmd)
	summary.InitSummary(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
