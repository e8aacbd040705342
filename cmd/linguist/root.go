package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/linguist/internal/config"
	"github.com/ShayCichocki/linguist/internal/output"
)

var (
	rootMock      bool
	rootNoHistory bool
)

// errReported marks an error already printed to the user.
var errReported = errors.New("reported")

var rootCmd = &cobra.Command{
	Use:   "linguist",
	Short: "Translate and rewrite text with interchangeable providers",
	Long: `Linguist translates, improves, rephrases and finds synonyms for text
using OpenAI, Claude, Gemini or a local translation server.

Run a task on one provider with 'linguist run', or on every credentialed
provider side by side with 'linguist compare'. With provider 'auto' the
first credentialed provider in the order OpenAI, Claude, Gemini is used,
falling back to local translation.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			output.Fail(os.Stderr, err.Error())
		}
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&rootMock, "mock", false, "Use mock providers (no network calls)")
	rootCmd.PersistentFlags().BoolVar(&rootNoHistory, "no-history", false, "Do not record this run in history")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(providersCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadApp loads configuration and wires the app for a command.
func loadApp(watch bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return newApp(cfg, appOptions{mock: rootMock, noHistory: rootNoHistory, watch: watch})
}

// reportRunError prints the user message for a failed run and returns
// errReported so the exit status is non-zero without printing twice.
func reportRunError(err error) error {
	output.Fail(os.Stderr, output.UserMessage(err))
	if os.Getenv("LINGUIST_DEBUG") != "" {
		fmt.Fprintf(os.Stderr, "[DEBUG] %v\n", err)
	}
	return errReported
}
