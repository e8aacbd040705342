package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/linguist/internal/history"
	"github.com/ShayCichocki/linguist/internal/output"
	"github.com/ShayCichocki/linguist/pkg/models"
)

var (
	compareFlags       taskFlags
	compareProviders   []string
	compareRetryFailed bool
	compareWidth       int
)

var compareCmd = &cobra.Command{
	Use:   "compare [text]",
	Short: "Run a task on several providers side by side",
	Long: `Run the same task concurrently on several providers and show the
results side by side.

Without --providers every credentialed network provider runs, plus local
translation. A provider that fails does not stop the others; its card
shows the failure instead. With --retry-failed the failed providers are
run once more and their fresh results replace the failures.`,
	RunE: runCompare,
}

func init() {
	compareFlags.bind(compareCmd, false)
	compareCmd.Flags().StringSliceVar(&compareProviders, "providers", nil, "Providers to compare (default: all credentialed)")
	compareCmd.Flags().BoolVar(&compareRetryFailed, "retry-failed", false, "Retry failed providers once and merge the results")
	compareCmd.Flags().IntVar(&compareWidth, "width", 0, "Layout width (default: $COLUMNS or 100)")
}

func runCompare(cmd *cobra.Command, args []string) error {
	format, err := compareFlags.outputFormat()
	if err != nil {
		return err
	}
	var providers []models.Provider
	if len(compareProviders) > 0 {
		if providers, err = models.ParseProviders(compareProviders); err != nil {
			return err
		}
	}
	text, err := readInput(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	a, err := loadApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	spec, err := compareFlags.request(text, a.cfg.Defaults).Spec()
	if err != nil {
		return reportRunError(err)
	}

	ctx := cmd.Context()
	if format == output.FormatText {
		if candidates := a.runner.Candidates(providers); len(candidates) > 0 {
			fmt.Fprintf(os.Stderr, "Comparing %s...\n", providerNames(candidates))
		}
	}
	out, err := a.runner.RunCompare(ctx, spec, providers)
	if err != nil {
		return reportRunError(err)
	}

	if failed := models.FailedProviders(out.Entries); compareRetryFailed && len(failed) > 0 {
		output.Warn(os.Stderr, fmt.Sprintf("Retrying %d failed provider(s)...", len(failed)))
		if format == output.FormatText {
			renderPending(os.Stderr, out, failed, layoutWidth())
		}
		if out, err = a.runner.RetryFailed(ctx, spec, out); err != nil {
			return reportRunError(err)
		}
	}
	a.record(func() (*history.Entry, error) { return history.FromCompare(spec, out) })

	if err := output.RenderCompare(cmd.OutOrStdout(), out, format, layoutWidth()); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

// renderPending shows the first pass with the retried providers as running.
// It is progress output only, so failures are logged rather than returned.
func renderPending(w io.Writer, out *models.CompareRunOutput, failed []models.Provider, width int) {
	pending := &models.CompareRunOutput{
		Entries:       models.MergeCompareEntries(out.Entries, models.PendingEntries(failed)),
		TokenEstimate: out.TokenEstimate,
	}
	if err := output.RenderCompare(w, pending, output.FormatText, width); err != nil {
		log.Printf("[cli] render pending: %v", err)
	}
}

func providerNames(ps []models.Provider) string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.DisplayName()
	}
	return strings.Join(names, ", ")
}

func layoutWidth() int {
	if compareWidth > 0 {
		return compareWidth
	}
	if n, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && n > 0 {
		return n
	}
	return output.DefaultWidth
}
