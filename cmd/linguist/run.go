package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/linguist/internal/history"
	"github.com/ShayCichocki/linguist/internal/output"
)

var (
	runFlags taskFlags
	runFirst bool
)

var runCmd = &cobra.Command{
	Use:   "run [text]",
	Short: "Run a task on a single provider",
	Long: `Run a translate, improve, rephrase or synonyms task on one provider.

The text is taken from the arguments, or from stdin when none are given
or the only argument is "-". Flags left unset fall back to the defaults
section of the configuration.

Examples:
  linguist run -l en,de "Olá, tudo bem?"
  linguist run -m improve --preset shorter --tone formal < draft.txt
  linguist run -p local -l en -o json "Bom dia"
  linguist run --first -m rephrase "see you soon" | pbcopy`,
	RunE: runTask,
}

func init() {
	runFlags.bind(runCmd, true)
	runCmd.Flags().BoolVar(&runFirst, "first", false, "Print only the first result's text (not recorded in history)")
}

func runTask(cmd *cobra.Command, args []string) error {
	format, err := runFlags.outputFormat()
	if err != nil {
		return err
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

	spec, err := runFlags.request(text, a.cfg.Defaults).Spec()
	if err != nil {
		return reportRunError(err)
	}

	if runFirst {
		res, err := a.runner.RunSingle(cmd.Context(), spec)
		if err != nil {
			return reportRunError(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Text)
		return nil
	}

	out, err := a.runner.Run(cmd.Context(), spec)
	if err != nil {
		return reportRunError(err)
	}
	a.record(func() (*history.Entry, error) { return history.FromRun(spec, out) })

	if err := output.RenderRun(cmd.OutOrStdout(), out, format); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if len(out.Results) == 0 {
		output.Warn(os.Stderr, "The provider returned no results.")
	}
	return nil
}
