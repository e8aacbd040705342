package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/linguist/internal/credentials"
	"github.com/ShayCichocki/linguist/internal/output"
	"github.com/ShayCichocki/linguist/pkg/models"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Show provider credential status",
	Long: `List every provider with whether it has a usable credential, where
the credential comes from (masked) and its model for each tier.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		printProviders(cmd.OutOrStdout(), a.store)
		if a.cfg.Runner.UseMock || rootMock {
			output.Warn(cmd.OutOrStdout(), "Mock providers are enabled; no network calls will be made.")
		}
		return nil
	},
}

func printProviders(w io.Writer, store *credentials.Store) {
	for _, p := range models.ConcreteProviders {
		line := fmt.Sprintf("%-18s %s", p.DisplayName(), store.Source(p))
		if store.Has(p) {
			output.OK(w, line)
		} else {
			output.Warn(w, line)
		}
		for _, t := range models.AllTiers {
			fmt.Fprintf(w, "    %-9s %s\n", t, models.DefaultModel(p, t))
		}
		if advanced := models.AdvancedModels(p); len(advanced) > 0 {
			fmt.Fprintf(w, "    %-9s %s\n", "models", strings.Join(advanced, ", "))
		}
	}
}
