package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/linguist/internal/config"
	"github.com/ShayCichocki/linguist/internal/output"
	"github.com/ShayCichocki/linguist/pkg/models"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "View or change configuration",
	Long: `View or change linguist configuration.

  linguist config                 list every key
  linguist config <key>           print one key
  linguist config <key> <value>   set a key in the user config file

Keys use dot notation, e.g. defaults.languages or providers.openai.api_key.
API keys are masked when printed.

User config:    $XDG_CONFIG_HOME/linguist/config.yaml (~/.config/linguist)
Project config: .linguist.yaml in the working directory or a parent`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		w := cmd.OutOrStdout()
		switch len(args) {
		case 0:
			listConfig(w, cfg)
			return nil
		case 1:
			value, err := cfg.Display(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(w, value)
			return nil
		default:
			return setConfig(w, cfg, args[0], args[1])
		}
	},
}

func listConfig(w io.Writer, cfg *config.Config) {
	for _, key := range config.Keys() {
		value, _ := cfg.Display(key)
		fmt.Fprintf(w, "%-32s %s\n", key, value)
	}

	fmt.Fprintln(w)
	for _, p := range models.NetworkProviders {
		fmt.Fprintf(w, "%-8s key source: %s\n", p, config.GetAPIKeySource(cfg, p))
	}

	fmt.Fprintf(w, "\nUser config:    %s\n", config.GetUserConfigPath())
	if p := config.GetProjectConfigPath(); p != "" {
		fmt.Fprintf(w, "Project config: %s\n", p)
	}
}

// setConfig writes the user config file. Values loaded from the project
// file or the environment are written along with it.
func setConfig(w io.Writer, cfg *config.Config, key, value string) error {
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	shown, _ := cfg.Display(key)
	output.OK(w, fmt.Sprintf("Set %s = %s", key, shown))
	return nil
}
