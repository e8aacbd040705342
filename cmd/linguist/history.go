package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/linguist/internal/history"
	"github.com/ShayCichocki/linguist/internal/output"
)

var (
	historyLimit     int
	historyFormat    string
	historyOlderThan time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List, show and clear past runs",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(func(db *history.DB, f output.Format) error {
			entries, err := db.List(historyLimit)
			if err != nil {
				return err
			}
			return output.RenderHistory(cmd.OutOrStdout(), entries, f)
		})
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a stored run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(func(db *history.DB, f output.Format) error {
			e, err := db.Get(args[0])
			if err != nil {
				return err
			}
			return output.RenderHistoryEntry(cmd.OutOrStdout(), e, f, layoutWidth())
		})
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(func(db *history.DB, _ output.Format) error {
			if err := db.Delete(args[0]); err != nil {
				return err
			}
			output.OK(cmd.OutOrStdout(), fmt.Sprintf("Deleted %s", args[0]))
			return nil
		})
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every stored run",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(func(db *history.DB, _ output.Format) error {
			n, err := db.Clear()
			if err != nil {
				return err
			}
			output.OK(cmd.OutOrStdout(), fmt.Sprintf("Cleared %d entries", n))
			return nil
		})
	},
}

var historyPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete runs older than --older-than",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if historyOlderThan <= 0 {
			return errors.New("--older-than must be positive")
		}
		return withHistory(func(db *history.DB, _ output.Format) error {
			n, err := db.PurgeOlderThan(historyOlderThan)
			if err != nil {
				return err
			}
			output.OK(cmd.OutOrStdout(), fmt.Sprintf("Purged %d entries older than %s", n, historyOlderThan))
			return nil
		})
	},
}

func init() {
	historyCmd.PersistentFlags().StringVarP(&historyFormat, "format", "o", "text", "Output format: text, json or yaml")
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum entries to list")
	historyPurgeCmd.Flags().DurationVar(&historyOlderThan, "older-than", 30*24*time.Hour, "Age beyond which entries are deleted")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyPurgeCmd)
}

// withHistory opens the history store and passes it to fn.
func withHistory(fn func(*history.DB, output.Format) error) error {
	f, err := output.ParseFormat(historyFormat)
	if err != nil {
		return err
	}

	a, err := loadApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.history == nil {
		return errors.New("history is disabled (set history.enabled to true)")
	}

	return fn(a.history, f)
}
