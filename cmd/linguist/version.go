package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/linguist/internal/version"
)

var versionShort bool

// Version returns the release version.
func Version() string {
	return version.Get()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if versionShort {
			fmt.Fprintln(cmd.OutOrStdout(), Version())
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "linguist %s (%s %s/%s)\n",
			Version(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print only the version number")
}
