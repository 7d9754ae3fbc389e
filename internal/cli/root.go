// Package cli wires the command line: library management commands and the
// interactive player.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "recordmachine",
		Short: "Play albums from your personal audio library",
		Long: `Record Machine keeps albums of imported audio files and plays them
in track order with desktop media controls.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "",
		"config file (default: ~/.config/recordmachine/config.toml, ./config.toml)")

	root.AddCommand(
		newAlbumsCmd(a),
		newAlbumCmd(a),
		newImportCmd(a),
		newTrackCmd(a),
		newPlayCmd(a),
	)
	return root
}

// Execute runs the root command.
func Execute() {
	a := &app{}
	err := newRootCmd(a).Execute()
	a.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
