package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/llehouerou/recordmachine/internal/errmsg"
)

func newTrackCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "track",
		Short: "Delete or reorder tracks",
	}

	rm := &cobra.Command{
		Use:   "rm <track-id>",
		Short: "Remove a track from its album",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.lib.DeleteTrack(cmd.Context(), id); err != nil {
				return opError{errmsg.OpTrackDelete, err}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted track %d\n", id)
			return nil
		},
	}

	move := &cobra.Command{
		Use:   "move <track-id> <index>",
		Short: "Change a track's sort index within its album",
		Long: `Change a track's sort index. Tracks play in ascending index order;
indexes need not be contiguous.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid index %q", args[1])
			}
			if err := a.lib.SetTrackIndex(cmd.Context(), id, index); err != nil {
				return opError{errmsg.OpTrackMove, err}
			}
			return nil
		},
	}

	cmd.AddCommand(rm, move)
	return cmd
}
