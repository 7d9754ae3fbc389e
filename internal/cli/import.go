package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/llehouerou/recordmachine/internal/errmsg"
	"github.com/llehouerou/recordmachine/internal/importer"
)

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <album-id> <file>...",
		Short: "Copy audio files into the library and append them to an album",
		Long: `Copy audio files into the asset directory and append them to an album,
in the order given. Titles come from the files' tags, or from the file
names when there are none. The first embedded or folder cover becomes the
album artwork when the album has none.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			im := importer.New(a.lib, a.store, a.log)
			results, err := im.ImportAll(cmd.Context(), id, args[1:])
			out := cmd.OutOrStdout()
			for _, res := range results {
				fmt.Fprintf(out, "Imported %q (track %d)\n", res.Track.Title, res.Track.ID)
				if res.ArtworkSet {
					fmt.Fprintln(out, "  set album artwork")
				}
			}
			if err != nil {
				return opError{errmsg.OpImportFile, err}
			}
			return nil
		},
	}
}
