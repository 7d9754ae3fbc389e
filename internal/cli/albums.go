package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/llehouerou/recordmachine/internal/artwork"
	"github.com/llehouerou/recordmachine/internal/errmsg"
	"github.com/llehouerou/recordmachine/internal/library"
)

func newAlbumsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "albums",
		Short: "List albums by title",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			albums, err := a.lib.Albums(cmd.Context())
			if err != nil {
				return opError{errmsg.OpAlbumLoad, err}
			}
			out := cmd.OutOrStdout()
			if len(albums) == 0 {
				fmt.Fprintln(out, "No albums. Create one with 'recordmachine album add <title>'.")
				return nil
			}
			for _, al := range albums {
				printAlbumLine(out, al)
			}
			return nil
		},
	}
}

func printAlbumLine(w io.Writer, al *library.Album) {
	fmt.Fprintf(w, "%4d  %s — %s  [%s]", al.ID, al.DisplayTitle(), al.DisplayArtist(), al.TrackCountLabel())
	if len(al.Artwork) > 0 {
		fmt.Fprintf(w, "  artwork %s", humanize.Bytes(uint64(len(al.Artwork))))
	}
	fmt.Fprintln(w)
}

func newAlbumCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "album",
		Short: "Create, inspect and delete albums",
	}

	var artist string
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Create an empty album",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			al, err := a.lib.CreateAlbum(cmd.Context(), args[0], artist)
			if err != nil {
				return opError{errmsg.OpAlbumCreate, err}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created album %d: %s\n", al.ID, al.DisplayTitle())
			return nil
		},
	}
	add.Flags().StringVarP(&artist, "artist", "a", "", "album artist")

	show := &cobra.Command{
		Use:   "show <album-id>",
		Short: "Show an album's tracks in play order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			al, err := loadAlbum(cmd.Context(), a, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printAlbumLine(out, al)
			for i, t := range al.SortedTracks() {
				fmt.Fprintf(out, "  %2d. %-30s  id %d  index %d  %s\n", i+1, t.Title, t.ID, t.Index, fileLabel(t.AudioPath))
			}
			return nil
		},
	}

	var purge bool
	rm := &cobra.Command{
		Use:   "rm <album-id>",
		Short: "Delete an album and its tracks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			paths, err := a.lib.DeleteAlbum(cmd.Context(), id)
			if err != nil {
				return opError{errmsg.OpAlbumDelete, err}
			}
			removed := 0
			if purge {
				for _, p := range paths {
					if err := a.store.Delete(p); err != nil {
						a.log.Warn().Err(err).Str("path", p).Msg("purge asset")
						fmt.Fprintln(cmd.ErrOrStderr(), errmsg.FormatWith(errmsg.OpFileDelete, p, err))
						continue
					}
					removed++
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted album %d (%d files removed)\n", id, removed)
			return nil
		},
	}
	rm.Flags().BoolVar(&purge, "purge", false, "also delete the album's audio files")

	var clearArt bool
	art := &cobra.Command{
		Use:   "artwork <album-id> [image]",
		Short: "Set or clear the album artwork",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var data []byte
			switch {
			case clearArt:
			case len(args) == 2:
				data, err = os.ReadFile(args[1])
				if err != nil {
					return opError{errmsg.OpArtworkSet, err}
				}
				src, err := artwork.Decode(data)
				if err != nil {
					return opError{errmsg.OpArtworkSet, err}
				}
				b := src.Image.Bounds()
				fmt.Fprintf(cmd.OutOrStdout(), "Artwork %dx%d, %s\n", b.Dx(), b.Dy(), humanize.Bytes(uint64(len(data))))
			default:
				return fmt.Errorf("an image path or --clear is required")
			}
			if err := a.lib.SetArtwork(cmd.Context(), id, data); err != nil {
				return opError{errmsg.OpArtworkSet, err}
			}
			return nil
		},
	}
	art.Flags().BoolVar(&clearArt, "clear", false, "remove the artwork")

	cmd.AddCommand(add, show, rm, art)
	return cmd
}

func loadAlbum(ctx context.Context, a *app, arg string) (*library.Album, error) {
	id, err := parseID(arg)
	if err != nil {
		return nil, err
	}
	al, err := a.lib.Album(ctx, id)
	if err != nil {
		return nil, opError{errmsg.OpAlbumLoad, err}
	}
	return al, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func fileLabel(path string) string {
	if path == "" {
		return "(no file)"
	}
	info, err := os.Stat(path)
	if err != nil {
		return "(missing)"
	}
	return humanize.Bytes(uint64(info.Size())) //nolint:gosec // file sizes are non-negative
}
