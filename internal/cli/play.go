package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/llehouerou/recordmachine/internal/assets"
	"github.com/llehouerou/recordmachine/internal/errmsg"
	"github.com/llehouerou/recordmachine/internal/library"
	"github.com/llehouerou/recordmachine/internal/mpris"
	"github.com/llehouerou/recordmachine/internal/notify"
	"github.com/llehouerou/recordmachine/internal/nowplaying"
	"github.com/llehouerou/recordmachine/internal/playback"
	"github.com/llehouerou/recordmachine/internal/player"
	"github.com/llehouerou/recordmachine/internal/remote"
	"github.com/llehouerou/recordmachine/internal/stderr"
	uiplayer "github.com/llehouerou/recordmachine/internal/ui/player"
)

func newPlayCmd(a *app) *cobra.Command {
	var trackID int64
	cmd := &cobra.Command{
		Use:   "play [album-id]",
		Short: "Open the player",
		Long: `Open the interactive player with an album queued in track order.
Without an album id the first album by title is queued. With --track the
given track starts playing right away.

Keys:
  space        Play/pause
  n            Next track
  p            Rewind (restart, press again for the previous track)
  r            Restart track
  ←/→          Seek -5s/+5s
  ↑/↓ enter    Pick a track from the queue
  q            Quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			albumArg := ""
			if len(args) == 1 {
				albumArg = args[0]
			}
			return runPlay(cmd.Context(), a, albumArg, trackID)
		},
	}
	cmd.Flags().Int64VarP(&trackID, "track", "t", 0, "track id to start playing")
	return cmd
}

func runPlay(ctx context.Context, a *app, albumArg string, trackID int64) error {
	album, track, err := pickQueue(ctx, a.lib, albumArg, trackID)
	if err != nil {
		return err
	}

	if err := stderr.Start(a.log); err != nil {
		a.log.Warn().Err(err).Msg("stderr capture unavailable")
	}
	defer stderr.Stop()

	surface, closeSurface := openSurface(a)
	defer closeSurface()

	syncer := nowplaying.NewSync(surface, a.log, a.cfg.SyncInterval())
	ctrl := playback.New(playback.Options{
		Engine:       player.NewBeepEngine(a.log),
		Resolver:     assets.NewResolver(a.store, a.cfg.DefaultExtension()),
		Tracks:       a.lib,
		Publisher:    syncer,
		Logger:       a.log,
		RewindWindow: a.cfg.RewindWindow(),
	})
	defer func() {
		if err := ctrl.Close(); err != nil {
			a.log.Warn().Err(err).Msg("closing controller")
		}
	}()

	if adapter, ok := surface.(*mpris.Adapter); ok {
		adapter.Attach(remote.NewBridge(ctrl, a.log))
		defer adapter.Detach()
	}

	if a.cfg.NotifyEnabled() {
		watchNotifications(ctx, a, ctrl)
	}

	// Start errors are shown in the player rather than aborting.
	switch {
	case track != nil:
		err = ctrl.PlayTrack(track)
	case album != nil:
		err = ctrl.LoadQueue(album)
	}
	if err != nil {
		a.log.Warn().Err(err).Msg("initial queue")
	}

	p := tea.NewProgram(uiplayer.New(ctrl, a.log), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return opError{errmsg.OpInitialize, err}
	}
	return nil
}

// pickQueue finds the album to queue. It returns a nil album when the
// library is empty.
func pickQueue(ctx context.Context, lib *library.Library, albumArg string, trackID int64) (*library.Album, *library.Track, error) {
	var album *library.Album
	if albumArg != "" {
		id, err := parseID(albumArg)
		if err != nil {
			return nil, nil, err
		}
		album, err = lib.Album(ctx, id)
		if err != nil {
			return nil, nil, opError{errmsg.OpAlbumLoad, err}
		}
	} else {
		albums, err := lib.Albums(ctx)
		if err != nil {
			return nil, nil, opError{errmsg.OpAlbumLoad, err}
		}
		if len(albums) > 0 {
			album = albums[0]
		}
	}

	if trackID == 0 {
		return album, nil, nil
	}
	if album != nil {
		for _, t := range album.Tracks {
			if t.ID == trackID {
				return album, t, nil
			}
		}
	}
	return nil, nil, opError{errmsg.OpPlaybackStart, fmt.Errorf("%w: %d", library.ErrTrackNotFound, trackID)}
}

// openSurface registers desktop media controls when enabled. Failing to
// reach the session bus is not fatal.
func openSurface(a *app) (nowplaying.Surface, func()) {
	if !a.cfg.MPRISEnabled() {
		return nowplaying.NopSurface{}, func() {}
	}
	adapter, err := mpris.New(a.cfg.MPRISName(), a.log)
	if err != nil {
		a.log.Warn().Err(err).Msg(errmsg.Format(errmsg.OpMediaControls, err))
		return nowplaying.NopSurface{}, func() {}
	}
	return adapter, func() {
		if err := adapter.Close(); err != nil {
			a.log.Warn().Err(err).Msg("closing media controls")
		}
	}
}

// watchNotifications raises desktop notifications for track changes until
// the controller closes.
func watchNotifications(ctx context.Context, a *app, ctrl *playback.Controller) {
	n, err := notify.New()
	if err != nil {
		a.log.Warn().Err(err).Msg("desktop notifications unavailable")
		return
	}
	go notify.NewWatcher(n, a.log).Run(ctx, ctrl.Subscribe())
}
