package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/llehouerou/recordmachine/internal/library"
	"github.com/llehouerou/recordmachine/internal/playback"
)

const (
	trackTimeout = 4000
	trackIcon    = "audio-x-generic"
	errorIcon    = "dialog-error"
)

// Watcher turns playback events into notifications. Each new track
// replaces the previous track notification.
type Watcher struct {
	n      Notifier
	log    zerolog.Logger
	lastID uint32
}

func NewWatcher(n Notifier, log zerolog.Logger) *Watcher {
	return &Watcher{n: n, log: log.With().Str("component", "notify").Logger()}
}

// Run consumes sub until it is closed or ctx ends.
func (w *Watcher) Run(ctx context.Context, sub *playback.Subscription) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done:
			return
		case e := <-sub.TrackChanged:
			w.trackChanged(e)
		case e := <-sub.Error:
			w.failed(e)
		}
	}
}

func (w *Watcher) trackChanged(e playback.TrackChange) {
	if e.Current == nil {
		return
	}
	id, err := w.n.Notify(trackNotification(e.Current, w.lastID))
	if err != nil {
		w.log.Debug().Err(err).Msg("track notification")
		return
	}
	w.lastID = id
}

func (w *Watcher) failed(e playback.ErrorEvent) {
	n := Notification{
		Title:   "Playback failed",
		Body:    e.Err.Error(),
		Icon:    errorIcon,
		Timeout: -1,
		Urgency: UrgencyCritical,
	}
	if e.Track != "" {
		n.Title = fmt.Sprintf("Cannot play %s", e.Track)
	}
	if _, err := w.n.Notify(n); err != nil {
		w.log.Debug().Err(err).Msg("error notification")
	}
}

func trackNotification(t *library.Track, replaces uint32) Notification {
	return Notification{
		Title:      t.Title,
		Body:       t.ArtistName() + " — " + t.AlbumTitle(),
		Icon:       trackIcon,
		Timeout:    trackTimeout,
		ReplacesID: replaces,
		Urgency:    UrgencyLow,
	}
}
