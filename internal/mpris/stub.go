//go:build !linux

package mpris

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/recordmachine/internal/nowplaying"
)

// DefaultName is the bus name suffix used on Linux.
const DefaultName = "recordmachine"

// Commands receives transport commands from the bus.
type Commands interface {
	Play() error
	Pause() error
	Toggle() error
	Next() error
	Previous() error
	SeekTo(pos time.Duration) error
}

// Adapter is a no-op on non-Linux platforms.
type Adapter struct{}

// New returns a no-op adapter on non-Linux platforms.
func New(_ string, _ zerolog.Logger) (*Adapter, error) {
	return &Adapter{}, nil
}

func (a *Adapter) Attach(_ Commands) {}
func (a *Adapter) Detach()           {}

func (a *Adapter) Publish(_ nowplaying.Metadata) error { return nil }
func (a *Adapter) Clear() error                        { return nil }

// Close is a no-op on non-Linux platforms.
func (a *Adapter) Close() error {
	return nil
}
