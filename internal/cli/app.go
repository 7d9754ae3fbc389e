package cli

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/llehouerou/recordmachine/internal/assets"
	"github.com/llehouerou/recordmachine/internal/config"
	"github.com/llehouerou/recordmachine/internal/errmsg"
	"github.com/llehouerou/recordmachine/internal/library"
	"github.com/llehouerou/recordmachine/internal/logging"
	"github.com/llehouerou/recordmachine/internal/state"
)

// app holds what every command needs. It is opened before a command runs
// and closed after Execute returns.
type app struct {
	cfgFile string

	cfg       *config.Config
	log       zerolog.Logger
	logCloser io.Closer
	db        *state.Manager
	lib       *library.Library
	store     *assets.Store
}

func (a *app) open() error {
	var err error
	if a.cfgFile != "" {
		a.cfg, err = config.LoadFrom(a.cfgFile)
	} else {
		a.cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	a.log, a.logCloser, err = logging.Open(a.cfg.LogFile(), a.cfg.LogLevel())
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}

	a.db, err = state.Open(a.cfg.DBPath())
	if err != nil {
		return opError{errmsg.OpLibraryOpen, err}
	}
	a.lib = library.New(a.db.DB())

	a.store, err = assets.NewStore(a.cfg.AssetDir())
	if err != nil {
		return opError{errmsg.OpLibraryOpen, err}
	}
	return nil
}

func (a *app) close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn().Err(err).Msg("closing database")
		}
		a.db = nil
	}
	if a.logCloser != nil {
		_ = a.logCloser.Close()
		a.logCloser = nil
	}
}

// opError renders through errmsg while keeping the cause matchable.
type opError struct {
	op  errmsg.Op
	err error
}

func (e opError) Error() string { return errmsg.Format(e.op, e.err) }
func (e opError) Unwrap() error { return e.err }
