package assets

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/recordmachine/internal/library"
)

func TestResolve_PrefersExistingCachedLocator(t *testing.T) {
	s := newTestStore(t)
	cached := filepath.Join(t.TempDir(), "elsewhere.mp3")
	writeFile(t, cached, "x")
	writeFile(t, filepath.Join(s.Dir(), "elsewhere.mp3"), "y")

	r := NewResolver(s, "")
	path, err := r.Resolve(&library.Track{Title: "Song", AudioPath: cached})

	require.NoError(t, err)
	assert.Equal(t, cached, path)
}

func TestResolve_SelfHealsMovedAsset(t *testing.T) {
	s := newTestStore(t)
	writeFile(t, filepath.Join(s.Dir(), "take2.m4a"), "x")

	r := NewResolver(s, "")
	track := &library.Track{Title: "Song", AudioPath: "/old/container/path/take2.m4a"}
	path, err := r.Resolve(track)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Dir(), "take2.m4a"), path)
	// Resolution never mutates the track.
	assert.Equal(t, "/old/container/path/take2.m4a", track.AudioPath)
}

func TestResolve_FallsBackToTitleWithDefaultExtension(t *testing.T) {
	s := newTestStore(t)
	writeFile(t, filepath.Join(s.Dir(), "Intro.m4a"), "x")

	path, err := NewResolver(s, "").Resolve(&library.Track{Title: "Intro"})

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Dir(), "Intro.m4a"), path)
}

func TestResolve_CustomExtension(t *testing.T) {
	s := newTestStore(t)
	writeFile(t, filepath.Join(s.Dir(), "Intro.flac"), "x")

	path, err := NewResolver(s, ".flac").Resolve(&library.Track{Title: "Intro"})

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Dir(), "Intro.flac"), path)
}

func TestResolve_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := NewResolver(s, "").Resolve(&library.Track{Title: "Missing", AudioPath: "/nope/missing.m4a"})

	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestResolve_TitleWithSeparatorIsNotFound(t *testing.T) {
	s := newTestStore(t)
	writeFile(t, filepath.Join(s.Dir(), "DC.m4a"), "x")

	path, err := NewResolver(s, "").Resolve(&library.Track{Title: "AC/DC"})

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Empty(t, path)
}
