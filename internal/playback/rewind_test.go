package playback

import (
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewindGesture_ExpireIgnoresStaleGeneration(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		r := rewindGesture{window: time.Second}
		fired := make(chan uint64, 2)

		r.arm(func(gen uint64) { fired <- gen })
		first := r.gen
		r.arm(func(gen uint64) { fired <- gen })

		time.Sleep(2 * time.Second)
		synctest.Wait()

		assert.False(t, r.expire(first), "superseded timer must be ignored")
		assert.True(t, r.armed)
		gen := <-fired
		assert.True(t, r.expire(gen))
		assert.False(t, r.armed)
		assert.Empty(t, fired, "disarmed timer must not fire")
	})
}

func TestRewindButton_PlayingDoublePressGoesBack(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		env := newEnv(t)
		defer env.ctrl.Close()
		album := testAlbum()
		require.NoError(t, env.ctrl.PlayTrack(trackByTitle(album, "Verse")))
		h := env.handle(t)
		h.SetElapsed(40 * time.Second)

		require.NoError(t, env.ctrl.RewindButton())
		st := env.ctrl.Status()
		assert.Equal(t, 1, st.Index)
		assert.Equal(t, time.Duration(0), st.Position)
		assert.True(t, st.Armed)

		time.Sleep(500 * time.Millisecond)
		require.NoError(t, env.ctrl.RewindButton())

		st = env.ctrl.Status()
		assert.Equal(t, 0, st.Index)
		assert.Equal(t, "Intro", st.Track.Title)
		assert.True(t, st.IsPlaying())
		assert.False(t, st.Armed)
	})
}

func TestRewindButton_WindowExpires(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		env := newEnv(t)
		defer env.ctrl.Close()
		require.NoError(t, env.ctrl.PlayTrack(trackByTitle(testAlbum(), "Verse")))
		h := env.handle(t)

		require.NoError(t, env.ctrl.RewindButton())
		assert.True(t, env.ctrl.Status().Armed)

		time.Sleep(DefaultRewindWindow + 100*time.Millisecond)
		synctest.Wait()
		assert.False(t, env.ctrl.Status().Armed)

		h.SetElapsed(5 * time.Second)
		require.NoError(t, env.ctrl.RewindButton())

		st := env.ctrl.Status()
		assert.Equal(t, 1, st.Index, "expired window restarts again")
		assert.Equal(t, time.Duration(0), st.Position)
		assert.True(t, st.Armed)
		assert.Equal(t, []time.Duration{0, 0}, h.SeekCalls())
	})
}

func TestRewindButton_Paused(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		env := newEnv(t)
		defer env.ctrl.Close()
		album := testAlbum()
		require.NoError(t, env.ctrl.PlayTrack(trackByTitle(album, "Outro")))
		require.NoError(t, env.ctrl.PlayPause())
		h := env.handle(t)

		// Mid-track: restart, stay on the track.
		h.SetElapsed(75 * time.Second)
		require.NoError(t, env.ctrl.RewindButton())
		st := env.ctrl.Status()
		assert.Equal(t, 2, st.Index)
		assert.Equal(t, time.Duration(0), st.Position)
		assert.False(t, st.Armed)

		// At the start: previous track, still paused.
		require.NoError(t, env.ctrl.RewindButton())
		st = env.ctrl.Status()
		assert.Equal(t, 1, st.Index)
		assert.Equal(t, StatePaused, st.State)
		assert.False(t, st.Armed)
	})
}

func TestRewindButton_PausedPressDisarms(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		env := newEnv(t)
		defer env.ctrl.Close()
		require.NoError(t, env.ctrl.PlayTrack(trackByTitle(testAlbum(), "Verse")))

		require.NoError(t, env.ctrl.RewindButton())
		require.True(t, env.ctrl.Status().Armed)
		require.NoError(t, env.ctrl.PlayPause())

		env.handle(t).SetElapsed(time.Second)
		require.NoError(t, env.ctrl.RewindButton())
		assert.False(t, env.ctrl.Status().Armed)

		require.NoError(t, env.ctrl.PlayPause())
		require.NoError(t, env.ctrl.RewindButton())
		st := env.ctrl.Status()
		assert.Equal(t, 1, st.Index, "first press after disarm restarts")
		assert.True(t, st.Armed)
	})
}

func TestRewindButton_NoEngineGoesBack(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		env := newEnv(t)
		defer env.ctrl.Close()
		album := testAlbum()
		env.resolver.setMissing("Outro")
		require.Error(t, env.ctrl.PlayTrack(trackByTitle(album, "Outro")))
		require.Equal(t, StateStopped, env.ctrl.Status().State)

		require.NoError(t, env.ctrl.RewindButton())

		st := env.ctrl.Status()
		assert.Equal(t, 1, st.Index)
		assert.Equal(t, StatePaused, st.State)
		assert.False(t, st.Armed)
	})
}

func TestRewindButton_EmitsArmedAndExpired(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		env := newEnv(t)
		defer env.ctrl.Close()
		sub := env.ctrl.Subscribe()
		require.NoError(t, env.ctrl.PlayTrack(trackByTitle(testAlbum(), "Verse")))
		env.handle(t).SetElapsed(10 * time.Second)

		require.NoError(t, env.ctrl.RewindButton())
		assert.True(t, (<-sub.RewindChanged).Armed)

		time.Sleep(2 * time.Second)
		synctest.Wait()
		assert.False(t, (<-sub.RewindChanged).Armed)
		assert.Equal(t, 1, env.ctrl.Status().Index)
	})
}
