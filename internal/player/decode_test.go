package player

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupported(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"song.mp3", true},
		{"song.FLAC", true},
		{"song.wav", true},
		{"song.ogg", true},
		{"song.m4a", true},
		{"song.mp4", true},
		{"song.opus", false},
		{"song.txt", false},
		{"song", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Supported(tt.path))
		})
	}
}

func TestDecodeFile_Unsupported(t *testing.T) {
	_, _, err := decodeFile("/nowhere/song.xyz")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDecodeFile_Missing(t *testing.T) {
	_, _, err := decodeFile(filepath.Join(t.TempDir(), "missing.wav"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecodeFile_WAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	format := beep.Format{SampleRate: 8000, NumChannels: 2, Precision: 2}
	require.NoError(t, wav.Encode(f, beep.Silence(8000), format))
	require.NoError(t, f.Close())

	stream, got, err := decodeFile(path)
	require.NoError(t, err)
	defer stream.Close()

	assert.Equal(t, beep.SampleRate(8000), got.SampleRate)
	assert.Equal(t, 8000, stream.Len())
	assert.Equal(t, 1000, int(got.SampleRate.D(stream.Len()).Milliseconds()))
}

func TestDecodeFile_Garbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.flac")
	require.NoError(t, os.WriteFile(path, []byte("definitely not audio"), 0o600))

	_, _, err := decodeFile(path)
	assert.Error(t, err)
}

func TestSkipID3v2(t *testing.T) {
	t.Run("no tag", func(t *testing.T) {
		r := bytes.NewReader([]byte("fLaC0123456789"))
		require.NoError(t, skipID3v2(r))
		pos, _ := r.Seek(0, io.SeekCurrent)
		assert.Equal(t, int64(0), pos)
	})

	t.Run("with tag", func(t *testing.T) {
		// size 0x81 syncsafe = 1<<7 | 1 = 129
		data := append([]byte("ID3\x04\x00\x00\x00\x00\x01\x01"), make([]byte, 129)...)
		data = append(data, "fLaC"...)
		r := bytes.NewReader(data)
		require.NoError(t, skipID3v2(r))
		rest, _ := io.ReadAll(r)
		assert.Equal(t, "fLaC", string(rest))
	})

	t.Run("short file", func(t *testing.T) {
		r := bytes.NewReader([]byte("ID3"))
		require.NoError(t, skipID3v2(r))
		pos, _ := r.Seek(0, io.SeekCurrent)
		assert.Equal(t, int64(0), pos)
	})
}

func TestBeepEngine_LoadErrorWrapsErrLoad(t *testing.T) {
	e := NewBeepEngine(zerolog.Nop())
	_, err := e.Load(filepath.Join(t.TempDir(), "missing.mp3"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLoad))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
