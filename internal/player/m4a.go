package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/llehouerou/alac"
	"github.com/llehouerou/go-faad2"
	"github.com/llehouerou/go-m4a"
)

// alacFrameSize is the default ALAC frames-per-packet.
const alacFrameSize = 4096

// m4aStream reads samples from an MP4 container and decodes them with
// faad2 (AAC) or alac (Apple Lossless).
type m4aStream struct {
	container *m4a.Reader
	closer    io.Closer
	codec     m4a.CodecType
	aac       *faad2.Decoder
	alac      *alac.Alac

	rate     int
	channels int
	bits     int
	length   int
	next     int // next container sample index
	err      error

	pending [][2]float64
}

func decodeM4A(rc io.ReadSeekCloser) (beep.StreamSeekCloser, beep.Format, error) {
	container, err := m4a.Open(rc)
	if err != nil {
		return nil, beep.Format{}, err
	}

	s := &m4aStream{
		container: container,
		closer:    rc,
		codec:     container.Codec(),
		rate:      int(container.SampleRate()),
		channels:  int(container.Channels()),
		bits:      int(container.SampleSize()),
	}
	s.length = int(container.Duration().Seconds() * float64(s.rate))

	precision := 2
	switch s.codec {
	case m4a.CodecAAC:
		ctx := context.Background()
		dec, err := faad2.NewDecoder(ctx)
		if err != nil {
			return nil, beep.Format{}, err
		}
		if err := dec.Init(ctx, container.CodecConfig()); err != nil {
			dec.Close(ctx)
			return nil, beep.Format{}, fmt.Errorf("aac init: %w", err)
		}
		s.aac = dec
	case m4a.CodecALAC:
		dec, err := alac.NewWithConfig(alac.Config{
			SampleRate:  s.rate,
			SampleSize:  s.bits,
			NumChannels: s.channels,
			FrameSize:   alacFrameSize,
		})
		if err != nil {
			return nil, beep.Format{}, err
		}
		s.alac = dec
		if s.bits == 24 {
			precision = 3
		}
	default:
		return nil, beep.Format{}, errors.New("m4a: unsupported codec")
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(s.rate),
		NumChannels: 2,
		Precision:   precision,
	}
	return s, format, nil
}

func (s *m4aStream) Stream(samples [][2]float64) (int, bool) {
	if s.err != nil {
		return 0, false
	}

	n := 0
	for n < len(samples) {
		if len(s.pending) > 0 {
			c := copy(samples[n:], s.pending)
			s.pending = s.pending[c:]
			n += c
			continue
		}
		if s.next >= s.container.SampleCount() {
			break
		}
		if err := s.decodeNext(); err != nil {
			s.err = err
			break
		}
	}
	return n, n > 0
}

func (s *m4aStream) decodeNext() error {
	data, err := s.container.ReadSample(s.next)
	if err != nil {
		return err
	}
	s.next++

	if s.aac != nil {
		pcm, err := s.aac.Decode(context.Background(), data)
		if err != nil {
			return err
		}
		s.pending = pcm16Frames(pcm, s.channels)
		return nil
	}
	s.pending = alacFrames(s.alac.Decode(data), s.channels, s.bits)
	return nil
}

// pcm16Frames converts interleaved samples to stereo frames, duplicating
// mono.
func pcm16Frames(pcm []int16, channels int) [][2]float64 {
	channels = max(channels, 1)
	frames := make([][2]float64, len(pcm)/channels)
	for i := range frames {
		l := float64(pcm[i*channels]) / 32768
		r := l
		if channels > 1 {
			r = float64(pcm[i*channels+1]) / 32768
		}
		frames[i] = [2]float64{l, r}
	}
	return frames
}

// alacFrames converts little-endian 16 or 24-bit PCM bytes to stereo frames.
func alacFrames(data []byte, channels, bits int) [][2]float64 {
	channels = max(channels, 1)
	width := 2
	scale := 32768.0
	if bits == 24 {
		width = 3
		scale = 8388608
	}

	sample := func(b []byte) float64 {
		if width == 2 {
			return float64(int16(uint16(b[0])|uint16(b[1])<<8)) / scale //nolint:gosec // PCM sample
		}
		v := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
		if v&0x800000 != 0 {
			v |= ^0xFFFFFF
		}
		return float64(v) / scale
	}

	step := width * channels
	frames := make([][2]float64, len(data)/step)
	for i := range frames {
		off := i * step
		l := sample(data[off:])
		r := l
		if channels > 1 {
			r = sample(data[off+width:])
		}
		frames[i] = [2]float64{l, r}
	}
	return frames
}

func (s *m4aStream) Err() error { return s.err }

func (s *m4aStream) Len() int { return s.length }

func (s *m4aStream) Position() int {
	return int(s.container.SampleTime(s.next).Seconds() * float64(s.rate))
}

func (s *m4aStream) Seek(p int) error {
	p = min(max(p, 0), s.length)
	pos := time.Duration(float64(p) / float64(s.rate) * float64(time.Second))
	s.next = s.container.SeekToTime(pos)
	s.pending = nil
	s.err = nil
	return nil
}

func (s *m4aStream) Close() error {
	if s.aac != nil {
		s.aac.Close(context.Background())
	}
	return s.closer.Close()
}
