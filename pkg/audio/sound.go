// Package audio plays short sound effects: a bank of mono samples, a mixer
// that turns playing voices into an interleaved stereo stream and a Player
// component that scene entities use to trigger sounds by id.
package audio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/wav"
)

// ErrInvalidWAV is returned for input that is not a RIFF/WAVE PCM file.
var ErrInvalidWAV = errors.New("not a valid WAV file")

// Sound is a mono clip of samples in [-1, 1].
type Sound struct {
	Samples    []float32
	SampleRate int
}

// Duration returns the length of the clip in seconds.
func (s *Sound) Duration() float64 {
	if s.SampleRate == 0 {
		return 0
	}
	return float64(len(s.Samples)) / float64(s.SampleRate)
}

// Tone synthesizes a sine at freq Hz that decays exponentially over
// duration seconds.
func Tone(freq, duration float64, sampleRate int) *Sound {
	n := int(duration * float64(sampleRate))
	samples := make([]float32, n)
	for i := range samples {
		t := float64(i) / float64(sampleRate)
		envelope := math.Exp(-5 * t / duration)
		// short fade in to avoid a click
		if attack := 0.005; t < attack {
			envelope *= t / attack
		}
		samples[i] = float32(math.Sin(2*math.Pi*freq*t) * envelope)
	}
	return &Sound{Samples: samples, SampleRate: sampleRate}
}

// LoadWAV reads a PCM WAV file.
func LoadWAV(path string) (*Sound, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sound file: %w", err)
	}
	defer f.Close()

	s, err := DecodeWAV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// DecodeWAV decodes PCM WAV data, normalizing it by its bit depth and mixing
// all channels down to mono.
func DecodeWAV(r io.ReadSeeker) (*Sound, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, ErrInvalidWAV
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to decode WAV: %w", err)
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		return nil, fmt.Errorf("%w: no channels", ErrInvalidWAV)
	}
	depth := int(decoder.BitDepth)
	if depth < 8 || depth > 32 {
		return nil, fmt.Errorf("%w: unsupported bit depth %d", ErrInvalidWAV, depth)
	}

	// 8-bit PCM is unsigned; wider formats are signed
	var offset float64
	scale := float64(int64(1) << (depth - 1))
	if depth == 8 {
		offset = 128
	}

	frames := len(buf.Data) / channels
	samples := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += (float64(buf.Data[i*channels+c]) - offset) / scale
		}
		samples[i] = float32(sum / float64(channels))
	}

	return &Sound{Samples: samples, SampleRate: buf.Format.SampleRate}, nil
}

// Resample returns the clip converted to rate by linear interpolation.
func (s *Sound) Resample(rate int) *Sound {
	if rate == s.SampleRate || s.SampleRate == 0 || len(s.Samples) == 0 {
		return s
	}

	ratio := float64(s.SampleRate) / float64(rate)
	n := int(float64(len(s.Samples)) / ratio)
	out := make([]float32, n)
	last := len(s.Samples) - 1
	for i := range out {
		pos := float64(i) * ratio
		j := int(pos)
		if j >= last {
			out[i] = s.Samples[last]
			continue
		}
		frac := float32(pos - float64(j))
		out[i] = s.Samples[j]*(1-frac) + s.Samples[j+1]*frac
	}
	return &Sound{Samples: out, SampleRate: rate}
}
