package audio

import (
	"fmt"
	"sort"

	"sandbox/internal/logger"
	"sandbox/pkg/config"
)

// Built-in tone frequencies by sound id, an A major arpeggio
var toneFrequencies = map[int]float64{
	1: 440.00,
	2: 554.37,
	3: 659.25,
	4: 880.00,
}

// Bank maps sound ids to clips at a common sample rate.
type Bank struct {
	sampleRate int
	sounds     map[int]*Sound
}

// NewBank returns an empty bank whose clips play at sampleRate.
func NewBank(sampleRate int) *Bank {
	return &Bank{sampleRate: sampleRate, sounds: make(map[int]*Sound)}
}

// DefaultBank returns a bank holding a short synthesized tone for each of
// the ids 1 to 4.
func DefaultBank(sampleRate int) *Bank {
	b := NewBank(sampleRate)
	for id, freq := range toneFrequencies {
		b.Add(id, Tone(freq, 0.25, sampleRate))
	}
	return b
}

// LoadBank returns the default bank with the WAV files named in cfg
// replacing or adding sounds. Files that fail to load are logged and the
// built-in tone is kept.
func LoadBank(cfg config.AudioConfig, log *logger.Logger) *Bank {
	b := DefaultBank(cfg.SampleRate)

	ids := make([]int, 0, len(cfg.Sounds))
	for id := range cfg.Sounds {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		s, err := LoadWAV(cfg.Sounds[id])
		if err != nil {
			log.Warnf("Sound %d: %v", id, err)
			continue
		}
		b.Add(id, s)
		log.Debugf("Sound %d loaded from %s (%.2fs)", id, cfg.Sounds[id], s.Duration())
	}
	return b
}

// Add stores s under id, resampled to the bank rate.
func (b *Bank) Add(id int, s *Sound) {
	b.sounds[id] = s.Resample(b.sampleRate)
}

// Get returns the clip for id.
func (b *Bank) Get(id int) (*Sound, error) {
	s, ok := b.sounds[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSound, id)
	}
	return s, nil
}

// SampleRate returns the rate all clips in the bank play at.
func (b *Bank) SampleRate() int {
	return b.sampleRate
}
