package audio

import (
	"math"
	"sync"
)

// Channels is the number of interleaved output channels the mixer produces.
const Channels = 2

// voice is one playing instance of a sound
type voice struct {
	sound    *Sound
	position int
	volume   float32
	pan      float32
}

// Mixer sums playing voices into an interleaved stereo stream. Process runs
// on the audio callback thread while Play is called from the game loop.
type Mixer struct {
	mu     sync.Mutex
	voices []*voice
	volume float32
}

// NewMixer creates a mixer with master volume in [0, 1].
func NewMixer(volume float64) *Mixer {
	return &Mixer{volume: float32(volume)}
}

// Play starts s with volume in [0, 1] and pan in [-1, 1] (left to right).
func (m *Mixer) Play(s *Sound, volume, pan float32) {
	if len(s.Samples) == 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.voices = append(m.voices, &voice{sound: s, volume: volume, pan: pan})
}

// Active returns the number of voices still playing.
func (m *Mixer) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.voices)
}

// SetVolume changes the master volume.
func (m *Mixer) SetVolume(volume float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = float32(volume)
}

// Process fills out with the next interleaved frames. It has the signature
// of a PortAudio output callback.
func (m *Mixer) Process(out []float32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Clear buffer
	for i := range out {
		out[i] = 0
	}

	playing := m.voices[:0]
	for _, v := range m.voices {
		left := v.volume * m.volume * (1 - v.pan) / 2
		right := v.volume * m.volume * (1 + v.pan) / 2

		for i := 0; i+1 < len(out) && v.position < len(v.sound.Samples); i += Channels {
			sample := v.sound.Samples[v.position]
			out[i] += sample * left
			out[i+1] += sample * right
			v.position++
		}

		if v.position < len(v.sound.Samples) {
			playing = append(playing, v)
		}
	}
	for i := len(playing); i < len(m.voices); i++ {
		m.voices[i] = nil
	}
	m.voices = playing

	for i := range out {
		out[i] = softClip(out[i])
	}
}

// clipKnee is where softClip starts compressing
const clipKnee = 0.8

// softClip leaves samples below the knee untouched and bends louder ones
// smoothly towards ±1.
func softClip(x float32) float32 {
	mag := math.Abs(float64(x))
	if mag <= clipKnee {
		return x
	}
	y := clipKnee + (1-clipKnee)*math.Tanh((mag-clipKnee)/(1-clipKnee))
	return float32(math.Copysign(y, float64(x)))
}
