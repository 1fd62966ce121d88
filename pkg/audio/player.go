package audio

import "errors"

// ErrUnknownSound is returned for a sound id that is not in the bank.
var ErrUnknownSound = errors.New("unknown sound")

// Player triggers bank sounds on a mixer. It is used as an entity
// component.
type Player struct {
	bank   *Bank
	mixer  *Mixer
	volume float32
	pan    float32
}

// NewPlayer creates a player at full volume, centered.
func NewPlayer(bank *Bank, mixer *Mixer) *Player {
	return &Player{bank: bank, mixer: mixer, volume: 1}
}

// PlaySound starts sound id. Sounds overlap; nothing already playing is cut.
func (p *Player) PlaySound(id int) error {
	s, err := p.bank.Get(id)
	if err != nil {
		return err
	}
	p.mixer.Play(s, p.volume, p.pan)
	return nil
}

// SetVolume sets the volume of sounds started afterwards.
func (p *Player) SetVolume(volume float32) {
	p.volume = volume
}

// SetPan sets the stereo position of sounds started afterwards.
func (p *Player) SetPan(pan float32) {
	p.pan = max(-1, min(1, pan))
}
