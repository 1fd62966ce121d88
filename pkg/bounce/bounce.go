// Package bounce implements a ball that bounces around inside a box, with
// the camera tracking it and a sound for every wall it hits.
package bounce

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"sandbox/internal/logger"
	"sandbox/pkg/config"
	"sandbox/pkg/scene"
)

// Sound ids played by the ball
const (
	SoundWallX = 1
	SoundWallY = 2
	SoundWallZ = 3
	SoundLoad  = 4
)

var (
	ErrNoSoundPlayer = errors.New("entity has no sound player")
	ErrNotLoaded     = errors.New("movement is not attached to an entity")
)

// SoundPlayer plays a sound by id.
type SoundPlayer interface {
	PlaySound(id int) error
}

// Movement is the component moving the ball. It is attached to the ball
// entity and needs a SoundPlayer component next to it.
type Movement struct {
	radius   float32
	velocity mgl32.Vec3
	walls    mgl32.Vec3

	node   *scene.Node
	camera *scene.Camera
	player SoundPlayer
	logger *logger.Logger
}

// NewMovement creates the movement component described by cfg.
func NewMovement(cfg config.BounceConfig, log *logger.Logger) *Movement {
	return &Movement{
		radius:   cfg.Radius,
		velocity: mgl32.Vec3(cfg.Velocity),
		walls:    mgl32.Vec3(cfg.Walls),
		logger:   log,
	}
}

// OnLoad binds the movement to its entity and plays the load sound.
func (m *Movement) OnLoad(e *scene.Entity) error {
	player, ok := scene.GetComponent[SoundPlayer](e)
	if !ok {
		return ErrNoSoundPlayer
	}
	m.player = player
	m.node = e.Node()
	m.camera = e.Graph().Camera()

	return m.player.PlaySound(SoundLoad)
}

// Update points the camera at the ball and moves it by one step. A velocity
// component is reversed when that step would push the ball through the wall
// it is moving towards.
func (m *Movement) Update(dt float64) error {
	if m.node == nil {
		return ErrNotLoaded
	}

	initial := m.node.Position()
	m.camera.LookAt(initial)

	next := initial.Add(m.velocity.Mul(float32(dt)))

	for axis, sound := range [3]int{SoundWallX, SoundWallY, SoundWallZ} {
		v := m.velocity[axis]
		wall := m.walls[axis]
		if v >= 0 && next[axis]+m.radius > wall || v <= 0 && next[axis]-m.radius < -wall {
			m.velocity[axis] = -v
			if err := m.player.PlaySound(sound); err != nil {
				m.logger.Warnf("Failed to play wall sound: %v", err)
			}
		}
	}

	m.node.Translate(m.velocity.Mul(float32(dt)))
	return nil
}

// Velocity returns the current velocity in units per second.
func (m *Movement) Velocity() mgl32.Vec3 {
	return m.velocity
}

// NewScene returns the ball scene: one ball inside a box, watched by the
// camera, with player as its sound source.
func NewScene(cfg config.BounceConfig, player SoundPlayer, log *logger.Logger) scene.Scene {
	return scene.Scene{
		Name: "bounce",
		Load: func(g *scene.Graph) error {
			g.Camera().SetEye(mgl32.Vec3(cfg.Camera))

			node, err := g.CreateNode("ball", mgl32.Vec3(cfg.Position))
			if err != nil {
				return fmt.Errorf("failed to create ball node: %w", err)
			}
			g.CreateEntity("ball", node, player, NewMovement(cfg, log))
			return nil
		},
	}
}
