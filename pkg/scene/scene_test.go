package scene_test

import (
	"errors"
	"io"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sandbox/internal/logger"
	"sandbox/pkg/scene"
)

type counter struct {
	loaded  *scene.Entity
	updates []float64
	failOn  error
}

func (c *counter) OnLoad(e *scene.Entity) error {
	c.loaded = e
	return c.failOn
}

func (c *counter) Update(dt float64) error {
	c.updates = append(c.updates, dt)
	return nil
}

type tag string

func newGraph() *scene.Graph {
	return scene.NewGraph(logger.New(io.Discard, "error"))
}

func TestLoadRunsLoadersAfterBuild(t *testing.T) {
	g := newGraph()
	c := &counter{}

	err := g.Load(scene.Scene{
		Name: "test",
		Load: func(g *scene.Graph) error {
			node, err := g.CreateNode("ball", mgl32.Vec3{1, 2, 3})
			if err != nil {
				return err
			}
			g.CreateEntity("ball", node, tag("ball"), c)
			return nil
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "test", g.Name())
	require.NotNil(t, c.loaded)
	assert.Equal(t, "ball", c.loaded.Name())
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, c.loaded.Node().Position())
	assert.Same(t, g, c.loaded.Graph())

	require.NoError(t, g.Update(0.5))
	require.NoError(t, g.Update(0.25))
	assert.Equal(t, []float64{0.5, 0.25}, c.updates)
}

func TestLoadReplacesPreviousScene(t *testing.T) {
	g := newGraph()
	build := func(g *scene.Graph) error {
		node, err := g.CreateNode("only", mgl32.Vec3{})
		if err != nil {
			return err
		}
		g.CreateEntity("only", node)
		return nil
	}

	require.NoError(t, g.Load(scene.Scene{Name: "a", Load: build}))
	require.NoError(t, g.Load(scene.Scene{Name: "b", Load: build}))

	assert.Equal(t, "b", g.Name())
	assert.Len(t, g.Entities(), 1)
}

func TestLoadErrors(t *testing.T) {
	t.Run("no load function", func(t *testing.T) {
		assert.Error(t, newGraph().Load(scene.Scene{Name: "empty"}))
	})

	t.Run("load function fails", func(t *testing.T) {
		boom := errors.New("boom")
		err := newGraph().Load(scene.Scene{Name: "bad", Load: func(*scene.Graph) error { return boom }})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("loader fails", func(t *testing.T) {
		boom := errors.New("missing part")
		err := newGraph().Load(scene.Scene{Name: "bad", Load: func(g *scene.Graph) error {
			node, _ := g.CreateNode("n", mgl32.Vec3{})
			g.CreateEntity("e", node, &counter{failOn: boom})
			return nil
		}})
		assert.ErrorIs(t, err, boom)
		assert.ErrorContains(t, err, `entity "e"`)
	})

	t.Run("duplicate node", func(t *testing.T) {
		err := newGraph().Load(scene.Scene{Name: "dup", Load: func(g *scene.Graph) error {
			if _, err := g.CreateNode("n", mgl32.Vec3{}); err != nil {
				return err
			}
			_, err := g.CreateNode("n", mgl32.Vec3{})
			return err
		}})
		assert.ErrorContains(t, err, `node "n" already exists`)
	})
}

func TestGetComponent(t *testing.T) {
	g := newGraph()
	node, err := g.CreateNode("n", mgl32.Vec3{})
	require.NoError(t, err)

	c := &counter{}
	e := g.CreateEntity("e", node, tag("first"))
	e.AddComponent(c)
	e.AddComponent(tag("second"))

	got, ok := scene.GetComponent[*counter](e)
	require.True(t, ok)
	assert.Same(t, c, got)

	name, ok := scene.GetComponent[tag](e)
	require.True(t, ok)
	assert.Equal(t, tag("first"), name)

	updater, ok := scene.GetComponent[scene.Updater](e)
	require.True(t, ok)
	assert.Equal(t, c, updater)

	_, ok = scene.GetComponent[int](e)
	assert.False(t, ok)
}

func TestNodeTranslate(t *testing.T) {
	g := newGraph()
	node, err := g.CreateNode("n", mgl32.Vec3{1, 1, 1})
	require.NoError(t, err)

	node.Translate(mgl32.Vec3{1, -2, 0.5})
	assert.Equal(t, mgl32.Vec3{2, -1, 1.5}, node.Position())
	assert.Same(t, node, g.Node("n"))
	assert.Nil(t, g.Node("other"))
}

func TestCameraLookAt(t *testing.T) {
	cam := scene.NewCamera(mgl32.Vec3{0, 0, 300})
	assert.True(t, cam.Direction().ApproxEqual(mgl32.Vec3{0, 0, -1}))

	cam.LookAt(mgl32.Vec3{300, 0, 300})
	assert.True(t, cam.Direction().ApproxEqual(mgl32.Vec3{1, 0, 0}))

	// the target lands on the camera's -Z axis in view space
	view := cam.View()
	target := view.Mul4x1(cam.Target().Vec4(1)).Vec3()
	assert.InDelta(t, 0, target[0], 1e-3)
	assert.InDelta(t, 0, target[1], 1e-3)
	assert.InDelta(t, -300, target[2], 1e-3)

	cam.LookAt(cam.Eye())
	assert.Equal(t, mgl32.Vec3{300, 0, 300}, cam.Target())
}
