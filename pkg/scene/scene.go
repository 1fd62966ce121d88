// Package scene holds the world the sandbox simulates alongside the render
// loop: positioned nodes, a camera and entities carrying behaviour
// components.
package scene

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"sandbox/internal/logger"
)

// LoadFunc populates a freshly reset graph.
type LoadFunc func(g *Graph) error

// Scene is a named recipe for building a graph.
type Scene struct {
	Name string
	Load LoadFunc
}

// Loader is implemented by components that need their entity once the scene
// has been built.
type Loader interface {
	OnLoad(e *Entity) error
}

// Updater is implemented by components that advance every frame.
type Updater interface {
	Update(dt float64) error
}

// Graph owns the nodes, entities and camera of the loaded scene.
type Graph struct {
	name     string
	camera   *Camera
	nodes    map[string]*Node
	entities []*Entity
	logger   *logger.Logger
}

// NewGraph returns an empty graph with a camera at the origin.
func NewGraph(log *logger.Logger) *Graph {
	g := &Graph{logger: log}
	g.reset()
	return g
}

func (g *Graph) reset() {
	g.name = ""
	g.camera = NewCamera(mgl32.Vec3{})
	g.nodes = make(map[string]*Node)
	g.entities = nil
}

// Load discards the current contents, runs the scene's load function and
// then notifies every Loader component.
func (g *Graph) Load(s Scene) error {
	if s.Load == nil {
		return fmt.Errorf("scene %q has no load function", s.Name)
	}

	g.reset()
	g.name = s.Name
	if err := s.Load(g); err != nil {
		return fmt.Errorf("failed to load scene %q: %w", s.Name, err)
	}

	var errs []error
	for _, e := range g.entities {
		for _, c := range e.components {
			if l, ok := c.(Loader); ok {
				if err := l.OnLoad(e); err != nil {
					errs = append(errs, fmt.Errorf("entity %q: %w", e.name, err))
				}
			}
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	g.logger.Infof("Scene %q loaded: %d nodes, %d entities", s.Name, len(g.nodes), len(g.entities))
	return nil
}

// Update advances every Updater component by dt seconds.
func (g *Graph) Update(dt float64) error {
	var errs []error
	for _, e := range g.entities {
		for _, c := range e.components {
			if u, ok := c.(Updater); ok {
				if err := u.Update(dt); err != nil {
					errs = append(errs, fmt.Errorf("entity %q: %w", e.name, err))
				}
			}
		}
	}
	return errors.Join(errs...)
}

// Name returns the name of the loaded scene, empty before the first load.
func (g *Graph) Name() string {
	return g.name
}

// Camera returns the scene camera.
func (g *Graph) Camera() *Camera {
	return g.camera
}

// CreateNode adds a node at position. Node names are unique.
func (g *Graph) CreateNode(name string, position mgl32.Vec3) (*Node, error) {
	if _, exists := g.nodes[name]; exists {
		return nil, fmt.Errorf("node %q already exists", name)
	}
	n := &Node{name: name, position: position}
	g.nodes[name] = n
	return n, nil
}

// Node returns the named node, nil if there is none.
func (g *Graph) Node(name string) *Node {
	return g.nodes[name]
}

// CreateEntity adds an entity attached to node.
func (g *Graph) CreateEntity(name string, node *Node, components ...any) *Entity {
	e := &Entity{name: name, node: node, graph: g}
	e.components = append(e.components, components...)
	g.entities = append(g.entities, e)
	return e
}

// Entities returns the entities in creation order.
func (g *Graph) Entities() []*Entity {
	return append([]*Entity(nil), g.entities...)
}
