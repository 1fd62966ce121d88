package scene

// Entity is a named object in the graph, placed by its node and given
// behaviour by its components.
type Entity struct {
	name       string
	node       *Node
	graph      *Graph
	components []any
}

func (e *Entity) Name() string {
	return e.name
}

func (e *Entity) Node() *Node {
	return e.node
}

// Graph returns the graph the entity belongs to.
func (e *Entity) Graph() *Graph {
	return e.graph
}

// AddComponent attaches c. Components are visited in the order added.
func (e *Entity) AddComponent(c any) {
	e.components = append(e.components, c)
}

// GetComponent returns the first component of e assignable to T.
func GetComponent[T any](e *Entity) (T, bool) {
	for _, c := range e.components {
		if t, ok := c.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}
