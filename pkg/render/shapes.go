package render

import "github.com/go-gl/mathgl/mgl32"

// Shape is static geometry: positions in normalized device coordinates and
// triangle indices into them.
type Shape struct {
	Name     string
	Vertices []mgl32.Vec3
	Indices  []uint32
}

// Rectangle is a unit square centered at the origin, drawn as two triangles.
var Rectangle = Shape{
	Name: "rectangle",
	Vertices: []mgl32.Vec3{
		{0.5, 0.5, 0.0},   // top right
		{0.5, -0.5, 0.0},  // bottom right
		{-0.5, -0.5, 0.0}, // bottom left
		{-0.5, 0.5, 0.0},  // top left
	},
	Indices: []uint32{
		0, 1, 3, // first triangle
		1, 2, 3, // second triangle
	},
}

// Triangle is a single triangle with its apex on the y axis.
var Triangle = Shape{
	Name: "triangle",
	Vertices: []mgl32.Vec3{
		{-0.5, -0.5, 0.0},
		{0.5, -0.5, 0.0},
		{0.0, 0.5, 0.0},
	},
	Indices: []uint32{0, 1, 2},
}

// Positions flattens the vertices to the x, y, z float stream uploaded to
// the vertex buffer.
func (s Shape) Positions() []float32 {
	out := make([]float32, 0, len(s.Vertices)*3)
	for _, v := range s.Vertices {
		out = append(out, v[0], v[1], v[2])
	}
	return out
}
