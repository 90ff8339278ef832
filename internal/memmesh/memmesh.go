// Package memmesh is the in-memory implementation of the api.Mesh contract.
// Drivers populate pre-sized containers during their parsing passes and hand
// exclusive ownership of the finished mesh to the caller.
package memmesh

import (
	"math"

	"github.com/meshkit-io/meshkit/api"
)

// Mesh owns its entity containers exclusively. Containers are allocated up
// front once counts are known and never resized after the load finishes.
type Mesh struct {
	driverName string
	uri        string
	crs        string

	vertices []api.Vertex
	edges    []api.Edge
	faces    []api.Face

	extent api.Extent
	groups []*api.DatasetGroup
}

// New builds a mesh around already-populated containers. The extent is
// computed here, once, from the final vertex set.
func New(driverName, uri string, vertices []api.Vertex, edges []api.Edge, faces []api.Face) *Mesh {
	return &Mesh{
		driverName: driverName,
		uri:        uri,
		vertices:   vertices,
		edges:      edges,
		faces:      faces,
		extent:     ComputeExtent(vertices),
	}
}

func (m *Mesh) DriverName() string { return m.driverName }
func (m *Mesh) URI() string        { return m.uri }
func (m *Mesh) Extent() api.Extent { return m.extent }
func (m *Mesh) CRS() string        { return m.crs }

// SetCRS stores the source coordinate reference string verbatim.
func (m *Mesh) SetCRS(crs string) { m.crs = crs }

func (m *Mesh) VertexCount() int { return len(m.vertices) }
func (m *Mesh) EdgeCount() int   { return len(m.edges) }
func (m *Mesh) FaceCount() int   { return len(m.faces) }

func (m *Mesh) Vertices() []api.Vertex { return m.vertices }
func (m *Mesh) Edges() []api.Edge      { return m.edges }
func (m *Mesh) Faces() []api.Face      { return m.faces }

func (m *Mesh) DatasetGroups() []*api.DatasetGroup { return m.groups }

func (m *Mesh) AddDatasetGroup(g *api.DatasetGroup) {
	m.groups = append(m.groups, g)
}

// ComputeExtent scans the vertex set once and returns its XY bounding box.
// An empty vertex set yields the sentinel empty extent.
func ComputeExtent(vertices []api.Vertex) api.Extent {
	ext := api.EmptyExtent()
	for _, v := range vertices {
		ext.MinX = math.Min(ext.MinX, v.X)
		ext.MaxX = math.Max(ext.MaxX, v.X)
		ext.MinY = math.Min(ext.MinY, v.Y)
		ext.MaxY = math.Max(ext.MaxY, v.Y)
	}
	return ext
}

// AddScalarDatasetGroup attaches an index-aligned scalar dataset. Empty
// values are a no-op; a name collision with an existing group keeps both.
func AddScalarDatasetGroup(m *Mesh, values []float64, name string, location api.DataLocation) {
	if len(values) == 0 {
		return
	}
	m.AddDatasetGroup(&api.DatasetGroup{
		Name:     name,
		Location: location,
		Values:   values,
	})
}

// AddBedElevationDatasetGroup derives a per-vertex dataset from each
// vertex's Z coordinate, so elevation is queryable through the generic
// dataset contract rather than only via raw geometry.
func AddBedElevationDatasetGroup(m *Mesh, vertices []api.Vertex) {
	if len(vertices) == 0 {
		return
	}
	values := make([]float64, len(vertices))
	for i, v := range vertices {
		values[i] = v.Z
	}
	AddScalarDatasetGroup(m, values, "Bed Elevation", api.OnVertices)
}
