// Package api defines the public contract between format drivers and the
// hosts that consume normalized meshes: the in-memory mesh model, the driver
// interface, and the coarse error kinds drivers report.
package api

import "math"

// Vertex is a point in 3D space. A vertex has no identity beyond its
// position in the mesh's vertex container.
type Vertex struct {
	X, Y, Z float64
}

// Edge connects two vertices by dense 0-based index. Both endpoints are
// resolved at construction time; an Edge never carries a format-native ID.
type Edge struct {
	Start, End int
}

// Face is an ordered sequence of dense vertex indices. Order is significant
// (it defines the winding) and is preserved verbatim from the source file.
type Face []int

// Extent is the axis-aligned bounding box of a mesh's vertices in the XY
// plane. It is computed once after a driver finishes populating vertices and
// never mutated afterward.
type Extent struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// EmptyExtent returns the sentinel extent of an empty vertex set: an
// inverted box that any real coordinate would shrink onto.
func EmptyExtent() Extent {
	return Extent{
		MinX: math.Inf(1), MaxX: math.Inf(-1),
		MinY: math.Inf(1), MaxY: math.Inf(-1),
	}
}

// IsEmpty reports whether the extent is the empty sentinel.
func (e Extent) IsEmpty() bool {
	return e.MinX > e.MaxX || e.MinY > e.MaxY
}

// DataLocation says which entity container a dataset group is aligned with.
type DataLocation int

const (
	OnVertices DataLocation = iota
	OnFaces
)

func (l DataLocation) String() string {
	switch l {
	case OnVertices:
		return "vertices"
	case OnFaces:
		return "faces"
	}
	return "unknown"
}

// DatasetGroup is a named collection of scalar values aligned by index with
// the mesh's vertex or face container. NaN entries mean "unset".
type DatasetGroup struct {
	Name     string
	Location DataLocation
	Values   []float64
}

// Mesh is the generic read contract a driver populates and a host consumes.
// Save paths must re-derive every output line solely from this interface,
// never from driver-private state, so any mesh can round-trip through any
// save-capable driver.
type Mesh interface {
	// DriverName identifies the driver that produced the mesh.
	DriverName() string
	// URI is the source the mesh was loaded from.
	URI() string

	Extent() Extent
	// CRS is the source coordinate reference string, verbatim and unparsed.
	// Empty when the source carries none.
	CRS() string

	VertexCount() int
	EdgeCount() int
	FaceCount() int

	Vertices() []Vertex
	Edges() []Edge
	Faces() []Face

	DatasetGroups() []*DatasetGroup
	// AddDatasetGroup attaches an externally built dataset group. The mesh
	// keeps every group it is given; name collisions are not an error.
	AddDatasetGroup(g *DatasetGroup)
}
