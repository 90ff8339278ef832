package api

// Capability is the bitset of operations a driver supports.
type Capability uint32

const (
	CapReadMesh Capability = 1 << iota
	CapSaveMesh
)

// Has reports whether all bits of want are set.
func (c Capability) Has(want Capability) bool {
	return c&want == want
}

// Info describes a driver: a stable name, a human-readable description, a
// glob filter for extension-based dispatch, and the capability bitset.
type Info struct {
	Name         string
	Description  string
	Glob         string
	Capabilities Capability
}

// Driver is a format-specific component that reconstructs a normalized mesh
// from vendor-defined files.
//
// Probe must be inexpensive (a header-only peek or file-existence check) and
// side-effect-free on failure; it guards registry dispatch. Load either
// returns a fully valid mesh or an error, never a half-populated mesh.
type Driver interface {
	Info() Info
	Probe(uri string) bool
	Load(uri string) (Mesh, error)
}

// Saver is the optional save capability. Implementations are pure
// serializers over the generic Mesh contract.
type Saver interface {
	Save(uri string, m Mesh) error
}
