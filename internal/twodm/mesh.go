package twodm

import "github.com/meshkit-io/meshkit/internal/memmesh"

// Mesh is a memory mesh that additionally remembers the sparse vertex-ID
// mapping of its source file, so hosts can translate format-native IDs.
type Mesh struct {
	*memmesh.Mesh

	// idToIndex maps 0-based format-native vertex IDs to dense container
	// indices. Only IDs that differ from their slot are recorded.
	idToIndex map[int]int
	maxID     int
}

// VertexIndex translates a format-native 0-based vertex ID into its dense
// index. Unmapped IDs map to themselves: the common case of contiguous
// 1..N file IDs needs no entries at all.
func (m *Mesh) VertexIndex(id int) int {
	if index, ok := m.idToIndex[id]; ok {
		return index
	}
	return id
}

// MaximumVertexID returns the largest 0-based vertex ID the source file
// used, which is at least the highest dense index.
func (m *Mesh) MaximumVertexID() int {
	maxIndex := m.VertexCount() - 1
	if m.maxID > maxIndex {
		return m.maxID
	}
	return maxIndex
}
