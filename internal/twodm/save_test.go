package twodm

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshkit-io/meshkit/api"
	"github.com/meshkit-io/meshkit/internal/memmesh"
)

func TestSave_RoundTrip(t *testing.T) {
	d, fs := newDriver(t)
	writeMesh(t, fs, "src.2dm",
		"MESH2D",
		"ND 1 0.125 0 1.5",
		"ND 2 1 0 2.5",
		"ND 3 0 1 3.5",
		"ND 4 1 1 4.5",
		"E3T 1 1 2 3 1",
		"E4Q 2 1 2 4 3 1",
		"E2L 3 1 2 1",
	)

	src, err := d.Load("src.2dm")
	require.NoError(t, err)
	require.NoError(t, d.Save("dst.2dm", src))

	dst, err := d.Load("dst.2dm")
	require.NoError(t, err)

	require.Equal(t, src.VertexCount(), dst.VertexCount())
	require.Equal(t, src.FaceCount(), dst.FaceCount())
	require.Equal(t, src.EdgeCount(), dst.EdgeCount())

	assert.Equal(t, src.Vertices(), dst.Vertices())
	assert.Equal(t, src.Faces(), dst.Faces())
	assert.Equal(t, src.Edges(), dst.Edges())
}

func TestSave_EmitsExpectedLines(t *testing.T) {
	d, fs := newDriver(t)

	mesh := memmesh.New(driverName, "built",
		[]api.Vertex{{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 2}, {X: 0, Y: 1, Z: 3}},
		[]api.Edge{{Start: 0, End: 2}},
		[]api.Face{{0, 1, 2}},
	)
	require.NoError(t, d.Save("out.2dm", mesh))

	content, err := util.ReadFile(fs, "out.2dm")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "MESH2D", lines[0])
	assert.Equal(t, "ND 1 0 0 1", lines[1])
	assert.Equal(t, "ND 3 0 1 3", lines[3])
	assert.Equal(t, "E3T 1 1 2 3", lines[4])
	// Edge IDs continue after the last face ID.
	assert.Equal(t, "E2L 2 1 3 1", lines[5])
}

func TestSave_OmitsUnsupportedFaceArity(t *testing.T) {
	d, fs := newDriver(t)
	var buf bytes.Buffer
	d.SetLogger(log.New(&buf, "", 0))

	mesh := memmesh.New(driverName, "built",
		[]api.Vertex{{X: 0}, {X: 1}, {X: 2}, {X: 3}, {X: 4}},
		nil,
		[]api.Face{
			{0, 1, 2},
			{0, 1, 2, 3, 4}, // five vertices, not expressible in 2DM
			{2, 3, 4},
		},
	)
	require.NoError(t, d.Save("out.2dm", mesh))

	content, err := util.ReadFile(fs, "out.2dm")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	// Header, 5 vertices, 2 faces: the five-vertex face produces no line at
	// all, blank or otherwise.
	require.Len(t, lines, 8)
	for _, line := range lines {
		assert.NotEmpty(t, strings.TrimSpace(line))
	}
	assert.Contains(t, buf.String(), "skipping face")
	assert.Equal(t, "E3T 1 1 2 3", lines[6])
	assert.Equal(t, "E3T 3 3 4 5", lines[7])
}

func TestSave_IsPureSerializerOverContract(t *testing.T) {
	// A mesh built by hand, never touched by any driver, saves fine: the
	// save path only uses the generic mesh read contract.
	d, _ := newDriver(t)
	mesh := memmesh.New("other-driver", "elsewhere",
		[]api.Vertex{{X: 0}, {X: 1}, {X: 2}},
		nil,
		[]api.Face{{2, 1, 0}},
	)
	require.NoError(t, d.Save("foreign.2dm", mesh))

	loaded, err := d.Load("foreign.2dm")
	require.NoError(t, err)
	assert.Equal(t, api.Face{2, 1, 0}, loaded.Faces()[0], "winding preserved")
}

// unwritableFS rejects every Create call.
type unwritableFS struct {
	billy.Filesystem
}

func (unwritableFS) Create(string) (billy.File, error) {
	return nil, errors.New("permission denied")
}

func TestSave_UnwritableDestination(t *testing.T) {
	d := New(unwritableFS{memfs.New()})

	mesh := memmesh.New(driverName, "src", []api.Vertex{{X: 0}}, nil, nil)
	err := d.Save("denied.2dm", mesh)
	assert.ErrorIs(t, err, api.ErrWriteFailure)
}
