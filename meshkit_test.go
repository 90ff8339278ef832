package meshkit

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshkit-io/meshkit/api"
)

const triangle2dm = `MESH2D
ND 1 0 0 0
ND 2 1 0 0
ND 3 0 1 0
E3T 1 1 2 3 0
`

func TestRegistry_Drivers(t *testing.T) {
	r := NewRegistry(memfs.New())
	infos := r.Drivers()
	require.Len(t, infos, 2)
	assert.Equal(t, "2DM", infos[0].Name)
	assert.Equal(t, "ESRI_TIN", infos[1].Name)
	assert.True(t, infos[0].Capabilities.Has(api.CapReadMesh|api.CapSaveMesh))
	assert.True(t, infos[1].Capabilities.Has(api.CapReadMesh))
	assert.False(t, infos[1].Capabilities.Has(api.CapSaveMesh))
}

func TestRegistry_ProbeDispatch(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "mesh.2dm", []byte(triangle2dm), 0o644))
	r := NewRegistry(fs)

	d, ok := r.Probe("mesh.2dm")
	require.True(t, ok)
	assert.Equal(t, "2DM", d.Info().Name)

	_, ok = r.Probe("unknown.bin")
	assert.False(t, ok)
}

func TestRegistry_Load(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "mesh.2dm", []byte(triangle2dm), 0o644))
	r := NewRegistry(fs)

	mesh, err := r.Load("mesh.2dm")
	require.NoError(t, err)
	assert.Equal(t, 3, mesh.VertexCount())
	assert.Equal(t, 1, mesh.FaceCount())
	assert.Equal(t, "2DM", mesh.DriverName())
}

func TestRegistry_LoadUnrecognized(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "noise.bin", []byte("not a mesh"), 0o644))
	r := NewRegistry(fs)

	_, err := r.Load("noise.bin")
	assert.ErrorIs(t, err, api.ErrUnrecognizedFormat)
}

func TestRegistry_SaveRoundTrip(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "mesh.2dm", []byte(triangle2dm), 0o644))
	r := NewRegistry(fs)

	mesh, err := r.Load("mesh.2dm")
	require.NoError(t, err)
	require.NoError(t, r.Save("2DM", "copy.2dm", mesh))

	copied, err := r.Load("copy.2dm")
	require.NoError(t, err)
	assert.Equal(t, mesh.Vertices(), copied.Vertices())
	assert.Equal(t, mesh.Faces(), copied.Faces())
}

func TestRegistry_SaveRejectsReadOnlyDriver(t *testing.T) {
	r := NewRegistry(memfs.New())
	err := r.Save("ESRI_TIN", "out.adf", nil)
	assert.ErrorIs(t, err, api.ErrWriteFailure)
}

func TestRegistry_SaveUnknownDriver(t *testing.T) {
	r := NewRegistry(memfs.New())
	err := r.Save("NOPE", "out", nil)
	assert.ErrorIs(t, err, api.ErrWriteFailure)
}
