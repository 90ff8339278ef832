package cmd

import (
	"math"
	"testing"

	"github.com/ghodss/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshkit-io/meshkit/api"
	"github.com/meshkit-io/meshkit/internal/memmesh"
)

func TestSummarize(t *testing.T) {
	mesh := memmesh.New("2DM", "/data/canal.2dm",
		[]api.Vertex{{X: -1, Y: 2, Z: 4}, {X: 3, Y: 0, Z: 8}},
		nil,
		[]api.Face{{0, 1, 0}},
	)
	mesh.AddDatasetGroup(&api.DatasetGroup{
		Name:     "Depth",
		Location: api.OnFaces,
		Values:   []float64{1.5, math.NaN(), -0.5},
	})

	s := summarize(mesh)
	assert.Equal(t, "2DM", s.Driver)
	assert.Equal(t, 2, s.Vertices)
	assert.Equal(t, 1, s.Faces)
	require.Equal(t, []float64{-1, 3, 0, 2}, s.Extent)

	require.Len(t, s.Datasets, 1)
	assert.Equal(t, "Depth", s.Datasets[0].Name)
	assert.Equal(t, "faces", s.Datasets[0].Location)
	assert.Equal(t, 3, s.Datasets[0].Count)
	// Range is computed over set entries only; NaN means unset.
	require.NotNil(t, s.Datasets[0].Min)
	require.NotNil(t, s.Datasets[0].Max)
	assert.Equal(t, -0.5, *s.Datasets[0].Min)
	assert.Equal(t, 1.5, *s.Datasets[0].Max)
}

func TestSummarize_ZeroRangeEndpointSerializes(t *testing.T) {
	mesh := memmesh.New("2DM", "m", []api.Vertex{{X: 1}}, nil, nil)
	mesh.AddDatasetGroup(&api.DatasetGroup{
		Name:     "Depth",
		Location: api.OnVertices,
		Values:   []float64{0, 2},
	})

	out, err := yaml.Marshal(summarize(mesh))
	require.NoError(t, err)
	assert.Contains(t, string(out), "min: 0")
	assert.Contains(t, string(out), "max: 2")
}

func TestSummarize_AllUnsetGroupOmitsRange(t *testing.T) {
	mesh := memmesh.New("2DM", "m", nil, nil, []api.Face{{0, 1, 2}})
	mesh.AddDatasetGroup(&api.DatasetGroup{
		Name:     "Depth",
		Location: api.OnFaces,
		Values:   []float64{math.NaN()},
	})

	s := summarize(mesh)
	require.Len(t, s.Datasets, 1)
	assert.Nil(t, s.Datasets[0].Min)
	assert.Nil(t, s.Datasets[0].Max)
}

func TestSummarize_EmptyMesh(t *testing.T) {
	mesh := memmesh.New("2DM", "empty", nil, nil, nil)
	s := summarize(mesh)
	assert.Empty(t, s.Extent)
	assert.Empty(t, s.Datasets)
}

func TestSaverFor(t *testing.T) {
	name, err := saverFor("/out/mesh.2dm")
	require.NoError(t, err)
	assert.Equal(t, "2DM", name)

	_, err = saverFor("/out/surface.adf")
	assert.Error(t, err, "the TIN driver is read-only")
}
