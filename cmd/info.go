package cmd

import (
	"fmt"
	"math"

	"github.com/ghodss/yaml"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/meshkit-io/meshkit/api"
	"github.com/meshkit-io/meshkit/internal/esritin"
)

var infoYAML bool

// datasetSummary describes one dataset group, with the value range computed
// over set (non-NaN) entries only.
// Min and Max are pointers so an all-unset group omits the range while a
// range endpoint of exactly 0 still serializes.
type datasetSummary struct {
	Name     string   `json:"name"`
	Location string   `json:"location"`
	Count    int      `json:"count"`
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
}

type meshSummary struct {
	Driver      string           `json:"driver"`
	URI         string           `json:"uri"`
	Vertices    int              `json:"vertices"`
	Edges       int              `json:"edges"`
	Faces       int              `json:"faces"`
	Extent      []float64        `json:"extent,omitempty"` // minX maxX minY maxY
	CRS         string           `json:"crs,omitempty"`
	Datasets    []datasetSummary `json:"datasets,omitempty"`
	Superpoints *uint64          `json:"superpoints,omitempty"`
}

var infoCmd = &cobra.Command{
	Use:   "info <uri>",
	Short: "Load a mesh and print its structure",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		uri := absURI(args[0])
		driver, ok := registry.Probe(uri)
		if !ok {
			return fmt.Errorf("no driver recognizes %s", uri)
		}
		mesh, err := driver.Load(uri)
		if err != nil {
			return fmt.Errorf("load %s: %w", uri, err)
		}

		s := summarize(mesh)
		if tin, ok := driver.(*esritin.Driver); ok {
			if sp, err := tin.Superpoints(uri); err == nil {
				n := sp.GetCardinality()
				s.Superpoints = &n
			}
		}

		if infoYAML {
			out, err := yaml.Marshal(s)
			if err != nil {
				return err
			}
			fmt.Print(string(out))
			return nil
		}
		printSummary(s)
		return nil
	},
}

func summarize(mesh api.Mesh) *meshSummary {
	s := &meshSummary{
		Driver:   mesh.DriverName(),
		URI:      mesh.URI(),
		Vertices: mesh.VertexCount(),
		Edges:    mesh.EdgeCount(),
		Faces:    mesh.FaceCount(),
		CRS:      mesh.CRS(),
	}
	if ext := mesh.Extent(); !ext.IsEmpty() {
		s.Extent = []float64{ext.MinX, ext.MaxX, ext.MinY, ext.MaxY}
	}
	for _, g := range mesh.DatasetGroups() {
		ds := datasetSummary{
			Name:     g.Name,
			Location: g.Location.String(),
			Count:    len(g.Values),
		}
		set := make([]float64, 0, len(g.Values))
		for _, v := range g.Values {
			if !math.IsNaN(v) {
				set = append(set, v)
			}
		}
		if len(set) > 0 {
			lo, hi := floats.Min(set), floats.Max(set)
			ds.Min, ds.Max = &lo, &hi
		}
		s.Datasets = append(s.Datasets, ds)
	}
	return s
}

func printSummary(s *meshSummary) {
	fmt.Printf("driver:   %s\n", s.Driver)
	fmt.Printf("uri:      %s\n", s.URI)
	fmt.Printf("vertices: %d\nedges:    %d\nfaces:    %d\n", s.Vertices, s.Edges, s.Faces)
	if len(s.Extent) == 4 {
		fmt.Printf("extent:   x [%g, %g]  y [%g, %g]\n", s.Extent[0], s.Extent[1], s.Extent[2], s.Extent[3])
	}
	if s.CRS != "" {
		fmt.Printf("crs:      %s\n", s.CRS)
	}
	for _, d := range s.Datasets {
		if d.Min != nil && d.Max != nil {
			fmt.Printf("dataset:  %q on %s, %d values, range [%g, %g]\n", d.Name, d.Location, d.Count, *d.Min, *d.Max)
		} else {
			fmt.Printf("dataset:  %q on %s, %d values\n", d.Name, d.Location, d.Count)
		}
	}
	if s.Superpoints != nil {
		fmt.Printf("superpoints: %d\n", *s.Superpoints)
	}
}

func init() {
	infoCmd.Flags().BoolVar(&infoYAML, "yaml", false, "emit the summary as YAML")
	rootCmd.AddCommand(infoCmd)
}
