package cmd

import (
	"fmt"
	"path"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/meshkit-io/meshkit/api"
)

var convertCmd = &cobra.Command{
	Use:   "convert <src> <dst>",
	Short: "Load a mesh and re-save it through a save-capable driver",
	Long: `Loads the source through whichever driver recognizes it and
serializes it through the save-capable driver whose glob matches the
destination name. The save path works from the generic mesh contract, so any
source format converts.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, dst := absURI(args[0]), absURI(args[1])

		mesh, err := registry.Load(src)
		if err != nil {
			return fmt.Errorf("load %s: %w", src, err)
		}

		name, err := saverFor(dst)
		if err != nil {
			return err
		}
		if err := registry.Save(name, dst, mesh); err != nil {
			return fmt.Errorf("save %s: %w", dst, err)
		}
		fmt.Printf("wrote %s (%d vertices, %d faces, %d edges)\n",
			dst, mesh.VertexCount(), mesh.FaceCount(), mesh.EdgeCount())
		return nil
	},
}

// saverFor picks the save-capable driver whose glob matches the destination
// file name.
func saverFor(dst string) (string, error) {
	for _, info := range registry.Drivers() {
		if !info.Capabilities.Has(api.CapSaveMesh) {
			continue
		}
		if ok, _ := path.Match(info.Glob, filepath.Base(dst)); ok {
			return info.Name, nil
		}
	}
	return "", fmt.Errorf("no save-capable driver matches %s", dst)
}

func init() {
	rootCmd.AddCommand(convertCmd)
}
