package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var probeCmd = &cobra.Command{
	Use:   "probe <uri>",
	Short: "Report which driver recognizes a mesh file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		uri := absURI(args[0])
		d, ok := registry.Probe(uri)
		if !ok {
			fmt.Printf("%s: not recognized by any driver\n", uri)
			os.Exit(1)
		}
		info := d.Info()
		fmt.Printf("%s: %s (%s)\n", uri, info.Name, info.Description)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(probeCmd)
}
