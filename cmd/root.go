// Package cmd implements the meshkit command-line tool: probe, inspect, and
// convert mesh files through the driver registry.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/meshkit-io/meshkit"
)

var cfgFile string

// registry is shared by all subcommands; it reads the host filesystem.
var registry = meshkit.NewDefaultRegistry()

// absURI resolves a user-supplied path against the working directory. The
// default registry reads through a filesystem rooted at /, which resolves
// relative paths against that root, not the caller's directory.
func absURI(uri string) string {
	abs, err := filepath.Abs(uri)
	if err != nil {
		return uri
	}
	return abs
}

var rootCmd = &cobra.Command{
	Use:   "meshkit",
	Short: "Inspect and convert mesh files through format drivers",
	Long: `meshkit normalizes vendor-defined mesh file formats (2DM text
meshes, Esri TIN binary surfaces) into one topological mesh model and lets
you probe, inspect, and convert them.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.meshkit.yaml)")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".meshkit")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
