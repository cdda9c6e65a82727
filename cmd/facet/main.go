// Command facet builds procedural triangle meshes from the command line,
// evaluates scene scripts and serves the HTTP API.
package main

import (
	"fmt"
	"os"

	"github.com/chazu/facet/pkg/config"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "facet:", err)
		os.Exit(1)
	}
}

// newRootCmd assembles the command tree. Config is loaded lazily so that
// --config is honoured by every subcommand.
func newRootCmd() *cobra.Command {
	var cfgPath string
	cfg := config.Default()

	root := &cobra.Command{
		Use:           "facet",
		Short:         "Procedural triangle-mesh authoring kernel",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			*cfg = *loaded
			return nil
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default "+config.DefaultPath+" if present)")

	for _, sc := range shapeCommands {
		root.AddCommand(newShapeCmd(sc, cfg))
	}
	root.AddCommand(
		newSceneCmd(cfg),
		newCheckCmd(cfg),
		newConvertCmd(),
		newServeCmd(cfg),
		newConfigCmd(cfg),
	)
	return root
}
