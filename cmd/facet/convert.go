package main

import (
	"fmt"

	"github.com/chazu/facet/pkg/mesh"
	"github.com/spf13/cobra"
)

func newConvertCmd() *cobra.Command {
	var out outputOptions

	cmd := &cobra.Command{
		Use:   "convert <document.json>",
		Short: "Re-export a saved JSON document, baking its pending transform",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := mesh.Load(args[0])
			if err != nil {
				return err
			}
			fc.AcceptTransformations()
			if err := out.apply(fc); err != nil {
				return err
			}
			if err := writeMesh(out.output, out.format, fc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d points, %d faces)\n", out.output, fc.NumPoints(), fc.NumFaces())
			return nil
		},
	}
	out.register(cmd, "element.stl", "stl")
	return cmd
}
