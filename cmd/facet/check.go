package main

import (
	"fmt"

	"github.com/chazu/facet/pkg/config"
	"github.com/chazu/facet/pkg/kernel"
	"github.com/chazu/facet/pkg/kernel/sdfx"
	"github.com/spf13/cobra"
)

// newCheckCmd compares a procedural mesh against its sdfx reference solid.
func newCheckCmd(cfg *config.Config) *cobra.Command {
	check := &cobra.Command{
		Use:   "check",
		Short: "Measure how far a primitive's vertices lie from the exact surface",
	}

	for _, sc := range shapeCommands {
		var spec kernel.Spec
		var tolerance float64
		var cells int
		var reference bool

		cmd := &cobra.Command{
			Use:   string(sc.kind),
			Short: "Check " + string(sc.kind),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				spec.Kind = sc.kind
				fc, err := kernel.Build(spec)
				if err != nil {
					return err
				}
				dev, err := sdfx.Deviation(fc, spec)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d points, %d faces, max deviation %g\n",
					sc.kind, fc.NumPoints(), fc.NumFaces(), dev)

				if reference || cmd.Flags().Changed("cells") {
					if !cmd.Flags().Changed("cells") {
						cells = cfg.MeshCells
					}
					k := referenceKernel(cells)
					ref, err := k.Build(spec)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "sdfx reference: %d faces at %d cells\n", ref.NumFaces(), k.Cells())
				}

				if dev > tolerance {
					return fmt.Errorf("deviation %g exceeds tolerance %g", dev, tolerance)
				}
				return nil
			},
		}
		sc.flags(cmd, &spec)
		cmd.Flags().Float64Var(&tolerance, "tolerance", 1e-6, "maximum allowed deviation")
		cmd.Flags().BoolVar(&reference, "reference", false, "also mesh the sdfx reference solid")
		cmd.Flags().IntVar(&cells, "cells", 0, "reference resolution (default mesh_cells from the config)")
		check.AddCommand(cmd)
	}
	return check
}

// referenceKernel picks the sdfx resolution; zero means the library default.
func referenceKernel(cells int) *sdfx.SdfxKernel {
	if cells > 0 {
		return sdfx.NewWithCells(cells)
	}
	return sdfx.New()
}
