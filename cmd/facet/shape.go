package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chazu/facet/pkg/config"
	"github.com/chazu/facet/pkg/kernel"
	"github.com/chazu/facet/pkg/kernel/sdfx"
	"github.com/chazu/facet/pkg/mesh"
	"github.com/spf13/cobra"
)

// shapeCommand describes one primitive subcommand and the Spec fields it
// exposes as flags.
type shapeCommand struct {
	kind  kernel.Kind
	short string
	flags func(cmd *cobra.Command, s *kernel.Spec)
}

func sizeFlags(names ...string) func(cmd *cobra.Command, s *kernel.Spec) {
	return func(cmd *cobra.Command, s *kernel.Spec) {
		for _, n := range names {
			switch n {
			case "width":
				cmd.Flags().Float64Var(&s.Width, "width", 0, "extent along X")
			case "height":
				cmd.Flags().Float64Var(&s.Height, "height", 0, "extent along Z")
			case "depth":
				cmd.Flags().Float64Var(&s.Depth, "depth", 0, "extent along Y")
			case "radius":
				cmd.Flags().Float64Var(&s.Radius, "radius", 0, "radius")
			case "layers":
				cmd.Flags().IntVar(&s.Layers, "layers", 1, "radial layers")
			case "rh-layers":
				cmd.Flags().IntVar(&s.RLayers, "r-layers", 1, "radial layers")
				cmd.Flags().IntVar(&s.HLayers, "h-layers", 1, "height layers")
			}
		}
	}
}

var shapeCommands = []shapeCommand{
	{kernel.KindPlane, "Rectangle in the xy plane", sizeFlags("width", "height")},
	{kernel.KindBox, "Closed box centred on the origin", sizeFlags("width", "height", "depth")},
	{kernel.KindSegment, "Circle segment between two angles", func(cmd *cobra.Command, s *kernel.Spec) {
		sizeFlags("radius", "layers")(cmd, s)
		cmd.Flags().Float64Var(&s.From, "from", 0, "start angle in radians")
		cmd.Flags().Float64Var(&s.To, "to", 0, "end angle in radians")
	}},
	{kernel.KindCircle, "Full disc", sizeFlags("radius", "layers")},
	{kernel.KindTube, "Open tube wall", sizeFlags("radius", "height", "rh-layers")},
	{kernel.KindCylinder, "Tube closed by two discs", sizeFlags("radius", "height", "rh-layers")},
	{kernel.KindCone, "Cone with apex on +Z", func(cmd *cobra.Command, s *kernel.Spec) {
		sizeFlags("radius", "height", "layers")(cmd, s)
		cmd.Flags().BoolVar(&s.NoBase, "no-base", false, "omit the base disc")
	}},
	{kernel.KindSphere, "Subdivided octahedron sphere", func(cmd *cobra.Command, s *kernel.Spec) {
		sizeFlags("radius")(cmd, s)
		cmd.Flags().IntVar(&s.Splits, "splits", 1, "subdivision generations")
	}},
}

// outputOptions are the flags every mesh-writing command shares.
type outputOptions struct {
	output string
	format string
	origin string
	inner  bool
}

func (o *outputOptions) register(cmd *cobra.Command, defaultOutput, defaultFormat string) {
	cmd.Flags().StringVarP(&o.output, "output", "o", defaultOutput, "output file")
	cmd.Flags().StringVar(&o.format, "format", defaultFormat, "output format: json, listing or stl")
	cmd.Flags().StringVar(&o.origin, "origin", "", "move the mesh to x,y,z before writing")
	cmd.Flags().BoolVar(&o.inner, "inner", false, "invert the winding so normals point inward")
}

// apply bakes --origin into fc and honours --inner.
func (o *outputOptions) apply(fc *mesh.FaceCollection) error {
	if o.origin != "" {
		x, y, z, err := parseOrigin(o.origin)
		if err != nil {
			return err
		}
		fc.Move(x, y, z).AcceptTransformations()
	}
	if o.inner {
		fc.Invert()
	}
	return nil
}

func newShapeCmd(sc shapeCommand, cfg *config.Config) *cobra.Command {
	var spec kernel.Spec
	var out outputOptions

	cmd := &cobra.Command{
		Use:   string(sc.kind),
		Short: sc.short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec.Kind = sc.kind
			fc, err := kernel.Build(spec)
			if err != nil {
				return err
			}
			if err := out.apply(fc); err != nil {
				return err
			}
			path := resolveOutput(cfg.OutputDir, out.output)
			if err := writeMesh(path, out.format, fc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d points, %d faces)\n", path, fc.NumPoints(), fc.NumFaces())
			return nil
		},
	}
	sc.flags(cmd, &spec)
	out.register(cmd, "element.json", "json")
	return cmd
}

// parseOrigin reads "x,y,z".
func parseOrigin(s string) (x, y, z float64, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("origin %q: want x,y,z", s)
	}
	var v [3]float64
	for i, p := range parts {
		v[i], err = strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("origin %q: %w", s, err)
		}
	}
	return v[0], v[1], v[2], nil
}

// resolveOutput places relative paths under dir.
func resolveOutput(dir, path string) string {
	if dir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// writeMesh saves fc in the requested format.
func writeMesh(path, format string, fc *mesh.FaceCollection) error {
	switch format {
	case "json":
		return mesh.Save(path, fc)
	case "listing":
		// The listing has no transform fields, so pending moves are baked.
		if !fc.Transform().IsIdentity() {
			fc = fc.Clone()
			fc.AcceptTransformations()
		}
		return mesh.SaveListing(path, fc)
	case "stl":
		return sdfx.SaveSTL(path, fc)
	default:
		return fmt.Errorf("unknown format %q (want json, listing or stl)", format)
	}
}

// formatExt is the file extension used for a format.
func formatExt(format string) string {
	switch format {
	case "listing":
		return ".txt"
	case "stl":
		return ".stl"
	default:
		return ".json"
	}
}
