package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chazu/facet/pkg/app"
	"github.com/chazu/facet/pkg/config"
	"github.com/spf13/cobra"
)

func newSceneCmd(cfg *config.Config) *cobra.Command {
	var dir, format string
	var world bool

	cmd := &cobra.Command{
		Use:   "scene <file>",
		Short: "Evaluate a scene script and write every emitted object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			sc, result := app.NewAppWithTimeout(cfg.Timeout()).Run(string(source))
			for _, w := range result.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w.Message)
			}
			if !result.OK() {
				for _, e := range result.Errors {
					if e.Line > 0 {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s:%d: %s\n", args[0], e.Line, e.Message)
					} else {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", args[0], e.Message)
					}
				}
				return errors.New("scene evaluation failed")
			}

			if dir == "" {
				dir = cfg.OutputDir
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}

			for _, e := range sc.Entries {
				path := filepath.Join(dir, e.Name+formatExt(format))
				if err := writeMesh(path, format, e.Mesh); err != nil {
					return fmt.Errorf("write %s: %w", e.Name, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d points, %d faces)\n", path, e.Mesh.NumPoints(), e.Mesh.NumFaces())
			}

			if world {
				w, err := sc.World()
				if err != nil {
					return err
				}
				path := filepath.Join(dir, "world"+formatExt(format))
				if err := writeMesh(path, format, w.FaceCollection); err != nil {
					return fmt.Errorf("write world: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d points, %d faces)\n", path, w.NumPoints(), w.NumFaces())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "output directory (default from config)")
	cmd.Flags().StringVar(&format, "format", "json", "output format: json, listing or stl")
	cmd.Flags().BoolVar(&world, "world", false, "also write every object merged into world")
	return cmd
}
