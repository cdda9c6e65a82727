package mesh

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
)

// WriteListing writes the legacy plain-text form: one "p x y z" line per
// point in index order, then one "s i j k" line per triangle. Stored
// coordinates are written; the pending transform is not applied.
func WriteListing(w io.Writer, fc *FaceCollection) error {
	bw := bufio.NewWriter(w)
	for _, p := range fc.points.Points() {
		fmt.Fprintf(bw, "p %s %s %s\n", formatFloat(p.X), formatFloat(p.Y), formatFloat(p.Z))
	}
	for _, f := range fc.faces {
		fmt.Fprintf(bw, "s %d %d %d\n", f[0], f[1], f[2])
	}
	return bw.Flush()
}

// SaveListing writes the listing form to path.
func SaveListing(path string, fc *FaceCollection) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("mesh: create %s: %w", path, err)
	}
	if err := WriteListing(f, fc); err != nil {
		f.Close()
		return fmt.Errorf("mesh: write %s: %w", path, err)
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
