package scene

import (
	"fmt"
	"math"

	"github.com/chazu/facet/pkg/geom"
	"github.com/chazu/facet/pkg/mesh"
)

// ValidationSeverity indicates whether a validation finding blocks output
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks output
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Entry    string             // which entry has the problem (empty if scene-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Entry == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] entry %q: %s", e.Severity, e.Entry, e.Message)
}

// ValidationResult bundles errors (blocking) and warnings (advisory).
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// OK reports whether no blocking findings were produced.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// degenerateArea is the triangle area below which a face is reported.
const degenerateArea = 1e-12

// Validate runs structural and geometric checks over every entry. It is
// read-only and never mutates the scene.
func Validate(s *Scene) ValidationResult {
	var findings []ValidationError
	findings = append(findings, validateNames(s)...)
	for _, e := range s.Entries {
		findings = append(findings, validateMesh(e)...)
	}

	var result ValidationResult
	for _, f := range findings {
		if f.Severity == SeverityWarning {
			result.Warnings = append(result.Warnings, f)
		} else {
			result.Errors = append(result.Errors, f)
		}
	}
	return result
}

// validateNames checks that every entry has a unique, non-empty name and a
// mesh.
func validateNames(s *Scene) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool)
	for i, e := range s.Entries {
		switch {
		case e.Name == "":
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("entry %d has no name", i),
				Severity: SeverityError,
			})
		case checkName(e.Name) != nil:
			errs = append(errs, ValidationError{
				Entry:    e.Name,
				Message:  "name contains a path separator or is a relative directory",
				Severity: SeverityError,
			})
		case seen[e.Name]:
			errs = append(errs, ValidationError{
				Entry:    e.Name,
				Message:  "name is used by more than one entry",
				Severity: SeverityError,
			})
		}
		seen[e.Name] = true
		if e.Mesh == nil {
			errs = append(errs, ValidationError{
				Entry:    e.Name,
				Message:  "entry has no mesh",
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validateMesh checks one entry's geometry: index ranges, repeated corners,
// non-finite coordinates, zero-area triangles and empty meshes.
func validateMesh(e *Entry) []ValidationError {
	if e.Mesh == nil {
		return nil
	}
	var out []ValidationError
	fc := e.Mesh

	if fc.NumFaces() == 0 {
		out = append(out, ValidationError{
			Entry:    e.Name,
			Message:  "mesh has no faces",
			Severity: SeverityWarning,
		})
		return out
	}

	for _, p := range fc.Points() {
		if !finite(p) {
			out = append(out, ValidationError{
				Entry:    e.Name,
				Message:  fmt.Sprintf("point %v is not finite", p),
				Severity: SeverityError,
			})
			return out
		}
	}

	n := fc.NumPoints()
	points := fc.Points()
	degenerate := 0
	for i, f := range fc.Faces() {
		if !inRange(f, n) {
			out = append(out, ValidationError{
				Entry:    e.Name,
				Message:  fmt.Sprintf("face %d %v references a missing point (have %d)", i, f, n),
				Severity: SeverityError,
			})
			continue
		}
		if f[0] == f[1] || f[1] == f[2] || f[0] == f[2] {
			out = append(out, ValidationError{
				Entry:    e.Name,
				Message:  fmt.Sprintf("face %d %v repeats a corner", i, f),
				Severity: SeverityError,
			})
			continue
		}
		u := geom.VectorFromPoints(points[f[0]], points[f[1]])
		v := geom.VectorFromPoints(points[f[0]], points[f[2]])
		if u.Cross(v).Len()/2 < degenerateArea {
			degenerate++
		}
	}
	if degenerate > 0 {
		out = append(out, ValidationError{
			Entry:    e.Name,
			Message:  fmt.Sprintf("%d zero-area faces", degenerate),
			Severity: SeverityWarning,
		})
	}
	return out
}

func inRange(f mesh.Face, n int) bool {
	for _, i := range f {
		if i < 0 || i >= n {
			return false
		}
	}
	return true
}

func finite(p geom.Point) bool {
	for _, v := range []float64{p.X, p.Y, p.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
