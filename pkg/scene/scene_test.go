package scene

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/chazu/facet/pkg/geom"
	"github.com/chazu/facet/pkg/mesh"
	"github.com/chazu/facet/pkg/shape"
)

func triangle() *mesh.FaceCollection {
	fc := mesh.New()
	fc.AddFace(geom.NewPoint(0, 0, 0), geom.NewPoint(1, 0, 0), geom.NewPoint(0, 1, 0))
	return fc
}

func TestAddAndLookup(t *testing.T) {
	s := New()
	a, err := s.Add("wheel", triangle())
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if a.ID.IsZero() {
		t.Error("entry should have an ID")
	}
	if _, err := s.Add("body", triangle()); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if got := s.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
	if got := strings.Join(s.Names(), ","); got != "wheel,body" {
		t.Errorf("Names() = %q, want %q", got, "wheel,body")
	}
	if e := s.Lookup("wheel"); e != a {
		t.Errorf("Lookup(wheel) = %v, want %v", e, a)
	}
	if e := s.Lookup("missing"); e != nil {
		t.Errorf("Lookup(missing) = %v, want nil", e)
	}
}

func TestAddRejectsBadNames(t *testing.T) {
	s := New()
	if _, err := s.Add("", triangle()); err == nil {
		t.Error("Add with empty name should fail")
	}
	if _, err := s.Add("a", triangle()); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if _, err := s.Add("a", triangle()); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("Add duplicate error = %v, want ErrDuplicateName", err)
	}
}

func TestAddRejectsPathNames(t *testing.T) {
	for _, name := range []string{"../x", "a/b", `a\b`, ".", ".."} {
		t.Run(name, func(t *testing.T) {
			s := New()
			if _, err := s.Add(name, triangle()); !errors.Is(err, ErrInvalidName) {
				t.Errorf("Add(%q) error = %v, want ErrInvalidName", name, err)
			}
			if s.Len() != 0 {
				t.Errorf("Len() = %d after rejected Add, want 0", s.Len())
			}
		})
	}
	if _, err := New().Add("box-lamp.v2", triangle()); err != nil {
		t.Errorf("Add(box-lamp.v2) error = %v", err)
	}
}

func TestEntryIDsAreUnique(t *testing.T) {
	seen := make(map[EntryID]bool)
	for i := 0; i < 100; i++ {
		id := NewEntryID()
		if seen[id] {
			t.Fatalf("duplicate ID %s", id)
		}
		seen[id] = true
		if len(id.Short()) != 8 {
			t.Errorf("Short() = %q, want 8 characters", id.Short())
		}
	}
}

func TestWorld(t *testing.T) {
	s := New()
	a := triangle()
	b := triangle().Move(5, 0, 0)
	s.Add("a", a)
	s.Add("b", b)

	w, err := s.World()
	if err != nil {
		t.Fatalf("World() error = %v", err)
	}
	if got := w.NumFaces(); got != 2 {
		t.Errorf("NumFaces() = %d, want 2", got)
	}
	if got := w.NumPoints(); got != 6 {
		t.Errorf("NumPoints() = %d, want 6", got)
	}
}

func TestValidateCleanScene(t *testing.T) {
	s := New()
	box, err := shape.Box(1, 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	s.Add("box", box)

	res := Validate(s)
	if !res.OK() {
		t.Errorf("Validate() errors = %v", res.Errors)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("Validate() warnings = %v", res.Warnings)
	}
}

func TestValidateFindings(t *testing.T) {
	repeated := mesh.New()
	repeated.AddFace(geom.NewPoint(0, 0, 0), geom.NewPoint(0, 0, 0), geom.NewPoint(1, 0, 0))

	flat := mesh.New()
	flat.AddFace(geom.NewPoint(0, 0, 0), geom.NewPoint(1, 0, 0), geom.NewPoint(2, 0, 0))

	broken := mesh.New()
	broken.AddFace(geom.NewPoint(math.NaN(), 0, 0), geom.NewPoint(1, 0, 0), geom.NewPoint(0, 1, 0))

	tests := []struct {
		name     string
		entry    *Entry
		severity ValidationSeverity
		contains string
	}{
		{"empty mesh", &Entry{Name: "empty", Mesh: mesh.New()}, SeverityWarning, "no faces"},
		{"repeated corner", &Entry{Name: "rep", Mesh: repeated}, SeverityError, "repeats a corner"},
		{"zero area", &Entry{Name: "flat", Mesh: flat}, SeverityWarning, "zero-area"},
		{"not finite", &Entry{Name: "nan", Mesh: broken}, SeverityError, "not finite"},
		{"no mesh", &Entry{Name: "none"}, SeverityError, "no mesh"},
		{"no name", &Entry{Mesh: triangle()}, SeverityError, "has no name"},
		{"path name", &Entry{Name: "../escape", Mesh: triangle()}, SeverityError, "path separator"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			s.Entries = append(s.Entries, tt.entry)
			res := Validate(s)

			findings := res.Errors
			if tt.severity == SeverityWarning {
				findings = res.Warnings
			}
			if len(findings) != 1 {
				t.Fatalf("got %d %s findings, want 1 (errors %v, warnings %v)",
					len(findings), tt.severity, res.Errors, res.Warnings)
			}
			if !strings.Contains(findings[0].Message, tt.contains) {
				t.Errorf("message = %q, want it to contain %q", findings[0].Message, tt.contains)
			}
		})
	}
}

func TestValidateDuplicateNames(t *testing.T) {
	s := New()
	s.Entries = append(s.Entries, &Entry{Name: "x", Mesh: triangle()}, &Entry{Name: "x", Mesh: triangle()})

	res := Validate(s)
	if len(res.Errors) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(res.Errors), res.Errors)
	}
	if res.Errors[0].Entry != "x" {
		t.Errorf("Entry = %q, want %q", res.Errors[0].Entry, "x")
	}
}

func TestValidationErrorString(t *testing.T) {
	e := ValidationError{Entry: "a", Message: "bad", Severity: SeverityWarning}
	if got := e.Error(); got != `[warning] entry "a": bad` {
		t.Errorf("Error() = %q", got)
	}
	e = ValidationError{Message: "bad", Severity: SeverityError}
	if got := e.Error(); got != "[error] bad" {
		t.Errorf("Error() = %q", got)
	}
}
