// Package scene holds the named objects produced by a scene script.
// A Scene is an ordered list of entries, each pairing a unique name with a
// mesh; scripts, the HTTP API and the CLI all exchange scenes.
package scene

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chazu/facet/pkg/mesh"
	"github.com/google/uuid"
)

var (
	// ErrDuplicateName is returned when an entry name is already taken.
	ErrDuplicateName = errors.New("scene: duplicate entry name")

	// ErrInvalidName is returned for names that cannot serve as a file name.
	ErrInvalidName = errors.New("scene: invalid entry name")
)

// EntryID uniquely identifies an entry across evaluations.
type EntryID string

// NewEntryID returns a fresh random ID.
func NewEntryID() EntryID {
	return EntryID(uuid.NewString())
}

// Short returns the first 8 characters of the ID for messages.
func (id EntryID) Short() string {
	if len(id) > 8 {
		return string(id[:8])
	}
	return string(id)
}

// IsZero reports whether the ID is unset.
func (id EntryID) IsZero() bool { return id == "" }

// Entry is one named object in a scene.
type Entry struct {
	ID   EntryID              `json:"id"`
	Name string               `json:"name"`
	Mesh *mesh.FaceCollection `json:"mesh"`
}

// Scene is an ordered collection of uniquely named entries.
type Scene struct {
	Entries   []*Entry       `json:"entries"`
	NameIndex map[string]int `json:"-"`
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{NameIndex: make(map[string]int)}
}

// Add appends a named entry. Names must be non-empty and unique.
func (s *Scene) Add(name string, fc *mesh.FaceCollection) (*Entry, error) {
	if name == "" {
		return nil, fmt.Errorf("scene: entry name must not be empty")
	}
	if err := checkName(name); err != nil {
		return nil, err
	}
	if _, ok := s.NameIndex[name]; ok {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	e := &Entry{ID: NewEntryID(), Name: name, Mesh: fc}
	s.NameIndex[name] = len(s.Entries)
	s.Entries = append(s.Entries, e)
	return e, nil
}

// checkName rejects names that would leave the output directory when used
// as a file name.
func checkName(name string) error {
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Lookup returns the entry with the given name, or nil.
func (s *Scene) Lookup(name string) *Entry {
	i, ok := s.NameIndex[name]
	if !ok {
		return nil
	}
	return s.Entries[i]
}

// Names returns entry names in insertion order.
func (s *Scene) Names() []string {
	names := make([]string, len(s.Entries))
	for i, e := range s.Entries {
		names[i] = e.Name
	}
	return names
}

// Len returns the number of entries.
func (s *Scene) Len() int {
	return len(s.Entries)
}

// World merges the transformed geometry of every entry, in order, into a
// single world mesh.
func (s *Scene) World() (*mesh.World, error) {
	w := mesh.NewWorld()
	for _, e := range s.Entries {
		if err := w.AddObject(e.Mesh); err != nil {
			return nil, fmt.Errorf("scene: add %q to world: %w", e.Name, err)
		}
	}
	return w, nil
}
