package mesh

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/chazu/facet/pkg/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONDocumentShape(t *testing.T) {
	fc := unitTriangle().Move(1, 2, 3)

	data, err := json.Marshal(fc)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, map[string]any{"x": 1.0, "y": 2.0, "z": 3.0}, doc["moves"])
	assert.Equal(t, map[string]any{"x": 0.0, "y": 0.0, "z": 0.0}, doc["rotations"])
	assert.Equal(t, []any{[]any{1.0, 0.0, 0.0}, []any{0.0, 1.0, 0.0}, []any{0.0, 0.0, 1.0}}, doc["points"])
	assert.Equal(t, []any{[]any{0.0, 1.0, 2.0}}, doc["faces"])
}

func TestJSONRoundTrip(t *testing.T) {
	fc := New()
	fc.AddFace(geom.NewPoint(0.1, 0.2, 0.3), geom.NewPoint(1.0/3, 2.0/3, 1), geom.NewPoint(-5, 1e-7, 9))
	fc.AddFace(geom.NewPoint(0.1, 0.2, 0.3), geom.NewPoint(-5, 1e-7, 9), geom.NewPoint(7, 7, 7))
	fc.Move(1.5, -2, 0.25)
	fc.Rotate(geom.NewAngle(1), geom.NewAngle(math.Pi), geom.NewAngle(5))

	data, err := json.Marshal(fc)
	require.NoError(t, err)

	got := New()
	require.NoError(t, json.Unmarshal(data, got))
	assert.True(t, fc.Equal(got))
	assert.Equal(t, fc.Points(), got.Points())
	assert.Equal(t, fc.Faces(), got.Faces())
	assert.Equal(t, fc.Transform(), got.Transform())
}

func TestJSONRejectsBadDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{`},
		{"truncated", `{"points":[[0,0,0]`},
		{"empty", ``},
		{"short point", `{"points":[[1,2]],"faces":[]}`},
		{"short face", `{"points":[[0,0,0],[1,0,0],[0,1,0]],"faces":[[0,1]]}`},
		{"index out of range", `{"points":[[0,0,0],[1,0,0],[0,1,0]],"faces":[[0,1,3]]}`},
		{"negative index", `{"points":[[0,0,0],[1,0,0],[0,1,0]],"faces":[[0,-1,2]]}`},
		{"unknown axis", `{"moves":{"w":1},"points":[],"faces":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc, err := Decode([]byte(tt.doc))
			assert.Nil(t, fc)
			assert.True(t, errors.Is(err, ErrBadDocument), "got %v", err)
		})
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"points":[[0,0,0]`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadDocument), "got %v", err)
}

func TestSaveLoad(t *testing.T) {
	fc := unitTriangle().Move(0, 0, 4)
	path := filepath.Join(t.TempDir(), "element.json")

	require.NoError(t, Save(path, fc))
	got, err := Load(path)
	require.NoError(t, err)
	assert.True(t, fc.Equal(got))

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestWriteListing(t *testing.T) {
	fc := New()
	fc.AddFace(geom.NewPoint(0, 0, 0), geom.NewPoint(1.5, 0, 0), geom.NewPoint(0, -2, 0.25))

	var buf bytes.Buffer
	require.NoError(t, WriteListing(&buf, fc))
	want := "p 0 0 0\n" +
		"p 1.5 0 0\n" +
		"p 0 -2 0.25\n" +
		"s 0 1 2\n"
	assert.Equal(t, want, buf.String())
}
