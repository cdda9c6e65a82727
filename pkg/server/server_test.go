package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/facet/pkg/app"
	"github.com/chazu/facet/pkg/config"
	"github.com/chazu/facet/pkg/kernel"
	"github.com/chazu/facet/pkg/mesh"
	"github.com/chazu/facet/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "facet.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return New(config.Default(), st)
}

func do(t *testing.T, s *Server, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.App().Test(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, data
}

func errorMessage(t *testing.T, data []byte) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(data, &body))
	return body["error"]
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/health/live", "/health/ready"} {
		resp, _ := do(t, s, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestListKinds(t *testing.T) {
	s := newTestServer(t)
	resp, data := do(t, s, http.MethodGet, "/shapes", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Kinds []string `json:"kinds"`
	}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Contains(t, body.Kinds, "sphere")
	assert.Len(t, body.Kinds, len(kernel.Kinds()))
}

func TestBuildShapeDocument(t *testing.T) {
	s := newTestServer(t)
	resp, data := do(t, s, http.MethodPost, "/shapes/cylinder", `{"radius": 5, "height": 2, "r_layers": 2, "h_layers": 2}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))

	got := mesh.New()
	require.NoError(t, json.Unmarshal(data, got))

	want, err := kernel.Build(kernel.Spec{Kind: kernel.KindCylinder, Radius: 5, Height: 2, RLayers: 2, HLayers: 2})
	require.NoError(t, err)
	assert.True(t, want.Equal(got), "decoded document should equal a locally built mesh")
}

func TestBuildShapeRender(t *testing.T) {
	s := newTestServer(t)
	resp, data := do(t, s, http.MethodPost, "/shapes/box?format=render", `{"width": 1, "height": 2, "depth": 3}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))

	var m kernel.Mesh
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, 12, m.TriangleCount())
	assert.Equal(t, "box", m.PartName)
}

func TestBuildShapeErrors(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"unknown kind", "/shapes/torus", `{"radius": 1}`, http.StatusNotFound},
		{"invalid argument", "/shapes/sphere", `{"radius": -1}`, http.StatusBadRequest},
		{"missing parameters", "/shapes/box", ``, http.StatusBadRequest},
		{"invalid json", "/shapes/box", `{"width":`, http.StatusBadRequest},
		{"too many splits", "/shapes/sphere", `{"radius": 1, "splits": 16}`, http.StatusBadRequest},
		{"unknown format", "/shapes/plane?format=obj", `{"width": 1, "height": 1}`, http.StatusBadRequest},
	}
	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := do(t, s, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode, string(data))
			assert.NotEmpty(t, errorMessage(t, data))
		})
	}
}

func TestEvaluateScene(t *testing.T) {
	s := newTestServer(t)
	resp, data := do(t, s, http.MethodPost, "/scenes", `(emit "ball" (sphere :radius 1 :splits 2))`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res app.EvalResult
	require.NoError(t, json.Unmarshal(data, &res))
	require.Empty(t, res.Errors)
	require.Len(t, res.Meshes, 1)
	assert.Equal(t, "ball", res.Meshes[0].PartName)
	assert.Equal(t, 32*3, len(res.Meshes[0].Indices))
}

func TestEvaluateSceneErrors(t *testing.T) {
	s := newTestServer(t)
	resp, data := do(t, s, http.MethodPost, "/scenes", `(emit "ball"`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res app.EvalResult
	require.NoError(t, json.Unmarshal(data, &res))
	assert.NotEmpty(t, res.Errors)
	assert.Empty(t, res.Meshes)
}

func TestLibraryLifecycle(t *testing.T) {
	s := newTestServer(t)

	fc, err := kernel.Build(kernel.Spec{Kind: kernel.KindTube, Radius: 1, Height: 2, RLayers: 2, HLayers: 3})
	require.NoError(t, err)
	fc.Move(0, 0, 4)
	doc, err := json.Marshal(fc)
	require.NoError(t, err)

	resp, data := do(t, s, http.MethodPut, "/library/pipe", string(doc))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))

	resp, data = do(t, s, http.MethodGet, "/library", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var items []store.Item
	require.NoError(t, json.Unmarshal(data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, "pipe", items[0].Name)
	assert.Equal(t, 48, items[0].Points)
	assert.Equal(t, 72, items[0].Faces)

	resp, data = do(t, s, http.MethodGet, "/library/pipe", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := mesh.New()
	require.NoError(t, json.Unmarshal(data, got))
	assert.True(t, fc.Equal(got))

	resp, _ = do(t, s, http.MethodDelete, "/library/pipe", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, data = do(t, s, http.MethodGet, "/library/pipe", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, errorMessage(t, data), "not found")
}

func TestLibraryBadDocument(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name string
		body string
	}{
		{"empty", ``},
		{"not json", `nope`},
		{"truncated", `{"points":[[0,0,0]`},
		{"face out of range", `{"moves":{},"rotations":{},"points":[[0,0,0]],"faces":[[0,1,2]]}`},
		{"bad axis", `{"moves":{"w":1},"rotations":{},"points":[],"faces":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := do(t, s, http.MethodPut, "/library/bad", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(data))
		})
	}
}

func TestDeleteMissing(t *testing.T) {
	s := newTestServer(t)
	resp, _ := do(t, s, http.MethodDelete, "/library/ghost", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestNoStoreSkipsLibrary(t *testing.T) {
	s := New(config.Default(), nil)
	resp, _ := do(t, s, http.MethodGet, "/library", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
