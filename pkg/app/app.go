// Package app is the evaluate-source façade shared by the HTTP API and the
// CLI: scene script in, render meshes and diagnostics out.
package app

import (
	"log"
	"sync"
	"time"

	"github.com/chazu/facet/pkg/engine"
	"github.com/chazu/facet/pkg/scene"
	"github.com/chazu/facet/pkg/tessellate"
)

// colorPalette is a default palette used to assign distinct colors to parts.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App evaluates scene scripts. Each evaluation gets its own engine; calls are
// serialized because zygomys sandbox creation shares global state.
type App struct {
	mu      sync.Mutex
	timeout time.Duration
}

// MeshData is the JSON-serializable render mesh returned to clients.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable eval error or validation finding.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result of evaluating one script.
type EvalResult struct {
	Meshes   []MeshData      `json:"meshes"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// OK reports whether the evaluation produced no errors.
func (r EvalResult) OK() bool { return len(r.Errors) == 0 }

// NewApp creates an App bounded by engine.EvalTimeout.
func NewApp() *App {
	return &App{timeout: engine.EvalTimeout}
}

// NewAppWithTimeout creates an App with a custom evaluation limit.
func NewAppWithTimeout(d time.Duration) *App {
	return &App{timeout: d}
}

// Evaluate takes Lisp source and returns mesh data + errors.
func (a *App) Evaluate(source string) EvalResult {
	_, result := a.Run(source)
	return result
}

// Run evaluates source and returns the scene alongside the result. The scene
// is nil whenever result carries errors.
func (a *App) Run(source string) (*scene.Scene, EvalResult) {
	result := EvalResult{
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate the Lisp source into a scene.
	a.mu.Lock()
	sc, evalErrs, err := engine.NewEngineWithTimeout(a.timeout).Evaluate(source)
	a.mu.Unlock()
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return nil, result
	}

	// Step 2: Convert eval errors to the client format.
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return nil, result
	}

	// Step 3: Validate the scene. Warnings are passed through, errors stop
	// the pipeline.
	v := scene.Validate(sc)
	for _, w := range v.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{Message: w.Error()})
	}
	if !v.OK() {
		for _, e := range v.Errors {
			result.Errors = append(result.Errors, EvalErrorData{Message: e.Error()})
		}
		return nil, result
	}

	// Step 4: Tessellate the scene into render meshes.
	meshes, err := tessellate.Tessellate(sc)
	if err != nil {
		log.Printf("Tessellate error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "tessellation failed: " + err.Error(),
		})
		return nil, result
	}

	// Step 5: Convert kernel meshes to the client MeshData format.
	for i, m := range meshes {
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			PartName: m.PartName,
			Color:    colorPalette[i%len(colorPalette)],
		})
	}

	return sc, result
}
