// Package server exposes shape generation, scene evaluation and the mesh
// library over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/chazu/facet/pkg/app"
	"github.com/chazu/facet/pkg/config"
	"github.com/chazu/facet/pkg/geom"
	"github.com/chazu/facet/pkg/kernel"
	"github.com/chazu/facet/pkg/mesh"
	"github.com/chazu/facet/pkg/shape"
	"github.com/chazu/facet/pkg/store"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Server
// ============================================================

type Server struct {
	fiber *fiber.App
	facet *app.App
	store *store.Store
}

// New wires the routes. The store may be nil, in which case the library
// routes are not registered.
func New(cfg *config.Config, st *store.Store) *Server {
	s := &Server{
		facet: app.NewAppWithTimeout(cfg.Timeout()),
		store: st,
	}

	s.fiber = fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "facet",
	})

	s.fiber.Use(recover.New())
	s.fiber.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))

	s.fiber.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})
	s.fiber.Get("/health/ready", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ready"})
	})

	s.fiber.Get("/shapes", s.listKinds)
	s.fiber.Post("/shapes/:kind", s.buildShape)
	s.fiber.Post("/scenes", s.evaluateScene)

	if st != nil {
		s.fiber.Get("/library", s.listLibrary)
		s.fiber.Get("/library/:name", s.getLibrary)
		s.fiber.Put("/library/:name", s.putLibrary)
		s.fiber.Delete("/library/:name", s.deleteLibrary)
	}
	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App { return s.fiber }

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	log.Printf("Starting facet on %s", addr)
	return s.fiber.Listen(addr)
}

// Shutdown stops the listener.
func (s *Server) Shutdown() error {
	return s.fiber.Shutdown()
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) listKinds(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"kinds": kernel.Kinds()})
}

// buildShape decodes a kernel.Spec from the body and returns the mesh as a
// JSON document, or as a render mesh with ?format=render.
func (s *Server) buildShape(c fiber.Ctx) error {
	var spec kernel.Spec
	if body := c.Body(); len(body) > 0 {
		if err := json.Unmarshal(body, &spec); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
		}
	}
	spec.Kind = kernel.Kind(c.Params("kind"))

	fc, err := kernel.Build(spec)
	if err != nil {
		return fail(c, err)
	}

	switch format := c.Query("format", "json"); format {
	case "json":
		return c.JSON(fc)
	case "render":
		return c.JSON(kernel.FromFaces(fc, string(spec.Kind)))
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("unknown format %q", format)})
	}
}

func (s *Server) evaluateScene(c fiber.Ctx) error {
	return c.JSON(s.facet.Evaluate(string(c.Body())))
}

func (s *Server) listLibrary(c fiber.Ctx) error {
	items, err := s.store.List(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(items)
}

func (s *Server) getLibrary(c fiber.Ctx) error {
	fc, err := s.store.Get(c.Context(), c.Params("name"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fc)
}

func (s *Server) putLibrary(c fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "empty body"})
	}
	fc, err := mesh.Decode(c.Body())
	if err != nil {
		return fail(c, err)
	}

	name := c.Params("name")
	if err := s.store.Put(c.Context(), name, fc); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"name": name, "points": fc.NumPoints(), "faces": fc.NumFaces()})
}

func (s *Server) deleteLibrary(c fiber.Ctx) error {
	if err := s.store.Delete(c.Context(), c.Params("name")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ============================================================
// Errors
// ============================================================

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, shape.ErrInvalidArgument),
		errors.Is(err, mesh.ErrBadDocument),
		errors.Is(err, mesh.ErrIncompatibleMerge),
		errors.Is(err, geom.ErrInvalidRange):
		return fiber.StatusBadRequest
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, kernel.ErrUnknownShape):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

func fail(c fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Printf("[FACET] %s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
