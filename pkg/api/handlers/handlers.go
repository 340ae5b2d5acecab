// Package handlers implements the request handlers for the lookml-generator API.
package handlers

import (
	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/hwine/lookml-generator/pkg/generator"
	"github.com/hwine/lookml-generator/pkg/tasks"
	"github.com/hwine/lookml-generator/pkg/validation"
	"github.com/hwine/lookml-generator/pkg/views"
)

// Server implements the API request handlers
type Server struct {
	namespaces generator.NamespacesConfig
	factory    *views.Factory
	validator  validation.Validator
	queue      *tasks.QueueManager
	log        logrus.FieldLogger
}

// NewServer creates a new API server instance
func NewServer(namespaces generator.NamespacesConfig, factory *views.Factory, validator validation.Validator, queue *tasks.QueueManager, log logrus.FieldLogger) *Server {
	return &Server{
		namespaces: namespaces,
		factory:    factory,
		validator:  validator,
		queue:      queue,
		log:        log.WithField("component", "api.handlers"),
	}
}

// RegisterRoutes attaches all API routes to the given router
func (s *Server) RegisterRoutes(router fiber.Router) {
	router.Get("/namespaces", s.ListNamespaces)
	router.Get("/namespaces/:namespace/views", s.ListViews)
	router.Get("/namespaces/:namespace/views/:view", s.GetView)
	router.Get("/validate", s.Validate)
	router.Post("/generate", s.Generate)
}
