package handlers

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/hwine/lookml-generator/pkg/views"
)

// NamespaceSummary describes one configured namespace
type NamespaceSummary struct {
	Name       string   `json:"name"`
	PrettyName string   `json:"pretty_name,omitempty"`
	GleanApp   bool     `json:"glean_app"`
	Owners     []string `json:"owners,omitempty"`
	Views      int      `json:"views"`
}

// ViewRecord describes one configured view
type ViewRecord struct {
	Namespace string        `json:"namespace"`
	Name      string        `json:"name"`
	Type      string        `json:"type"`
	Tables    []views.Table `json:"tables,omitempty"`
}

// ListNamespaces handles GET /api/v1/namespaces
func (s *Server) ListNamespaces(c fiber.Ctx) error {
	summaries := make([]NamespaceSummary, 0, len(s.namespaces))

	for _, name := range s.namespaces.Names() {
		def := s.namespaces[name]
		summaries = append(summaries, NamespaceSummary{
			Name:       name,
			PrettyName: def.PrettyName,
			GleanApp:   def.GleanApp,
			Owners:     def.Owners,
			Views:      len(def.Views),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"namespaces": summaries,
		"total":      len(summaries),
	})
}

// ListViews handles GET /api/v1/namespaces/:namespace/views
func (s *Server) ListViews(c fiber.Ctx) error {
	namespace := c.Params("namespace")

	def, ok := s.namespaces[namespace]
	if !ok {
		return ErrNamespaceNotFound
	}

	records := make([]ViewRecord, 0, len(def.Views))

	for _, viewName := range def.ViewNames() {
		view := s.factory.FromDefinition(namespace, viewName, def.Views[viewName])
		records = append(records, ViewRecord{
			Namespace: namespace,
			Name:      view.Name(),
			Type:      view.Type(),
			Tables:    view.Tables(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"namespace": namespace,
		"views":     records,
		"total":     len(records),
	})
}

// GetView handles GET /api/v1/namespaces/:namespace/views/:view.
// With ?format=lkml the response is the rendered view text instead of the
// JSON record. A view with nothing to render yields an empty body, not an
// error.
func (s *Server) GetView(c fiber.Ctx) error {
	namespace := c.Params("namespace")
	viewName := c.Params("view")

	def, ok := s.namespaces[namespace]
	if !ok {
		return ErrNamespaceNotFound
	}

	viewDef, ok := def.Views[viewName]
	if !ok {
		return ErrViewNotFound
	}

	view := s.factory.FromDefinition(namespace, viewName, viewDef)

	if c.Query("format") == "lkml" {
		file, err := view.Generate(context.Background())
		if err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"namespace": namespace,
				"view":      viewName,
			}).Error("Failed to render view")

			return fiber.NewError(fiber.StatusInternalServerError, "failed to render view")
		}

		c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")

		if file.Empty() {
			return c.SendString("")
		}

		return c.SendString(file.Render())
	}

	return c.Status(fiber.StatusOK).JSON(ViewRecord{
		Namespace: namespace,
		Name:      view.Name(),
		Type:      view.Type(),
		Tables:    view.Tables(),
	})
}
