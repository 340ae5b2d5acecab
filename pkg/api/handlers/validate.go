package handlers

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"github.com/hwine/lookml-generator/pkg/validation"
)

// Validate handles GET /api/v1/validate. It checks the namespaces
// configuration against the metrics registry and reports all issues found.
func (s *Server) Validate(c fiber.Ctx) error {
	issues := s.validator.Validate(context.Background(), s.namespaces)
	if issues == nil {
		issues = []validation.Issue{}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"issues": issues,
		"errors": validation.HasErrors(issues),
		"total":  len(issues),
	})
}
