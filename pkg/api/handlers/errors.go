package handlers

import "github.com/gofiber/fiber/v3"

// ErrNamespaceNotFound is returned when a namespace is not configured
var ErrNamespaceNotFound = fiber.NewError(fiber.StatusNotFound, "namespace not found")

// ErrViewNotFound is returned when a view is not configured in the namespace
var ErrViewNotFound = fiber.NewError(fiber.StatusNotFound, "view not found")
