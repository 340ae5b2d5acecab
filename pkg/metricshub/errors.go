package metricshub

import "errors"

var (
	// ErrNamespaceNotFound is returned when a namespace has no registry entry
	ErrNamespaceNotFound = errors.New("namespace not found")

	// ErrInvalidDefinition is returned when a namespace file cannot be parsed
	ErrInvalidDefinition = errors.New("invalid definition")

	// ErrInvalidExpression is returned when a select expression fails to render
	ErrInvalidExpression = errors.New("invalid select expression")
)
