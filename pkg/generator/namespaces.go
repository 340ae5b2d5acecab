// Package generator turns namespace configuration into LookML files on
// disk: one file per configured view, one directory per namespace.
package generator

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/hwine/lookml-generator/pkg/views"
)

// ErrUnknownNamespace is returned when a requested namespace is not part of
// the namespaces configuration
var ErrUnknownNamespace = errors.New("unknown namespace")

// NamespacesConfig maps namespace names to their definitions. It is the
// parsed form of the namespaces configuration file.
type NamespacesConfig map[string]*NamespaceDefinition

// NamespaceDefinition describes one namespace: display metadata and the
// views to generate for it.
type NamespaceDefinition struct {
	// PrettyName is the display name of the namespace
	PrettyName string `yaml:"pretty_name"`

	// GleanApp marks namespaces backed by a Glean application
	GleanApp bool `yaml:"glean_app"`

	// Owners lists contact addresses for the namespace
	Owners []string `yaml:"owners"`

	// Views maps view names to their definitions
	Views map[string]views.Definition `yaml:"views"`
}

// Names returns namespace names sorted for deterministic iteration.
func (c NamespacesConfig) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// ViewNames returns the view names of a namespace definition, sorted.
func (d *NamespaceDefinition) ViewNames() []string {
	names := make([]string, 0, len(d.Views))
	for name := range d.Views {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// LoadNamespaces reads and parses a namespaces configuration file.
func LoadNamespaces(path string) (NamespacesConfig, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("reading namespaces config: %w", err)
	}

	var cfg NamespacesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing namespaces config %s: %w", path, err)
	}

	return cfg, nil
}
