package metricshub

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Registry provides access to parsed metrics configuration, keyed by
// namespace.
type Registry interface {
	// Namespace returns the configuration for a namespace, or nil when the
	// namespace has no entry.
	Namespace(name string) *NamespaceConfig

	// Namespaces lists all known namespaces in sorted order.
	Namespaces() []string

	// Reload re-reads the backing configuration source.
	Reload() error
}

// FileRegistry reads namespace configuration from a directory of YAML
// files, one file per namespace.
type FileRegistry struct {
	log logrus.FieldLogger
	dir string

	mu         sync.RWMutex
	namespaces map[string]*NamespaceConfig
}

var _ Registry = (*FileRegistry)(nil)

// NewFileRegistry loads every <namespace>.yml or <namespace>.yaml file
// under dir. Load failures in any file fail the whole registry.
func NewFileRegistry(log logrus.FieldLogger, dir string) (*FileRegistry, error) {
	r := &FileRegistry{
		log: log.WithField("registry", dir),
		dir: dir,
	}

	if err := r.Reload(); err != nil {
		return nil, err
	}

	return r, nil
}

// Reload re-reads the registry directory. The previous configuration stays
// visible until the new one has loaded completely.
func (r *FileRegistry) Reload() error {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return fmt.Errorf("reading registry dir: %w", err)
	}

	namespaces := make(map[string]*NamespaceConfig)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := filepath.Ext(entry.Name())
		if ext != ".yml" && ext != ".yaml" {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ext)

		cfg, err := loadNamespaceFile(filepath.Join(r.dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("namespace %q: %w", name, err)
		}

		namespaces[name] = cfg
	}

	r.mu.Lock()
	r.namespaces = namespaces
	r.mu.Unlock()

	r.log.WithField("namespaces", len(namespaces)).Debug("Loaded metrics configuration")

	return nil
}

// Namespace returns the configuration for a namespace, or nil.
func (r *FileRegistry) Namespace(name string) *NamespaceConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.namespaces[name]
}

// Namespaces lists loaded namespaces in sorted order.
func (r *FileRegistry) Namespaces() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.namespaces))
	for name := range r.namespaces {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func loadNamespaceFile(path string) (*NamespaceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &NamespaceConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}

	for _, slug := range cfg.Metrics.Definitions.Slugs() {
		def, _ := cfg.Metrics.Definitions.Get(slug)
		if def.SelectExpression == "" {
			continue
		}

		rendered, err := RenderExpression(def.SelectExpression)
		if err != nil {
			return nil, fmt.Errorf("metric %q: %w", slug, err)
		}

		def.SelectExpression = rendered
	}

	return cfg, nil
}

// StaticRegistry serves a fixed, pre-parsed configuration. It backs tests
// and programmatic callers that bypass the file layout. Select expressions
// are used as-is, without template expansion.
type StaticRegistry struct {
	namespaces map[string]*NamespaceConfig
}

var _ Registry = (*StaticRegistry)(nil)

// NewStaticRegistry wraps an in-memory namespace map.
func NewStaticRegistry(namespaces map[string]*NamespaceConfig) *StaticRegistry {
	if namespaces == nil {
		namespaces = map[string]*NamespaceConfig{}
	}

	return &StaticRegistry{namespaces: namespaces}
}

// Namespace returns the configuration for a namespace, or nil.
func (r *StaticRegistry) Namespace(name string) *NamespaceConfig {
	return r.namespaces[name]
}

// Namespaces lists namespaces in sorted order.
func (r *StaticRegistry) Namespaces() []string {
	names := make([]string, 0, len(r.namespaces))
	for name := range r.namespaces {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Reload is a no-op for static configuration.
func (r *StaticRegistry) Reload() error {
	return nil
}
