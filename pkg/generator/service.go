package generator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/hwine/lookml-generator/pkg/lookml"
	"github.com/hwine/lookml-generator/pkg/observability"
	"github.com/hwine/lookml-generator/pkg/views"
)

// banner heads every generated file. Generated output is overwritten on
// the next run, so manual edits do not survive.
const banner = "# Do not manually edit this file. It is generated by lookml-generator\n" +
	"# and overwritten on every generation run.\n\n"

// Service writes LookML view files for configured namespaces
type Service struct {
	log     logrus.FieldLogger
	config  *Config
	factory *views.Factory
}

// NewService creates a generation service
func NewService(log logrus.FieldLogger, cfg *Config, factory *views.Factory) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Service{
		log:     log.WithField("service", "generator"),
		config:  cfg,
		factory: factory,
	}, nil
}

// Report summarizes one generation run
type Report struct {
	// RunID identifies the run in logs and task payloads
	RunID string `json:"run_id"`

	// Generated counts view files written
	Generated int `json:"generated"`

	// Empty counts views skipped because they rendered empty
	Empty int `json:"empty"`

	// Duration is the wall-clock time of the run
	Duration time.Duration `json:"duration"`

	// Namespaces holds the per-namespace breakdown in generation order
	Namespaces []*NamespaceReport `json:"namespaces"`
}

// NamespaceReport summarizes generation of a single namespace
type NamespaceReport struct {
	Namespace string   `json:"namespace"`
	Generated []string `json:"generated,omitempty"`
	Empty     []string `json:"empty,omitempty"`
}

// GenerateAll generates every namespace in the configuration, or only the
// named subset. Namespaces run in parallel up to the configured limit;
// output is deterministic regardless of scheduling because each namespace
// writes only under its own directory.
func (s *Service) GenerateAll(ctx context.Context, cfg NamespacesConfig, only []string) (*Report, error) {
	start := time.Now()

	names := cfg.Names()

	if len(only) > 0 {
		names = make([]string, 0, len(only))

		for _, name := range only {
			if _, ok := cfg[name]; !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnknownNamespace, name)
			}

			names = append(names, name)
		}
	}

	report := &Report{
		RunID:      uuid.New().String(),
		Namespaces: make([]*NamespaceReport, len(names)),
	}

	s.log.WithFields(logrus.Fields{
		"run_id":     report.RunID,
		"namespaces": len(names),
		"output":     s.config.OutputDir,
	}).Info("Starting generation run")

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Concurrency)

	for i, name := range names {
		i, name := i, name

		g.Go(func() error {
			nsReport, err := s.generateNamespace(ctx, name, cfg[name])
			if err != nil {
				return err
			}

			report.Namespaces[i] = nsReport

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, nsReport := range report.Namespaces {
		report.Generated += len(nsReport.Generated)
		report.Empty += len(nsReport.Empty)
	}

	report.Duration = time.Since(start)

	s.log.WithFields(logrus.Fields{
		"run_id":    report.RunID,
		"generated": report.Generated,
		"empty":     report.Empty,
		"duration":  report.Duration,
	}).Info("Generation run complete")

	return report, nil
}

// GenerateNamespace generates a single configured namespace.
func (s *Service) GenerateNamespace(ctx context.Context, cfg NamespacesConfig, namespace string) (*NamespaceReport, error) {
	def, ok := cfg[namespace]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNamespace, namespace)
	}

	return s.generateNamespace(ctx, namespace, def)
}

func (s *Service) generateNamespace(ctx context.Context, namespace string, def *NamespaceDefinition) (*NamespaceReport, error) {
	start := time.Now()

	report := &NamespaceReport{Namespace: namespace}

	for _, viewName := range def.ViewNames() {
		view := s.factory.FromDefinition(namespace, viewName, def.Views[viewName])

		file, err := view.Generate(ctx)
		if err != nil {
			observability.RecordViewGenerated(namespace, view.Type(), "failed")

			return nil, fmt.Errorf("generating view %s/%s: %w", namespace, viewName, err)
		}

		if file.Empty() {
			s.log.WithFields(logrus.Fields{
				"namespace": namespace,
				"view":      viewName,
			}).Debug("View rendered empty, nothing to write")

			report.Empty = append(report.Empty, viewName)
			observability.RecordViewGenerated(namespace, view.Type(), "empty")

			continue
		}

		if err := s.writeViewFile(namespace, viewName, file); err != nil {
			observability.RecordViewGenerated(namespace, view.Type(), "failed")

			return nil, err
		}

		report.Generated = append(report.Generated, viewName)
		observability.RecordViewGenerated(namespace, view.Type(), "generated")
	}

	observability.RecordNamespaceDuration(namespace, time.Since(start).Seconds())

	return report, nil
}

// ViewFilePath returns where a view file is written for a namespace.
func (s *Service) ViewFilePath(namespace, view string) string {
	return filepath.Join(s.config.OutputDir, namespace, "views", view+".view.lkml")
}

func (s *Service) writeViewFile(namespace, name string, file *lookml.File) error {
	dir := filepath.Join(s.config.OutputDir, namespace, "views")

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, name+".view.lkml")

	if err := os.WriteFile(path, []byte(banner+file.Render()), 0o644); err != nil { //nolint:gosec // generated files are world readable
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}
