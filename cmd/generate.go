package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hwine/lookml-generator/pkg/generator"
	"github.com/hwine/lookml-generator/pkg/validation"
)

var (
	// ErrValidationFailed is returned when validation finds blocking issues
	ErrValidationFailed = errors.New("validation failed")
)

//nolint:gochecknoglobals // Cobra flags are typically global
var (
	generateNamespacesFile string
	generateRegistryDir    string
	generateOutputDir      string
	generateOnly           []string
	generateSkipValidation bool
)

//nolint:gochecknoglobals // Cobra commands are typically global
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate LookML view files",
	Long: `Generate LookML view files for every configured namespace, or for
the subset named with --only. Views that render empty produce no file.`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVar(&generateNamespacesFile, "namespaces-config", "", "namespaces configuration file (overrides config file)")
	generateCmd.Flags().StringVar(&generateRegistryDir, "registry", "", "metrics registry directory (overrides config file)")
	generateCmd.Flags().StringVar(&generateOutputDir, "output", "", "output directory (overrides config file)")
	generateCmd.Flags().StringSliceVar(&generateOnly, "only", nil, "only generate the named namespaces")
	generateCmd.Flags().BoolVar(&generateSkipValidation, "skip-validation", false, "skip configuration validation before generating")
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	// Silence usage on error
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	// Load configuration
	cfg, err := LoadCLIConfig(cfgFile)
	if err != nil {
		return err
	}

	applyGenerateFlags(cfg)

	if validationErr := cfg.Validate(); validationErr != nil {
		return validationErr
	}

	registry, factory, cleanup, err := newCLIFactory(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	namespaces, err := generator.LoadNamespaces(cfg.NamespacesFile)
	if err != nil {
		return err
	}

	ctx := context.Background()

	if !generateSkipValidation {
		issues := validation.NewValidator(logger, registry).Validate(ctx, namespaces)
		printIssues(cmd, issues)

		if validation.HasErrors(issues) {
			return ErrValidationFailed
		}
	}

	gen, err := generator.NewService(logger, &cfg.Generator, factory)
	if err != nil {
		return err
	}

	report, err := gen.GenerateAll(ctx, namespaces, generateOnly)
	if err != nil {
		return err
	}

	for _, ns := range report.Namespaces {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %d views (%d empty)\n",
			ns.Namespace, len(ns.Generated), len(ns.Empty))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nGenerated %d view files (%d empty) in %s\n",
		report.Generated, report.Empty, report.Duration.Round(time.Millisecond))

	return nil
}

func applyGenerateFlags(cfg *CLIConfig) {
	if generateNamespacesFile != "" {
		cfg.NamespacesFile = generateNamespacesFile
	}

	if generateRegistryDir != "" {
		cfg.Registry.Dir = generateRegistryDir
	}

	if generateOutputDir != "" {
		cfg.Generator.OutputDir = generateOutputDir
	}
}

func printIssues(cmd *cobra.Command, issues []validation.Issue) {
	for _, issue := range issues {
		target := issue.Namespace
		if issue.View != "" {
			target = fmt.Sprintf("%s/%s", issue.Namespace, issue.View)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", issue.Severity, target, issue.Message)
	}
}
