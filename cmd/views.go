package cmd

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hwine/lookml-generator/pkg/generator"
)

var (
	// ErrUnknownView is returned when a view is not configured in the namespace
	ErrUnknownView = errors.New("unknown view")
)

// viewsCmd represents the views command group
//
//nolint:gochecknoglobals // Cobra commands are typically global
var viewsCmd = &cobra.Command{
	Use:   "views",
	Short: "Inspect and render configured views",
	Long:  `Commands for listing configured views and rendering single views to stdout.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// Default to error level for views commands so rendered output stays
		// clean, unless explicitly set via --log-level
		if !cmd.Flags().Changed("log-level") {
			logger.SetLevel(logrus.ErrorLevel)
		}
		return nil
	},
}

// viewsListCmd lists all configured views
//
//nolint:gochecknoglobals // Cobra commands are typically global
var viewsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured views per namespace",
	Long:  `List every configured view with its namespace, resolved type and backing table count.`,
	RunE:  runViewsList,
}

// viewsRenderCmd renders one view to stdout
//
//nolint:gochecknoglobals // Cobra commands are typically global
var viewsRenderCmd = &cobra.Command{
	Use:   "render <namespace> <view>",
	Short: "Render one view's LookML to stdout",
	Long:  `Render a single configured view. A view with nothing to render produces no output.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runViewsRender,
}

func init() {
	rootCmd.AddCommand(viewsCmd)
	viewsCmd.AddCommand(viewsListCmd)
	viewsCmd.AddCommand(viewsRenderCmd)
}

func runViewsList(cmd *cobra.Command, _ []string) error {
	// Silence usage on error
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	cfg, err := LoadCLIConfig(cfgFile)
	if err != nil {
		return err
	}
	if validationErr := cfg.Validate(); validationErr != nil {
		return validationErr
	}

	_, factory, cleanup, err := newCLIFactory(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	namespaces, err := generator.LoadNamespaces(cfg.NamespacesFile)
	if err != nil {
		return err
	}

	// Print table
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAMESPACE\tVIEW\tTYPE\tTABLES")

	for _, namespace := range namespaces.Names() {
		def := namespaces[namespace]

		for _, viewName := range def.ViewNames() {
			view := factory.FromDefinition(namespace, viewName, def.Views[viewName])
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\n",
				namespace, view.Name(), view.Type(), len(view.Tables()))
		}
	}

	_ = w.Flush()

	return nil
}

func runViewsRender(cmd *cobra.Command, args []string) error {
	// Silence usage on error
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	namespace, viewName := args[0], args[1]

	cfg, err := LoadCLIConfig(cfgFile)
	if err != nil {
		return err
	}
	if validationErr := cfg.Validate(); validationErr != nil {
		return validationErr
	}

	_, factory, cleanup, err := newCLIFactory(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	namespaces, err := generator.LoadNamespaces(cfg.NamespacesFile)
	if err != nil {
		return err
	}

	def, ok := namespaces[namespace]
	if !ok {
		return fmt.Errorf("%w: %s", generator.ErrUnknownNamespace, namespace)
	}

	viewDef, ok := def.Views[viewName]
	if !ok {
		return fmt.Errorf("%w: %s/%s", ErrUnknownView, namespace, viewName)
	}

	file, err := factory.FromDefinition(namespace, viewName, viewDef).Generate(context.Background())
	if err != nil {
		return err
	}

	if file.Empty() {
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), file.Render())

	return nil
}
