package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-jsonform/internal/logging"
	"github.com/goliatone/go-jsonform/pkg/dashboard"
	"github.com/goliatone/go-jsonform/pkg/formschema"
	"github.com/goliatone/go-jsonform/pkg/renderers/vanilla"
)

func (a *app) dashboardCmd() *cobra.Command {
	var (
		source    sourceFlags
		output    string
		templates string
		fragment  bool
	)
	cmd := &cobra.Command{
		Use:   "dashboard SOURCE",
		Short: "Render a dashboard payload to HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := a.logger("warn")
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			src, err := formschema.ParseSource(args[0])
			if err != nil {
				return err
			}
			view := dashboard.NewView(source.loader(), src, dashboard.WithReporter(logging.Reporter(logger)))
			defer view.Close()
			if err := view.Load(cmd.Context()); err != nil {
				return err
			}

			var options []dashboard.RendererOption
			if templates != "" {
				options = append(options, dashboard.WithTemplatesFS(os.DirFS(templates)))
			}
			renderer, err := dashboard.NewRenderer(options...)
			if err != nil {
				return err
			}
			content, err := view.Render(renderer)
			if err != nil {
				return fmt.Errorf("render dashboard: %w", err)
			}
			if fragment {
				return writeOutput(cmd, output, content)
			}

			page, err := htmlRenderer(templates, vanilla.WithDocument())
			if err != nil {
				return err
			}
			html, err := page.Page("Dashboard", string(content))
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, html)
		},
	}
	source.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&templates, "templates", "", "directory overriding the embedded templates")
	cmd.Flags().BoolVar(&fragment, "fragment", false, "emit the dashboard markup without the page shell")
	return cmd
}
