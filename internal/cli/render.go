package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	jsonform "github.com/goliatone/go-jsonform"
	"github.com/goliatone/go-jsonform/internal/logging"
	"github.com/goliatone/go-jsonform/pkg/render"
)

func (a *app) renderCmd() *cobra.Command {
	var (
		source    sourceFlags
		output    string
		templates string
		action    string
	)
	cmd := &cobra.Command{
		Use:   "render SOURCE",
		Short: "Render a form schema to HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := a.logger("warn")
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			doc, err := source.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			renderer, err := htmlRenderer(templates)
			if err != nil {
				return err
			}
			html, err := jsonform.GenerateHTMLFromDocument(cmd.Context(), doc,
				jsonform.WithRenderer(renderer),
				jsonform.WithRenderOptions(render.RenderOptions{
					Action:   action,
					Reporter: logging.Reporter(logger),
				}),
			)
			if err != nil {
				return fmt.Errorf("render %s: %w", args[0], err)
			}
			return writeOutput(cmd, output, html)
		},
	}
	source.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&templates, "templates", "", "directory overriding the embedded templates")
	cmd.Flags().StringVar(&action, "action", "", "form action URL")
	return cmd
}
