package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-jsonform/internal/logging"
	"github.com/goliatone/go-jsonform/pkg/formschema"
	"github.com/goliatone/go-jsonform/pkg/render"
	"github.com/goliatone/go-jsonform/pkg/renderers/tui"
	"github.com/goliatone/go-jsonform/pkg/rules"
	"github.com/goliatone/go-jsonform/pkg/submission"
)

// maxFillAttempts bounds how often a rejected submission is re-prompted.
const maxFillAttempts = 3

func (a *app) fillCmd() *cobra.Command {
	var (
		source sourceFlags
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "fill SOURCE",
		Short: "Fill a form interactively in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, ok := tui.ParseOutputFormat(format)
			if !ok {
				return fmt.Errorf("unknown output format %q (json, form, pretty)", format)
			}
			logger, err := a.logger("warn")
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			doc, err := source.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			schema, err := formschema.Decode(doc)
			if err != nil {
				return err
			}
			compiled, err := rules.Compile(schema)
			if err != nil {
				return err
			}
			processor := submission.NewProcessor(schema, compiled, submission.NewAcknowledger())

			renderer := tui.New(
				tui.WithPromptDriver(a.prompt),
				tui.WithOutputFormat(outputFormat),
				tui.WithTheme(tui.Theme{ErrorPrefix: "error: ", SkipPrefix: "note: "}),
			)
			opts := render.RenderOptions{Reporter: logging.Reporter(logger)}

			for attempt := 0; attempt < maxFillAttempts; attempt++ {
				values, err := renderer.Collect(cmd.Context(), schema, opts)
				if err != nil {
					if errors.Is(err, tui.ErrAborted) {
						return fmt.Errorf("fill: %w", err)
					}
					return err
				}
				result, err := processor.Submit(cmd.Context(), values)
				if err != nil {
					return err
				}
				if !result.Accepted {
					opts.Values = values
					opts.Errors = result.Errors
					continue
				}

				fmt.Fprintf(cmd.ErrOrStderr(), "%s (reference %s)\n", result.Acknowledgment.Message, result.Acknowledgment.ID)
				payload, err := renderer.Serialize(schema, result.Values)
				if err != nil {
					return err
				}
				return writeOutput(cmd, output, payload)
			}
			return fmt.Errorf("fill: submission rejected after %d attempts", maxFillAttempts)
		},
	}
	source.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", string(tui.OutputFormatJSON), "output format (json, form, pretty)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}
