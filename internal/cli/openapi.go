package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	jsonform "github.com/goliatone/go-jsonform"
	"github.com/goliatone/go-jsonform/pkg/openapi"
)

func (a *app) openapiCmd() *cobra.Command {
	var (
		source      sourceFlags
		operationID string
		list        bool
		html        bool
		noValidate  bool
		output      string
	)
	cmd := &cobra.Command{
		Use:   "openapi SOURCE",
		Short: "Derive a form schema from an OpenAPI operation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := source.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			parserOptions := []openapi.ParserOption{openapi.WithValidation(!noValidate)}

			if list {
				operations, err := openapi.NewParser(parserOptions...).Operations(cmd.Context(), doc.Raw())
				if err != nil {
					return err
				}
				return writeOutput(cmd, output, []byte(strings.Join(openapi.OperationIDs(operations), "\n")))
			}
			if operationID == "" {
				return fmt.Errorf("--operation is required (use --list to see operation ids)")
			}

			form, err := openapi.FormFromOperation(cmd.Context(), doc.Raw(), operationID, parserOptions...)
			if err != nil {
				return err
			}
			if !html {
				payload, err := json.MarshalIndent(form, "", "  ")
				if err != nil {
					return err
				}
				return writeOutput(cmd, output, payload)
			}

			registry, err := jsonform.DefaultRegistry()
			if err != nil {
				return err
			}
			renderer, err := registry.Get("vanilla")
			if err != nil {
				return err
			}
			out, err := renderer.Render(cmd.Context(), form, jsonform.RenderOptions{})
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, out)
		},
	}
	source.register(cmd)
	cmd.Flags().StringVar(&operationID, "operation", "", "operation id to convert")
	cmd.Flags().BoolVar(&list, "list", false, "list operation ids and exit")
	cmd.Flags().BoolVar(&html, "html", false, "render the form as HTML instead of printing the schema")
	cmd.Flags().BoolVar(&noValidate, "no-validate", false, "skip OpenAPI document validation")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}
