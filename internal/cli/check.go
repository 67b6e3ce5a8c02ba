package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-jsonform/pkg/formschema"
)

// errCheckFailed is returned once every document has been reported.
var errCheckFailed = errors.New("check failed")

func (a *app) checkCmd() *cobra.Command {
	var (
		source sourceFlags
		strict bool
	)
	cmd := &cobra.Command{
		Use:   "check SOURCE...",
		Short: "Validate form schema documents",
		Long: "Validate the structure of each document. Choice fields without options\n" +
			"are warnings since they are skipped at render time; --strict fails on them.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := false
			for _, raw := range args {
				doc, err := source.load(cmd.Context(), raw)
				if err != nil {
					fmt.Fprintf(out, "%s: %v\n", raw, err)
					failed = true
					continue
				}
				issues, err := formschema.Check(doc)
				if err != nil {
					fmt.Fprintf(out, "%s: %v\n", raw, err)
					failed = true
					continue
				}
				if len(issues) == 0 {
					fmt.Fprintf(out, "%s: ok\n", raw)
					continue
				}

				severity := "warning"
				if _, err := formschema.Decode(doc); err != nil || strict {
					severity = "error"
					failed = true
				}
				for _, issue := range issues {
					fmt.Fprintf(out, "%s: %s: %s\n", raw, severity, issue)
				}
			}
			if failed {
				return errCheckFailed
			}
			return nil
		},
	}
	source.register(cmd)
	cmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as errors")
	return cmd
}
