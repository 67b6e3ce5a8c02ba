// Package cli wires the jsonform commands onto cobra.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	jsonform "github.com/goliatone/go-jsonform"
	"github.com/goliatone/go-jsonform/internal/logging"
	"github.com/goliatone/go-jsonform/pkg/formschema"
	"github.com/goliatone/go-jsonform/pkg/renderers/tui"
	"github.com/goliatone/go-jsonform/pkg/renderers/vanilla"
)

// Execute runs the root command against os.Args.
func Execute(ctx context.Context) error {
	return NewRoot().ExecuteContext(ctx)
}

// app carries what commands share. Tests replace prompt and logger.
type app struct {
	prompt tui.PromptDriver
	logger func(level string) (*zap.Logger, error)
}

// Option customises the root command.
type Option func(*app)

// WithPromptDriver replaces the terminal prompts used by fill.
func WithPromptDriver(driver tui.PromptDriver) Option {
	return func(a *app) {
		a.prompt = driver
	}
}

// WithLogger fixes the logger every command uses.
func WithLogger(logger *zap.Logger) Option {
	return func(a *app) {
		a.logger = func(string) (*zap.Logger, error) { return logger, nil }
	}
}

// NewRoot builds the jsonform command tree.
func NewRoot(options ...Option) *cobra.Command {
	a := &app{
		logger: func(level string) (*zap.Logger, error) {
			return logging.New(level, "console")
		},
	}
	for _, opt := range options {
		if opt != nil {
			opt(a)
		}
	}

	root := &cobra.Command{
		Use:           "jsonform",
		Short:         "Render, fill and serve forms described by a JSON schema",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(
		a.renderCmd(),
		a.fillCmd(),
		a.checkCmd(),
		a.serveCmd(),
		a.dashboardCmd(),
		a.openapiCmd(),
	)
	return root
}

// sourceFlags are shared by every command that reads one document.
type sourceFlags struct {
	allowHTTP bool
	timeout   time.Duration
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.allowHTTP, "allow-http", false, "allow http(s) sources")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 10*time.Second, "remote fetch timeout")
}

func (f *sourceFlags) loader() formschema.Loader {
	if f.allowHTTP {
		return jsonform.NewLoader(formschema.WithHTTPFallback(f.timeout))
	}
	return jsonform.NewLoader()
}

func (f *sourceFlags) load(ctx context.Context, raw string) (formschema.Document, error) {
	src, err := formschema.ParseSource(raw)
	if err != nil {
		return formschema.Document{}, err
	}
	return f.loader().Load(ctx, src)
}

func htmlRenderer(templates string, extra ...vanilla.Option) (*vanilla.Renderer, error) {
	options := append([]vanilla.Option(nil), extra...)
	if templates != "" {
		options = append(options, vanilla.WithTemplatesDir(templates))
	}
	return vanilla.New(options...)
}

// writeOutput writes data to path, or to the command's stdout when path is
// empty.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		return writeAll(cmd.OutOrStdout(), data)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "written to %s\n", path)
	return nil
}

func writeAll(w io.Writer, data []byte) error {
	if _, err := w.Write(data); err != nil {
		return err
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		_, err := io.WriteString(w, "\n")
		return err
	}
	return nil
}
