package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	jsonform "github.com/goliatone/go-jsonform"
	"github.com/goliatone/go-jsonform/internal/config"
	"github.com/goliatone/go-jsonform/internal/logging"
	"github.com/goliatone/go-jsonform/internal/metrics"
	"github.com/goliatone/go-jsonform/internal/server"
	"github.com/goliatone/go-jsonform/pkg/dashboard"
	"github.com/goliatone/go-jsonform/pkg/formschema"
	"github.com/goliatone/go-jsonform/pkg/formview"
	"github.com/goliatone/go-jsonform/pkg/renderers/vanilla"
	"github.com/goliatone/go-jsonform/pkg/submission"
)

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a form (and optionally a dashboard) over HTTP",
		Long: "Serve the form at /form. Settings come from flags, JSONFORM_* environment\n" +
			"variables, a .env file and an optional --config file, in that order.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags(), config.Options{})
			if err != nil {
				return err
			}
			logger, err := a.serveLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			srv, err := buildServer(cfg, logger)
			if err != nil {
				return err
			}
			return srv.ListenAndServe(cmd.Context(), cfg.Addr)
		},
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func (a *app) serveLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.LogFormat == "json" {
		return logging.New(cfg.LogLevel, cfg.LogFormat)
	}
	return a.logger(cfg.LogLevel)
}

// buildServer assembles the views, renderers and metrics described by cfg.
func buildServer(cfg config.Config, logger *zap.Logger) (*server.Server, error) {
	var loaderOptions []formschema.LoaderOption
	if cfg.AllowHTTP {
		loaderOptions = append(loaderOptions, formschema.WithHTTPFallback(cfg.Timeout))
	}
	loader := jsonform.NewLoader(loaderOptions...)
	reporter := logging.Reporter(logger)
	m := metrics.New()

	src, err := formschema.ParseSource(cfg.Schema)
	if err != nil {
		return nil, err
	}
	ack := submission.NewAcknowledger(submission.WithOnAccepted(logAccepted(logger)))
	form := formview.New(loader, src,
		formview.WithReporter(reporter),
		formview.WithHandler(ack),
		formview.WithLoadHook(m.LoadHook("form")),
	)

	renderer, err := htmlRenderer(cfg.Templates, vanilla.WithDocument(server.StylesheetPath))
	if err != nil {
		return nil, err
	}
	options := []server.Option{server.WithLogger(logger), server.WithMetrics(m)}

	if cfg.Dashboard != "" {
		dashSrc, err := formschema.ParseSource(cfg.Dashboard)
		if err != nil {
			return nil, err
		}
		view := dashboard.NewView(loader, dashSrc,
			dashboard.WithReporter(reporter),
			dashboard.WithLoadHook(m.LoadHook("dashboard")),
		)
		var dashOptions []dashboard.RendererOption
		if cfg.Templates != "" {
			dashOptions = append(dashOptions, dashboard.WithTemplatesFS(os.DirFS(cfg.Templates)))
		}
		dashRenderer, err := dashboard.NewRenderer(dashOptions...)
		if err != nil {
			return nil, err
		}
		options = append(options, server.WithDashboard(view, dashRenderer))
	}

	srv, err := server.New(form, renderer, options...)
	if err != nil {
		return nil, fmt.Errorf("serve: %w", err)
	}
	return srv, nil
}
