package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/thewind121212/gen-barcode-sub000/config"
	"github.com/thewind121212/gen-barcode-sub000/core/exporter"
	"github.com/thewind121212/gen-barcode-sub000/core/generate"
	"github.com/thewind121212/gen-barcode-sub000/core/openapi"
	"github.com/thewind121212/gen-barcode-sub000/core/schema"
	"github.com/thewind121212/gen-barcode-sub000/web"
)

// App is the documentation preview server for one package.
type App struct {
	Logger     zerolog.Logger
	HTTPServer *http.Server
	Metrics    *exporter.PrometheusExporter
	OpenAPI    *openapi.Service
}

// NewDocsApp creates the preview server. addr overrides the configured listen address.
func NewDocsApp(cfg *config.Config, pkg, addr string, logger zerolog.Logger) (*App, error) {
	if pkg == "" {
		return nil, generate.ErrPackageRequired
	}
	path := cfg.SchemaPath(pkg)
	if _, err := os.Stat(path); err != nil {
		return nil, &schema.Error{
			Kind:    schema.ErrSchemaNotFound,
			Path:    path,
			Package: pkg,
			Message: "schema file does not exist",
		}
	}
	if addr == "" {
		addr = cfg.Docs.Addr
	}

	info := DocumentInfo(cfg)
	svc := openapi.NewService(openapi.ServiceConfig{
		Source: func() ([]byte, error) { return os.ReadFile(path) },
		Build: func(ctx context.Context) (*openapi.Spec, error) {
			return generate.BuildDocument(path, pkg, info)
		},
		Logger: logger,
	})
	metrics := exporter.NewPrometheusExporter(exporter.PrometheusConfig{Runtime: true})

	router := web.NewRouter(web.RouterConfig{
		Docs: web.NewDocsHandler(web.DocsDeps{
			OpenAPIService: svc,
			Logger:         logger,
			Package:        pkg,
		}),
		Metrics: metrics.Handler(),
		Logger:  logger,
	})

	return &App{
		Logger: logger,
		HTTPServer: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		Metrics: metrics,
		OpenAPI: svc,
	}, nil
}

// Run serves until ctx is canceled or the process receives SIGINT or SIGTERM.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.HTTPServer.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.HTTPServer.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info().Str("addr", ln.Addr().String()).Msg("Serving OpenAPI preview")
		if err := a.HTTPServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		a.Logger.Info().Str("signal", sig.String()).Msg("Shutting down")
	case <-ctx.Done():
		a.Logger.Info().Msg("Shutting down")
	}
	return a.Shutdown()
}

// Shutdown gracefully stops the server.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.HTTPServer.Shutdown(ctx); err != nil {
		a.Logger.Error().Err(err).Msg("HTTP server shutdown error")
		return err
	}
	a.Logger.Info().Msg("Shutdown complete")
	return nil
}
