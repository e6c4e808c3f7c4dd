package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/livefir/imovel/button"
	"github.com/livefir/imovel/config"
	"github.com/livefir/imovel/internal/metrics"
	"github.com/livefir/imovel/internal/server"
	"github.com/livefir/imovel/views"
)

func serveCmd(g *globals) *cobra.Command {
	var (
		addr   string
		kit    string
		minify bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the property management views",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := g.logger()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			cfg, err := g.config()
			if err != nil {
				return err
			}

			k, err := button.ParseKit(kit)
			if err != nil {
				return err
			}

			collector := metrics.NewCollector()
			handler, err := newHandler(cfg, k, minify, collector, log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			err = run(ctx, addr, handler, log)

			snap := collector.Snapshot()
			log.Info("served",
				zap.Int64("views_rendered", snap.ViewsRendered),
				zap.Int64("load_failures", snap.LoadFailures),
				zap.Int64("actions_accepted", snap.ActionsAccepted),
				zap.Int64("actions_rejected", snap.ActionsRejected),
				zap.Float64("error_rate", snap.ErrorRate),
				zap.Duration("uptime", snap.Uptime),
			)
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&kit, "kit", string(button.KitTailwind), "CSS kit for buttons (tailwind, bulma, pico, none)")
	cmd.Flags().BoolVar(&minify, "minify", true, "minify rendered HTML")
	return cmd
}

// newHandler wires the registry, the demo controls and the server
func newHandler(cfg *config.Config, kit button.Kit, minify bool, collector *metrics.Collector, log *zap.Logger) (*server.Server, error) {
	btn := button.New(button.NewHTMLPrimitive(kit))
	registry := views.Default(
		views.WithFuncs(btn.FuncMap()),
		views.WithLogger(log.Named("views")),
	)

	return server.New(cfg, registry, demoControls(cfg, log),
		server.WithLogger(log.Named("server")),
		server.WithMetrics(collector),
		server.WithMinify(minify),
	)
}

// demoControls are the buttons rendered into the views. Save reports
// loading while a previous save is still in flight and starts at most one
// save at a time.
func demoControls(cfg *config.Config, log *zap.Logger) []server.Control {
	var saving atomic.Bool

	return []server.Control{
		{
			Name: "refresh",
			Props: func() button.Props {
				return button.Props{
					Children:  "Atualizar",
					Variant:   button.VariantLight,
					AriaLabel: "Atualizar dados",
					OnClick:   func() { log.Info("refresh requested") },
				}
			},
		},
		{
			Name:  "export",
			Views: []string{views.ChartsSection, views.Dashboard, views.DashboardWithTransform},
			Props: func() button.Props {
				return button.Props{
					Children: "Exportar",
					Variant:  button.VariantOutline,
					Disabled: !cfg.APIConfigured(),
					OnClick:  func() { log.Info("export requested", zap.String("api", cfg.API.BaseURL)) },
				}
			},
		},
		{
			Name:  "save",
			Views: []string{views.ImovelForm},
			Props: func() button.Props {
				return button.Props{
					Children:  "Salvar",
					Color:     cfg.UI.PrimaryColor,
					Loading:   saving.Load(),
					FullWidth: true,
					OnClick: func() {
						if !saving.CompareAndSwap(false, true) {
							log.Debug("save already in flight")
							return
						}
						log.Info("save started")
						go func() {
							defer saving.Store(false)
							time.Sleep(cfg.Performance.DebounceDelay())
							log.Info("imovel saved")
						}()
					},
				}
			},
		},
	}
}

func run(ctx context.Context, addr string, handler http.Handler, log *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
