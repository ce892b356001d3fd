package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/navstack-dev/navstack/internal/config"
	"github.com/navstack-dev/navstack/pkg/middleware"
	"github.com/navstack-dev/navstack/pkg/navstack"
	"github.com/navstack-dev/navstack/pkg/persist"
	"github.com/navstack-dev/navstack/pkg/remote"
	"github.com/navstack-dev/navstack/pkg/route"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the engine and its HTTP bridge",
		Long: `Serve starts a navigation-stack engine configured by navstack.json and
mounts the HTTP/WebSocket bridge under /nav and Prometheus metrics under
/metrics. When snapshot persistence is configured, the stack is restored
on startup and saved on shutdown.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(".")
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides navstack.json)")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logger := slog.Default().With("component", "navstack")

	stack := navstack.NewStack(
		navstack.WithDebugLabel(cfg.Name),
		navstack.WithLogger(logger),
	)
	instrumented := middleware.Instrument(stack,
		middleware.WithNamespace(cfg.MetricsNamespace),
	)

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}

	decoder := permissiveDecoder{}
	if store != nil {
		defer store.Close()
		if err := restoreStack(ctx, cfg, store, decoder, stack, logger); err != nil {
			return err
		}
	}

	handler := remote.NewHandler(instrumented, decoder,
		remote.WithHandlerLogger(logger),
	)

	r := chi.NewRouter()
	r.Mount("/nav", handler.Routes())
	r.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("bridge listening", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-stop:
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if store != nil {
		if err := saveStack(shutdownCtx, cfg, store, stack); err != nil {
			logger.Error("snapshot save failed", "error", err)
		}
	}
	return srv.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.Config) (persist.Store, error) {
	switch cfg.Snapshot.Store {
	case "":
		return nil, nil
	case "memory":
		return persist.NewMemoryStore(), nil
	case "s3":
		if cfg.Snapshot.Bucket == "" {
			return nil, fmt.Errorf("snapshot store s3 requires a bucket")
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load AWS config: %w", err)
		}
		client := s3.NewFromConfig(awsCfg)
		return persist.NewS3Store(client, cfg.Snapshot.Bucket, cfg.Snapshot.Prefix), nil
	default:
		return nil, fmt.Errorf("unknown snapshot store %q", cfg.Snapshot.Store)
	}
}

func restoreStack(ctx context.Context, cfg *config.Config, store persist.Store, decoder persist.Decoder, stack *navstack.Stack, logger *slog.Logger) error {
	data, err := store.Load(ctx, cfg.Snapshot.Key)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	if data == nil {
		return nil
	}

	entries, err := persist.Restore(decoder, data)
	if err != nil {
		return fmt.Errorf("restore snapshot: %w", err)
	}
	for _, e := range entries {
		if _, err := stack.Push(ctx, e); err != nil {
			return fmt.Errorf("restore snapshot: %w", err)
		}
	}
	logger.Info("restored snapshot", "routes", len(entries))
	return nil
}

func saveStack(ctx context.Context, cfg *config.Config, store persist.Store, stack *navstack.Stack) error {
	data, err := persist.Snapshot(stack.Entries())
	if err != nil {
		return err
	}
	return store.Save(ctx, cfg.Snapshot.Key, data)
}

// dynamicRoute is the entry type behind the permissive decoder: any route
// name is accepted and the identity payload is carried opaque.
type dynamicRoute struct {
	route.Base
	name     string
	identity json.RawMessage
}

func (r *dynamicRoute) RouteName() string { return r.name }

func (r *dynamicRoute) IdentityArgs() []any {
	if len(r.identity) == 0 {
		return nil
	}
	return []any{string(r.identity)}
}

func (r *dynamicRoute) MarshalRoute() (json.RawMessage, error) {
	return r.identity, nil
}

// permissiveDecoder accepts every route name. Applications embedding the
// engine use a persist.Registry with concrete types instead; the CLI has
// no route table to register.
type permissiveDecoder struct{}

func (permissiveDecoder) Decode(raw persist.RawEntry) (route.Entry, error) {
	return &dynamicRoute{name: raw.Name, identity: raw.Identity}, nil
}
