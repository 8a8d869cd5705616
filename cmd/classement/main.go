// Command classement runs the instructor review ranking service: it
// accepts student review submissions over HTTP and serves personalized
// per-course instructor rankings.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abeaupre/go-classement/infrastructure/httpapi"
	"github.com/abeaupre/go-classement/infrastructure/identity"
	"github.com/abeaupre/go-classement/infrastructure/matching"
	"github.com/abeaupre/go-classement/infrastructure/middleware"
	"github.com/abeaupre/go-classement/infrastructure/store"
	"github.com/abeaupre/go-classement/internal/application"
	"github.com/abeaupre/go-classement/internal/domain"
	"github.com/abeaupre/go-classement/internal/ports"
)

func main() {
	configPath := flag.String("config", "", "path to YAML configuration (defaults apply when empty)")
	importCSV := flag.String("import-csv", "", "legacy avis.csv export to import at startup")
	importProgram := flag.String("import-program", "Sciences de la nature", "program assigned to imported rows")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	if err := run(*configPath, *importCSV, *importProgram, logger); err != nil {
		logger.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(configPath, importCSV, importProgram string, logger *slog.Logger) error {
	cfg := application.DefaultConfig()
	if configPath != "" {
		var err error
		cfg, err = application.LoadConfig(configPath)
		if err != nil {
			return err
		}
	}

	reviewStore, closeStore, err := openStore(cfg.Store)
	if err != nil {
		return err
	}
	defer closeStore()

	if importCSV != "" {
		f, err := os.Open(importCSV)
		if err != nil {
			return fmt.Errorf("open import file: %w", err)
		}
		n, err := store.ImportCSV(context.Background(), reviewStore, f, importProgram)
		f.Close()
		if err != nil {
			return err
		}
		logger.Info("imported legacy reviews", "rows", n, "program", importProgram)
	}

	catalog, err := buildCatalog(cfg)
	if err != nil {
		return err
	}

	identityStrategy, err := buildIdentity(cfg.Identity)
	if err != nil {
		return err
	}

	resolver, err := matching.NewLevenshteinResolver(cfg.Matching.Threshold)
	if err != nil {
		return err
	}

	metrics := middleware.NewPrometheusMetrics(nil)

	submissions, err := application.NewSubmissionService(
		reviewStore, resolver, identityStrategy, catalog, cfg.Scale, metrics)
	if err != nil {
		return err
	}
	rankings, err := application.NewRankingService(
		reviewStore, cfg.Scale, domain.BuiltinProfiles(), metrics)
	if err != nil {
		return err
	}

	api := httpapi.NewServer(submissions, rankings, catalog, cfg.Scale, logger, httpapi.Options{
		SubmissionsPerMinute: cfg.Server.SubmissionsPerMinute,
	})
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", "addr", cfg.Server.Addr, "store", cfg.Store.Backend,
			"identity", identityStrategy.Name())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func openStore(cfg application.StoreConfig) (ports.ReviewStore, func(), error) {
	switch cfg.Backend {
	case "sqlite":
		s, err := store.OpenSQLite(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	case "memory":
		return store.NewMemoryStore(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown store backend %q",
			domain.ErrInvalidConfiguration, cfg.Backend)
	}
}

func buildCatalog(cfg application.Config) (ports.Catalog, error) {
	if len(cfg.Catalog) == 0 {
		return application.DefaultCatalog(), nil
	}
	c, err := application.NewStaticCatalog(cfg.Catalog)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func buildIdentity(cfg application.IdentityConfig) (ports.IdentityStrategy, error) {
	switch cfg.Strategy {
	case "institutional":
		s, err := identity.NewInstitutionalStrategy(cfg.Prefixes)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "session":
		return identity.NewSessionStrategy(), nil
	default:
		return nil, fmt.Errorf("%w: unknown identity strategy %q",
			domain.ErrInvalidConfiguration, cfg.Strategy)
	}
}
