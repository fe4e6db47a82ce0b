package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	api "github.com/mind-engage/populism-atlas/internal/api/http"
	auth "github.com/mind-engage/populism-atlas/internal/auth/middleware"
	"github.com/mind-engage/populism-atlas/internal/boundary"
	"github.com/mind-engage/populism-atlas/internal/choropleth"
	"github.com/mind-engage/populism-atlas/internal/config"
	"github.com/mind-engage/populism-atlas/internal/db"
	"github.com/mind-engage/populism-atlas/internal/gpd"
	"github.com/mind-engage/populism-atlas/internal/logging"
	storage "github.com/mind-engage/populism-atlas/internal/storage"
	syncx "github.com/mind-engage/populism-atlas/internal/sync"
)

func main() {
	config.LoadDotEnv()
	cfg := config.FromEnv()
	logging.Init(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)
	log := logging.New("populismd")

	if err := run(cfg); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	log := logging.New("populismd")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- DB ---
	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	dbh, err := db.Open(openCtx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	cancel()
	if err != nil {
		return fmt.Errorf("db open: %w", err)
	}
	defer dbh.Close()

	events := syncx.NewEventRepo(dbh)
	svc := gpd.NewService(gpd.NewSQLStore(dbh, cfg.DBDriver), events)

	aliases, err := choropleth.LoadAliasFile(cfg.AliasPath)
	if err != nil {
		return fmt.Errorf("aliases: %w", err)
	}
	resolver := choropleth.NewResolver(aliases)

	cache, err := storage.NewFSStore(cfg.BoundaryCacheDir)
	if err != nil {
		return fmt.Errorf("boundary cache: %w", err)
	}

	// Seed the dataset and fetch boundaries side by side. Neither failure
	// is fatal: the data API works without boundaries, and an empty store
	// can be filled through the admin import.
	atlas := &api.Atlas{Resolver: resolver}
	var ready atomic.Bool
	var g errgroup.Group
	g.Go(func() error {
		seeded, err := svc.ImportFileIfEmpty(ctx, cfg.DatasetPath)
		if err != nil {
			log.Warn("dataset seed failed", "path", cfg.DatasetPath, "error", err)
		} else if seeded {
			log.Info("dataset seeded", "path", cfg.DatasetPath)
		}
		n, err := svc.Count(ctx)
		ready.Store(err == nil && n > 0)
		return nil
	})
	g.Go(func() error {
		set, err := boundary.NewLoader(cache).Load(ctx, cfg.BoundarySource)
		if err != nil {
			log.Warn("boundaries unavailable", "source", cfg.BoundarySource, "error", err)
			return nil
		}
		atlas.Boundaries = set
		return nil
	})
	_ = g.Wait()

	reportCoverage(ctx, svc, atlas)

	authSvc := auth.NewAuthService(cfg.AuthHMACSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)
	if cfg.AuthHMACSecret == "supersecret-dev-key" && cfg.Mode == config.ModeOnline {
		log.Warn("AUTH_HMAC_SECRET is the development default")
	}

	handler := api.NewRouter(api.Deps{
		Config:  cfg,
		Service: svc,
		Events:  events,
		Auth:    authSvc,
		Atlas:   atlas,
		Ready: func() bool {
			if ready.Load() {
				return true
			}
			n, err := svc.Count(context.Background())
			ok := err == nil && n > 0
			ready.Store(ok)
			return ok
		},
	})

	s := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.Shutdown(shutCtx)
	}()

	log.Info("listening", "addr", cfg.HTTPAddr, "mode", cfg.Mode, "db", cfg.DBDriver,
		"agreement_gate", cfg.EnableAgreementGate)
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// reportCoverage logs resolution gaps once at startup.
func reportCoverage(ctx context.Context, svc *gpd.Service, atlas *api.Atlas) {
	if atlas.Boundaries == nil {
		return
	}
	items, err := svc.MapData(ctx, gpd.MapQuery{})
	if err != nil || len(items) == 0 {
		return
	}
	c := boundary.CheckCoverage(atlas.Boundaries, atlas.Resolver, gpd.Snapshot(items))
	log := logging.New("coverage")
	if len(c.UnmappedCountries) > 0 || len(c.UnreachableAliases) > 0 {
		log.Warn("dataset countries without a boundary",
			"unmapped", c.UnmappedCountries, "unreachable_aliases", c.UnreachableAliases)
	}
	log.Info("boundary coverage", "features", c.Features, "resolved", c.Resolved,
		"unresolved", len(c.UnresolvedFeatures))
}
