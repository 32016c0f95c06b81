package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"codeclub/clubhouse/internal/auth"
	"codeclub/clubhouse/internal/common"
	"codeclub/clubhouse/internal/config"
	"codeclub/clubhouse/internal/db"
	"codeclub/clubhouse/internal/jobs"
	"codeclub/clubhouse/internal/logging"
	"codeclub/clubhouse/internal/metrics"
	"codeclub/clubhouse/internal/providers"
	"codeclub/clubhouse/internal/services"
)

// Clubhouse client runtime
// Resolves the saved session, keeps the chat feed synchronized, and
// serves operational metrics while running.
func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Clubhouse client starting up",
		"environment", cfg.AppEnv,
		"api_base_url", cfg.APIBaseURL,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	promReg := prometheus.NewRegistry()
	reg := metrics.NewRegistry(promReg)

	// Local state store (saved session only)
	store, err := db.InitLocalStore(cfg.StatePath)
	if err != nil {
		logging.Error("Failed to open local store", "error", err.Error())
		log.Fatalf("❌ Failed to open local store: %v", err)
	}
	sessions := db.NewSessionStore(store)
	logging.Info("Local state store ready", "path", cfg.StatePath)

	// Identity -> session gate -> gateway
	issuer := providers.NewIdentityProvider(cfg.IdentityURL, cfg.IdentityKey)
	cache := common.NewCacheService(300, 600)
	gate := auth.NewSessionGate(issuer, cache, reg)
	gateway := providers.NewClubAPIProvider(cfg.APIBaseURL, gate, reg)
	gate.BindProfileLoader(gateway)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Restore a saved session when one exists; the client stays usable
	// for unauthenticated reads either way.
	if saved, err := sessions.Load(); err != nil {
		logging.Warn("Could not read saved session", "error", err.Error())
	} else if saved != nil {
		if profile, err := gate.Resume(ctx, saved.Blob); err != nil {
			logging.Warn("Saved session no longer valid", "email", saved.Email, "error", err.Error())
			if err := sessions.Clear(); err != nil {
				logging.Warn("Could not clear saved session", "error", err.Error())
			}
		} else {
			logging.Info("Session restored", "name", profile.Name, "role", profile.Role.String())
			if blob, ok := gate.ExportSession(); ok {
				// Refresh credentials may have rotated during resume.
				if err := sessions.Save(profile.UID, profile.Email, blob); err != nil {
					logging.Warn("Could not persist session", "error", err.Error())
				}
			}
		}
	}

	chat := services.NewChatService(gateway, reg)
	feedSync := jobs.NewFeedSyncJob(chat, reg, cfg.ChatPollInterval)

	router := chi.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.MetricsAddr, Handler: router}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logging.Info("Feed sync starting", "interval", feedSync.Interval().String())
		feedSync.RunScheduled(groupCtx)
		return nil
	})

	group.Go(func() error {
		logging.Info("Metrics endpoint listening", "addr", cfg.MetricsAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logging.Error("Client runtime exited with error", "error", err.Error())
		os.Exit(1)
	}
	logging.Info("Clubhouse client stopped")
}
