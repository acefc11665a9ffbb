// Package main boots the fruit voting HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/CHOCOLAnyo/pca-devops-lab/internal/config"
	httpapi "github.com/CHOCOLAnyo/pca-devops-lab/internal/http"
	"github.com/CHOCOLAnyo/pca-devops-lab/internal/notify"
	"github.com/CHOCOLAnyo/pca-devops-lab/internal/obs"
	"github.com/CHOCOLAnyo/pca-devops-lab/internal/store"
)

func main() {
	cfg := config.Load()
	obs.InitLogger()
	obs.Logger.Info("service_starting", "version", cfg.Version, "hostname", cfg.Hostname)

	st := store.New(cfg.RedisAddr())
	ctxPing, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
	if err := st.Ping(ctxPing); err != nil {
		// Startup connectivity failure is informational only; per-request
		// store errors surface as 500s once traffic arrives.
		obs.Logger.Warn("store_ping_failed", "addr", cfg.RedisAddr(), "error", err)
	} else {
		obs.Logger.Info("store_connected", "addr", cfg.RedisAddr())
	}
	cancelPing()

	n := notify.New(cfg)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	n.Start(ctx)
	if !cfg.NotifyEnabled() {
		obs.Logger.Info("notifications_disabled")
	}

	app := httpapi.NewApp(cfg, st, n)
	mux := httpapi.NewRouter(app)

	srv := &http.Server{
		Addr:              config.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		obs.Logger.Info("http_listen", "addr", config.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			obs.Logger.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigc
	obs.Logger.Info("shutdown_signal", "signal", s.String())

	n.CloseIntake()
	ctxDrain, cancelDrain := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelDrain()
	if drained := n.DrainUntil(ctxDrain); !drained {
		obs.Logger.Warn("shutdown_notify_drain_timeout")
	}

	ctxSrv, cancelSrv := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelSrv()
	if err := srv.Shutdown(ctxSrv); err != nil {
		obs.Logger.Error("http_shutdown_error", "error", err)
	}
	if err := st.Close(); err != nil {
		obs.Logger.Warn("store_close_error", "error", err)
	}
	obs.Logger.Info("service_stopped")
}
