package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/auth"
	"github.com/junaidrashid-git/storefront-api/config"
	orderControllers "github.com/junaidrashid-git/storefront-api/controllers/order"
	"github.com/junaidrashid-git/storefront-api/middleware"
	"github.com/junaidrashid-git/storefront-api/notify"
	"github.com/junaidrashid-git/storefront-api/repository"
	"github.com/junaidrashid-git/storefront-api/routes"
	"github.com/junaidrashid-git/storefront-api/services"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

const (
	tokenTTL        = 30 * 24 * time.Hour
	shutdownTimeout = 10 * time.Second
)

func serve(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	if cfg.AutoMigrate {
		if err := repository.Migrate(db); err != nil {
			return err
		}
	}

	store := repository.New(db)
	settings := repository.NewSettingsRepository(db, cfg.Delivery.Settings())
	users := repository.NewUserRepository(db)

	sender, err := notify.New(c.Context, cfg, users, log)
	if err != nil {
		return errors.Wrap(err, "notification sender")
	}
	hub := orderControllers.NewHub(log.WithField("component", "order-feed"))

	r := newRouter(cfg, log, routes.Deps{
		Tokens:      auth.NewTokens(cfg.JWTSecret, tokenTTL),
		AdminAPIKey: cfg.AdminAPIKey,
		Carts:       services.NewCartService(store, settings),
		Orders: services.NewOrderService(store, settings, sender, hub,
			services.WithNotifyTimeout(cfg.Notify.Timeout)),
		Hub:      hub,
		Catalog:  repository.NewProductRepository(db),
		Promos:   repository.NewPromoRepository(db),
		Settings: settings,
		Users:    users,
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	serveErr := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Port).Info("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	select {
	case err := <-serveErr:
		return errors.Wrap(err, "listen")
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return errors.Wrap(srv.Shutdown(shutdownCtx), "shutdown")
}

func newRouter(cfg *config.Config, log logrus.FieldLogger, deps routes.Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY", "X-Admin-Actor"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(r, deps)
	return r
}
