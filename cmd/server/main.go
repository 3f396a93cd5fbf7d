package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	glog "github.com/labstack/gommon/log"
	"github.com/rs/cors"

	"github.com/iliyamo/clinic-appointments/internal/config"
	"github.com/iliyamo/clinic-appointments/internal/handler"
	"github.com/iliyamo/clinic-appointments/internal/middleware"
	"github.com/iliyamo/clinic-appointments/internal/queue"
	"github.com/iliyamo/clinic-appointments/internal/router"
	"github.com/iliyamo/clinic-appointments/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("could not read .env: %v", err)
	}
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bootCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	store, err := openStorage(bootCtx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("storage (%s): %v", cfg.StorageDriver, err)
	}
	log.Printf("connected to %s storage", cfg.StorageDriver)

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(logLevel(cfg.LogLevel))
	e.Pre(echo.WrapMiddleware(corsHandler(cfg.CORSAllowedOrigins).Handler))
	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.Logger())

	var events service.EventPublisher = service.NopPublisher{}
	if cfg.EventsEnabled {
		events = &service.AMQPPublisher{URL: cfg.AMQPURL}
		consumer := &queue.AuditConsumer{URL: cfg.AMQPURL, LogDir: cfg.AuditLogDir}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("audit consumer stopped: %v", err)
			}
		}()
	}

	var cacheMW []echo.MiddlewareFunc
	if cacheCfg := config.LoadCacheConfig(); cacheCfg.Enabled {
		if rdb := config.NewRedisClient(); rdb != nil {
			defer rdb.Close()
			cacheMW = append(cacheMW, middleware.ResponseCache(cacheCfg, rdb))
		}
	}

	if !cfg.RequireAuthOnWrites {
		log.Printf("WARNING: POST/DELETE/PATCH /appointments accept unauthenticated requests; set REQUIRE_AUTH_ON_WRITES=true to gate them")
	}

	router.RegisterRoutes(e, &handler.HealthHandler{Ping: store.ping, Timeout: cfg.StorageTimeout})
	router.RegisterAuth(e, &handler.TokenHandler{Secret: cfg.JWTSecret, TTL: cfg.TokenTTL})
	router.RegisterTreatments(e, &handler.TreatmentHandler{Treatments: store.treatments, Timeout: cfg.StorageTimeout}, cacheMW...)
	appts := handler.NewAppointmentHandler(store.appointments, events, cfg.StorageTimeout)
	router.RegisterAppointments(e, appts, cfg.JWTSecret, cfg.RequireAuthOnWrites)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
	appts.Wait()
	if err := store.close(shutdownCtx); err != nil {
		log.Printf("storage close: %v", err)
	}
}

// corsHandler allows every origin unless an explicit list is configured.
func corsHandler(origins []string) *cors.Cors {
	if len(origins) == 0 {
		return cors.AllowAll()
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})
}

func logLevel(s string) glog.Lvl {
	switch strings.ToLower(s) {
	case "debug":
		return glog.DEBUG
	case "warn":
		return glog.WARN
	case "error":
		return glog.ERROR
	case "off":
		return glog.OFF
	}
	return glog.INFO
}
