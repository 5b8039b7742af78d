package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"obak-storefront/internal/config"
	"obak-storefront/internal/db"
	"obak-storefront/internal/emailjs"
	"obak-storefront/internal/httpserver"
	"obak-storefront/internal/repository/cartstate"
	categoryrepo "obak-storefront/internal/repository/category"
	productrepo "obak-storefront/internal/repository/product"
	assistantsvc "obak-storefront/internal/service/assistant"
	cartsvc "obak-storefront/internal/service/cart"
	catalogsvc "obak-storefront/internal/service/catalog"
	"obak-storefront/internal/service/dispatch"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	cartStore, err := cartstate.NewRedis(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Fatalf("connect to redis: %v", err)
	}

	productRepo := productrepo.NewPostgres(dbpool, logger)
	categoryRepo := categoryrepo.NewPostgres(dbpool)
	catalogService := catalogsvc.New(productRepo, categoryRepo)
	cartService := cartsvc.New(cartStore, logger)

	var dispatcher dispatch.Dispatcher
	switch cfg.DispatchChannel {
	case "whatsapp":
		dispatcher = dispatch.NewWhatsAppDispatcher(cfg.WhatsAppHost, cfg.AgentPhone, cfg.ManagerPhone)
	default:
		dispatcher = dispatch.NewEmailDispatcher(emailjs.New(cfg.EmailJSBaseURL), cfg, productRepo, logger)
	}
	pipeline := dispatch.NewPipeline(cartService, dispatcher, logger)

	var assistant *assistantsvc.Service
	if cfg.GeminiAPIKey != "" {
		assistant = assistantsvc.New(catalogService, cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
	} else {
		logger.Printf("GEMINI_API_KEY not set, assistant endpoint disabled")
	}

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Catalog:    catalogService,
		Cart:       cartService,
		Pipeline:   pipeline,
		Assistant:  assistant,
		AdminToken: cfg.AdminToken,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
