package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AgusMolinaCode/crypto-ledger/internal/config"
	"github.com/AgusMolinaCode/crypto-ledger/internal/logger"
	"github.com/AgusMolinaCode/crypto-ledger/internal/middleware"
	"github.com/AgusMolinaCode/crypto-ledger/internal/repository"
	routes "github.com/AgusMolinaCode/crypto-ledger/internal/server"
	"github.com/AgusMolinaCode/crypto-ledger/internal/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Inicializar almacenamiento
	store, err := repository.Open(ctx, cfg)
	if err != nil {
		logger.L.Error("Error al inicializar el almacenamiento", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.L.Error("Error al cerrar el almacenamiento", "error", err)
		}
	}()

	client := services.NewCoinMarketCapClient(cfg.CMCAPIKey, cfg.CMCBaseURL, cfg.QuoteCacheTTL)

	// Iniciar el servicio de actualización del mercado
	market := services.NewMarketRefresher(client, store.Transactions, cfg.MarketRefreshInterval, cfg.MarketInitialDelay)
	ledger := services.NewLedgerService(store, market, client)
	if err := ledger.Bootstrap(ctx); err != nil {
		logger.L.Error("Error al crear el usuario por defecto", "error", err)
		os.Exit(1)
	}
	market.Start()
	defer market.Stop()

	// Crear el router de Gin
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())

	// Configurar CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	corsConfig.ExposeHeaders = []string{"Content-Length"}
	router.Use(cors.New(corsConfig))

	// Configurar las rutas
	if err := routes.RegisterRoutes(router, middleware.NewHandler(ledger, store.Driver)); err != nil {
		logger.L.Error("Error al cargar las plantillas", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.L.Info("Crypto Ledger escuchando", "addr", "http://localhost:"+cfg.Port, "storage", store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L.Error("Error al iniciar el servidor", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.L.Info("Apagando el servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.L.Error("Error al apagar el servidor", "error", err)
	}
}
