package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/kopyalagelsin/storefront/internal/config"
	"github.com/kopyalagelsin/storefront/internal/domain/ports/adapter"
	"github.com/kopyalagelsin/storefront/internal/infra/i18n"
	"github.com/kopyalagelsin/storefront/internal/infra/logging"
	"github.com/kopyalagelsin/storefront/internal/infra/metrics"
	"github.com/kopyalagelsin/storefront/internal/infra/payment"
	red "github.com/kopyalagelsin/storefront/internal/infra/redis"
	"github.com/kopyalagelsin/storefront/internal/infra/storage"
	"github.com/kopyalagelsin/storefront/internal/infra/web"
	"github.com/kopyalagelsin/storefront/internal/usecase"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("developer mode enabled")
	}

	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Storage ----
	store, err := storage.NewFileStore(cfg.Storage.DataDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("data store")
	}
	documents, err := storage.NewFileDocumentStore(cfg.Storage.UploadsDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("upload store")
	}

	orderRepo := storage.NewOrderRepo(store)
	couponRepo := storage.NewCouponRepo(store)
	userRepo := storage.NewUserRepo(store)
	configRepo := storage.NewConfigRepo(store)
	auditRepo := storage.NewAuditLogRepo(store)

	// ---- Redis (optional) ----
	var limiter *red.RateLimiter
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		defer redisClient.Close()
		limiter = red.NewRateLimiter(redisClient)
	} else {
		logger.Warn().Msg("redis.url not set; rate limiting disabled")
	}

	// ---- Payment gateway ----
	var gateway adapter.PaymentGateway
	pt := cfg.Payment.PayTR
	if pt.MerchantID != "" {
		gateway = payment.NewPayTRGateway(payment.Credentials{
			MerchantID:   pt.MerchantID,
			MerchantKey:  pt.MerchantKey,
			MerchantSalt: pt.MerchantSalt,
		}, pt.TestMode, pt.Timeout)
	} else if cfg.Runtime.Dev {
		logger.Warn().Msg("paytr credentials not set; using no-op gateway")
		gateway = payment.NewNoopPaymentGateway()
	} else {
		logger.Fatal().Msg("paytr merchant credentials are required outside dev mode")
	}
	logger.Info().Str("gateway", gateway.Name()).Bool("test_mode", pt.TestMode).Msg("payment gateway ready")

	// ---- Use cases ----
	couponUC := usecase.NewCouponUseCase(couponRepo, logger)
	userUC := usecase.NewUserUseCase(userRepo, configRepo, couponUC, logger)
	orderUC := usecase.NewOrderUseCase(orderRepo, logger)
	configUC := usecase.NewConfigUseCase(configRepo, auditRepo, logger)

	base := strings.TrimRight(cfg.Server.BaseURL, "/")
	checkoutUC := usecase.NewCheckoutUseCase(
		configRepo, orderRepo, userRepo, couponUC, gateway, auditRepo,
		usecase.CallbackURLs{
			OK:     base + "/odeme/basarili",
			Fail:   base + "/odeme/hata",
			Notify: base + "/api/paytr/notify",
		},
		logger,
	)

	// ---- HTTP ----
	translator, err := i18n.NewTranslator(i18n.LocalesFS, cfg.Server.Lang)
	if err != nil {
		logger.Fatal().Err(err).Msg("i18n")
	}
	auth := web.NewAuthManager(cfg.Auth.JWTSecret, cfg.Auth.Secure, cfg.Auth.SessionTTL, cfg.Auth.AdminTTL)

	srv := web.NewServer(web.ServerDeps{
		Checkout:      checkoutUC,
		Orders:        orderUC,
		Coupons:       couponUC,
		Users:         userUC,
		Config:        configUC,
		UserRepo:      userRepo,
		Audit:         auditRepo,
		Documents:     documents,
		Auth:          auth,
		Limiter:       limiter,
		Translator:    translator,
		AdminEmail:    cfg.Auth.AdminEmail,
		AdminPassword: cfg.Auth.AdminPassword,
		Logger:        logger,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	cancel()
}
