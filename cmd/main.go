package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"bookwell/internal/caching"
	"bookwell/internal/handlers"
	"bookwell/internal/jobs"
	"bookwell/internal/middleware"
	"bookwell/internal/repositories"
	"bookwell/internal/services"
	"bookwell/pkg/database"
)

func main() {
	_ = godotenv.Load()
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal().Msg("DATABASE_URL environment variable is required")
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal().Msg("JWT_SECRET environment variable is required")
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			redisDB = db
		}
	}

	pool, err := database.NewPool(context.Background(), databaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	redisClient := caching.NewRedisClient(redisAddr, redisPassword, redisDB)
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Warn().Err(err).Msg("closing redis client")
		}
	}()

	// Repositories; tenant and catalog lookups go through the redis
	// directory cache.
	tenantRepo := caching.NewCachedTenantRepo(repositories.NewTenantRepo(pool), redisClient)
	catalogRepo := caching.NewCachedCatalogRepo(repositories.NewCatalogRepo(pool), redisClient)
	customerRepo := repositories.NewCustomerRepo(pool)
	bookingRepo := repositories.NewBookingRepo(pool)
	blackoutRepo := repositories.NewBlackoutRepo(pool)
	membershipRepo := repositories.NewMembershipRepo(pool)
	ledgerRepo := repositories.NewLedgerRepo(pool)
	rateRuleRepo := repositories.NewRateRuleRepo(pool)
	txManager := repositories.NewTxManager(pool)

	// Change signals
	signals := caching.NewRedisSignalPublisher(redisClient)

	// Services
	slotSvc := services.NewSlotService(tenantRepo, catalogRepo, bookingRepo)
	conflictDetector := services.NewConflictDetector(bookingRepo, blackoutRepo)
	rateResolver := services.NewRateResolver(rateRuleRepo)
	ledgerEngine := services.NewLedgerEngine(ledgerRepo, membershipRepo)
	bookingSvc := services.NewBookingService(txManager, tenantRepo, catalogRepo, customerRepo,
		bookingRepo, membershipRepo, conflictDetector, rateResolver, ledgerEngine, signals)
	membershipSvc := services.NewMembershipService(txManager, membershipRepo, ledgerRepo, ledgerEngine, signals)

	// Handlers
	slotHandlers := handlers.NewSlotHandlers(slotSvc)
	bookingHandlers := handlers.NewBookingHandlers(bookingSvc)
	rateHandlers := handlers.NewRateHandlers(tenantRepo, catalogRepo, rateResolver)
	membershipHandlers := handlers.NewMembershipHandlers(membershipSvc)

	// Background sweep for elapsed memberships
	sweeper, err := jobs.NewExpirySweeper(membershipRepo, time.Hour)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create expiry sweeper")
	}
	sweeper.Start()
	defer func() {
		if err := sweeper.Stop(); err != nil {
			log.Warn().Err(err).Msg("stopping expiry sweeper")
		}
	}()

	e := echo.New()
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	e.GET("/health", handlers.HealthCheck)
	e.GET("/health/ready", func(c echo.Context) error {
		return handlers.ReadinessCheck(c, pool)
	})

	v1 := e.Group("/v1")

	// Read path: anyone with the tenant id can browse slots and rates.
	v1.GET("/slots", slotHandlers.ComputeSlots)
	v1.POST("/rates/preview", rateHandlers.PreviewRate)

	// Booking and membership operations need a verified customer.
	protected := v1.Group("")
	protected.Use(middleware.Identity(jwtSecret))
	protected.POST("/bookings", bookingHandlers.CreateBooking)
	protected.GET("/bookings", bookingHandlers.ListBookings)
	protected.GET("/bookings/:id", bookingHandlers.GetBooking)
	protected.PUT("/bookings/:id/status", bookingHandlers.ChangeStatus)
	protected.POST("/memberships/:id/topup", membershipHandlers.TopUp)
	protected.GET("/memberships/:id", membershipHandlers.GetMembership)
	protected.GET("/memberships/:id/ledger", membershipHandlers.LedgerStatement)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Info().Str("port", port).Msg("bookwell server starting")
	if err := e.Start(fmt.Sprintf(":%s", port)); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
