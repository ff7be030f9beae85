package main // Entry point package

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"    // loads .env files in development
	"github.com/labstack/echo/v4" // Echo web framework
	"github.com/rs/zerolog"

	"github.com/dineinbox/shop-ordering/internal/availability"
	"github.com/dineinbox/shop-ordering/internal/config"
	"github.com/dineinbox/shop-ordering/internal/database"
	"github.com/dineinbox/shop-ordering/internal/handler"
	"github.com/dineinbox/shop-ordering/internal/middleware"
	"github.com/dineinbox/shop-ordering/internal/queue"
	"github.com/dineinbox/shop-ordering/internal/repository"
	"github.com/dineinbox/shop-ordering/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).With().Timestamp().Logger()
	cfg := config.Load()
	if cfg.Env == "dev" {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer func() { _ = db.Close() }()
	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}

	// Redis is optional: with no client the cache and rate limiter
	// middlewares pass requests straight through.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn().Msg("redis unavailable, response cache and rate limiting disabled")
	}

	// repositories
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	shops := repository.NewShopRepo(db)
	menu := repository.NewMenuRepo(db)
	offers := repository.NewOfferRepo(db)
	orders := repository.NewOrderRepo(db)
	delivery := repository.NewDeliveryRepo(db)
	avail := repository.NewAvailabilityRepo(db)
	analytics := repository.NewAnalyticsRepo(db)

	resolver := availability.NewResolver(avail, availability.Defaults{
		Opening:  cfg.DefaultOpening,
		Closing:  cfg.DefaultClosing,
		Timezone: cfg.DefaultTimezone,
	})

	// handlers
	authH := handler.NewAuthHandler(cfg, users, tokens)
	publicH := handler.NewPublicHandler(shops, menu, offers, resolver)
	orderH := handler.NewOrderHandler(shops, menu, delivery, orders, resolver, log)
	adminMenuH := handler.NewAdminMenuHandler(menu)
	adminOrderH := handler.NewAdminOrderHandler(orders)
	adminSettingsH := handler.NewAdminSettingsHandler(shops, delivery, avail, resolver)
	superH := handler.NewSuperAdminHandler(cfg, shops, users, offers, avail, analytics, log)

	e := echo.New()
	e.HideBanner = true

	browse := []echo.MiddlewareFunc{
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH, orderH, browse...)
	router.RegisterAdmin(e, adminMenuH, adminOrderH, adminSettingsH, cfg.JWTSecret)
	router.RegisterSuperAdmin(e, superH, cfg.JWTSecret)

	// consume order.placed events in the background; the consumer
	// reconnects on its own when the broker drops.
	go func() {
		if err := queue.StartOrderConsumer(log); err != nil {
			log.Error().Err(err).Msg("order consumer stopped")
		}
	}()

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
