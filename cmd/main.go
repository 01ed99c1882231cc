package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/SergeyBogomolovv/shop-service/internal/app"
	"github.com/SergeyBogomolovv/shop-service/internal/config"
	"github.com/SergeyBogomolovv/shop-service/internal/events"
	"github.com/SergeyBogomolovv/shop-service/internal/handler"
	"github.com/SergeyBogomolovv/shop-service/internal/postgres"
	"github.com/SergeyBogomolovv/shop-service/internal/repo"
	"github.com/SergeyBogomolovv/shop-service/internal/service"
	"github.com/SergeyBogomolovv/shop-service/pkg/cache"
	"github.com/SergeyBogomolovv/shop-service/pkg/trm"

	"github.com/joho/godotenv"
)

// @title           Shop Service API
// @version         1.0
// @description     Корзина и оформление заказов
func main() {
	conf := config.New()
	logger := newLogger(conf.Env)
	panicIfErr("invalid config", conf.Validate())

	db, err := postgres.New(conf.Postgres)
	panicIfErr("failed to connect to db", err)
	defer db.Close()
	logger.Info("postgres connected")

	panicIfErr("failed to run migrations", postgres.Migrate(db, conf.Postgres))

	cartRepo := repo.NewCartRepo(db)
	orderRepo := repo.NewOrderRepo(db)
	catalogRepo := repo.NewCatalogRepo(db)
	txManager := trm.NewManager(db)
	orderCache := cache.NewLRUCache(conf.Cache.Capacity, conf.Cache.TTL)
	publisher := events.NewKafkaPublisher(logger, conf.Kafka)

	cartService := service.NewCartService(logger, cartRepo, catalogRepo)
	orderService := service.NewOrderService(logger, txManager, orderRepo, cartRepo, orderCache, publisher)

	cartHandler := handler.NewCartHandler(logger, cartService)
	orderHandler := handler.NewOrderHandler(logger, orderService)
	healthHandler := handler.NewHealthHandler(db)

	app := app.New(logger, conf)

	app.SetHTTPHandlers(cartHandler, orderHandler, healthHandler)
	app.SetStarters(orderCache)
	app.SetClosers(publisher)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	panicIfErr("failed to start app", app.Start(ctx))
	<-ctx.Done()
	panicIfErr("failed to stop app", app.Stop())
}

func init() {
	godotenv.Load()
}

func newLogger(env string) *slog.Logger {
	switch env {
	case "production":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

func panicIfErr(prefix string, err error) {
	if err != nil {
		panic(prefix + ": " + err.Error())
	}
}
