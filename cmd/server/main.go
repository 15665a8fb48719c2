package main

import (
	"procurehub-be/internal/config"
	"procurehub-be/internal/db"
	"procurehub-be/internal/logger"
	"procurehub-be/internal/metrics"
	"procurehub-be/internal/notify"
	"procurehub-be/internal/order"
	"procurehub-be/internal/pricing"
	"procurehub-be/internal/product"
	"procurehub-be/internal/report"
	"procurehub-be/internal/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	stats := metrics.NewRegistry()
	notifier := notify.NewDispatcher(notify.LogNotifier{})

	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo)

	pricingRepo := pricing.NewRepository(database)
	pricingSvc := pricing.NewService(pricingRepo, productRepo)

	orderRepo := order.NewRepository(database, productRepo)
	orderSvc := order.NewService(orderRepo, productRepo, pricingSvc, notifier, stats)

	reportSvc := report.NewService(pricingRepo, productRepo, orderRepo)

	app := fiber.New(fiber.Config{
		AppName: "ProcureHub Backend",
	})

	app.Use(recover.New())

	routes.Register(app, routes.Services{
		Orders:       orderSvc,
		Products:     productSvc,
		Pricing:      pricingSvc,
		Reports:      reportSvc,
		Stats:        stats,
		StoreTimeout: cfg.DBTimeout,
	})

	logger.L().Info("server starting", zap.String("port", cfg.AppPort))
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		logger.L().Fatal("fiber listen error", zap.Error(err))
	}
}
