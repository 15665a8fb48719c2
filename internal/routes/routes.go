package routes

import (
	"time"

	"procurehub-be/internal/handlers"
	"procurehub-be/internal/metrics"
	"procurehub-be/internal/middleware"
	"procurehub-be/internal/order"
	"procurehub-be/internal/pricing"
	"procurehub-be/internal/product"
	"procurehub-be/internal/report"

	"github.com/gofiber/fiber/v2"
)

type Services struct {
	Orders   order.Service
	Products product.Service
	Pricing  pricing.Service
	Reports  report.Service
	Stats    *metrics.Registry

	// StoreTimeout bounds the store calls of each request.
	StoreTimeout time.Duration
}

// Register wires up all HTTP routes.
func Register(app *fiber.App, svcs Services) {
	orderHandler := handlers.NewOrderHandler(svcs.Orders)
	productHandler := handlers.NewProductHandler(svcs.Products)
	pricingHandler := handlers.NewPricingHandler(svcs.Pricing)
	reportHandler := handlers.NewReportHandler(svcs.Reports)

	storeTimeout := svcs.StoreTimeout
	if storeTimeout <= 0 {
		storeTimeout = 5 * time.Second
	}

	api := app.Group("/api",
		middleware.RequestLogger(),
		middleware.Auth(),
		middleware.RateLimit(),
		middleware.StoreTimeout(storeTimeout),
	)

	orders := api.Group("/orders")
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.Get)
	orders.Post("/:id/dept-approval", orderHandler.ApproveDept)
	orders.Post("/:id/hr-approval", orderHandler.ApproveHR)
	orders.Post("/:id/pack", orderHandler.MarkPacked)
	orders.Post("/:id/dispatch-approval", orderHandler.ApproveDispatch)
	orders.Post("/:id/dispatch", orderHandler.Dispatch)

	products := api.Group("/products")
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/:id", productHandler.Get)
	products.Put("/:id", productHandler.Update)

	customers := api.Group("/customers/:customerID")
	customers.Get("/overrides", pricingHandler.ListOverrides)
	customers.Get("/prices/:productID", pricingHandler.Resolve)
	customers.Put("/overrides/:productID", pricingHandler.SetOverride)
	customers.Delete("/overrides/:productID", pricingHandler.RemoveOverride)
	customers.Get("/pricing-report", reportHandler.CustomerReport)

	api.Get("/products/:productID/discount-ranking", reportHandler.ProductRanking)

	app.Get("/debug/metrics", func(c *fiber.Ctx) error {
		return c.JSON(svcs.Stats.Snapshot())
	})
}
