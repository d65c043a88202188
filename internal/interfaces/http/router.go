package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pharmstock/pharmstock-api/internal/application/billing"
	"github.com/pharmstock/pharmstock-api/internal/application/catalog"
	"github.com/pharmstock/pharmstock-api/internal/application/inventory"
	"github.com/pharmstock/pharmstock-api/internal/application/ordering"
	"github.com/pharmstock/pharmstock-api/internal/application/purchasing"
	"github.com/pharmstock/pharmstock-api/internal/domain/repository"
)

// RouterDeps are the router dependencies.
type RouterDeps struct {
	OrderUC       *ordering.UseCase
	InvoiceUC     *billing.UseCase
	CatalogUC     *catalog.UseCase
	LowStockUC    *inventory.UseCase
	PurchasingUC  *purchasing.UseCase
	Notifications repository.NotificationRepository
	JWTSecret     string
}

// Router registers the API routes. Every route runs behind the actor
// middleware so operations are always attributed.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", ActorMiddleware(deps.JWTSecret))

	orders := api.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Put("/:id", orderHandler.Update)
	orders.Delete("/:id", orderHandler.Delete)
	api.Get("/customers/:id/orders", orderHandler.ListByCustomer)

	invoices := api.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Patch("/:id/status", invoiceHandler.UpdateStatus)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)
	invoices.Post("/:id/send", invoiceHandler.Send)

	products := api.Group("/products")
	productHandler := NewProductHandler(deps.CatalogUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	products.Post("/:id/price", productHandler.SetPrice)

	lowStock := api.Group("/low-stock")
	lowStockHandler := NewLowStockHandler(deps.LowStockUC)
	lowStock.Post("/generate", lowStockHandler.Generate)
	lowStock.Post("/send", lowStockHandler.Send)
	lowStock.Post("/", lowStockHandler.Create)
	lowStock.Get("/", lowStockHandler.List)

	purchaseHandler := NewPurchaseHandler(deps.PurchasingUC)
	api.Post("/purchases", purchaseHandler.RecordPurchase)
	purchaseOrders := api.Group("/purchase-orders")
	purchaseOrders.Get("/", purchaseHandler.ListPurchaseOrders)
	purchaseOrders.Get("/:id", purchaseHandler.GetPurchaseOrder)
	purchaseOrders.Delete("/:id", purchaseHandler.DeletePurchaseOrder)

	notifications := api.Group("/notifications")
	notificationHandler := NewNotificationHandler(deps.Notifications)
	notifications.Get("/", notificationHandler.List)
	notifications.Patch("/:id/read", notificationHandler.MarkRead)
}
