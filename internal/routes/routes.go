package routes

import (
	"distro-go/internal/handlers"
	"distro-go/internal/middleware"
	"distro-go/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes sets up all routes
func SetupRoutes(app *fiber.App) {
	authHandler := handlers.NewAuthHandler()

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "Server is running",
		})
	})

	// API v1 routes
	v1 := app.Group("/api/v1")

	adminOnly := middleware.JobGuard(models.JobAdmin, models.JobDistributor)

	// ============================================
	// Auth Routes
	// ============================================
	auth := v1.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/verify", authHandler.Verify)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Post("/forgot-password", authHandler.ForgotPassword)
	auth.Post("/reset-password", authHandler.ResetPassword)

	authProtected := auth.Group("/", middleware.AuthGuard())
	authProtected.Get("/me", authHandler.Me)
	authProtected.Post("/profile-image", authHandler.UploadProfileImage)
	authProtected.Get("/users", adminOnly, authHandler.ListUsers)
	authProtected.Put("/users/:id", adminOnly, authHandler.UpdateUser)
	authProtected.Delete("/users/:id", adminOnly, authHandler.DeleteUser)

	// ============================================
	// OTP side channel
	// ============================================
	otpHandler := handlers.NewOTPHandler()
	v1.Post("/otp/send", otpHandler.Send)

	// ============================================
	// Shop Routes (Protected)
	// ============================================
	shopHandler := handlers.NewShopHandler()
	shops := v1.Group("/shops", middleware.AuthGuard())
	shops.Get("/", shopHandler.List)
	shops.Get("/:name", shopHandler.Get)
	shops.Post("/", shopHandler.Create)
	shops.Put("/:name", shopHandler.Update)
	shops.Delete("/:name", adminOnly, shopHandler.Delete)
	shops.Post("/:name/image", shopHandler.UploadImage)

	// ============================================
	// Inventory Routes (Protected)
	// ============================================
	inventoryHandler := handlers.NewInventoryHandler()
	inventory := v1.Group("/inventory", middleware.AuthGuard())
	inventory.Get("/", inventoryHandler.List)
	inventory.Get("/:itemNo", inventoryHandler.Get)
	inventory.Post("/", adminOnly, inventoryHandler.Create)
	inventory.Put("/:itemNo", adminOnly, inventoryHandler.Update)
	inventory.Delete("/:itemNo", adminOnly, inventoryHandler.Delete)

	// ============================================
	// Invoice Routes (Protected)
	// ============================================
	invoiceHandler := handlers.NewInvoiceHandler()
	invoices := v1.Group("/invoices", middleware.AuthGuard())
	invoices.Post("/", middleware.JobGuard(models.JobSeller), invoiceHandler.Create)
	invoices.Get("/unassigned", adminOnly, invoiceHandler.ListUnassigned)
	invoices.Get("/mine", invoiceHandler.MyBills)
	invoices.Get("/bill/:billNo", invoiceHandler.GetBill)
	invoices.Get("/bill/:billNo/qr", invoiceHandler.QRCode)

	// ============================================
	// Assignment Routes (Protected)
	// ============================================
	assignmentHandler := handlers.NewAssignmentHandler()
	assignments := v1.Group("/assignments", middleware.AuthGuard())
	assignments.Post("/", adminOnly, assignmentHandler.Assign)
	assignments.Get("/deliverers", adminOnly, assignmentHandler.Deliverers)
	assignments.Get("/mine", assignmentHandler.PendingBills)
	assignments.Get("/mine/deliveries", assignmentHandler.MyDeliveries)
	assignments.Get("/mine/badge", assignmentHandler.Badge)

	// ============================================
	// Delivery Status Routes (Protected)
	// ============================================
	statusHandler := handlers.NewStatusHandler()
	delivery := v1.Group("/delivery", middleware.AuthGuard())
	delivery.Post("/status", middleware.JobGuard(models.JobDeliverer), statusHandler.SetStatus)
	delivery.Get("/status", adminOnly, statusHandler.List)
	delivery.Post("/status/:billNo/reassign", adminOnly, statusHandler.Reassign)
	delivery.Post("/status/:billNo/restock", adminOnly, statusHandler.AddToStock)

	// ============================================
	// History Routes (Protected)
	// ============================================
	historyHandler := handlers.NewHistoryHandler()
	history := v1.Group("/history", middleware.AuthGuard())
	history.Get("/", historyHandler.List)
	history.Post("/:billNo/undo", middleware.JobGuard(models.JobDeliverer), historyHandler.Undo)

	// ============================================
	// Target Routes (Protected)
	// ============================================
	targetHandler := handlers.NewTargetHandler()
	targets := v1.Group("/targets", middleware.AuthGuard())
	targets.Get("/", adminOnly, targetHandler.List)
	targets.Get("/mine", targetHandler.My)
	targets.Post("/", adminOnly, targetHandler.Set)
	targets.Post("/all", adminOnly, targetHandler.SetAll)
	targets.Delete("/all", adminOnly, targetHandler.DeleteAll)
	targets.Delete("/:employeeNo", adminOnly, targetHandler.Delete)

	// ============================================
	// Report Routes (Admin)
	// ============================================
	reportHandler := handlers.NewReportHandler()
	reports := v1.Group("/reports", middleware.AuthGuard(), adminOnly)
	reports.Get("/invoices", reportHandler.AssignedInvoices)
	reports.Get("/sellers", reportHandler.SellerPerformance)
	reports.Get("/deliveries", reportHandler.DeliveryOutcomes)

	// ============================================
	// Dashboard Routes (Admin)
	// ============================================
	dashboardHandler := handlers.NewDashboardHandler()
	dashboard := v1.Group("/dashboard", middleware.AuthGuard(), adminOnly)
	dashboard.Get("/stats", dashboardHandler.GetStats)

	// ============================================
	// Notification Routes (Admin)
	// ============================================
	notificationHandler := handlers.NewNotificationHandler()
	notifications := v1.Group("/notifications", middleware.AuthGuard(), adminOnly)
	notifications.Get("/", notificationHandler.List)
	notifications.Get("/stats", notificationHandler.GetStats)

	// ============================================
	// WhatsApp Routes (Admin)
	// ============================================
	whatsappHandler := handlers.NewWhatsAppHandler()
	whatsapp := v1.Group("/whatsapp", middleware.AuthGuard(), adminOnly)
	whatsapp.Get("/status", whatsappHandler.GetStatus)
	whatsapp.Post("/connect", whatsappHandler.Connect)
	whatsapp.Post("/disconnect", whatsappHandler.Disconnect)
	whatsapp.Post("/logout", whatsappHandler.Logout)
	whatsapp.Post("/restart", whatsappHandler.Restart)
	whatsapp.Post("/send", whatsappHandler.SendMessage)
}
