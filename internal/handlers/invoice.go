package handlers

import (
	"context"
	"log"
	"strconv"
	"time"

	"distro-go/internal/config"
	"distro-go/internal/database"
	"distro-go/internal/lib/maps"
	"distro-go/internal/lib/qrcode"
	"distro-go/internal/lib/response"
	"distro-go/internal/middleware"
	"distro-go/internal/models"
	"distro-go/internal/workflow"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InvoiceHandler handles invoice routes
type InvoiceHandler struct {
	ledger *workflow.InvoiceLedger
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler() *InvoiceHandler {
	return &InvoiceHandler{ledger: workflow.NewInvoiceLedger()}
}

// Create submits a new invoice for a shop
// @Summary Create invoice
// @Description Submit a new invoice, decrementing stock and crediting the seller's target
// @Tags Invoices
// @Security BearerAuth
// @Param body body CreateRequest true "Invoice details"
// @Success 201 {object} map[string]interface{}
// @Router /invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	type CreateRequest struct {
		ShopName string                 `json:"shop_name"`
		Items    []workflow.LineRequest `json:"items"`
	}

	var req CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.ShopName == "" {
		return response.BadRequest(c, "Shop name is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	invoice, err := h.ledger.CreateInvoice(ctx, middleware.GetSession(c), req.ShopName, req.Items)
	if err != nil {
		return workflowError(c, err)
	}

	return response.Success(c, 201, invoice)
}

// ListUnassigned returns invoices awaiting assignment (admin)
func (h *InvoiceHandler) ListUnassigned(c *fiber.Ctx) error {
	filter := workflow.UnassignedFilter{City: c.Query("city")}

	if from := c.Query("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return response.BadRequest(c, "from must be YYYY-MM-DD")
		}
		filter.DateFrom = t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return response.BadRequest(c, "to must be YYYY-MM-DD")
		}
		filter.DateTo = t.Add(24*time.Hour - time.Nanosecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	invoices, err := workflow.NewAssignmentManager().ListUnassigned(ctx, filter)
	if err != nil {
		return response.Error(c, 500, "Failed to fetch invoices")
	}

	return response.Success(c, 200, invoices)
}

// MyBills returns the authenticated seller's invoices, newest bill first
func (h *InvoiceHandler) MyBills(c *fiber.Ctx) error {
	employeeNo := middleware.GetEmployeeNo(c)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"bill_no": -1})

	// A seller's bills live in both pending and assigned collections.
	var all []models.Invoice
	for _, col := range []string{models.ColInvoices, models.ColAssignedInvoices} {
		cursor, err := database.GetMongoCollection(col).Find(ctx, bson.M{"seller_emp_no": employeeNo}, opts)
		if err != nil {
			return response.Error(c, 500, "Failed to fetch bills")
		}

		var invoices []models.Invoice
		if err := cursor.All(ctx, &invoices); err != nil {
			return response.Error(c, 500, "Failed to decode bills")
		}
		all = append(all, invoices...)
	}

	return response.Success(c, 200, all)
}

// GetBill returns one assigned bill with its shop details
func (h *InvoiceHandler) GetBill(c *fiber.Ctx) error {
	billNo, err := strconv.Atoi(c.Params("billNo"))
	if err != nil {
		return response.BadRequest(c, "Bill number must be numeric")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	assigned := database.GetMongoCollection(models.ColAssignedInvoices)
	var invoice models.AssignedInvoice
	err = assigned.FindOne(ctx, bson.M{"bill_no": billNo}).Decode(&invoice)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return response.NotFound(c, "Bill not found")
		}
		return response.Error(c, 500, "Failed to fetch bill")
	}

	shops := database.GetMongoCollection(models.ColShops)
	var shop models.Shop
	if err := shops.FindOne(ctx, bson.M{"shop_name": invoice.ShopName}).Decode(&shop); err != nil && err != mongo.ErrNoDocuments {
		return response.Error(c, 500, "Failed to fetch shop")
	}

	// Best effort; the app falls back to the address text when the
	// geocoder cannot resolve it.
	coords, err := maps.Geocode(ctx, shop.Address)
	if err != nil {
		log.Printf("[Invoice] geocode failed for bill %d: %v", billNo, err)
	}

	return response.Success(c, 200, fiber.Map{
		"invoice":        invoice,
		"shop":           shop,
		"coordinates":    coords,
		"directions_url": maps.DirectionsURL(shop.Address),
	})
}

// QRCode returns a PNG QR code for the printed delivery sheet
func (h *InvoiceHandler) QRCode(c *fiber.Ctx) error {
	billNo, err := strconv.Atoi(c.Params("billNo"))
	if err != nil {
		return response.BadRequest(c, "Bill number must be numeric")
	}

	png, err := qrcode.BillQRCode(config.Cfg.Client.URL, billNo)
	if err != nil {
		return response.Error(c, 500, "Failed to generate QR code")
	}

	c.Set("Content-Type", "image/png")
	return c.Send(png)
}
