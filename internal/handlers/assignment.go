package handlers

import (
	"context"
	"log"
	"time"

	"distro-go/internal/database"
	"distro-go/internal/lib/maps"
	"distro-go/internal/lib/notification"
	"distro-go/internal/lib/response"
	"distro-go/internal/middleware"
	"distro-go/internal/models"
	"distro-go/internal/workflow"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// AssignmentHandler handles delivery assignment routes
type AssignmentHandler struct {
	manager *workflow.AssignmentManager
}

// NewAssignmentHandler creates a new assignment handler
func NewAssignmentHandler() *AssignmentHandler {
	return &AssignmentHandler{manager: workflow.NewAssignmentManager()}
}

// Assign hands a batch of bills to a deliverer (admin)
// @Summary Assign bills
// @Description Move a batch of invoices into a deliverer's queue
// @Tags Assignments
// @Security BearerAuth
// @Param body body AssignRequest true "Deliverer and bill numbers"
// @Success 200 {object} map[string]interface{}
// @Router /assignments [post]
func (h *AssignmentHandler) Assign(c *fiber.Ctx) error {
	type AssignRequest struct {
		DeliverEmpNo string `json:"deliver_emp_no"`
		BillNos      []int  `json:"bill_nos"`
	}

	var req AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := h.manager.Assign(ctx, req.DeliverEmpNo, req.BillNos); err != nil {
		return workflowError(c, err)
	}

	// Tell the deliverer, best effort. A failed notice never fails the
	// assignment.
	waLink := ""
	users := database.GetMongoCollection(models.ColUsers)
	var deliverer models.User
	if err := users.FindOne(ctx, bson.M{"employee_no": req.DeliverEmpNo}).Decode(&deliverer); err == nil {
		link, err := notification.SendAssignmentNotification(deliverer.ContactNo, deliverer.Name, req.BillNos)
		if err != nil {
			log.Printf("[Assignment] Failed to notify %s: %v", req.DeliverEmpNo, err)
		} else {
			waLink = link
		}
	}

	return response.Success(c, 200, fiber.Map{
		"message":       "Bills assigned successfully",
		"whatsapp_link": waLink,
	})
}

// PendingBills returns the authenticated deliverer's queued bill numbers
func (h *AssignmentHandler) PendingBills(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	billNos, err := h.manager.PendingBillNos(ctx, middleware.GetEmployeeNo(c))
	if err != nil {
		return response.Error(c, 500, "Failed to fetch assigned bills")
	}

	return response.Success(c, 200, fiber.Map{"bill_nos": billNos})
}

// Badge returns the deliverer's pending bill count
func (h *AssignmentHandler) Badge(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := h.manager.PendingCount(ctx, middleware.GetEmployeeNo(c))
	if err != nil {
		return response.Error(c, 500, "Failed to fetch delivery count")
	}

	return response.Success(c, 200, fiber.Map{"count": count})
}

// MyDeliveries returns the deliverer's queued bills joined with shop
// details and a directions link per stop.
func (h *AssignmentHandler) MyDeliveries(c *fiber.Ctx) error {
	employeeNo := middleware.GetEmployeeNo(c)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	billNos, err := h.manager.PendingBillNos(ctx, employeeNo)
	if err != nil {
		return response.Error(c, 500, "Failed to fetch assigned bills")
	}

	assigned := database.GetMongoCollection(models.ColAssignedInvoices)
	shops := database.GetMongoCollection(models.ColShops)

	type delivery struct {
		Invoice       models.AssignedInvoice `json:"invoice"`
		Shop          models.Shop            `json:"shop"`
		DirectionsURL string                 `json:"directions_url"`
	}

	deliveries := make([]delivery, 0, len(billNos))
	for _, billNo := range billNos {
		var invoice models.AssignedInvoice
		err := assigned.FindOne(ctx, bson.M{"bill_no": billNo}).Decode(&invoice)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				continue
			}
			return response.Error(c, 500, "Failed to fetch bills")
		}

		var shop models.Shop
		if err := shops.FindOne(ctx, bson.M{"shop_name": invoice.ShopName}).Decode(&shop); err != nil && err != mongo.ErrNoDocuments {
			return response.Error(c, 500, "Failed to fetch shops")
		}

		deliveries = append(deliveries, delivery{
			Invoice:       invoice,
			Shop:          shop,
			DirectionsURL: maps.DirectionsURL(shop.Address),
		})
	}

	return response.Success(c, 200, deliveries)
}

// Deliverers lists active deliverers for the assignment screen (admin)
func (h *AssignmentHandler) Deliverers(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users := database.GetMongoCollection(models.ColUsers)
	cursor, err := users.Find(ctx, bson.M{"job_type": models.JobDeliverer, "is_active": true})
	if err != nil {
		return response.Error(c, 500, "Failed to fetch deliverers")
	}
	defer cursor.Close(ctx)

	var deliverers []models.User
	cursor.All(ctx, &deliverers)

	return response.Success(c, 200, deliverers)
}
