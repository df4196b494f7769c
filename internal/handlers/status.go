package handlers

import (
	"context"
	"log"
	"strconv"
	"time"

	"distro-go/internal/database"
	"distro-go/internal/lib/notification"
	"distro-go/internal/lib/response"
	"distro-go/internal/middleware"
	"distro-go/internal/models"
	"distro-go/internal/workflow"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
)

// StatusHandler handles delivery status routes
type StatusHandler struct {
	tracker    *workflow.StatusTracker
	reconciler *workflow.Reconciler
}

// NewStatusHandler creates a new status handler
func NewStatusHandler() *StatusHandler {
	return &StatusHandler{
		tracker:    workflow.NewStatusTracker(),
		reconciler: workflow.NewReconciler(),
	}
}

// SetStatus records a delivery outcome for a bill (deliverer)
// @Summary Set delivery status
// @Description Mark a bill Completed or Rejected; rejections need a reason
// @Tags Delivery
// @Security BearerAuth
// @Param body body SetStatusRequest true "Bill, status, and optional reason"
// @Success 200 {object} map[string]interface{}
// @Router /delivery/status [post]
func (h *StatusHandler) SetStatus(c *fiber.Ctx) error {
	type SetStatusRequest struct {
		BillNo int    `json:"bill_no"`
		Status string `json:"status"`
		Reason string `json:"reason"`
	}

	var req SetStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	status, err := models.ParseDeliveryStatus(req.Status)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := h.tracker.SetStatus(ctx, middleware.GetSession(c), req.BillNo, status, req.Reason); err != nil {
		return workflowError(c, err)
	}

	// Rejections need settling, so the distributor gets a notice. Best
	// effort; a failed notice never fails the status update.
	if status == models.StatusRejected {
		h.notifyRejection(ctx, req.BillNo, req.Reason)
	}

	return response.Success(c, 200, fiber.Map{"message": "Delivery status updated"})
}

// notifyRejection messages the first active distributor about a rejected
// bill awaiting settlement.
func (h *StatusHandler) notifyRejection(ctx context.Context, billNo int, reason string) {
	assigned := database.GetMongoCollection(models.ColAssignedInvoices)
	var invoice models.AssignedInvoice
	if err := assigned.FindOne(ctx, bson.M{"bill_no": billNo}).Decode(&invoice); err != nil {
		log.Printf("[Status] Failed to load bill %d for rejection notice: %v", billNo, err)
		return
	}

	users := database.GetMongoCollection(models.ColUsers)
	var distributor models.User
	err := users.FindOne(ctx, bson.M{"job_type": models.JobDistributor, "is_active": true}).Decode(&distributor)
	if err != nil {
		log.Printf("[Status] No distributor to notify for bill %d: %v", billNo, err)
		return
	}

	if _, err := notification.SendRejectionNotification(distributor.ContactNo, billNo, invoice.ShopName, reason); err != nil {
		log.Printf("[Status] Failed to send rejection notice for bill %d: %v", billNo, err)
	}
}

// List returns delivery status records with deliverer and rejection
// context (admin)
func (h *StatusHandler) List(c *fiber.Ctx) error {
	filter := workflow.StatusFilter{}

	if s := c.Query("status"); s != "" {
		status, err := models.ParseDeliveryStatus(s)
		if err != nil {
			return response.BadRequest(c, err.Error())
		}
		filter.Status = status
	}
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

	entries, err := h.tracker.ListStatuses(ctx, filter)
	if err != nil {
		return response.Error(c, 500, "Failed to fetch delivery statuses")
	}

	return response.Success(c, 200, entries)
}

// Reassign re-queues a rejected bill to its deliverer (admin)
func (h *StatusHandler) Reassign(c *fiber.Ctx) error {
	billNo, err := strconv.Atoi(c.Params("billNo"))
	if err != nil {
		return response.BadRequest(c, "Bill number must be numeric")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := h.reconciler.Reassign(ctx, billNo); err != nil {
		return workflowError(c, err)
	}

	return response.Success(c, 200, fiber.Map{"message": "Bill reassigned"})
}

// AddToStock restocks a rejected bill's items and archives it (admin)
func (h *StatusHandler) AddToStock(c *fiber.Ctx) error {
	billNo, err := strconv.Atoi(c.Params("billNo"))
	if err != nil {
		return response.BadRequest(c, "Bill number must be numeric")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := h.reconciler.AddToStock(ctx, billNo); err != nil {
		return workflowError(c, err)
	}

	return response.Success(c, 200, fiber.Map{"message": "Bill restocked"})
}
