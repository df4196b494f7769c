package handlers

import (
	"context"
	"strconv"
	"time"

	"distro-go/internal/lib/response"
	"distro-go/internal/middleware"
	"distro-go/internal/workflow"

	"github.com/gofiber/fiber/v2"
)

// HistoryHandler handles delivery history routes
type HistoryHandler struct {
	ledger *workflow.HistoryLedger
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler() *HistoryHandler {
	return &HistoryHandler{ledger: workflow.NewHistoryLedger()}
}

// List returns the deliverer's completed and rejected bills, newest first,
// each flagged with whether undo is still open
func (h *HistoryHandler) List(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	entries, err := h.ledger.ListHistory(ctx, middleware.GetEmployeeNo(c))
	if err != nil {
		return response.Error(c, 500, "Failed to fetch history")
	}

	return response.Success(c, 200, entries)
}

// Undo reverses a terminal outcome within the undo window
func (h *HistoryHandler) Undo(c *fiber.Ctx) error {
	billNo, err := strconv.Atoi(c.Params("billNo"))
	if err != nil {
		return response.BadRequest(c, "Bill number must be numeric")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := h.ledger.Undo(ctx, middleware.GetSession(c), billNo); err != nil {
		return workflowError(c, err)
	}

	return response.Success(c, 200, fiber.Map{"message": "Delivery returned to your pending list"})
}
