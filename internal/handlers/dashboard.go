package handlers

import (
	"context"
	"time"

	"distro-go/internal/database"
	"distro-go/internal/lib/response"
	"distro-go/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
)

// DashboardHandler handles dashboard routes
type DashboardHandler struct{}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

// GetStats returns admin dashboard statistics
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	invoices := database.GetMongoCollection(models.ColInvoices)
	assigned := database.GetMongoCollection(models.ColAssignedInvoices)
	statuses := database.GetMongoCollection(models.ColDeliveryStatus)
	users := database.GetMongoCollection(models.ColUsers)
	rejected := database.GetMongoCollection(models.ColRejectedBills)

	unassignedCount, _ := invoices.CountDocuments(ctx, bson.M{})
	assignedCount, _ := assigned.CountDocuments(ctx, bson.M{})

	completedCount, _ := statuses.CountDocuments(ctx, bson.M{"delivery_status": models.StatusCompleted})
	rejectedCount, _ := statuses.CountDocuments(ctx, bson.M{"delivery_status": models.StatusRejected})
	restockedCount, _ := rejected.CountDocuments(ctx, bson.M{})

	// Today's invoices, across pending and assigned
	today := time.Now().Format("2006-01-02")
	todayStart, _ := time.Parse("2006-01-02", today)
	todayEnd := todayStart.Add(24 * time.Hour)
	todayFilter := bson.M{"created_at": bson.M{"$gte": todayStart, "$lt": todayEnd}}

	todayPending, _ := invoices.CountDocuments(ctx, todayFilter)
	todayAssigned, _ := assigned.CountDocuments(ctx, todayFilter)

	// Revenue from every live invoice
	revenuePipeline := []bson.M{
		{"$group": bson.M{"_id": nil, "total": bson.M{"$sum": "$total_amount"}}},
	}
	var revenue float64
	for _, col := range []string{models.ColInvoices, models.ColAssignedInvoices} {
		cursor, err := database.GetMongoCollection(col).Aggregate(ctx, revenuePipeline)
		if err != nil {
			continue
		}
		var result []struct {
			Total float64 `bson:"total"`
		}
		if err := cursor.All(ctx, &result); err == nil && len(result) > 0 {
			revenue += result[0].Total
		}
	}

	sellerCount, _ := users.CountDocuments(ctx, bson.M{"job_type": models.JobSeller, "is_active": true})
	delivererCount, _ := users.CountDocuments(ctx, bson.M{"job_type": models.JobDeliverer, "is_active": true})

	return response.Success(c, 200, fiber.Map{
		"invoices": fiber.Map{
			"unassigned":     unassignedCount,
			"assigned":       assignedCount,
			"today_pending":  todayPending,
			"today_assigned": todayAssigned,
		},
		"deliveries": fiber.Map{
			"completed": completedCount,
			"rejected":  rejectedCount,
			"restocked": restockedCount,
		},
		"revenue": revenue,
		"staff": fiber.Map{
			"sellers":    sellerCount,
			"deliverers": delivererCount,
		},
	})
}
