package handlers

import (
	"context"
	"time"

	"distro-go/internal/database"
	"distro-go/internal/lib/response"
	"distro-go/internal/middleware"
	"distro-go/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TargetHandler handles monthly sales target routes
type TargetHandler struct{}

// NewTargetHandler creates a new target handler
func NewTargetHandler() *TargetHandler {
	return &TargetHandler{}
}

// currentMonth is the long month name used as the period key.
func currentMonth() string {
	return time.Now().Format("January")
}

// Set creates or updates one seller's target for the current month. The
// achievement is preserved across target changes.
func (h *TargetHandler) Set(c *fiber.Ctx) error {
	type SetRequest struct {
		EmployeeNo string  `json:"employee_no"`
		Target     float64 `json:"target"`
	}

	var req SetRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.EmployeeNo == "" {
		return response.BadRequest(c, "Employee number is required")
	}
	if req.Target <= 0 {
		return response.BadRequest(c, "Target must be a positive number")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	users := database.GetMongoCollection(models.ColUsers)
	count, _ := users.CountDocuments(ctx, bson.M{"employee_no": req.EmployeeNo, "job_type": models.JobSeller})
	if count == 0 {
		return response.NotFound(c, "Seller not found")
	}

	targets := database.GetMongoCollection(models.ColEmployeeTargets)
	_, err := targets.UpdateOne(ctx,
		bson.M{"employee_no": req.EmployeeNo, "month": currentMonth()},
		bson.M{
			"$set": bson.M{"target": req.Target},
			"$setOnInsert": bson.M{
				"achievement": 0.0,
				"system_date": time.Now().Format("2006-01-02"),
			},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return response.Error(c, 500, "Failed to set target")
	}

	return response.Success(c, 200, fiber.Map{"message": "Target set successfully"})
}

// SetAll applies one target to every seller for the current month
func (h *TargetHandler) SetAll(c *fiber.Ctx) error {
	type SetAllRequest struct {
		Target float64 `json:"target"`
	}

	var req SetAllRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Target <= 0 {
		return response.BadRequest(c, "Target must be a positive number")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	users := database.GetMongoCollection(models.ColUsers)
	cursor, err := users.Find(ctx, bson.M{"job_type": models.JobSeller})
	if err != nil {
		return response.Error(c, 500, "Failed to fetch sellers")
	}
	defer cursor.Close(ctx)

	var sellers []models.User
	if err := cursor.All(ctx, &sellers); err != nil {
		return response.Error(c, 500, "Failed to decode sellers")
	}

	targets := database.GetMongoCollection(models.ColEmployeeTargets)
	month := currentMonth()
	for _, seller := range sellers {
		_, err := targets.UpdateOne(ctx,
			bson.M{"employee_no": seller.EmployeeNo, "month": month},
			bson.M{
				"$set": bson.M{"target": req.Target},
				"$setOnInsert": bson.M{
					"achievement": 0.0,
					"system_date": time.Now().Format("2006-01-02"),
				},
			},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return response.Error(c, 500, "Failed to set targets")
		}
	}

	return response.Success(c, 200, fiber.Map{
		"message": "Targets set successfully",
		"sellers": len(sellers),
	})
}

// List returns target records. Admins see everyone; a month query narrows
// the period, defaulting to the current month.
func (h *TargetHandler) List(c *fiber.Ctx) error {
	month := c.Query("month", currentMonth())

	filter := bson.M{"month": month}
	if employeeNo := c.Query("employee_no"); employeeNo != "" {
		filter["employee_no"] = employeeNo
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	targets := database.GetMongoCollection(models.ColEmployeeTargets)
	cursor, err := targets.Find(ctx, filter, options.Find().SetSort(bson.M{"system_date": -1}))
	if err != nil {
		return response.Error(c, 500, "Failed to fetch targets")
	}
	defer cursor.Close(ctx)

	var records []models.EmployeeTarget
	cursor.All(ctx, &records)

	return response.Success(c, 200, records)
}

// My returns the authenticated seller's progress for the current month
func (h *TargetHandler) My(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	targets := database.GetMongoCollection(models.ColEmployeeTargets)

	var record models.EmployeeTarget
	err := targets.FindOne(ctx, bson.M{
		"employee_no": middleware.GetEmployeeNo(c),
		"month":       currentMonth(),
	}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return response.Success(c, 200, fiber.Map{
				"employee_no": middleware.GetEmployeeNo(c),
				"month":       currentMonth(),
				"target":      models.DefaultMonthlyTarget,
				"achievement": 0,
			})
		}
		return response.Error(c, 500, "Failed to fetch target")
	}

	return response.Success(c, 200, record)
}

// Delete removes one seller's target for a month
func (h *TargetHandler) Delete(c *fiber.Ctx) error {
	employeeNo := c.Params("employeeNo")
	month := c.Query("month", currentMonth())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	targets := database.GetMongoCollection(models.ColEmployeeTargets)
	result, err := targets.DeleteOne(ctx, bson.M{"employee_no": employeeNo, "month": month})
	if err != nil {
		return response.Error(c, 500, "Failed to delete target")
	}
	if result.DeletedCount == 0 {
		return response.NotFound(c, "Target not found")
	}

	return response.Success(c, 200, fiber.Map{"message": "Target deleted successfully"})
}

// DeleteAll clears every target for a month
func (h *TargetHandler) DeleteAll(c *fiber.Ctx) error {
	month := c.Query("month", currentMonth())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	targets := database.GetMongoCollection(models.ColEmployeeTargets)
	result, err := targets.DeleteMany(ctx, bson.M{"month": month})
	if err != nil {
		return response.Error(c, 500, "Failed to delete targets")
	}

	return response.Success(c, 200, fiber.Map{
		"message": "Targets deleted successfully",
		"deleted": result.DeletedCount,
	})
}
