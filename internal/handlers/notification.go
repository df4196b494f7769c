package handlers

import (
	"context"
	"time"

	"distro-go/internal/database"
	"distro-go/internal/lib/notification"
	"distro-go/internal/lib/response"
	"distro-go/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotificationHandler handles notification routes
type NotificationHandler struct{}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler() *NotificationHandler {
	return &NotificationHandler{}
}

// List returns all notifications with pagination
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	notifType := c.Query("type")

	skip := (page - 1) * limit

	filter := bson.M{}
	if notifType != "" {
		filter["type"] = notifType
	}

	collection := database.GetMongoCollection(models.ColNotifications)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	total, _ := collection.CountDocuments(ctx, filter)

	findOptions := options.Find().
		SetSkip(int64(skip)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "sent_at", Value: -1}})

	cursor, err := collection.Find(ctx, filter, findOptions)
	if err != nil {
		return response.Error(c, 500, "Failed to fetch notifications")
	}
	defer cursor.Close(ctx)

	var notifs []notification.Notification
	cursor.All(ctx, &notifs)

	return response.SuccessWithPagination(c, 200, notifs, response.CalculatePagination(int64(page), int64(limit), total))
}

// GetStats returns notification statistics
func (h *NotificationHandler) GetStats(c *fiber.Ctx) error {
	collection := database.GetMongoCollection(models.ColNotifications)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	viaWhatsApp, _ := collection.CountDocuments(ctx, bson.M{"sent_via": "whatsapp"})
	viaLink, _ := collection.CountDocuments(ctx, bson.M{"sent_via": "wa.me"})

	assignmentCount, _ := collection.CountDocuments(ctx, bson.M{"type": notification.NotificationTypeAssignment})
	rejectionCount, _ := collection.CountDocuments(ctx, bson.M{"type": notification.NotificationTypeRejection})

	return response.Success(c, 200, fiber.Map{
		"via_whatsapp": viaWhatsApp,
		"via_link":     viaLink,
		"by_type": fiber.Map{
			"assignment": assignmentCount,
			"rejection":  rejectionCount,
		},
		"whatsapp": notification.WhatsAppStatus(),
	})
}
