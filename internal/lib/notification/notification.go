package notification

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"distro-go/internal/database"
	"distro-go/internal/lib/whatsapp"
	"distro-go/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotificationType represents different notification types
type NotificationType string

const (
	NotificationTypeAssignment NotificationType = "assignment"
	NotificationTypeRejection  NotificationType = "rejection"
)

// Notification represents a notification record
type Notification struct {
	ID      primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Type    NotificationType   `json:"type" bson:"type"`
	Phone   string             `json:"phone" bson:"phone"`
	Message string             `json:"message" bson:"message"`
	BillNos []int              `json:"bill_nos" bson:"bill_nos"`
	Status  string             `json:"status" bson:"status"` // sent, failed
	SentAt  *time.Time         `json:"sent_at,omitempty" bson:"sent_at,omitempty"`
	SentVia string             `json:"sent_via,omitempty" bson:"sent_via,omitempty"` // "whatsapp" or "wa.me"
}

// GenerateWhatsAppLink generates a wa.me link with pre-filled message
func GenerateWhatsAppLink(phone string, message string) string {
	cleanPhone := ""
	for _, c := range phone {
		if c >= '0' && c <= '9' {
			cleanPhone += string(c)
		}
	}

	encodedMessage := url.QueryEscape(message)

	return fmt.Sprintf("https://wa.me/%s?text=%s", cleanPhone, encodedMessage)
}

// sendViaWhatsApp tries to send via whatsmeow if connected
// Returns true if sent, false if fallback to wa.me link needed
func sendViaWhatsApp(phone string, message string) bool {
	if whatsapp.WhatsApp == nil {
		return false
	}

	if !whatsapp.WhatsApp.IsLoggedIn() {
		return false
	}

	err := whatsapp.WhatsApp.SendMessage(phone, message)
	if err != nil {
		log.Printf("[Notification] Failed to send via WhatsApp: %v", err)
		return false
	}

	return true
}

// record persists the attempt to the notifications collection.
func record(n Notification) error {
	collection := database.GetMongoCollection(models.ColNotifications)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := collection.InsertOne(ctx, n)
	return err
}

// AssignmentMessage builds the notice a deliverer gets for a new batch.
func AssignmentMessage(delivererName string, billNos []int) string {
	nos := make([]string, 0, len(billNos))
	for _, n := range billNos {
		nos = append(nos, fmt.Sprintf("#%d", n))
	}

	return fmt.Sprintf(`Hi %s,

New deliveries have been assigned to you:

Bills: %s

Open the app to see shop addresses and directions.`,
		delivererName, strings.Join(nos, ", "))
}

// RejectionMessage builds the notice a distributor gets when a bill comes
// back rejected.
func RejectionMessage(billNo int, shopName, reason string) string {
	return fmt.Sprintf(`Bill #%d was rejected.

Shop: %s
Reason: %s

Settle it from the delivery status screen (reassign or add to stock).`,
		billNo, shopName, reason)
}

// SendAssignmentNotification tells a deliverer which bills just landed in
// their queue. Returns a wa.me fallback link for the admin panel.
func SendAssignmentNotification(phone, delivererName string, billNos []int) (string, error) {
	message := AssignmentMessage(delivererName, billNos)

	sentVia := "wa.me"
	if sendViaWhatsApp(phone, message) {
		sentVia = "whatsapp"
	}

	now := time.Now()
	n := Notification{
		ID:      primitive.NewObjectID(),
		Type:    NotificationTypeAssignment,
		Phone:   phone,
		Message: message,
		BillNos: billNos,
		Status:  "sent",
		SentVia: sentVia,
	}
	if sentVia == "whatsapp" {
		n.SentAt = &now
	}

	if err := record(n); err != nil {
		return "", err
	}

	return GenerateWhatsAppLink(phone, message), nil
}

// SendRejectionNotification alerts the distributor that a bill came back
// rejected and needs settling.
func SendRejectionNotification(phone string, billNo int, shopName, reason string) (string, error) {
	message := RejectionMessage(billNo, shopName, reason)

	sentVia := "wa.me"
	if sendViaWhatsApp(phone, message) {
		sentVia = "whatsapp"
	}

	now := time.Now()
	n := Notification{
		ID:      primitive.NewObjectID(),
		Type:    NotificationTypeRejection,
		Phone:   phone,
		Message: message,
		BillNos: []int{billNo},
		Status:  "sent",
		SentVia: sentVia,
	}
	if sentVia == "whatsapp" {
		n.SentAt = &now
	}

	if err := record(n); err != nil {
		return "", err
	}

	return GenerateWhatsAppLink(phone, message), nil
}

// List returns recent notification attempts, newest first.
func List(ctx context.Context, limit int64) ([]Notification, error) {
	collection := database.GetMongoCollection(models.ColNotifications)

	opts := options.Find().SetSort(bson.M{"sent_at": -1})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notifications []Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}

	return notifications, nil
}

// WhatsAppStatus returns current WhatsApp connection status
func WhatsAppStatus() map[string]interface{} {
	if whatsapp.WhatsApp == nil {
		return map[string]interface{}{
			"initialized": false,
			"connected":   false,
			"logged_in":   false,
		}
	}

	return map[string]interface{}{
		"initialized": true,
		"connected":   whatsapp.WhatsApp.IsConnected(),
		"logged_in":   whatsapp.WhatsApp.IsLoggedIn(),
	}
}
