package workflow

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"distro-go/internal/database"
	"distro-go/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StatusTracker records delivery outcomes per bill.
type StatusTracker struct{}

// NewStatusTracker creates a new status tracker
func NewStatusTracker() *StatusTracker {
	return &StatusTracker{}
}

// ValidateStatusChange checks the requested change before any write: the
// status must be a known value, a rejection must carry a reason, and the
// move from the current status must be legal.
func ValidateStatusChange(current, next models.DeliveryStatus, reason string) error {
	if !next.Valid() {
		return validationf(fmt.Sprintf("Unknown delivery status %q", string(next)))
	}
	if next == models.StatusRejected && reason == "" {
		return validationf("A rejection reason is required")
	}
	if !current.CanTransition(next) {
		return validationf(fmt.Sprintf("Cannot change status from %s to %s", current, next))
	}
	return nil
}

// SetStatus marks a bill's delivery outcome. A terminal status (Completed or
// Rejected) commits in one transaction: the deliverystatus doc is upserted,
// a history record with a shop snapshot is inserted, the bill number is
// pulled from every assignedDeliveries array, and emptied queue documents
// are deleted. Validation failures happen before any write.
func (t *StatusTracker) SetStatus(ctx context.Context, sess models.Session, billNo int, status models.DeliveryStatus, reason string) error {
	key := strconv.Itoa(billNo)

	statuses := database.GetMongoCollection(models.ColDeliveryStatus)
	current := models.StatusPending
	var existing models.DeliveryStatusRecord
	err := statuses.FindOne(ctx, bson.M{"bill_no": key}).Decode(&existing)
	if err == nil {
		current = existing.DeliveryStatus
	} else if err != mongo.ErrNoDocuments {
		return fmt.Errorf("failed to load delivery status: %v", err)
	}

	if err := ValidateStatusChange(current, status, reason); err != nil {
		return err
	}

	assigned := database.GetMongoCollection(models.ColAssignedInvoices)
	var invoice models.AssignedInvoice
	err = assigned.FindOne(ctx, bson.M{"bill_no": billNo}).Decode(&invoice)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return notFound(fmt.Sprintf("Bill %d not found", billNo))
		}
		return fmt.Errorf("failed to load bill %d: %v", billNo, err)
	}

	shops := database.GetMongoCollection(models.ColShops)
	var shop models.Shop
	if err := shops.FindOne(ctx, bson.M{"shop_name": invoice.ShopName}).Decode(&shop); err != nil && err != mongo.ErrNoDocuments {
		return fmt.Errorf("failed to load shop %s: %v", invoice.ShopName, err)
	}

	if !status.Terminal() {
		// Pending just refreshes the status doc.
		_, err := statuses.UpdateOne(ctx,
			bson.M{"bill_no": key},
			bson.M{"$set": bson.M{
				"delivery_status": status,
				"shop_name":       invoice.ShopName,
				"timestamp":       time.Now(),
			}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("failed to update delivery status: %v", err)
		}
		return nil
	}

	return database.WithTransaction(ctx, func(sc mongo.SessionContext) error {
		now := time.Now()

		_, err := statuses.UpdateOne(sc,
			bson.M{"bill_no": key},
			bson.M{"$set": bson.M{
				"delivery_status": status,
				"shop_name":       invoice.ShopName,
				"timestamp":       now,
			}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("failed to update delivery status: %v", err)
		}

		history := database.GetMongoCollection(models.ColHistory)
		record := models.HistoryRecord{
			ID:             primitive.NewObjectID(),
			BillNo:         key,
			Address:        shop.Address,
			ContactNo:      shop.ContactNo,
			OwnerName:      shop.OwnerName,
			ShopName:       invoice.ShopName,
			DeliveryStatus: status,
			EmployeeNo:     sess.EmployeeNo,
			CompletedAt:    now,
		}
		if status == models.StatusRejected {
			record.RejectionReason = reason
		}
		if _, err := history.InsertOne(sc, record); err != nil {
			return fmt.Errorf("failed to record history: %v", err)
		}

		if err := removeFromQueues(sc, billNo); err != nil {
			return err
		}

		return nil
	})
}

// removeFromQueues pulls a bill number out of every deliverer queue and
// drops queue documents whose arrays became empty.
func removeFromQueues(ctx context.Context, billNo int) error {
	deliveries := database.GetMongoCollection(models.ColAssignedDeliveries)

	_, err := deliveries.UpdateMany(ctx,
		bson.M{"bill_nos": billNo},
		bson.M{"$pull": bson.M{"bill_nos": billNo}},
	)
	if err != nil {
		return fmt.Errorf("failed to dequeue bill %d: %v", billNo, err)
	}

	_, err = deliveries.DeleteMany(ctx, bson.M{"bill_nos": bson.M{"$size": 0}})
	if err != nil {
		return fmt.Errorf("failed to prune empty queues: %v", err)
	}

	return nil
}

// StatusFilter narrows the admin delivery status listing.
type StatusFilter struct {
	Status   models.DeliveryStatus
	DateFrom time.Time
	DateTo   time.Time
}

// StatusEntry is a deliverystatus doc joined with its history context for
// the admin reconciliation screen.
type StatusEntry struct {
	models.DeliveryStatusRecord `bson:",inline"`
	EmployeeNo                  string `json:"employee_no" bson:"employee_no"`
	RejectionReason             string `json:"rejection_reason,omitempty" bson:"rejection_reason,omitempty"`
}

// ListStatuses returns delivery status records, newest first, optionally
// filtered by status value and timestamp range, and enriched with the
// deliverer and rejection reason from history.
func (t *StatusTracker) ListStatuses(ctx context.Context, filter StatusFilter) ([]StatusEntry, error) {
	statuses := database.GetMongoCollection(models.ColDeliveryStatus)

	query := bson.M{}
	if filter.Status != "" {
		query["delivery_status"] = filter.Status
	}
	if !filter.DateFrom.IsZero() || !filter.DateTo.IsZero() {
		ts := bson.M{}
		if !filter.DateFrom.IsZero() {
			ts["$gte"] = filter.DateFrom
		}
		if !filter.DateTo.IsZero() {
			ts["$lte"] = filter.DateTo
		}
		query["timestamp"] = ts
	}

	opts := options.Find().SetSort(bson.M{"timestamp": -1})
	cursor, err := statuses.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list delivery statuses: %v", err)
	}
	defer cursor.Close(ctx)

	var records []models.DeliveryStatusRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode delivery statuses: %v", err)
	}

	history := database.GetMongoCollection(models.ColHistory)
	entries := make([]StatusEntry, 0, len(records))
	for _, rec := range records {
		entry := StatusEntry{DeliveryStatusRecord: rec}

		var h models.HistoryRecord
		err := history.FindOne(ctx, bson.M{"bill_no": rec.BillNo},
			options.FindOne().SetSort(bson.M{"completed_at": -1})).Decode(&h)
		if err == nil {
			entry.EmployeeNo = h.EmployeeNo
			entry.RejectionReason = h.RejectionReason
		} else if err != mongo.ErrNoDocuments {
			return nil, fmt.Errorf("failed to load history for bill %s: %v", rec.BillNo, err)
		}

		entries = append(entries, entry)
	}

	return entries, nil
}
