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
)

// Reconciler settles rejected bills: either send them out again or take the
// goods back into stock.
type Reconciler struct{}

// NewReconciler creates a new reconciler
func NewReconciler() *Reconciler {
	return &Reconciler{}
}

// requireRejected loads the status doc for a bill and refuses anything that
// is not currently Rejected. Called inside the transaction so a concurrent
// settle cannot slip through.
func requireRejected(ctx context.Context, key string) error {
	statuses := database.GetMongoCollection(models.ColDeliveryStatus)

	var record models.DeliveryStatusRecord
	err := statuses.FindOne(ctx, bson.M{"bill_no": key}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return notFound(fmt.Sprintf("No delivery status found for bill %s", key))
		}
		return fmt.Errorf("failed to load delivery status: %v", err)
	}

	if record.DeliveryStatus != models.StatusRejected {
		return validationf("Only Rejected bills can be settled")
	}

	return nil
}

// Reassign puts a rejected bill back into the same deliverer's queue and
// clears its status doc, starting a fresh delivery cycle. The rejection
// stays in history.
func (r *Reconciler) Reassign(ctx context.Context, billNo int) error {
	key := strconv.Itoa(billNo)

	return database.WithTransaction(ctx, func(sc mongo.SessionContext) error {
		if err := requireRejected(sc, key); err != nil {
			return err
		}

		assigned := database.GetMongoCollection(models.ColAssignedInvoices)
		var invoice models.AssignedInvoice
		err := assigned.FindOne(sc, bson.M{"bill_no": billNo}).Decode(&invoice)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				return notFound(fmt.Sprintf("Bill %d not found", billNo))
			}
			return fmt.Errorf("failed to load bill %d: %v", billNo, err)
		}

		deliveries := database.GetMongoCollection(models.ColAssignedDeliveries)
		_, err = deliveries.InsertOne(sc, models.AssignedDelivery{
			ID:           primitive.NewObjectID(),
			DeliverEmpNo: invoice.DeliverEmpNo,
			BillNos:      []int{billNo},
			AssignedAt:   time.Now(),
		})
		if err != nil {
			return fmt.Errorf("failed to re-queue bill %d: %v", billNo, err)
		}

		return clearSettled(sc, key)
	})
}

// AddToStock takes a rejected bill's goods back: each line quantity is
// credited to inventory, the bill is archived to rejectedbill, and the
// status doc is removed. The assigned invoice and history are kept so the
// bill still shows up in lookups and reports.
func (r *Reconciler) AddToStock(ctx context.Context, billNo int) error {
	key := strconv.Itoa(billNo)

	return database.WithTransaction(ctx, func(sc mongo.SessionContext) error {
		if err := requireRejected(sc, key); err != nil {
			return err
		}

		assigned := database.GetMongoCollection(models.ColAssignedInvoices)
		var invoice models.AssignedInvoice
		err := assigned.FindOne(sc, bson.M{"bill_no": billNo}).Decode(&invoice)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				return notFound(fmt.Sprintf("Bill %d not found", billNo))
			}
			return fmt.Errorf("failed to load bill %d: %v", billNo, err)
		}

		inventory := database.GetMongoCollection(models.ColInventory)
		for _, line := range invoice.Items {
			_, err := inventory.UpdateOne(sc,
				bson.M{"item_no": line.ItemNo},
				bson.M{"$inc": bson.M{"quantity": line.Quantity}},
			)
			if err != nil {
				return fmt.Errorf("failed to restock item %s: %v", line.ItemNo, err)
			}
		}

		rejected := database.GetMongoCollection(models.ColRejectedBills)
		_, err = rejected.InsertOne(sc, models.RejectedBill{
			ID:        primitive.NewObjectID(),
			BillNo:    key,
			Reason:    "Rejected and restocked",
			Timestamp: time.Now(),
		})
		if err != nil {
			return fmt.Errorf("failed to archive bill %d: %v", billNo, err)
		}

		return clearSettled(sc, key)
	})
}

// clearSettled removes the current status doc for a settled bill. History
// stays behind as the durable audit trail; only undo may delete it.
func clearSettled(ctx context.Context, key string) error {
	statuses := database.GetMongoCollection(models.ColDeliveryStatus)
	if _, err := statuses.DeleteOne(ctx, bson.M{"bill_no": key}); err != nil {
		return fmt.Errorf("failed to clear status for bill %s: %v", key, err)
	}

	return nil
}
