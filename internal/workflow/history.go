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

// HistoryLedger reads a deliverer's completed work and handles undo.
type HistoryLedger struct{}

// NewHistoryLedger creates a new history ledger
func NewHistoryLedger() *HistoryLedger {
	return &HistoryLedger{}
}

// HistoryEntry is a history record with the undo flag computed at read
// time. The flag is never persisted; clients poll and the window keeps
// shrinking.
type HistoryEntry struct {
	models.HistoryRecord `bson:",inline"`
	UndoDisabled         bool `json:"undo_disabled" bson:"-"`
}

// UndoExpired reports whether the undo window has closed for a record
// completed at the given time.
func UndoExpired(completedAt, now time.Time) bool {
	return now.Sub(completedAt) > models.UndoWindow
}

// ListHistory returns a deliverer's terminal records, newest first, each
// flagged with whether undo is still available.
func (l *HistoryLedger) ListHistory(ctx context.Context, employeeNo string) ([]HistoryEntry, error) {
	history := database.GetMongoCollection(models.ColHistory)

	opts := options.Find().SetSort(bson.M{"completed_at": -1})
	cursor, err := history.Find(ctx, bson.M{"employee_no": employeeNo}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %v", err)
	}
	defer cursor.Close(ctx)

	var records []models.HistoryRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode history: %v", err)
	}

	now := time.Now()
	entries := make([]HistoryEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, HistoryEntry{
			HistoryRecord: rec,
			UndoDisabled:  UndoExpired(rec.CompletedAt, now),
		})
	}

	return entries, nil
}

// Undo reverses a terminal outcome within the 60-second window: the bill is
// re-queued to the deliverer and the history records for it are deleted.
// The window is re-checked inside the transaction, so a stale client cannot
// undo past it. The consumed invoice is not resurrected; the bill simply
// returns to the deliverer's pending queue.
func (l *HistoryLedger) Undo(ctx context.Context, sess models.Session, billNo int) error {
	key := strconv.Itoa(billNo)

	return database.WithTransaction(ctx, func(sc mongo.SessionContext) error {
		history := database.GetMongoCollection(models.ColHistory)

		var record models.HistoryRecord
		err := history.FindOne(sc,
			bson.M{"bill_no": key, "employee_no": sess.EmployeeNo},
			options.FindOne().SetSort(bson.M{"completed_at": -1}),
		).Decode(&record)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				return notFound(fmt.Sprintf("No history found for bill %d", billNo))
			}
			return fmt.Errorf("failed to load history for bill %d: %v", billNo, err)
		}

		if UndoExpired(record.CompletedAt, time.Now()) {
			return validationf("The undo window for this bill has closed")
		}

		deliveries := database.GetMongoCollection(models.ColAssignedDeliveries)
		_, err = deliveries.InsertOne(sc, models.AssignedDelivery{
			ID:           primitive.NewObjectID(),
			DeliverEmpNo: sess.EmployeeNo,
			BillNos:      []int{billNo},
			AssignedAt:   time.Now(),
		})
		if err != nil {
			return fmt.Errorf("failed to re-queue bill %d: %v", billNo, err)
		}

		_, err = history.DeleteMany(sc, bson.M{"bill_no": key, "employee_no": sess.EmployeeNo})
		if err != nil {
			return fmt.Errorf("failed to clear history for bill %d: %v", billNo, err)
		}

		statuses := database.GetMongoCollection(models.ColDeliveryStatus)
		_, err = statuses.DeleteOne(sc, bson.M{"bill_no": key})
		if err != nil {
			return fmt.Errorf("failed to clear status for bill %d: %v", billNo, err)
		}

		return nil
	})
}
