package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"distro-go/internal/database"
	"distro-go/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AssignmentManager moves invoices into a deliverer's queue.
type AssignmentManager struct{}

// NewAssignmentManager creates a new assignment manager
func NewAssignmentManager() *AssignmentManager {
	return &AssignmentManager{}
}

// UnassignedFilter narrows the unassigned invoice listing.
type UnassignedFilter struct {
	City     string
	DateFrom time.Time
	DateTo   time.Time
}

// UnassignedInvoice is an invoice joined with its shop's city for the
// assignment screen.
type UnassignedInvoice struct {
	models.Invoice `bson:",inline"`
	City           string `json:"city" bson:"city"`
}

// ListUnassigned returns invoices not yet handed to a deliverer, joined with
// shop city. City matches as a case-insensitive substring; the date range
// bounds created_at when set.
func (m *AssignmentManager) ListUnassigned(ctx context.Context, filter UnassignedFilter) ([]UnassignedInvoice, error) {
	invoices := database.GetMongoCollection(models.ColInvoices)
	shops := database.GetMongoCollection(models.ColShops)

	query := bson.M{}
	if !filter.DateFrom.IsZero() || !filter.DateTo.IsZero() {
		created := bson.M{}
		if !filter.DateFrom.IsZero() {
			created["$gte"] = filter.DateFrom
		}
		if !filter.DateTo.IsZero() {
			created["$lte"] = filter.DateTo
		}
		query["created_at"] = created
	}

	opts := options.Find().SetSort(bson.M{"bill_no": 1})
	cursor, err := invoices.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %v", err)
	}
	defer cursor.Close(ctx)

	var pending []models.Invoice
	if err := cursor.All(ctx, &pending); err != nil {
		return nil, fmt.Errorf("failed to decode invoices: %v", err)
	}

	// Collect cities in one query instead of a lookup per invoice.
	names := make([]string, 0, len(pending))
	for _, inv := range pending {
		names = append(names, inv.ShopName)
	}
	cities := map[string]string{}
	if len(names) > 0 {
		shopCursor, err := shops.Find(ctx, bson.M{"shop_name": bson.M{"$in": names}})
		if err != nil {
			return nil, fmt.Errorf("failed to load shops: %v", err)
		}
		defer shopCursor.Close(ctx)

		var shopDocs []models.Shop
		if err := shopCursor.All(ctx, &shopDocs); err != nil {
			return nil, fmt.Errorf("failed to decode shops: %v", err)
		}
		for _, s := range shopDocs {
			cities[s.ShopName] = s.City
		}
	}

	result := make([]UnassignedInvoice, 0, len(pending))
	for _, inv := range pending {
		shopCity := cities[inv.ShopName]
		if !MatchesCity(shopCity, filter.City) {
			continue
		}
		result = append(result, UnassignedInvoice{Invoice: inv, City: shopCity})
	}

	return result, nil
}

// MatchesCity reports whether a shop city satisfies a city filter. An empty
// filter matches everything; otherwise matching is a case-insensitive
// substring check.
func MatchesCity(shopCity, filter string) bool {
	filter = strings.ToLower(strings.TrimSpace(filter))
	if filter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(shopCity), filter)
}

// Assign hands a batch of bills to a deliverer. The whole batch commits in
// one transaction: each bill gets its own assignedDeliveries document with a
// single-element bill_nos array, the invoice is copied into assignedInvoices
// carrying the deliverer, and the source invoice is deleted. Any bill that
// is missing or already assigned aborts the entire batch.
func (m *AssignmentManager) Assign(ctx context.Context, deliverEmpNo string, billNos []int) error {
	if deliverEmpNo == "" {
		return validationf("Employee number is required")
	}
	if len(billNos) == 0 {
		return validationf("At least one bill number is required")
	}

	users := database.GetMongoCollection(models.ColUsers)
	var deliverer models.User
	err := users.FindOne(ctx, bson.M{
		"employee_no": deliverEmpNo,
		"job_type":    models.JobDeliverer,
	}).Decode(&deliverer)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return notFound(fmt.Sprintf("Deliverer %s not found", deliverEmpNo))
		}
		return fmt.Errorf("failed to look up deliverer: %v", err)
	}

	return database.WithTransaction(ctx, func(sc mongo.SessionContext) error {
		invoices := database.GetMongoCollection(models.ColInvoices)
		assigned := database.GetMongoCollection(models.ColAssignedInvoices)
		deliveries := database.GetMongoCollection(models.ColAssignedDeliveries)

		now := time.Now()
		for _, billNo := range billNos {
			var invoice models.Invoice
			err := invoices.FindOne(sc, bson.M{"bill_no": billNo}).Decode(&invoice)
			if err != nil {
				if err == mongo.ErrNoDocuments {
					return notFound(fmt.Sprintf("Bill %d not found", billNo))
				}
				return fmt.Errorf("failed to load bill %d: %v", billNo, err)
			}

			_, err = deliveries.InsertOne(sc, models.AssignedDelivery{
				ID:           primitive.NewObjectID(),
				DeliverEmpNo: deliverEmpNo,
				BillNos:      []int{billNo},
				AssignedAt:   now,
			})
			if err != nil {
				return fmt.Errorf("failed to record delivery for bill %d: %v", billNo, err)
			}

			assignedInvoice := models.AssignedInvoice{
				BaseModel:    invoice.BaseModel,
				BillNo:       invoice.BillNo,
				ShopName:     invoice.ShopName,
				SellerEmpNo:  invoice.SellerEmpNo,
				Items:        invoice.Items,
				TotalAmount:  invoice.TotalAmount,
				DeliverEmpNo: deliverEmpNo,
				AssignedAt:   now,
			}
			if _, err := assigned.InsertOne(sc, assignedInvoice); err != nil {
				return fmt.Errorf("failed to move bill %d: %v", billNo, err)
			}

			if _, err := invoices.DeleteOne(sc, bson.M{"bill_no": billNo}); err != nil {
				return fmt.Errorf("failed to remove bill %d from pending: %v", billNo, err)
			}
		}

		return nil
	})
}

// PendingBillNos returns the bill numbers currently queued for a deliverer,
// flattened across their assignedDeliveries documents.
func (m *AssignmentManager) PendingBillNos(ctx context.Context, deliverEmpNo string) ([]int, error) {
	deliveries := database.GetMongoCollection(models.ColAssignedDeliveries)

	cursor, err := deliveries.Find(ctx, bson.M{"deliver_emp_no": deliverEmpNo})
	if err != nil {
		return nil, fmt.Errorf("failed to list deliveries: %v", err)
	}
	defer cursor.Close(ctx)

	var docs []models.AssignedDelivery
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode deliveries: %v", err)
	}

	billNos := []int{}
	for _, doc := range docs {
		billNos = append(billNos, doc.BillNos...)
	}
	return billNos, nil
}

// PendingCount returns the badge count for a deliverer: the total number of
// bills across their queue documents.
func (m *AssignmentManager) PendingCount(ctx context.Context, deliverEmpNo string) (int, error) {
	billNos, err := m.PendingBillNos(ctx, deliverEmpNo)
	if err != nil {
		return 0, err
	}
	return len(billNos), nil
}
