package workflow

import (
	"context"
	"fmt"
	"time"

	"distro-go/internal/database"
	"distro-go/internal/lib/utils"
	"distro-go/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InvoiceLedger creates invoice records and owns the bill-number counter.
type InvoiceLedger struct{}

// NewInvoiceLedger creates a new invoice ledger
func NewInvoiceLedger() *InvoiceLedger {
	return &InvoiceLedger{}
}

// LineRequest is one requested invoice row: an item number and how many.
type LineRequest struct {
	ItemNo   string `json:"item_no"`
	Quantity int    `json:"quantity"`
}

// BuildLines resolves requested rows against current stock, computing the
// per-line and invoice totals. It is pure: validation errors here mean no
// write has happened yet. Quantities above stock are refused.
func BuildLines(reqs []LineRequest, stock map[string]models.InventoryItem) ([]models.InvoiceLine, float64, error) {
	if len(reqs) == 0 {
		return nil, 0, validationf("At least one item is required")
	}

	lines := make([]models.InvoiceLine, 0, len(reqs))
	var totalAmount float64

	for _, req := range reqs {
		item, ok := stock[req.ItemNo]
		if !ok {
			return nil, 0, notFound(fmt.Sprintf("Item %s not found", req.ItemNo))
		}
		if req.Quantity <= 0 {
			return nil, 0, validationf("Quantity must be a positive number")
		}
		if req.Quantity > item.Quantity {
			return nil, 0, validationf(fmt.Sprintf("Not enough stock for item %s", req.ItemNo))
		}

		total := item.Price * float64(req.Quantity)
		lines = append(lines, models.InvoiceLine{
			ItemNo:   item.ItemNo,
			ItemName: item.ItemName,
			Price:    item.Price,
			Quantity: req.Quantity,
			Total:    total,
		})
		totalAmount += total
	}

	return lines, totalAmount, nil
}

// NextBillNo advances the singleton counter atomically and returns the new
// bill number. The $inc upsert replaces the original read-then-write pair,
// so two concurrent submissions can never share a number.
func NextBillNo(ctx context.Context) (int, error) {
	collection := database.GetMongoCollection(models.ColCounters)

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter models.Counter
	err := collection.FindOneAndUpdate(ctx,
		bson.M{"_id": models.InvoiceCounterID},
		bson.M{"$inc": bson.M{"latest": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to advance invoice counter: %v", err)
	}

	return counter.Latest, nil
}

// CreateInvoice validates the requested items against stock, assigns the
// next bill number, and in one transaction persists the invoice, decrements
// inventory, and credits the seller's monthly achievement. A stock shortage
// discovered inside the transaction aborts the whole submission.
func (l *InvoiceLedger) CreateInvoice(ctx context.Context, sess models.Session, shopName string, reqs []LineRequest) (*models.Invoice, error) {
	if sess.EmployeeNo == "" {
		return nil, validationf("Employee number is required")
	}

	// Resolve the shop first; invoices reference it by normalized name.
	shops := database.GetMongoCollection(models.ColShops)
	var shop models.Shop
	if err := shops.FindOne(ctx, bson.M{"shop_name": utils.NormalizeShopName(shopName)}).Decode(&shop); err != nil {
		return nil, notFound("Shop not found")
	}

	stock, err := l.loadStock(ctx, reqs)
	if err != nil {
		return nil, err
	}

	lines, totalAmount, err := BuildLines(reqs, stock)
	if err != nil {
		return nil, err
	}

	invoice := models.NewInvoice()
	invoice.ShopName = shop.ShopName
	invoice.SellerEmpNo = sess.EmployeeNo
	invoice.Items = lines
	invoice.TotalAmount = totalAmount

	err = database.WithTransaction(ctx, func(sc mongo.SessionContext) error {
		billNo, err := NextBillNo(sc)
		if err != nil {
			return err
		}
		invoice.BillNo = billNo

		invoices := database.GetMongoCollection(models.ColInvoices)
		if _, err := invoices.InsertOne(sc, invoice); err != nil {
			return fmt.Errorf("failed to save invoice: %v", err)
		}

		// Conditional decrement: matching on quantity >= requested keeps a
		// concurrent submission from driving stock negative.
		inventory := database.GetMongoCollection(models.ColInventory)
		for _, line := range lines {
			result, err := inventory.UpdateOne(sc,
				bson.M{"item_no": line.ItemNo, "quantity": bson.M{"$gte": line.Quantity}},
				bson.M{"$inc": bson.M{"quantity": -line.Quantity}, "$set": bson.M{"updated_at": time.Now()}},
			)
			if err != nil {
				return fmt.Errorf("failed to update stock: %v", err)
			}
			if result.MatchedCount == 0 {
				return validationf(fmt.Sprintf("Not enough stock for item %s", line.ItemNo))
			}
		}

		return creditAchievement(sc, sess.EmployeeNo, totalAmount)
	})
	if err != nil {
		return nil, err
	}

	return invoice, nil
}

// creditAchievement adds amount to the seller's running achievement for the
// current month, seeding the target document on first sale.
func creditAchievement(sc mongo.SessionContext, employeeNo string, amount float64) error {
	now := time.Now()
	month := now.Format("January")

	targets := database.GetMongoCollection(models.ColEmployeeTargets)
	_, err := targets.UpdateOne(sc,
		bson.M{"employee_no": employeeNo, "month": month},
		bson.M{
			"$inc": bson.M{"achievement": amount},
			"$setOnInsert": bson.M{
				"target":      float64(models.DefaultMonthlyTarget),
				"system_date": now.Format("2006-01-02"),
			},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to update achievement: %v", err)
	}
	return nil
}

func (l *InvoiceLedger) loadStock(ctx context.Context, reqs []LineRequest) (map[string]models.InventoryItem, error) {
	itemNos := make([]string, 0, len(reqs))
	for _, req := range reqs {
		itemNos = append(itemNos, req.ItemNo)
	}

	inventory := database.GetMongoCollection(models.ColInventory)
	cursor, err := inventory.Find(ctx, bson.M{"item_no": bson.M{"$in": itemNos}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch inventory: %v", err)
	}
	defer cursor.Close(ctx)

	var items []models.InventoryItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode inventory: %v", err)
	}

	stock := make(map[string]models.InventoryItem, len(items))
	for _, item := range items {
		stock[item.ItemNo] = item
	}
	return stock, nil
}
