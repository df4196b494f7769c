package handlers

import (
	"context"
	"time"

	"distro-go/internal/database"
	"distro-go/internal/lib/response"
	"distro-go/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InventoryHandler handles inventory routes
type InventoryHandler struct{}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler() *InventoryHandler {
	return &InventoryHandler{}
}

// Create adds a stock item
func (h *InventoryHandler) Create(c *fiber.Ctx) error {
	type CreateRequest struct {
		ItemNo   string  `json:"item_no"`
		ItemName string  `json:"item_name"`
		Price    float64 `json:"price"`
		Quantity int     `json:"quantity"`
	}

	var req CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.ItemNo == "" || req.ItemName == "" {
		return response.BadRequest(c, "Item number and name are required")
	}
	if req.Price <= 0 {
		return response.BadRequest(c, "Price must be a positive number")
	}
	if req.Quantity < 0 {
		return response.BadRequest(c, "Quantity cannot be negative")
	}

	collection := database.GetMongoCollection(models.ColInventory)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, _ := collection.CountDocuments(ctx, bson.M{"item_no": req.ItemNo})
	if count > 0 {
		return response.Error(c, 400, "An item with this number already exists")
	}

	item := models.NewInventoryItem()
	item.ItemNo = req.ItemNo
	item.ItemName = req.ItemName
	item.Price = req.Price
	item.Quantity = req.Quantity

	if _, err := collection.InsertOne(ctx, item); err != nil {
		return response.Error(c, 500, "Failed to create item")
	}

	return response.Success(c, 201, item)
}

// Update changes an item's name, price, or quantity
func (h *InventoryHandler) Update(c *fiber.Ctx) error {
	itemNo := c.Params("itemNo")

	type UpdateRequest struct {
		ItemName string   `json:"item_name,omitempty"`
		Price    *float64 `json:"price,omitempty"`
		Quantity *int     `json:"quantity,omitempty"`
	}

	var req UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	update := bson.M{"updated_at": time.Now()}
	if req.ItemName != "" {
		update["item_name"] = req.ItemName
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return response.BadRequest(c, "Price must be a positive number")
		}
		update["price"] = *req.Price
	}
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			return response.BadRequest(c, "Quantity cannot be negative")
		}
		update["quantity"] = *req.Quantity
	}

	collection := database.GetMongoCollection(models.ColInventory)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := collection.UpdateOne(ctx, bson.M{"item_no": itemNo}, bson.M{"$set": update})
	if err != nil {
		return response.Error(c, 500, "Failed to update item")
	}
	if result.MatchedCount == 0 {
		return response.NotFound(c, "Item not found")
	}

	return response.Success(c, 200, fiber.Map{"message": "Item updated successfully"})
}

// Get returns one item
func (h *InventoryHandler) Get(c *fiber.Ctx) error {
	itemNo := c.Params("itemNo")

	collection := database.GetMongoCollection(models.ColInventory)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var item models.InventoryItem
	err := collection.FindOne(ctx, bson.M{"item_no": itemNo}).Decode(&item)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return response.NotFound(c, "Item not found")
		}
		return response.Error(c, 500, "Failed to fetch item")
	}

	return response.Success(c, 200, item)
}

// List returns stock, optionally searched by item number or name
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	search := c.Query("search")

	filter := bson.M{}
	if search != "" {
		filter["$or"] = []bson.M{
			{"item_no": bson.M{"$regex": search, "$options": "i"}},
			{"item_name": bson.M{"$regex": search, "$options": "i"}},
		}
	}

	collection := database.GetMongoCollection(models.ColInventory)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	total, _ := collection.CountDocuments(ctx, filter)

	findOptions := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "item_no", Value: 1}})

	cursor, err := collection.Find(ctx, filter, findOptions)
	if err != nil {
		return response.Error(c, 500, "Failed to fetch inventory")
	}
	defer cursor.Close(ctx)

	var items []models.InventoryItem
	cursor.All(ctx, &items)

	return response.SuccessWithPagination(c, 200, items, response.CalculatePagination(int64(page), int64(limit), total))
}

// Delete removes an item from stock
func (h *InventoryHandler) Delete(c *fiber.Ctx) error {
	itemNo := c.Params("itemNo")

	collection := database.GetMongoCollection(models.ColInventory)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := collection.DeleteOne(ctx, bson.M{"item_no": itemNo})
	if err != nil {
		return response.Error(c, 500, "Failed to delete item")
	}
	if result.DeletedCount == 0 {
		return response.NotFound(c, "Item not found")
	}

	return response.Success(c, 200, fiber.Map{"message": "Item deleted successfully"})
}
