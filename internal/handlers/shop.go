package handlers

import (
	"context"
	"time"

	"distro-go/internal/database"
	"distro-go/internal/lib/file"
	"distro-go/internal/lib/maps"
	"distro-go/internal/lib/response"
	"distro-go/internal/lib/utils"
	"distro-go/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ShopHandler handles shop routes
type ShopHandler struct{}

// NewShopHandler creates a new shop handler
func NewShopHandler() *ShopHandler {
	return &ShopHandler{}
}

type shopRequest struct {
	ShopName  string `json:"shop_name"`
	OwnerName string `json:"owner_name"`
	ContactNo string `json:"contact_no"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	City      string `json:"city"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
	CloseDate string `json:"close_date"`
}

func validateShopRequest(req *shopRequest) string {
	if req.ShopName == "" || req.OwnerName == "" || req.Address == "" || req.City == "" {
		return "Shop name, owner, address and city are required"
	}
	if !utils.ValidContactNo(req.ContactNo) {
		return "Contact number must be 10 digits"
	}
	if req.Email != "" && !utils.ValidEmail(req.Email) {
		return "Invalid email address"
	}
	open, close := utils.ParseClock(req.OpenTime), utils.ParseClock(req.CloseTime)
	if open < 0 || close < 0 {
		return "Open and close times must look like 9:00 AM"
	}
	if open >= close {
		return "Open time must be before close time"
	}
	return ""
}

// Create registers a shop under its normalized name
// @Summary Create shop
// @Tags Shops
// @Security BearerAuth
// @Param body body shopRequest true "Shop details"
// @Success 201 {object} map[string]interface{}
// @Router /shops [post]
func (h *ShopHandler) Create(c *fiber.Ctx) error {
	var req shopRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if msg := validateShopRequest(&req); msg != "" {
		return response.BadRequest(c, msg)
	}

	collection := database.GetMongoCollection(models.ColShops)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	key := utils.NormalizeShopName(req.ShopName)

	count, _ := collection.CountDocuments(ctx, bson.M{"shop_name": key})
	if count > 0 {
		return response.Error(c, 400, "A shop with this name already exists")
	}

	shop := models.NewShop()
	shop.ShopName = key
	shop.OwnerName = req.OwnerName
	shop.ContactNo = req.ContactNo
	shop.Email = req.Email
	shop.Address = req.Address
	shop.City = req.City
	shop.OpenTime = req.OpenTime
	shop.CloseTime = req.CloseTime
	shop.CloseDate = req.CloseDate

	if _, err := collection.InsertOne(ctx, shop); err != nil {
		return response.Error(c, 500, "Failed to create shop")
	}

	return response.Success(c, 201, shop)
}

// Update rewrites a shop's details. The normalized name is the key, so the
// path parameter identifies the shop and the body may not rename it.
func (h *ShopHandler) Update(c *fiber.Ctx) error {
	name := utils.NormalizeShopName(c.Params("name"))

	var req shopRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.ShopName = name

	if msg := validateShopRequest(&req); msg != "" {
		return response.BadRequest(c, msg)
	}

	collection := database.GetMongoCollection(models.ColShops)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := collection.UpdateOne(ctx,
		bson.M{"shop_name": name},
		bson.M{"$set": bson.M{
			"owner_name": req.OwnerName,
			"contact_no": req.ContactNo,
			"email":      req.Email,
			"address":    req.Address,
			"city":       req.City,
			"open_time":  req.OpenTime,
			"close_time": req.CloseTime,
			"close_date": req.CloseDate,
			"updated_at": time.Now(),
		}},
	)
	if err != nil {
		return response.Error(c, 500, "Failed to update shop")
	}
	if result.MatchedCount == 0 {
		return response.NotFound(c, "Shop not found")
	}

	return response.Success(c, 200, fiber.Map{"message": "Shop updated successfully"})
}

// Get returns one shop by name, with a directions link for the apps
func (h *ShopHandler) Get(c *fiber.Ctx) error {
	name := utils.NormalizeShopName(c.Params("name"))

	collection := database.GetMongoCollection(models.ColShops)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var shop models.Shop
	err := collection.FindOne(ctx, bson.M{"shop_name": name}).Decode(&shop)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return response.NotFound(c, "Shop not found")
		}
		return response.Error(c, 500, "Failed to fetch shop")
	}

	return response.Success(c, 200, fiber.Map{
		"shop":           shop,
		"directions_url": maps.DirectionsURL(shop.Address),
	})
}

// List returns shops, optionally filtered by city or name search
func (h *ShopHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	city := c.Query("city")
	search := c.Query("search")

	filter := bson.M{}
	if city != "" {
		filter["city"] = bson.M{"$regex": city, "$options": "i"}
	}
	if search != "" {
		filter["shop_name"] = bson.M{"$regex": search, "$options": "i"}
	}

	collection := database.GetMongoCollection(models.ColShops)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	total, _ := collection.CountDocuments(ctx, filter)

	findOptions := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "shop_name", Value: 1}})

	cursor, err := collection.Find(ctx, filter, findOptions)
	if err != nil {
		return response.Error(c, 500, "Failed to fetch shops")
	}
	defer cursor.Close(ctx)

	var shops []models.Shop
	cursor.All(ctx, &shops)

	return response.SuccessWithPagination(c, 200, shops, response.CalculatePagination(int64(page), int64(limit), total))
}

// Delete removes a shop
func (h *ShopHandler) Delete(c *fiber.Ctx) error {
	name := utils.NormalizeShopName(c.Params("name"))

	collection := database.GetMongoCollection(models.ColShops)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := collection.DeleteOne(ctx, bson.M{"shop_name": name})
	if err != nil {
		return response.Error(c, 500, "Failed to delete shop")
	}
	if result.DeletedCount == 0 {
		return response.NotFound(c, "Shop not found")
	}

	return response.Success(c, 200, fiber.Map{"message": "Shop deleted successfully"})
}

// UploadImage replaces the shop picture
func (h *ShopHandler) UploadImage(c *fiber.Ctx) error {
	name := utils.NormalizeShopName(c.Params("name"))

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return response.BadRequest(c, "An image file is required")
	}

	collection := database.GetMongoCollection(models.ColShops)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var shop models.Shop
	if err := collection.FindOne(ctx, bson.M{"shop_name": name}).Decode(&shop); err != nil {
		return response.NotFound(c, "Shop not found")
	}

	oldPublicID := ""
	if shop.ShopImage != nil {
		oldPublicID = shop.ShopImage.PublicID
	}

	result, err := file.UpdateFile(oldPublicID, fileHeader, "shops")
	if err != nil {
		return response.Error(c, 400, err.Error())
	}

	_, err = collection.UpdateOne(ctx,
		bson.M{"shop_name": name},
		bson.M{"$set": bson.M{
			"shop_image": models.Image{PublicID: result.PublicID, URL: result.URL},
			"updated_at": time.Now(),
		}},
	)
	if err != nil {
		return response.Error(c, 500, "Failed to save shop image")
	}

	return response.Success(c, 200, fiber.Map{"url": result.URL})
}
