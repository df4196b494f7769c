package handlers

import (
	"context"
	"log"
	"time"

	"distro-go/internal/config"
	"distro-go/internal/database"
	"distro-go/internal/lib/crypt"
	"distro-go/internal/lib/file"
	"distro-go/internal/lib/jwt"
	"distro-go/internal/lib/mailer"
	"distro-go/internal/lib/response"
	"distro-go/internal/lib/utils"
	"distro-go/internal/middleware"
	"distro-go/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AuthHandler handles auth routes
type AuthHandler struct{}

// NewAuthHandler creates a new auth handler
func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// Register creates a new account and mails a verification token
// @Summary Register
// @Description Register a new employee account
// @Tags Auth
// @Param body body RegisterRequest true "Registration details"
// @Success 201 {object} map[string]interface{}
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	type RegisterRequest struct {
		Name       string `json:"name"`
		EmployeeNo string `json:"employee_no"`
		JobType    string `json:"job_type"`
		Email      string `json:"email"`
		ContactNo  string `json:"contact_no"`
		Password   string `json:"password"`
	}

	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	// Validate
	if req.Name == "" || req.EmployeeNo == "" || req.Email == "" || req.Password == "" {
		return response.BadRequest(c, "Name, employee number, email and password are required")
	}
	if !utils.ValidEmail(req.Email) {
		return response.BadRequest(c, "Invalid email address")
	}
	if !utils.ValidContactNo(req.ContactNo) {
		return response.BadRequest(c, "Contact number must be 10 digits")
	}
	if len(req.Password) < 6 {
		return response.BadRequest(c, "Password must be at least 6 characters")
	}
	switch req.JobType {
	case models.JobSeller, models.JobDeliverer, models.JobDistributor, models.JobAdmin:
	default:
		return response.BadRequest(c, "Invalid job type")
	}

	collection := database.GetMongoCollection(models.ColUsers)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Employee number and email must be unique
	count, _ := collection.CountDocuments(ctx, bson.M{"$or": []bson.M{
		{"employee_no": req.EmployeeNo},
		{"email": req.Email},
	}})
	if count > 0 {
		return response.Error(c, 400, "An account with this employee number or email already exists")
	}

	hashedPassword, err := crypt.HashPassword(req.Password)
	if err != nil {
		return response.Error(c, 500, "Failed to hash password")
	}

	verifyToken, err := crypt.GenerateToken()
	if err != nil {
		return response.Error(c, 500, "Failed to generate verification token")
	}

	user := models.NewUser()
	user.Name = req.Name
	user.EmployeeNo = req.EmployeeNo
	user.JobType = req.JobType
	user.Email = req.Email
	user.ContactNo = req.ContactNo
	user.Password = hashedPassword
	user.VerifyToken = verifyToken

	_, err = collection.InsertOne(ctx, user)
	if err != nil {
		return response.Error(c, 500, "Failed to create account")
	}

	if err := mailer.SendVerification(user.Email, user.Name, verifyToken); err != nil {
		log.Printf("[Auth] Failed to send verification mail to %s: %v", user.Email, err)
	}

	return response.Success(c, 201, fiber.Map{
		"id":          user.ID.Hex(),
		"employee_no": user.EmployeeNo,
		"message":     "Account created. Check your email to verify it.",
	})
}

// Verify activates an account using the mailed token
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	type VerifyRequest struct {
		Email string `json:"email"`
		Token string `json:"token"`
	}

	var req VerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	collection := database.GetMongoCollection(models.ColUsers)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := collection.UpdateOne(ctx,
		bson.M{"email": req.Email, "verify_token": req.Token},
		bson.M{"$set": bson.M{"is_verified": true, "updated_at": time.Now()},
			"$unset": bson.M{"verify_token": ""}},
	)
	if err != nil {
		return response.Error(c, 500, "Failed to verify account")
	}
	if result.MatchedCount == 0 {
		return response.Error(c, 400, "Invalid verification token")
	}

	return response.SuccessWithMessage(c, 200, "Account verified. You can now log in.")
}

// Login authenticates a user
// @Summary Login
// @Description Authenticate user and get tokens
// @Tags Auth
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} map[string]interface{}
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	type LoginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	collection := database.GetMongoCollection(models.ColUsers)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	user := &models.User{}
	err := collection.FindOne(ctx, bson.M{"email": req.Email}).Decode(user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return response.Error(c, 400, "No account found for this email")
		}
		return response.Error(c, 500, "Failed to look up account")
	}

	if !crypt.CheckPassword(req.Password, user.Password) {
		return response.Error(c, 400, "Incorrect password")
	}

	if !user.IsVerified {
		return response.Error(c, 403, "Please verify your email before logging in")
	}

	if !user.IsActive {
		return response.Error(c, 403, "Account is deactivated")
	}

	tokenPair, err := jwt.GenerateTokenPair(user.ID.Hex(), user.EmployeeNo, user.JobType, user.Email)
	if err != nil {
		return response.Error(c, 500, "Failed to generate tokens")
	}

	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    tokenPair.RefreshToken,
		HTTPOnly: true,
		MaxAge:   int(config.Cfg.JWT.RefreshExpiry.Seconds()),
	})

	return response.SuccessWithData(c, 200, fiber.Map{
		"status":       200,
		"message":      "success",
		"id":           user.ID.Hex(),
		"name":         user.Name,
		"employee_no":  user.EmployeeNo,
		"job_type":     user.JobType,
		"access_token": tokenPair.AccessToken,
		"expires_in":   tokenPair.ExpiresIn,
	})
}

// Me returns current user info
// @Summary Get current user
// @Description Get authenticated user information
// @Tags Auth
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return response.Error(c, 400, "Invalid user ID")
	}

	collection := database.GetMongoCollection(models.ColUsers)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	user := &models.User{}
	err = collection.FindOne(ctx, bson.M{"_id": objID}).Decode(user)
	if err != nil {
		return response.NotFound(c, "User not found")
	}

	return response.SuccessWithData(c, 200, fiber.Map{
		"status":        200,
		"message":       "success",
		"id":            user.ID.Hex(),
		"name":          user.Name,
		"employee_no":   user.EmployeeNo,
		"job_type":      user.JobType,
		"email":         user.Email,
		"contact_no":    user.ContactNo,
		"profile_image": user.ProfileImage,
		"is_active":     user.IsActive,
		"created_at":    user.CreatedAt,
	})
}

// Refresh refreshes access token
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	refreshToken := c.Cookies("refresh_token")
	if refreshToken == "" {
		return response.Error(c, 401, "No refresh token")
	}

	claims, err := jwt.VerifyRefreshToken(refreshToken)
	if err != nil {
		return response.Unauthorized(c, "Invalid refresh token")
	}

	tokenPair, err := jwt.GenerateTokenPair(claims.UserID, claims.EmployeeNo, claims.JobType, claims.Email)
	if err != nil {
		return response.Error(c, 500, "Failed to generate tokens")
	}

	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    tokenPair.RefreshToken,
		HTTPOnly: true,
		MaxAge:   int(config.Cfg.JWT.RefreshExpiry.Seconds()),
	})

	return response.SuccessWithData(c, 200, fiber.Map{
		"status":       200,
		"message":      "success",
		"access_token": tokenPair.AccessToken,
		"expires_in":   tokenPair.ExpiresIn,
	})
}

// ForgotPassword mails a reset code to the account email
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	type ForgotRequest struct {
		Email string `json:"email"`
	}

	var req ForgotRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	collection := database.GetMongoCollection(models.ColUsers)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	user := &models.User{}
	err := collection.FindOne(ctx, bson.M{"email": req.Email}).Decode(user)
	if err != nil {
		return response.Error(c, 400, "No account found for this email")
	}

	code, err := crypt.GenerateOTP()
	if err != nil {
		return response.Error(c, 500, "Failed to generate reset code")
	}

	_, err = collection.UpdateOne(ctx,
		bson.M{"_id": user.ID},
		bson.M{"$set": bson.M{"reset_code": code, "updated_at": time.Now()}},
	)
	if err != nil {
		return response.Error(c, 500, "Failed to store reset code")
	}

	if err := mailer.SendOTP(user.Email, code); err != nil {
		return response.Error(c, 500, "Failed to send reset code")
	}

	return response.SuccessWithMessage(c, 200, "A reset code has been sent to your email")
}

// ResetPassword sets a new password using the mailed code
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	type ResetRequest struct {
		Email    string `json:"email"`
		Code     string `json:"code"`
		Password string `json:"password"`
	}

	var req ResetRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if len(req.Password) < 6 {
		return response.BadRequest(c, "Password must be at least 6 characters")
	}

	collection := database.GetMongoCollection(models.ColUsers)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	user := &models.User{}
	err := collection.FindOne(ctx, bson.M{"email": req.Email, "reset_code": req.Code}).Decode(user)
	if err != nil || req.Code == "" {
		return response.Error(c, 400, "Invalid reset code")
	}

	hashedPassword, err := crypt.HashPassword(req.Password)
	if err != nil {
		return response.Error(c, 500, "Failed to hash password")
	}

	_, err = collection.UpdateOne(ctx,
		bson.M{"_id": user.ID},
		bson.M{"$set": bson.M{"password": hashedPassword, "updated_at": time.Now()},
			"$unset": bson.M{"reset_code": ""}},
	)
	if err != nil {
		return response.Error(c, 500, "Failed to update password")
	}

	if err := mailer.SendPasswordChanged(user.Email, user.Name); err != nil {
		log.Printf("[Auth] Failed to send password-changed mail to %s: %v", user.Email, err)
	}

	return response.SuccessWithMessage(c, 200, "Password updated. You can now log in.")
}

// UploadProfileImage replaces the user's profile picture
func (h *AuthHandler) UploadProfileImage(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return response.Error(c, 400, "Invalid user ID")
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return response.BadRequest(c, "An image file is required")
	}

	collection := database.GetMongoCollection(models.ColUsers)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user := &models.User{}
	if err := collection.FindOne(ctx, bson.M{"_id": objID}).Decode(user); err != nil {
		return response.NotFound(c, "User not found")
	}

	oldPublicID := ""
	if user.ProfileImage != nil {
		oldPublicID = user.ProfileImage.PublicID
	}

	result, err := file.UpdateFile(oldPublicID, fileHeader, "profiles")
	if err != nil {
		return response.Error(c, 400, err.Error())
	}

	_, err = collection.UpdateOne(ctx,
		bson.M{"_id": objID},
		bson.M{"$set": bson.M{
			"profile_image": models.Image{PublicID: result.PublicID, URL: result.URL},
			"updated_at":    time.Now(),
		}},
	)
	if err != nil {
		return response.Error(c, 500, "Failed to save profile image")
	}

	return response.Success(c, 200, fiber.Map{"url": result.URL})
}

// ListUsers lists all users (admin only)
func (h *AuthHandler) ListUsers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	search := c.Query("search")
	jobType := c.Query("job_type")

	skip := (page - 1) * limit

	filter := bson.M{}
	if search != "" {
		filter["$or"] = []bson.M{
			{"name": bson.M{"$regex": search, "$options": "i"}},
			{"employee_no": bson.M{"$regex": search, "$options": "i"}},
			{"email": bson.M{"$regex": search, "$options": "i"}},
		}
	}
	if jobType != "" {
		filter["job_type"] = jobType
	}

	collection := database.GetMongoCollection(models.ColUsers)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	total, _ := collection.CountDocuments(ctx, filter)

	findOptions := options.Find().
		SetSkip(int64(skip)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := collection.Find(ctx, filter, findOptions)
	if err != nil {
		return response.Error(c, 500, "Failed to fetch users")
	}
	defer cursor.Close(ctx)

	var users []models.User
	cursor.All(ctx, &users)

	return response.SuccessWithPagination(c, 200, users, response.CalculatePagination(int64(page), int64(limit), total))
}

// UpdateUser updates a user (admin only)
func (h *AuthHandler) UpdateUser(c *fiber.Ctx) error {
	id := c.Params("id")

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	type UpdateRequest struct {
		Name      string `json:"name"`
		JobType   string `json:"job_type,omitempty"`
		ContactNo string `json:"contact_no,omitempty"`
		Password  string `json:"password,omitempty"`
		IsActive  *bool  `json:"is_active,omitempty"`
	}

	var req UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	collection := database.GetMongoCollection(models.ColUsers)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{"updated_at": time.Now()}
	if req.Name != "" {
		update["name"] = req.Name
	}
	if req.JobType != "" {
		switch req.JobType {
		case models.JobSeller, models.JobDeliverer, models.JobDistributor, models.JobAdmin:
			update["job_type"] = req.JobType
		default:
			return response.BadRequest(c, "Invalid job type")
		}
	}
	if req.ContactNo != "" {
		if !utils.ValidContactNo(req.ContactNo) {
			return response.BadRequest(c, "Contact number must be 10 digits")
		}
		update["contact_no"] = req.ContactNo
	}
	if req.Password != "" {
		hashedPassword, err := crypt.HashPassword(req.Password)
		if err != nil {
			return response.Error(c, 500, "Failed to hash password")
		}
		update["password"] = hashedPassword
	}
	if req.IsActive != nil {
		update["is_active"] = *req.IsActive
	}

	result, err := collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": update})
	if err != nil {
		return response.Error(c, 500, "Failed to update user")
	}
	if result.MatchedCount == 0 {
		return response.NotFound(c, "User not found")
	}

	return response.Success(c, 200, fiber.Map{
		"message": "User updated successfully",
	})
}

// DeleteUser deletes a user (admin only)
func (h *AuthHandler) DeleteUser(c *fiber.Ctx) error {
	id := c.Params("id")

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	collection := database.GetMongoCollection(models.ColUsers)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	err = collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&user)
	if err != nil {
		return response.NotFound(c, "User not found")
	}

	if user.JobType == models.JobAdmin {
		return response.Error(c, 400, "Cannot delete an admin account")
	}

	result, err := collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return response.Error(c, 500, "Failed to delete user")
	}
	if result.DeletedCount == 0 {
		return response.NotFound(c, "User not found")
	}

	return response.Success(c, 200, fiber.Map{
		"message": "User deleted successfully",
	})
}
