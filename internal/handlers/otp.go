package handlers

import (
	"distro-go/internal/lib/crypt"
	"distro-go/internal/lib/mailer"
	"distro-go/internal/lib/response"
	"distro-go/internal/lib/utils"

	"github.com/gofiber/fiber/v2"
)

// OTPHandler handles the standalone one-time code side channel
type OTPHandler struct{}

// NewOTPHandler creates a new OTP handler
func NewOTPHandler() *OTPHandler {
	return &OTPHandler{}
}

// Send mails a 6-digit code to the given address and returns it to the
// caller, which verifies it locally.
func (h *OTPHandler) Send(c *fiber.Ctx) error {
	type SendRequest struct {
		Email string `json:"email"`
	}

	var req SendRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if !utils.ValidEmail(req.Email) {
		return response.BadRequest(c, "Invalid email address")
	}

	code, err := crypt.GenerateOTP()
	if err != nil {
		return response.Error(c, 500, "Failed to generate code")
	}

	if err := mailer.SendOTP(req.Email, code); err != nil {
		return response.Error(c, 500, "Failed to send code")
	}

	return response.Success(c, 200, fiber.Map{"otp": code})
}
