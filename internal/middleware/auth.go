package middleware

import (
	"strings"

	"distro-go/internal/lib/jwt"
	"distro-go/internal/lib/response"
	"distro-go/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AuthGuard validates the bearer token and stores the claims on the context
func AuthGuard() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "Missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return response.Unauthorized(c, "Invalid authorization header")
		}

		claims, err := jwt.VerifyAccessToken(parts[1])
		if err != nil {
			return response.Unauthorized(c, "Invalid or expired token")
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("employee_no", claims.EmployeeNo)
		c.Locals("job_type", claims.JobType)
		c.Locals("email", claims.Email)

		return c.Next()
	}
}

// JobGuard restricts a route to the given job types. Must run after
// AuthGuard.
func JobGuard(jobTypes ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		jobType := GetJobType(c)

		for _, allowed := range jobTypes {
			if jobType == allowed {
				return c.Next()
			}
		}

		return response.Forbidden(c, "Insufficient permissions")
	}
}

// GetUserID returns the authenticated user's ID from context
func GetUserID(c *fiber.Ctx) string {
	if id, ok := c.Locals("user_id").(string); ok {
		return id
	}
	return ""
}

// GetEmployeeNo returns the authenticated user's employee number
func GetEmployeeNo(c *fiber.Ctx) string {
	if no, ok := c.Locals("employee_no").(string); ok {
		return no
	}
	return ""
}

// GetJobType returns the authenticated user's job type
func GetJobType(c *fiber.Ctx) string {
	if jt, ok := c.Locals("job_type").(string); ok {
		return jt
	}
	return ""
}

// GetEmail returns the authenticated user's email
func GetEmail(c *fiber.Ctx) string {
	if email, ok := c.Locals("email").(string); ok {
		return email
	}
	return ""
}

// GetSession bundles the claims into the session object the workflow layer
// takes.
func GetSession(c *fiber.Ctx) models.Session {
	return models.Session{
		UserID:     GetUserID(c),
		EmployeeNo: GetEmployeeNo(c),
		JobType:    GetJobType(c),
		Email:      GetEmail(c),
	}
}
