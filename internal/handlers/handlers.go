package handlers

import (
	"distro-go/internal/lib/response"
	"distro-go/internal/workflow"

	"github.com/gofiber/fiber/v2"
)

// workflowError maps a workflow failure onto the response envelope. The
// message is surfaced verbatim so the apps can show it to the user.
func workflowError(c *fiber.Ctx, err error) error {
	switch {
	case workflow.IsValidation(err):
		return response.BadRequest(c, err.Error())
	case workflow.IsNotFound(err):
		return response.NotFound(c, err.Error())
	default:
		return response.InternalError(c, "")
	}
}
