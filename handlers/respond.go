package handlers

import (
	"clan-league-system/services"
	"clan-league-system/utils"

	"github.com/gofiber/fiber/v2"
)

// fail maps a service error onto the wire: taxonomy status + short message.
func fail(c *fiber.Ctx, err error) error {
	return c.Status(services.StatusFor(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// parseAndValidate binds the JSON body into req and runs struct validation.
// On failure the error response is already written and false is returned.
func parseAndValidate(c *fiber.Ctx, req interface{}) bool {
	if err := c.BodyParser(req); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid JSON",
			"cause": err.Error(),
		})
		return false
	}
	if err := utils.Validate.Struct(req); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": utils.ParseValidationError(err),
		})
		return false
	}
	return true
}

func userID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}
