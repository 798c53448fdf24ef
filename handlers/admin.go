package handlers

import (
	"strconv"

	"clan-league-system/middleware"
	"clan-league-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(app *fiber.App, adminService *services.AdminService) {
	// 🔒 Admin console — user context + admin role on every route
	admin := app.Group("/admin", middleware.UserContextMiddleware(), middleware.AdminOnlyMiddleware())

	admin.Delete("/clans/:id", func(c *fiber.Ctx) error {
		if err := adminService.DeleteClan(userID(c), c.Params("id")); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"message": "clan deleted, counterpart stats repaired"})
	})

	admin.Delete("/users/:id", func(c *fiber.Ctx) error {
		if err := adminService.DeleteUser(userID(c), c.Params("id")); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"message": "user deleted"})
	})

	admin.Post("/clans/:id/recalculate", func(c *fiber.Ctx) error {
		if err := adminService.RecalculateClanStats(c.Params("id")); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"message": "clan stats recalculated"})
	})

	admin.Post("/warriors/:id/recalculate", func(c *fiber.Ctx) error {
		if err := adminService.RecalculateWarriorStats(c.Params("id")); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"message": "warrior stats recalculated"})
	})

	type adjustRequest struct {
		Delta  int    `json:"delta" validate:"required,ne=0"`
		Reason string `json:"reason" validate:"required,max=255"`
	}

	admin.Post("/clans/:id/adjust-points", func(c *fiber.Ctx) error {
		var req adjustRequest
		if !parseAndValidate(c, &req) {
			return nil
		}
		if err := adminService.AdjustClanPoints(userID(c), c.Params("id"), req.Delta, req.Reason); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"message": "points adjusted"})
	})

	admin.Post("/clans/:id/adjust-power-wins", func(c *fiber.Ctx) error {
		var req adjustRequest
		if !parseAndValidate(c, &req) {
			return nil
		}
		if err := adminService.AdjustPowerWins(userID(c), c.Params("id"), req.Delta, req.Reason); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"message": "power wins adjusted"})
	})

	admin.Patch("/users/:id/role", func(c *fiber.Ctx) error {
		var req struct {
			Role string `json:"role" validate:"required,oneof=user admin"`
		}
		if !parseAndValidate(c, &req) {
			return nil
		}
		if err := adminService.SetUserRole(userID(c), c.Params("id"), req.Role); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"message": "role updated"})
	})

	admin.Get("/actions", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "100"))
		actions, err := adminService.ListActions(limit)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(actions)
	})
}
