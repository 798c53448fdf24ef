package handlers

import (
	"clan-league-system/middleware"
	"clan-league-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupClanRoutes(app *fiber.App, clanService *services.ClanService) {
	// 🔓 Public routes — still behind gateway auth, no user context needed
	app.Get("/clans", func(c *fiber.Ctx) error {
		clans, err := clanService.ListClans()
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(clans)
	})
	app.Get("/clans/:id", func(c *fiber.Ctx) error {
		clan, err := clanService.GetClan(c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(clan)
	})

	// 🔐 Authenticated routes
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Post("/clans", func(c *fiber.Ctx) error {
		var req services.CreateClanRequest
		if !parseAndValidate(c, &req) {
			return nil
		}
		clan, err := clanService.CreateClan(userID(c), req)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(clan)
	})

	secured.Patch("/clans/:id", func(c *fiber.Ctx) error {
		var req services.UpdateClanRequest
		if !parseAndValidate(c, &req) {
			return nil
		}
		clan, err := clanService.UpdateClan(userID(c), c.Params("id"), req)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(clan)
	})

	secured.Post("/clans/:id/logo", func(c *fiber.Ctx) error {
		file, err := c.FormFile("logo")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "logo file missing",
				"cause": err.Error(),
			})
		}
		clan, err := clanService.UpdateLogo(userID(c), c.Params("id"), file)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(clan)
	})

	secured.Get("/users/me/clan", func(c *fiber.Ctx) error {
		clan, err := clanService.MemberClan(userID(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(clan)
	})

	// Invitations
	secured.Post("/clans/:id/invitations", func(c *fiber.Ctx) error {
		var req struct {
			Email string `json:"email" validate:"required,email"`
		}
		if !parseAndValidate(c, &req) {
			return nil
		}
		inv, err := clanService.InviteMember(userID(c), c.Params("id"), req.Email)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(inv)
	})

	secured.Post("/invitations/:id/accept", func(c *fiber.Ctx) error {
		if err := clanService.AcceptInvitation(userID(c), c.Params("id")); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"message": "invitation accepted"})
	})

	secured.Post("/invitations/:id/decline", func(c *fiber.Ctx) error {
		if err := clanService.DeclineInvitation(userID(c), c.Params("id")); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"message": "invitation declined"})
	})

	secured.Get("/users/me/invitations", func(c *fiber.Ctx) error {
		email := c.Query("email")
		invs, err := clanService.PendingInvitations(email)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(invs)
	})

	// Roster management
	secured.Delete("/clans/:id/members/:user_id", func(c *fiber.Ctx) error {
		if err := clanService.KickMember(userID(c), c.Params("id"), c.Params("user_id")); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"message": "member removed"})
	})

	secured.Post("/clans/:id/leave", func(c *fiber.Ctx) error {
		if err := clanService.LeaveClan(userID(c), c.Params("id")); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"message": "left clan"})
	})

	secured.Post("/clans/:id/captain/:user_id", func(c *fiber.Ctx) error {
		if err := clanService.TransferCaptaincy(userID(c), c.Params("id"), c.Params("user_id")); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"message": "captaincy transferred"})
	})
}
