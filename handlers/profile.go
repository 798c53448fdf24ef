package handlers

import (
	"strconv"

	"clan-league-system/middleware"
	"clan-league-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupProfileRoutes(app *fiber.App, profileService *services.ProfileService, feedService *services.FeedService, authClient *services.AuthServiceClient) {
	// 🔓 Public reads
	app.Get("/warriors", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "100"))
		profiles, err := profileService.WarriorRankings(limit)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(profiles)
	})
	app.Get("/warriors/:id", func(c *fiber.Ctx) error {
		prof, err := profileService.GetProfile(c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(prof)
	})

	// Registration push from the auth service (gateway token only, no user
	// context): creates the local mirror row without waiting for the next
	// sync tick. Idempotent.
	app.Post("/internal/profiles", func(c *fiber.Ctx) error {
		var req struct {
			UserID   string `json:"user_id" validate:"required"`
			Nickname string `json:"nickname" validate:"required"`
			Email    string `json:"email" validate:"required,email"`
		}
		if !parseAndValidate(c, &req) {
			return nil
		}
		prof, err := profileService.EnsureProfile(req.UserID, req.Nickname, req.Email)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(prof)
	})

	// 🔐 Authenticated routes
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/users/me", func(c *fiber.Ctx) error {
		prof, err := profileService.GetProfile(userID(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(prof)
	})

	secured.Patch("/users/me/nickname", func(c *fiber.Ctx) error {
		var req struct {
			Nickname string `json:"nickname" validate:"required"`
		}
		if !parseAndValidate(c, &req) {
			return nil
		}
		prof, err := profileService.ChangeNickname(userID(c), req.Nickname)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(prof)
	})

	secured.Post("/users/me/avatar", func(c *fiber.Ctx) error {
		file, err := c.FormFile("avatar")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "avatar file missing",
				"cause": err.Error(),
			})
		}
		prof, err := profileService.UpdateAvatar(userID(c), file)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(prof)
	})

	secured.Post("/users/me/heartbeat", func(c *fiber.Ctx) error {
		if err := profileService.Heartbeat(userID(c)); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"message": "ok"})
	})

	// 📡 Realtime change feed — EventSource clients authenticate via query
	// params against the auth service
	app.Get("/feed/:table/stream", middleware.SSEAuthMiddleware(authClient), feedService.StreamTableChanges)
}
