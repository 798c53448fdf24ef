package handlers

import (
	"strconv"

	"clan-league-system/middleware"
	"clan-league-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupMatchRoutes(app *fiber.App, matchService *services.MatchService) {
	// 🔓 Public reads
	app.Get("/matches", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "20"))
		matches, err := matchService.RecentMatches(limit)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(matches)
	})
	app.Get("/matches/:id", func(c *fiber.Ctx) error {
		match, err := matchService.GetMatch(c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(match)
	})
	app.Get("/clans/:id/matches", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "50"))
		matches, err := matchService.ClanMatches(c.Params("id"), limit)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(matches)
	})

	// 🔐 Reporting — only the losing clan reports
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Post("/matches/report-loss", func(c *fiber.Ctx) error {
		var req services.ReportLossRequest
		if !parseAndValidate(c, &req) {
			return nil
		}
		req.IdempotencyKey = c.Get("Idempotency-Key")

		match, err := matchService.ReportLoss(userID(c), req)
		if err != nil {
			return fail(c, err)
		}
		// power_win is surfaced so the client can show the bonus notice
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"match":     match,
			"power_win": match.PowerWin,
		})
	})
}
