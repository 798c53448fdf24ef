package handlers

import (
	"clan-league-system/middleware"
	"clan-league-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupSeasonRoutes(app *fiber.App, seasonService *services.SeasonService, matchService *services.MatchService) {
	// 🔓 Public reads
	app.Get("/seasons", func(c *fiber.Ctx) error {
		seasons, err := seasonService.ListSeasons()
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(seasons)
	})
	app.Get("/seasons/current", func(c *fiber.Ctx) error {
		season, err := seasonService.CurrentSeason()
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(season)
	})
	app.Get("/seasons/:id/standings/clans", func(c *fiber.Ctx) error {
		rows, err := seasonService.ClanStandings(c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(rows)
	})
	app.Get("/seasons/:id/standings/warriors", func(c *fiber.Ctx) error {
		rows, err := seasonService.WarriorStandings(c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(rows)
	})
	app.Get("/seasons/:id/matches", func(c *fiber.Ctx) error {
		matches, err := matchService.SeasonMatches(c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(matches)
	})
	app.Get("/badges/:target_id", func(c *fiber.Ctx) error {
		badges, err := seasonService.BadgesFor(c.Params("target_id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(badges)
	})

	// 🔒 Season lifecycle is admin-only and always explicit — closing is never
	// triggered by a clock.
	admin := app.Group("/admin", middleware.UserContextMiddleware(), middleware.AdminOnlyMiddleware())

	admin.Post("/seasons", func(c *fiber.Ctx) error {
		var req services.StartSeasonRequest
		if !parseAndValidate(c, &req) {
			return nil
		}
		season, err := seasonService.StartNewSeason(userID(c), req)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(season)
	})

	admin.Post("/seasons/:id/close", func(c *fiber.Ctx) error {
		if err := seasonService.CloseSeason(userID(c), c.Params("id")); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"message": "season closed"})
	})
}
