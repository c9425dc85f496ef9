package rest

import (
	"github.com/gofiber/fiber/v2"
	"github.com/peopledeck/deck"
)

type LocationController struct{}

func (c *LocationController) InstallTo(app *fiber.App) {
	app.Get("/locations", c.serveLocations)
	app.Get("/locations/resolve", c.serveResolveLocation)
}

func (c *LocationController) serveLocations(ctx *fiber.Ctx) error {
	return ctx.JSON(deck.Locations)
}

func (c *LocationController) serveResolveLocation(ctx *fiber.Ctx) error {
	query := ctx.Query("q")
	if query == "" {
		return fiber.NewError(fiber.StatusBadRequest, "no location query")
	}
	return ctx.JSON(deck.ResolveLocation(query))
}
