package rest

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/peopledeck/deck"
)

type ActivityController struct {
	Store deck.ActivityStore
}

func (c *ActivityController) InstallTo(requestAuthorizer fiber.Handler, app *fiber.App) {
	app.Get("/activity", combineHandlers(
		requestAuthorizer, requirePermission(deck.PermissionActivityView), c.serveRecentActivity))
}

func (c *ActivityController) serveRecentActivity(ctx *fiber.Ctx) error {
	limit := 50
	if limitStr := ctx.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid limit")
		}
		if parsed < limit {
			limit = parsed
		}
	}

	logs, err := c.Store.Recent(ctx.Context(), limit)
	if err != nil {
		return fmt.Errorf("get recent activity: %w", err)
	}

	type Log struct {
		Id        int64                  `json:"id"`
		CreatedAt int64                  `json:"createdAt"`
		Name      string                 `json:"name"`
		Data      map[string]interface{} `json:"data,omitempty"`
	}
	mapped := make([]Log, len(logs))
	for i, log := range logs {
		mapped[i] = Log{Id: log.Id, CreatedAt: log.CreatedAt.Unix(), Name: log.Name, Data: log.Data}
	}
	return ctx.JSON(mapped)
}
