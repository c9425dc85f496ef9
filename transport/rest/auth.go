package rest

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/peopledeck/deck"
)

const sessionLocalsKey = "session"

// SessionController turns the admin mode flag into a session-scoped
// grant: entering admin mode registers a short-lived session whose token
// authorizes every mutation endpoint.
type SessionController struct {
	Store deck.SessionStore

	// AccessCode gates admin mode when non-empty.
	AccessCode string
}

func (c *SessionController) InstallTo(requestAuthorizer fiber.Handler, app *fiber.App) {
	app.Post("/session/admin", c.serveEnterAdminMode)
	app.Get("/session", combineHandlers(requestAuthorizer, c.serveCurrentSession))
	app.Post("/session/logout", combineHandlers(requestAuthorizer, c.serveLogout))
}

func (c *SessionController) serveEnterAdminMode(ctx *fiber.Ctx) error {
	if c.AccessCode != "" {
		body := struct {
			AccessCode string `json:"accessCode"`
		}{}
		if err := ctx.BodyParser(&body); err != nil {
			requestLog(ctx).WithError(err).Infoln("Invalid body.")
			return fiber.NewError(fiber.StatusBadRequest, "invalid body")
		}
		if subtle.ConstantTimeCompare([]byte(body.AccessCode), []byte(c.AccessCode)) != 1 {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid access code")
		}
	}

	roles := deck.Roles{deck.AllRoles[deck.RoleIdAdmin]}
	session, err := c.Store.RegisterNew(ctx.Context(), roles, ctx.IP(), string(ctx.Request().Header.UserAgent()))
	if err != nil {
		return fmt.Errorf("session register new: %w", err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(map[string]interface{}{
		"id":          session.Id,
		"roles":       session.Roles.Ids(),
		"accessToken": session.Token,
		"expiresAt":   session.ExpiresAt.Unix(),
	})
}

func (c *SessionController) serveCurrentSession(ctx *fiber.Ctx) error {
	session, ok := ctx.Locals(sessionLocalsKey).(deck.Session)
	if !ok {
		return fiber.ErrUnauthorized
	}

	// session meta without the authorization token
	type SessionMeta struct {
		Id             string        `json:"id"`
		Roles          []deck.RoleId `json:"roles"`
		Ip             string        `json:"ip"`
		UserAgent      string        `json:"userAgent"`
		LastAccessedAt int64         `json:"lastAccessedAt"`
		ExpiresAt      int64         `json:"expiresAt"`
	}
	return ctx.JSON(SessionMeta{
		Id:             session.Id,
		Roles:          session.Roles.Ids(),
		Ip:             session.Ip,
		UserAgent:      session.UserAgent,
		LastAccessedAt: session.LastAccessedAt.Unix(),
		ExpiresAt:      session.ExpiresAt.Unix(),
	})
}

func (c *SessionController) serveLogout(ctx *fiber.Ctx) error {
	session, ok := ctx.Locals(sessionLocalsKey).(deck.Session)
	if !ok {
		return fiber.ErrUnauthorized
	}
	err := c.Store.InvalidateByAuthToken(session.Token)
	if err != nil && !errors.Is(err, deck.ErrSessionNotFound) {
		return fmt.Errorf("session invalidate: %w", err)
	}
	return nil
}

func RequestAuthorizer(sessionStore deck.SessionStore) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		auth := ctx.Get(fiber.HeaderAuthorization)
		if auth == "" {
			return fiber.ErrUnauthorized
		}
		if !strings.HasPrefix(auth, "Bearer ") {
			return fiber.NewError(fiber.ErrBadRequest.Code, "invalid auth type")
		}
		token := strings.TrimPrefix(auth, "Bearer ")

		session, err := sessionStore.AcquireAndRefresh(ctx.Context(), token, ctx.IP(),
			string(ctx.Request().Header.UserAgent()))
		if err != nil {
			if errors.Is(err, deck.ErrSessionNotFound) {
				return fiber.ErrUnauthorized
			} else {
				return fmt.Errorf("acquire and refresh session: %s", err)
			}
		}

		requestLog(ctx).
			WithField("session_id", session.Id).
			Infoln("Authorized access.")

		ctx.Locals(sessionLocalsKey, session)
		return nil
	}
}

func requirePermission(permission deck.PermissionName) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		session, ok := ctx.Locals(sessionLocalsKey).(deck.Session)
		if !ok {
			return fiber.ErrUnauthorized
		}
		if session.Roles.Access(permission) != deck.AccessAllowed {
			return fiber.ErrForbidden
		}
		return nil
	}
}
