package rest

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/peopledeck/deck"
)

// ProfileController serves the directory grid, the detail and map
// overlays and the admin-gated mutations.
type ProfileController struct {
	Directory *deck.Directory

	// MapsApiKey feeds the embedded map view. Empty key still yields
	// textual search links.
	MapsApiKey string
}

func (c *ProfileController) InstallTo(requestAuthorizer fiber.Handler, app *fiber.App) {
	app.Get("/profiles", c.serveProfiles)
	app.Get("/profiles/:id", c.serveProfile)
	app.Get("/profiles/:id/map", c.serveProfileMap)

	write := combineHandlers(requestAuthorizer, requirePermission(deck.PermissionDirectoryWrite))
	app.Post("/profiles", combineHandlers(write, c.serveCreateProfile))
	app.Put("/profiles/:id", combineHandlers(write, c.serveUpdateProfile))
	app.Delete("/profiles/:id", combineHandlers(write, c.serveDeleteProfile))
}

func (c *ProfileController) serveProfiles(ctx *fiber.Ctx) error {
	profiles, err := c.Directory.All(ctx.Context())
	if err != nil {
		return fmt.Errorf("load profiles: %w", err)
	}
	filtered := deck.Search(profiles, ctx.Query("search"))

	return ctx.JSON(map[string]interface{}{
		"total":    len(profiles),
		"matched":  len(filtered),
		"profiles": filtered,
	})
}

func (c *ProfileController) serveProfile(ctx *fiber.Ctx) error {
	profile, err := c.profileByKey(ctx)
	if err != nil {
		return err
	}

	// detail overlay payload: placeholder photo substituted, interests
	// pre-split into tags
	response := struct {
		deck.Profile
		InterestTags []string `json:"interestTags"`
	}{Profile: profile, InterestTags: profile.InterestTags()}
	response.PhotoUrl = profile.PhotoOrPlaceholder()
	return ctx.JSON(response)
}

func (c *ProfileController) serveProfileMap(ctx *fiber.Ctx) error {
	profile, err := c.profileByKey(ctx)
	if err != nil {
		return err
	}

	place := deck.ResolveLocation(profile.Location)
	payload := map[string]interface{}{
		"location": place,
		"mapsUrl":  place.SearchURL(),
	}
	// without an api key there is no embeddable view, only the search link
	if c.MapsApiKey != "" {
		payload["embedUrl"] = place.EmbedURL(c.MapsApiKey)
	}
	return ctx.JSON(payload)
}

func (c *ProfileController) serveCreateProfile(ctx *fiber.Ctx) error {
	var profile deck.Profile
	if err := ctx.BodyParser(&profile); err != nil {
		requestLog(ctx).WithError(err).Infoln("Invalid body.")
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	created, err := c.Directory.Create(ctx.Context(), profile)
	if err != nil {
		return mutationError(err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(created)
}

func (c *ProfileController) serveUpdateProfile(ctx *fiber.Ctx) error {
	key, err := profileKey(ctx)
	if err != nil {
		return err
	}
	var profile deck.Profile
	if err := ctx.BodyParser(&profile); err != nil {
		requestLog(ctx).WithError(err).Infoln("Invalid body.")
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	if legacyEmailKey(key) && profile.Id == "" {
		// legacy record addressed by email. the email field stays frozen
		// while editing, so the body must carry the same address.
		if profile.Email != key {
			return fiber.NewError(fiber.StatusBadRequest, deck.ErrEmailImmutable.Error())
		}
	} else {
		profile.Id = deck.ProfileId(key)
	}

	if err := c.Directory.Update(ctx.Context(), profile); err != nil {
		return mutationError(err)
	}
	return ctx.JSON(profile)
}

func (c *ProfileController) serveDeleteProfile(ctx *fiber.Ctx) error {
	// destructive and irreversible. the explicit confirmation flag is
	// the only safeguard.
	if ctx.Query("confirm") != "true" {
		return fiber.NewError(fiber.StatusBadRequest, "delete requires confirmation")
	}
	key, err := profileKey(ctx)
	if err != nil {
		return err
	}

	target := deck.Profile{Id: deck.ProfileId(key)}
	if legacyEmailKey(key) {
		target = deck.Profile{Email: key}
	}
	if err := c.Directory.Delete(ctx.Context(), target); err != nil {
		return mutationError(err)
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *ProfileController) profileByKey(ctx *fiber.Ctx) (deck.Profile, error) {
	key, err := profileKey(ctx)
	if err != nil {
		return deck.Profile{}, err
	}
	profiles, err := c.Directory.All(ctx.Context())
	if err != nil {
		return deck.Profile{}, fmt.Errorf("load profiles: %w", err)
	}
	for _, profile := range profiles {
		if string(profile.Id) == key {
			return profile, nil
		}
		if profile.Id == "" && profile.Email == key {
			return profile, nil
		}
	}
	return deck.Profile{}, fiber.NewError(fiber.StatusNotFound, "profile not found")
}

func profileKey(ctx *fiber.Ctx) (string, error) {
	encoded := ctx.Params("id")
	if encoded == "" {
		return "", fiber.NewError(fiber.StatusBadRequest, "no profile id")
	}
	key, err := url.PathUnescape(encoded)
	if err != nil {
		return "", fmt.Errorf("unescape profile id: %s", err)
	}
	return key, nil
}

// ids are uuids, so a key carrying "@" can only address a legacy
// id-less record by its email.
func legacyEmailKey(key string) bool {
	return strings.Contains(key, "@")
}

func mutationError(err error) error {
	switch {
	case errors.Is(err, deck.ErrProfileInvalid), errors.Is(err, deck.ErrEmailImmutable):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, deck.ErrProfileExists):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, deck.ErrProfileNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	default:
		// storage failures are surfaced with the underlying message, the
		// in-memory view may be ahead of the slot until the next reload
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
