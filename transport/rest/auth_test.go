package rest

import (
	"encoding/json"
	"io/ioutil"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/peopledeck/deck"
	"github.com/peopledeck/deck/inmem"
	"github.com/peopledeck/deck/persistent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/buntdb"
)

func newSessionApp(t *testing.T, accessCode string) (*fiber.App, *inmem.ActivityStore) {
	db, err := buntdb.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	activity := inmem.NewActivityStore()
	store := &persistent.SessionStore{Buntdb: db, ActivityStore: &activity}
	controller := SessionController{Store: store, AccessCode: accessCode}
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	controller.InstallTo(RequestAuthorizer(store), app)
	return app, &activity
}

func Test_AdminSessionFlow(t *testing.T) {
	assert := assert.New(t)

	app, activity := newSessionApp(t, "")

	req := httptest.NewRequest("POST", "/session/admin", nil)
	resp, err := app.Test(req)
	if !assert.NoError(err) {
		return
	}
	defer resp.Body.Close()
	assert.Equal(fiber.StatusCreated, resp.StatusCode)

	created := struct {
		Id          string        `json:"id"`
		Roles       []deck.RoleId `json:"roles"`
		AccessToken string        `json:"accessToken"`
		ExpiresAt   int64         `json:"expiresAt"`
	}{}
	assert.NoError(json.NewDecoder(resp.Body).Decode(&created))
	assert.NotEmpty(created.Id)
	assert.NotEmpty(created.AccessToken)
	assert.Equal([]deck.RoleId{deck.RoleIdAdmin}, created.Roles)
	assert.Greater(created.ExpiresAt, int64(0))

	// entering admin mode leaves an audit trail
	logs := activity.All()
	if assert.Len(logs, 1) {
		assert.Equal("admin_session_created", logs[0].Name)
	}

	// the granted token authorizes the session endpoint
	req = httptest.NewRequest("GET", "/session", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+created.AccessToken)
	resp, err = app.Test(req)
	if !assert.NoError(err) {
		return
	}
	defer resp.Body.Close()
	assert.Equal(fiber.StatusOK, resp.StatusCode)

	body, err := ioutil.ReadAll(resp.Body)
	if !assert.NoError(err) {
		return
	}
	assert.Contains(string(body), `"id":"`+created.Id+`"`)
	assert.NotContains(string(body), created.AccessToken,
		"session meta must not leak the token")

	// leaving admin mode invalidates the grant
	req = httptest.NewRequest("POST", "/session/logout", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+created.AccessToken)
	resp, err = app.Test(req)
	if !assert.NoError(err) {
		return
	}
	defer resp.Body.Close()
	assert.Equal(fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest("GET", "/session", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+created.AccessToken)
	resp, err = app.Test(req)
	if !assert.NoError(err) {
		return
	}
	defer resp.Body.Close()
	assert.Equal(fiber.StatusUnauthorized, resp.StatusCode)
}

func Test_AdminAccessCode(t *testing.T) {
	assert := assert.New(t)

	app, _ := newSessionApp(t, "hunter2")

	cases := []struct {
		name         string
		body         string
		returnStatus int
	}{
		{name: "wrong code", body: `{"accessCode":"letmein"}`, returnStatus: fiber.StatusUnauthorized},
		{name: "right code", body: `{"accessCode":"hunter2"}`, returnStatus: fiber.StatusCreated},
	}
	for _, useCase := range cases {
		req := httptest.NewRequest("POST", "/session/admin", strings.NewReader(useCase.body))
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)
		if !assert.NoError(err, useCase.name) {
			return
		}
		defer resp.Body.Close()
		assert.Equal(useCase.returnStatus, resp.StatusCode, useCase.name)
	}
}

func Test_RequestAuthorizer(t *testing.T) {
	assert := assert.New(t)

	app, _ := newSessionApp(t, "")

	cases := []struct {
		name         string
		auth         string
		returnStatus int
	}{
		{name: "missing header", auth: "", returnStatus: fiber.StatusUnauthorized},
		{name: "wrong auth type", auth: "Basic dXNlcjpwYXNz", returnStatus: fiber.StatusBadRequest},
		{name: "unknown token", auth: "Bearer bogus", returnStatus: fiber.StatusUnauthorized},
	}
	for _, useCase := range cases {
		req := httptest.NewRequest("GET", "/session", nil)
		if useCase.auth != "" {
			req.Header.Set(fiber.HeaderAuthorization, useCase.auth)
		}
		resp, err := app.Test(req)
		if !assert.NoError(err, useCase.name) {
			return
		}
		defer resp.Body.Close()
		assert.Equal(useCase.returnStatus, resp.StatusCode, useCase.name)
	}
}
