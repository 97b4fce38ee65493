package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benbeisheim/chesslib-backend/internal/testutil"
)

func newApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Use(RequestLogger(testutil.QuietLogger()))
	app.Get("/whoami", EnsurePlayerID(), func(c *fiber.Ctx) error {
		id, _ := PlayerID(c)
		return c.SendString(id)
	})
	app.Get("/ws/:gameId", EnsurePlayerID(), WebSocketUpgrade(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestEnsurePlayerID(t *testing.T) {
	app := newApp()

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(PlayerIDHeader, "alice")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/whoami?playerId=bob", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/whoami", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "UNAUTHORIZED", body.Error.Code)
}

func TestPlayerIDSurvivesLaterRequests(t *testing.T) {
	var seen []string
	app := fiber.New()
	app.Get("/seat", EnsurePlayerID(), func(c *fiber.Ctx) error {
		id, _ := PlayerID(c)
		seen = append(seen, id)
		return c.SendStatus(fiber.StatusOK)
	})

	for _, id := range []string{"alice", "bobby", "carol", "qqqqq"} {
		req := httptest.NewRequest(http.MethodGet, "/seat", nil)
		req.Header.Set(PlayerIDHeader, id)
		_, err := app.Test(req)
		require.NoError(t, err)
	}
	for _, id := range []string{"dave1", "erin2"} {
		_, err := app.Test(httptest.NewRequest(http.MethodGet, "/seat?playerId="+id, nil))
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"alice", "bobby", "carol", "qqqqq", "dave1", "erin2"}, seen)
}

func TestErrorHandlerMapsFiberErrors(t *testing.T) {
	app := newApp()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body map[string]map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "NOT_FOUND", body["error"]["code"])
}

func TestRequestIDIsEchoed(t *testing.T) {
	app := newApp()
	req := httptest.NewRequest(http.MethodGet, "/whoami?playerId=bob", nil)
	req.Header.Set(RequestIDHeader, "abc123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "abc123", resp.Header.Get(RequestIDHeader))
}

func TestWebSocketUpgradeRequiresUpgrade(t *testing.T) {
	app := newApp()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ws/g1?playerId=bob", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)
}
