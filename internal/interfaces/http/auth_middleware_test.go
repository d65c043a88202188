package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/pharmstock/pharmstock-api/internal/interfaces/http"
	pkgjwt "github.com/pharmstock/pharmstock-api/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = int64(42)
	testUserName  = "Ravi"
	testIssuer    = "pharmstock-test"
	testExpMin    = 60
)

// buildTestApp wires a minimal Fiber app with the actor middleware and a
// handler that echoes the resolved actor.
func buildTestApp() *fiber.App {
	app := fiber.New()
	app.Get("/whoami", apphttp.ActorMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		actor := apphttp.GetActor(c)
		return c.JSON(fiber.Map{"id": actor.ID, "name": actor.Name})
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, headers map[string]string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeActor(t *testing.T, resp *http.Response) (int64, string) {
	t.Helper()
	var body struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.ID, body.Name
}

func TestActorMiddleware_BearerTokenResolvesActor(t *testing.T) {
	app := buildTestApp()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testUserName, testIssuer, testExpMin)
	require.NoError(t, err)

	resp := doRequest(t, app, map[string]string{"Authorization": "Bearer " + tok})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	id, name := decodeActor(t, resp)
	assert.Equal(t, testUserID, id)
	assert.Equal(t, testUserName, name)
}

func TestActorMiddleware_InvalidTokenRejected(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, map[string]string{"Authorization": "Bearer not.a.token"})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestActorMiddleware_ExpiredTokenRejected(t *testing.T) {
	app := buildTestApp()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testUserName, testIssuer, -1)
	require.NoError(t, err)

	resp := doRequest(t, app, map[string]string{"Authorization": "Bearer " + tok})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestActorMiddleware_MalformedHeaderRejected(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, map[string]string{"Authorization": "Token abc"})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestActorMiddleware_GatewayHeadersResolveActor(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, map[string]string{
		"X-User-ID":   "7",
		"X-User-Name": "Priya",
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	id, name := decodeActor(t, resp)
	assert.Equal(t, int64(7), id)
	assert.Equal(t, "Priya", name)
}

func TestActorMiddleware_BadGatewayHeaderRejected(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, map[string]string{"X-User-ID": "abc"})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestActorMiddleware_NoCredentialsFallsBackToSystem(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	id, name := decodeActor(t, resp)
	assert.Equal(t, int64(0), id)
	assert.Equal(t, "System", name)
}

func TestJWT_GenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testUserName, testIssuer, testExpMin)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	id, name, err := pkgjwt.Parse(testJWTSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, testUserID, id)
	assert.Equal(t, testUserName, name)
}

func TestJWT_WrongSecretRejected(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testUserName, testIssuer, testExpMin)
	require.NoError(t, err)

	_, _, err = pkgjwt.Parse("a-completely-different-secret", tok)
	assert.Error(t, err)
}
