package matches_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"boardgame-sync/core/database"
	"boardgame-sync/core/reconcile"
	"boardgame-sync/feature/matches"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var scope = reconcile.Scope{AccountA: "alice", AccountB: "alice-b"}

func setupApp(t *testing.T) (*fiber.App, *matches.Store) {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	store := matches.NewStore(db, zap.NewNop())
	require.NoError(t, store.Migrate())

	feature := matches.NewFeature(db, scope, zap.NewNop())
	assert.Equal(t, "matches", feature.Name())
	assert.True(t, feature.IsEnabled())

	app := fiber.New()
	require.NoError(t, feature.Load(app))
	return app, store
}

func postPair(t *testing.T, app *fiber.App, body string) *httptestResponse {
	req := httptest.NewRequest("POST", "/matches", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	data, _ := io.ReadAll(resp.Body)
	return &httptestResponse{status: resp.StatusCode, body: data}
}

type httptestResponse struct {
	status int
	body   []byte
}

func TestHandleAddManual(t *testing.T) {
	app, store := setupApp(t)

	resp := postPair(t, app, `{"a_id":"13","a_name":"Catan","b_id":"9","b_name":"Settlers"}`)
	assert.Equal(t, fiber.StatusCreated, resp.status)

	var res reconcile.ProposeResult
	require.NoError(t, json.Unmarshal(resp.body, &res))
	require.Len(t, res.Accepted, 1)
	assert.Equal(t, reconcile.MatchManual, res.Accepted[0].MatchType)

	resp = postPair(t, app, `{"a_id":"14","b_id":"9"}`)
	assert.Equal(t, fiber.StatusConflict, resp.status)
	require.NoError(t, json.Unmarshal(resp.body, &res))
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, reconcile.RejectBSideClaimed, res.Rejected[0].Reason)
	assert.Equal(t, "13", res.Rejected[0].ConflictingID)

	resp = postPair(t, app, `{"a_id":"","b_id":"9"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.status)

	resp = postPair(t, app, `not json`)
	assert.Equal(t, fiber.StatusBadRequest, resp.status)

	all, err := store.ListMatches(context.Background(), scope)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestHandleListRemoveClear(t *testing.T) {
	app, store := setupApp(t)
	ctx := context.Background()

	res, err := store.ProposeMatches(ctx, scope, []reconcile.Candidate{
		{AProviderID: "1", BProviderID: "9"},
		{AProviderID: "2", BProviderID: "8"},
	})
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", "/matches", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var listed []reconcile.MatchRecord
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	assert.Len(t, listed, 2)

	id := res.Accepted[0].ID
	resp, err = app.Test(httptest.NewRequest("DELETE", "/matches/"+itoa(id), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/matches/"+itoa(id), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/matches/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/matches", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/matches?confirm=true", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var cleared map[string]int64
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cleared))
	assert.Equal(t, int64(1), cleared["deleted"])
}

func TestFeatureDisabledWithoutDB(t *testing.T) {
	feature := matches.NewFeature(nil, scope, zap.NewNop())
	assert.False(t, feature.IsEnabled())
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
