package integrity

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"boardgame-sync/core/storage/mocks"
	"boardgame-sync/feature/integrity/checks"
	"boardgame-sync/feature/matches"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T, migrate bool) (*fiber.App, *mocks.Client) {
	client := new(mocks.Client)
	app := fiber.New()
	NewHandler(NewService(client, "test-bucket", setupDB(t, migrate), zap.NewNop())).RegisterRoutes(app)
	return app, client
}

func TestHandleStructureCheck(t *testing.T) {
	app, client := setupTestApp(t, true)
	client.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
	client.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(emptyListing())

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/structure", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "checked", body["status"])
	assert.Len(t, body["missing"], 2)
	client.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleStructureCheck_Fix(t *testing.T) {
	app, client := setupTestApp(t, true)
	client.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
	client.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(emptyListing())
	client.On("PutObject", mock.Anything, "test-bucket", mock.Anything, mock.Anything, int64(0), mock.Anything).Return(minio.UploadInfo{}, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/structure?fix=true", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "fixed", body["status"])
	client.AssertNumberOfCalls(t, "PutObject", 2)
}

func TestHandleSchemaCheck(t *testing.T) {
	t.Run("Migrated", func(t *testing.T) {
		app, _ := setupTestApp(t, true)

		resp, err := app.Test(httptest.NewRequest("GET", "/integrity/schema", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var report checks.SchemaReport
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
		assert.True(t, report.Matched)
	})

	t.Run("Not Migrated", func(t *testing.T) {
		app, _ := setupTestApp(t, false)

		resp, err := app.Test(httptest.NewRequest("GET", "/integrity/schema", nil))
		require.NoError(t, err)

		var report checks.SchemaReport
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
		assert.False(t, report.Matched)
		assert.Equal(t, "error", report.Tables[matches.TableName].Status)
	})
}

func TestHandleIntegrityCheck(t *testing.T) {
	app := fiber.New()
	NewHandler(NewService(nil, "", setupDB(t, true), zap.NewNop())).RegisterRoutes(app)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "skipped", body["structure"]["status"])
	assert.Equal(t, true, body["schema"]["matched"])
}

func TestHandleStructureCheck_NoStorage(t *testing.T) {
	app := fiber.New()
	NewHandler(NewService(nil, "", nil, zap.NewNop())).RegisterRoutes(app)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/structure", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
