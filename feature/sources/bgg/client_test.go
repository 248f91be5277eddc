package bgg

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"boardgame-sync/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func item(id, name, subtype string) string {
	return fmt.Sprintf(`<item objecttype="thing" objectid="%s" subtype="%s" collid="c%s"><name sortindex="1">%s</name><yearpublished>1995</yearpublished></item>`, id, subtype, id, name)
}

func itemsDoc(items ...string) string {
	return `<?xml version="1.0" encoding="utf-8" standalone="yes"?><items totalitems="` +
		fmt.Sprint(len(items)) + `">` + strings.Join(items, "") + `</items>`
}

func testConfig(baseURL string) Config {
	return Config{
		BaseURL:        baseURL,
		Username:       "alice",
		PageSize:       2,
		MaxRetries:     3,
		TimeoutSeconds: 5,
	}
}

func TestClient_FetchCollection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/collection", r.URL.Path)
		assert.Equal(t, "alice", r.URL.Query().Get("username"))
		assert.Equal(t, "2", r.URL.Query().Get("pagesize"))

		switch r.URL.Query().Get("page") {
		case "1":
			_, _ = w.Write([]byte(itemsDoc(item("13", "Catan", "boardgame"), item("926", "Catan: Seafarers", "boardgameexpansion"))))
		case "2":
			_, _ = w.Write([]byte(itemsDoc(`<item objectid="822" subtype="boardgame"><name>Carcassonne</name><version><item type="boardgameversion" id="4711"/></version></item>`)))
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
		}
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), zap.NewNop())
	assert.Equal(t, reconcile.ProviderA, c.Provider())
	assert.Equal(t, "alice", c.Account())

	records, err := c.FetchCollection(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "13", records[0].ID)
	assert.Equal(t, "Catan", records[0].Name)
	assert.Equal(t, "1995", records[0].Attributes["year"])
	assert.Equal(t, "c13", records[0].Attributes["collection_id"])
	assert.Nil(t, records[0].VariantID)

	games, invalid := reconcile.NormalizeAll(reconcile.ProviderA, records)
	assert.Zero(t, invalid)
	assert.Equal(t, reconcile.KindExpansion, games[1].Kind)
	assert.Equal(t, "4711", games[2].VariantID)
}

func TestClient_RetriesWhileProcessing(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusAccepted)
			_, _ = w.Write([]byte(`<message>Your request for this collection has been accepted and will be processed.</message>`))
			return
		}
		_, _ = w.Write([]byte(itemsDoc(item("13", "Catan", "boardgame"))))
	}))
	defer srv.Close()

	records, err := NewClient(testConfig(srv.URL), zap.NewNop()).FetchCollection(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_ErrorDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<errors><error><message>Invalid username specified</message></error></errors>`))
	}))
	defer srv.Close()

	_, err := NewClient(testConfig(srv.URL), zap.NewNop()).FetchCollection(context.Background())
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Contains(t, err.Error(), "Invalid username specified")
}

func TestClient_PartialFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			_, _ = w.Write([]byte(itemsDoc(item("1", "A", "boardgame"), item("2", "B", "boardgame"))))
			return
		}
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	records, err := NewClient(testConfig(srv.URL), zap.NewNop()).FetchCollection(context.Background())
	assert.Len(t, records, 2)

	var partial *reconcile.PartialError
	require.True(t, errors.As(err, &partial))
	assert.Equal(t, 1, partial.Pages)
}

func TestClient_RequiresUsername(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "http://127.0.0.1:1"}, zap.NewNop()).FetchCollection(context.Background())
	assert.ErrorIs(t, err, ErrNoUsername)
}

func TestClient_BearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(itemsDoc()))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Token = "secret"
	records, err := NewClient(cfg, zap.NewNop()).FetchCollection(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}
