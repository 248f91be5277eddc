package jsonapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"boardgame-sync/core/reconcile"
	"boardgame-sync/core/utils"
	"boardgame-sync/feature/sources"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// ErrNoUsername is returned when no account is configured.
var ErrNoUsername = errors.New("jsonapi: username is required")

type pageResponse struct {
	Data []gameJSON `json:"data"`
}

// gameJSON mirrors one collection entry. Upstream is loose with types, so
// flags and numbers are decoded as any.
type gameJSON struct {
	ID          any    `json:"id"`
	VariantID   any    `json:"variant_id"`
	Name        string `json:"name"`
	Title       string `json:"title"`
	Type        string `json:"type"`
	IsExpansion any    `json:"is_expansion"`
	Year        any    `json:"year"`
}

// Client reads collections from the JSON API. It implements reconcile.Source.
type Client struct {
	cfg     Config
	fetcher *sources.Fetcher
	logger  *zap.Logger
}

// NewClient creates a client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg: cfg,
		fetcher: sources.NewFetcher(sources.Options{
			Timeout:    cfg.timeout(),
			PageDelay:  cfg.pageDelay(),
			MaxRetries: cfg.MaxRetries,
			RetryDelay: cfg.retryDelay(),
		}, logger),
		logger: logger,
	}
}

// Provider returns reconcile.ProviderB.
func (c *Client) Provider() reconcile.Provider {
	return reconcile.ProviderB
}

// Account returns the configured username.
func (c *Client) Account() string {
	return c.cfg.Username
}

// FetchCollection returns every owned item of the configured user.
func (c *Client) FetchCollection(ctx context.Context) ([]reconcile.RawRecord, error) {
	if strings.TrimSpace(c.cfg.Username) == "" {
		return nil, ErrNoUsername
	}

	records, err := sources.Paginate(ctx, reconcile.ProviderB, c.cfg.PageSize, 0, c.fetchPage)
	c.logger.Debug("Fetched JSON collection",
		zap.String("username", c.cfg.Username),
		zap.Int("records", len(records)),
		zap.Error(err),
	)
	return records, err
}

func (c *Client) pageURL(page int) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	if c.cfg.PageSize > 0 {
		q.Set("per_page", strconv.Itoa(c.cfg.PageSize))
	}
	return strings.TrimRight(c.cfg.BaseURL, "/") + "/users/" + url.PathEscape(c.cfg.Username) + "/collection?" + q.Encode()
}

func (c *Client) fetchPage(ctx context.Context, page int) ([]reconcile.RawRecord, error) {
	body, err := c.fetcher.Get(ctx, c.pageURL(page), func(r *http.Request) {
		r.Header.Set("Accept", "application/json")
		if c.cfg.Token != "" {
			r.Header.Set("Authorization", "Bearer "+c.cfg.Token)
		}
	})
	if err != nil {
		return nil, err
	}

	var resp pageResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode page %d: %w", page, err)
	}

	records := make([]reconcile.RawRecord, 0, len(resp.Data))
	for _, g := range resp.Data {
		records = append(records, toRaw(g))
	}
	return records, nil
}

func toRaw(g gameJSON) reconcile.RawRecord {
	name := g.Name
	if strings.TrimSpace(name) == "" {
		name = g.Title
	}

	kind := g.Type
	if utils.ToBool(g.IsExpansion) {
		kind = string(reconcile.KindExpansion)
	}

	attrs := map[string]string{}
	if year := utils.ToInt(g.Year); year > 0 {
		attrs["year"] = strconv.Itoa(year)
	}

	return reconcile.RawRecord{
		ID:         g.ID,
		VariantID:  g.VariantID,
		Name:       name,
		Kind:       kind,
		Attributes: attrs,
	}
}
