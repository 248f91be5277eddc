package bgg

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"boardgame-sync/core/reconcile"
	"boardgame-sync/feature/sources"

	"go.uber.org/zap"
)

var (
	// ErrNoUsername is returned when no account is configured.
	ErrNoUsername = errors.New("bgg: username is required")
	// ErrUpstream wraps an error document returned by the API.
	ErrUpstream = errors.New("bgg: api error")
)

type collectionXML struct {
	XMLName    xml.Name
	TotalItems int        `xml:"totalitems,attr"`
	Items      []itemXML  `xml:"item"`
	Errors     []errorXML `xml:"error"`
}

type itemXML struct {
	ObjectID      string      `xml:"objectid,attr"`
	Subtype       string      `xml:"subtype,attr"`
	CollID        string      `xml:"collid,attr"`
	Name          string      `xml:"name"`
	YearPublished string      `xml:"yearpublished"`
	Version       *versionXML `xml:"version"`
}

type versionXML struct {
	Item struct {
		ID string `xml:"id,attr"`
	} `xml:"item"`
}

type errorXML struct {
	Message string `xml:"message"`
}

// Client reads collections from the XML API. It implements reconcile.Source.
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

// Provider returns reconcile.ProviderA.
func (c *Client) Provider() reconcile.Provider {
	return reconcile.ProviderA
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

	records, err := sources.Paginate(ctx, reconcile.ProviderA, c.cfg.PageSize, 0, c.fetchPage)
	c.logger.Debug("Fetched XML collection",
		zap.String("username", c.cfg.Username),
		zap.Int("records", len(records)),
		zap.Error(err),
	)
	return records, err
}

func (c *Client) pageURL(page int) string {
	q := url.Values{}
	q.Set("username", c.cfg.Username)
	q.Set("own", "1")
	q.Set("version", "1")
	q.Set("page", strconv.Itoa(page))
	if c.cfg.PageSize > 0 {
		q.Set("pagesize", strconv.Itoa(c.cfg.PageSize))
	}
	return strings.TrimRight(c.cfg.BaseURL, "/") + "/collection?" + q.Encode()
}

func (c *Client) fetchPage(ctx context.Context, page int) ([]reconcile.RawRecord, error) {
	body, err := c.fetcher.Get(ctx, c.pageURL(page), func(r *http.Request) {
		r.Header.Set("Accept", "application/xml")
		if c.cfg.Token != "" {
			r.Header.Set("Authorization", "Bearer "+c.cfg.Token)
		}
	})
	if err != nil {
		return nil, err
	}
	return decodeCollection(body)
}

func decodeCollection(body []byte) ([]reconcile.RawRecord, error) {
	var doc collectionXML
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode collection: %w", err)
	}

	switch doc.XMLName.Local {
	case "items":
	case "errors":
		messages := make([]string, 0, len(doc.Errors))
		for _, e := range doc.Errors {
			messages = append(messages, strings.TrimSpace(e.Message))
		}
		return nil, fmt.Errorf("%w: %s", ErrUpstream, strings.Join(messages, "; "))
	default:
		return nil, fmt.Errorf("%w: unexpected document <%s>", ErrUpstream, doc.XMLName.Local)
	}

	records := make([]reconcile.RawRecord, 0, len(doc.Items))
	for _, item := range doc.Items {
		rec := reconcile.RawRecord{
			ID:         item.ObjectID,
			Name:       item.Name,
			Kind:       item.Subtype,
			Attributes: map[string]string{},
		}
		if item.Version != nil && item.Version.Item.ID != "" {
			rec.VariantID = item.Version.Item.ID
		}
		if year := strings.TrimSpace(item.YearPublished); year != "" {
			rec.Attributes["year"] = year
		}
		if item.CollID != "" {
			rec.Attributes["collection_id"] = item.CollID
		}
		records = append(records, rec)
	}
	return records, nil
}
