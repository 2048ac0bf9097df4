// Package analytics reports an anonymous page view through the GA4
// Measurement Protocol. Reporting is best effort and never blocks the UI.
package analytics

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/charmbracelet/log"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// Placeholder is the unconfigured measurement id shipped in the default
// config. It disables reporting like an empty id does.
const Placeholder = "G-XXXXXXXXXX"

// DefaultEndpoint is the GA4 collection URL.
const DefaultEndpoint = "https://www.google-analytics.com/mp/collect"

// Config holds the analytics settings.
type Config struct {
	MeasurementID string
	APISecret     string

	// Endpoint overrides DefaultEndpoint.
	Endpoint string

	// Attempts is the number of tries per event (defaults to 2)
	Attempts uint
}

// Enabled reports whether id names a real measurement stream.
func Enabled(id string) bool {
	id = strings.TrimSpace(id)
	return id != "" && id != Placeholder
}

// Client sends events for a single anonymous client id.
type Client struct {
	cfg      Config
	http     *resty.Client
	clientID string
}

// New returns a Client, or nil when reporting is disabled.
func New(cfg Config) *Client {
	if !Enabled(cfg.MeasurementID) {
		return nil
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Attempts == 0 {
		cfg.Attempts = 2
	}

	return &Client{
		cfg:      cfg,
		http:     resty.New().SetTimeout(5 * time.Second),
		clientID: uuid.NewString(),
	}
}

type event struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params,omitempty"`
}

type payload struct {
	ClientID string  `json:"client_id"`
	Events   []event `json:"events"`
}

// PageView reports one page_view for title.
func (c *Client) PageView(ctx context.Context, title string) error {
	if c == nil {
		return nil
	}

	body := payload{
		ClientID: c.clientID,
		Events: []event{{
			Name: "page_view",
			Params: map[string]any{
				"page_title":           title,
				"engagement_time_msec": 1,
			},
		}},
	}

	return retry.Do(
		func() error {
			res, err := c.http.R().
				SetContext(ctx).
				SetQueryParam("measurement_id", c.cfg.MeasurementID).
				SetQueryParam("api_secret", c.cfg.APISecret).
				SetHeader("Content-Type", "application/json").
				SetBody(body).
				Post(c.cfg.Endpoint)
			if err != nil {
				return fmt.Errorf("client.R.Post > %w", err)
			}
			if res.StatusCode() >= http.StatusInternalServerError {
				return fmt.Errorf("status code: %d", res.StatusCode())
			}
			if res.IsError() {
				return retry.Unrecoverable(fmt.Errorf("status code: %d", res.StatusCode()))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.cfg.Attempts),
		retry.Delay(200*time.Millisecond),
		retry.LastErrorOnly(true),
	)
}

// Report sends a page view in the background. Failures are logged at debug
// level and otherwise ignored. The returned channel is closed when the
// report is done.
func (c *Client) Report(ctx context.Context, title string) <-chan struct{} {
	done := make(chan struct{})
	if c == nil {
		close(done)
		return done
	}

	go func() {
		defer close(done)
		if err := c.PageView(ctx, title); err != nil {
			log.Debug("analytics page view failed", "err", err)
			return
		}
		log.Debug("analytics page view sent", "title", title)
	}()
	return done
}
