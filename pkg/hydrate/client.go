// Package hydrate keeps a local snapshot of the landing-page content in
// sync with the server. It loads everything once at startup, reloads
// individual collections when the event stream reports a change, and
// falls back to a periodic full reload so a missed event can never leave
// the snapshot stale forever.
package hydrate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/verdantlabs/verdant/internal/content"
	"github.com/verdantlabs/verdant/pkg/errors"
)

// Client is a thin reader for the content API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a read client for the given server base URL, e.g.
// "http://localhost:8080".
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// apiEnvelope is the {data, error} wrapper every endpoint responds with.
type apiEnvelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// get fetches path and decodes the data payload into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", path, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", path, err)
	}
	defer resp.Body.Close()

	var envelope apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return &errors.APIError{StatusCode: resp.StatusCode, Endpoint: path, Message: "undecodable response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		msg := "request failed"
		if envelope.Error != nil {
			msg = envelope.Error.Message
		}
		return &errors.APIError{StatusCode: resp.StatusCode, Endpoint: path, Message: msg}
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return &errors.APIError{StatusCode: resp.StatusCode, Endpoint: path, Message: "undecodable data payload", Err: err}
		}
	}
	return nil
}

// Products fetches the product list.
func (c *Client) Products(ctx context.Context) ([]content.Product, error) {
	var out []content.Product
	err := c.get(ctx, content.KindProduct.Path(), &out)
	return out, err
}

// Brands fetches the brand list with categories populated.
func (c *Client) Brands(ctx context.Context) ([]content.Brand, error) {
	var out []content.Brand
	err := c.get(ctx, content.KindBrand.Path()+"?populate=categories", &out)
	return out, err
}

// Categories fetches the category list with the owning brand populated.
func (c *Client) Categories(ctx context.Context) ([]content.Category, error) {
	var out []content.Category
	err := c.get(ctx, content.KindCategory.Path()+"?populate=brand", &out)
	return out, err
}

// Testimonials fetches the testimonial list.
func (c *Client) Testimonials(ctx context.Context) ([]content.Testimonial, error) {
	var out []content.Testimonial
	err := c.get(ctx, content.KindTestimonial.Path(), &out)
	return out, err
}

// Features fetches the feature list.
func (c *Client) Features(ctx context.Context) ([]content.Feature, error) {
	var out []content.Feature
	err := c.get(ctx, content.KindFeature.Path(), &out)
	return out, err
}

// SiteSetting fetches the site settings singleton.
func (c *Client) SiteSetting(ctx context.Context) (content.SiteSetting, error) {
	var out content.SiteSetting
	err := c.get(ctx, content.KindSiteSetting.Path(), &out)
	return out, err
}

// HeroSection fetches the hero section singleton.
func (c *Client) HeroSection(ctx context.Context) (content.HeroSection, error) {
	var out content.HeroSection
	err := c.get(ctx, content.KindHeroSection.Path(), &out)
	return out, err
}

// Health probes the server liveness endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/_health", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("health probe: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &errors.APIError{StatusCode: resp.StatusCode, Endpoint: "/_health", Message: "unhealthy"}
	}
	return nil
}
