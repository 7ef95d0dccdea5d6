// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package registry is the Companies House API client. Every outbound call
// funnels through it: authentication, client-side rate limiting, response
// caching, and the retry policy all live here so callers see only typed
// records or a FetchError.
package registry

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/company-lens/pkg/types"
)

// rateLimitDelays is the wait schedule after consecutive 429 responses.
// Declared as a var so tests can shrink the waits.
var rateLimitDelays = []time.Duration{10 * time.Second, 30 * time.Second, 60 * time.Second}

// transientRetryDelay is the pause before retrying a 5xx or network failure.
// Declared as a var so tests can shrink the wait.
var transientRetryDelay = 5 * time.Second

// maxTransientRetries bounds retries on 5xx and network failures.
const maxTransientRetries = 3

// Cache is the response cache the client writes through. Implementations
// are opaque to callers; a nil cache disables caching.
type Cache interface {
	// Get returns the cached body for key when present and younger than ttl.
	Get(key string, ttl time.Duration) ([]byte, bool)

	// Set stores body under key with the current timestamp.
	Set(key string, body []byte)
}

// Client wraps all Companies House endpoints used by the analysis.
type Client struct {
	cfg     types.RegistryConfig
	http    *http.Client
	limiter *rate.Limiter
	cache   Cache
	auth    string
	log     *slog.Logger
}

// New builds a Client from cfg. cache may be nil; log may be nil for a
// discard logger.
func New(cfg types.RegistryConfig, cache Cache, log *slog.Logger) *Client {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	window := cfg.RateWindow
	if window <= 0 {
		window = 5 * time.Minute
	}
	limit := cfg.RateLimit
	if limit <= 0 {
		limit = 600
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(float64(limit)/window.Seconds()), limit),
		cache:   cache,
		auth:    "Basic " + base64.StdEncoding.EncodeToString([]byte(cfg.APIKey+":")),
		log:     log,
	}
}

// RateLimitRemaining estimates how many requests the client may still issue
// without waiting.
func (c *Client) RateLimitRemaining() int {
	return int(c.limiter.Tokens())
}

// get performs one cached, rate-limited, retried GET against the registry.
// bypassCache forces a fresh fetch; responses are still written back to the
// cache. Retries are local to this call: 429 responses wait out the fixed
// backoff schedule, 5xx and transport errors (timeouts included) retry up
// to maxTransientRetries with a flat delay, and 404 returns immediately as
// a not-found FetchError.
func (c *Client) get(ctx context.Context, path string, params url.Values, bypassCache bool) ([]byte, error) {
	key := path
	if len(params) > 0 {
		key = path + "?" + params.Encode()
	}

	if c.cache != nil && !bypassCache {
		if body, ok := c.cache.Get(key, c.cfg.CacheTTL); ok {
			c.log.Debug("cache hit", "path", path)
			return body, nil
		}
	}

	reqURL := c.cfg.BaseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	rateLimited := 0
	transient := 0
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Authorization", c.auth)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.cfg.UserAgent)

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if transient < maxTransientRetries {
				transient++
				c.log.Warn("registry request failed, retrying", "path", path, "attempt", transient, "error", err)
				if werr := sleep(ctx, transientRetryDelay); werr != nil {
					return nil, werr
				}
				continue
			}
			return nil, &FetchError{Kind: KindNetworkError, Path: path, Err: err}
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			if readErr != nil {
				return nil, &FetchError{Kind: KindNetworkError, Path: path, Err: readErr}
			}
			if c.cache != nil {
				c.cache.Set(key, body)
			}
			return body, nil

		case resp.StatusCode == http.StatusNotFound:
			return nil, &FetchError{Kind: KindNotFound, Path: path, Status: resp.StatusCode}

		case resp.StatusCode == http.StatusTooManyRequests:
			if rateLimited < len(rateLimitDelays) {
				delay := rateLimitDelays[rateLimited]
				rateLimited++
				c.log.Warn("registry rate limited, backing off", "path", path, "delay", delay, "attempt", rateLimited)
				if werr := sleep(ctx, delay); werr != nil {
					return nil, werr
				}
				continue
			}
			return nil, &FetchError{
				Kind:       KindRateLimited,
				Path:       path,
				Status:     resp.StatusCode,
				RetryAfter: retryAfter(resp),
			}

		default:
			if transient < maxTransientRetries {
				transient++
				c.log.Warn("registry server error, retrying", "path", path, "status", resp.StatusCode, "attempt", transient)
				if werr := sleep(ctx, transientRetryDelay); werr != nil {
					return nil, werr
				}
				continue
			}
			return nil, &FetchError{
				Kind:       KindServerError,
				Path:       path,
				Status:     resp.StatusCode,
				RetryAfter: retryAfter(resp),
			}
		}
	}
}

// getJSON fetches path and decodes the response into out.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, bypassCache bool, out any) error {
	body, err := c.get(ctx, path, params, bypassCache)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

// GetCompany fetches a company profile. bypassCache forces a fresh read;
// the filing-discipline dimension needs this because the overdue flags go
// stale in cached copies.
func (c *Client) GetCompany(ctx context.Context, companyNumber string, bypassCache bool) (*types.CompanyProfile, error) {
	var profile types.CompanyProfile
	if err := c.getJSON(ctx, "/company/"+companyNumber, nil, bypassCache, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetOfficers fetches all officers of a company.
func (c *Client) GetOfficers(ctx context.Context, companyNumber string) (*types.OfficerList, error) {
	params := url.Values{"items_per_page": {"100"}}
	var list types.OfficerList
	if err := c.getJSON(ctx, "/company/"+companyNumber+"/officers", params, false, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetAppointments fetches all company appointments for an officer.
func (c *Client) GetAppointments(ctx context.Context, officerID string) (*types.AppointmentList, error) {
	params := url.Values{"items_per_page": {"50"}}
	var list types.AppointmentList
	if err := c.getJSON(ctx, "/officers/"+officerID+"/appointments", params, false, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetDisqualifications fetches disqualification orders against an officer.
// Officers with no orders come back as not-found.
func (c *Client) GetDisqualifications(ctx context.Context, officerID string) (*types.DisqualificationRecord, error) {
	var rec types.DisqualificationRecord
	if err := c.getJSON(ctx, "/disqualified-officers/natural/"+officerID, nil, false, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetInsolvency fetches insolvency case details for a company.
func (c *Client) GetInsolvency(ctx context.Context, companyNumber string) (*types.InsolvencyRecord, error) {
	var rec types.InsolvencyRecord
	if err := c.getJSON(ctx, "/company/"+companyNumber+"/insolvency", nil, false, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetPSCs fetches persons with significant control for a company.
func (c *Client) GetPSCs(ctx context.Context, companyNumber string) (*types.PSCList, error) {
	var list types.PSCList
	if err := c.getJSON(ctx, "/company/"+companyNumber+"/persons-with-significant-control", nil, false, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetPSCStatements fetches PSC statements, which flag incomplete PSC
// information.
func (c *Client) GetPSCStatements(ctx context.Context, companyNumber string) (*types.PSCStatementList, error) {
	var list types.PSCStatementList
	if err := c.getJSON(ctx, "/company/"+companyNumber+"/persons-with-significant-control-statements", nil, false, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetFilingHistory fetches filing history, optionally filtered by category.
func (c *Client) GetFilingHistory(ctx context.Context, companyNumber, category string) (*types.FilingList, error) {
	params := url.Values{"items_per_page": {"100"}}
	if category != "" {
		params.Set("category", category)
	}
	var list types.FilingList
	if err := c.getJSON(ctx, "/company/"+companyNumber+"/filing-history", params, false, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetCharges fetches all charges registered against a company.
func (c *Client) GetCharges(ctx context.Context, companyNumber string) (*types.ChargeList, error) {
	var list types.ChargeList
	if err := c.getJSON(ctx, "/company/"+companyNumber+"/charges", nil, false, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetRegisteredOffice fetches the current registered office address.
func (c *Client) GetRegisteredOffice(ctx context.Context, companyNumber string) (*types.Address, error) {
	var addr types.Address
	if err := c.getJSON(ctx, "/company/"+companyNumber+"/registered-office-address", nil, false, &addr); err != nil {
		return nil, err
	}
	return &addr, nil
}

// sleep waits for d or until ctx is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// retryAfter parses the Retry-After header as whole seconds.
func retryAfter(resp *http.Response) time.Duration {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
