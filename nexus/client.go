package nexus

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"modlist-manager/config"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const defaultTimeout = 10 * time.Second

// Client talks to the Nexus Mods public API. A Client is safe for
// concurrent use; WithAPIKey derives per-user clients sharing the same
// transport and circuit breaker.
type Client struct {
	BaseURL    string
	APIKey     string
	UserAgent  string
	HTTPClient *http.Client

	log *zap.SugaredLogger
	cb  *gobreaker.CircuitBreaker[[]byte]
}

// NewClient creates a client from configuration. log may be nil.
func NewClient(cfg config.Config, log *zap.SugaredLogger) (*Client, error) {
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("USERAGENT is not configured")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	baseURL := cfg.NexusBaseURL
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}
	timeout := defaultTimeout
	if cfg.RequestTimeout > 0 {
		timeout = time.Duration(cfg.RequestTimeout) * time.Second
	}

	return &Client{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		APIKey:    cfg.NexusAPIKey,
		UserAgent: cfg.UserAgent,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
		cb:  newBreaker(log),
	}, nil
}

// WithAPIKey returns a copy of c authenticating as another user.
func (c *Client) WithAPIKey(key string) *Client {
	clone := *c
	clone.APIKey = key
	return &clone
}

func (c *Client) makeRequest(ctx context.Context, method, path string, query, form url.Values, target any, requiresAuth bool) error {
	// Build the URL and body
	fullURL := c.BaseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.UserAgent) // Nexus rejects requests without one
	req.Header.Set("Accept", "application/json")
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if requiresAuth {
		if c.APIKey == "" {
			return ErrMissingAPIKey
		}
		req.Header.Set("apikey", c.APIKey) // Per-user key, not a bearer token
	}

	// Execute through the breaker; only retryable failures count against it
	data, err := c.cb.Execute(func() ([]byte, error) {
		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnreachable, err)
		}
		defer resp.Body.Close()

		// Read the whole body so error payloads can be reported
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read response: %w", ErrUnreachable, err)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, statusError(resp.StatusCode, raw)
		}
		return raw, nil
	})
	// An open breaker means Nexus is treated as unreachable
	if isBreakerRejection(err) {
		return fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	if err != nil {
		return err
	}

	// Decode JSON into the caller's target, if any
	if target != nil && len(data) > 0 {
		if err := json.Unmarshal(data, target); err != nil {
			return fmt.Errorf("%w: %w", ErrMalformedPayload, err)
		}
	}
	return nil
}

// ListGames returns every game known to Nexus.
func (c *Client) ListGames(ctx context.Context) ([]GameRecord, error) {
	var games []GameRecord
	if err := c.makeRequest(ctx, http.MethodGet, "/v1/games.json", nil, nil, &games, true); err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	return games, nil
}

// ListMods returns one listing for a game. Every failure is reported as
// ErrUnavailable so the caller can degrade that section alone.
func (c *Client) ListMods(ctx context.Context, domain string, category Category) ([]ModRecord, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}
	var mods []ModRecord
	path := fmt.Sprintf("/v1/games/%s/mods/%s.json", url.PathEscape(domain), category)
	if err := c.makeRequest(ctx, http.MethodGet, path, nil, nil, &mods, true); err != nil {
		c.log.Warnw("Mod listing unavailable", zap.String("domain", domain), zap.String("category", string(category)), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return mods, nil
}

// GetMod fetches a single mod including the caller's endorsement state.
func (c *Client) GetMod(ctx context.Context, domain string, modID int) (*ModDetailRecord, error) {
	var mod ModDetailRecord
	path := fmt.Sprintf("/v1/games/%s/mods/%d.json", url.PathEscape(domain), modID)
	if err := c.makeRequest(ctx, http.MethodGet, path, nil, nil, &mod, true); err != nil {
		return nil, fmt.Errorf("failed to get mod %d in %s: %w", modID, domain, err)
	}
	// Fall back to the requested identity when the payload omits it
	if mod.ModID == 0 {
		mod.ModID = modID
	}
	if mod.DomainName == "" {
		mod.DomainName = domain
	}
	return &mod, nil
}

// ListTrackedMods returns the user's Tracking Centre entries.
func (c *Client) ListTrackedMods(ctx context.Context) ([]TrackedModRef, error) {
	var refs []TrackedModRef
	if err := c.makeRequest(ctx, http.MethodGet, "/v1/user/tracked_mods.json", nil, nil, &refs, true); err != nil {
		return nil, fmt.Errorf("failed to list tracked mods: %w", err)
	}
	return refs, nil
}

// SetEndorsement endorses or abstains from endorsing a mod version.
func (c *Client) SetEndorsement(ctx context.Context, domain string, modID int, version string, action EndorseAction) error {
	if action != Endorse && action != Abstain {
		return fmt.Errorf("unknown endorse action %q", action)
	}
	path := fmt.Sprintf("/v1/games/%s/mods/%d/%s.json", url.PathEscape(domain), modID, action)
	form := url.Values{"version": {version}}
	if err := c.makeRequest(ctx, http.MethodPost, path, nil, form, nil, true); err != nil {
		return fmt.Errorf("failed to %s mod %d: %w", action, modID, err)
	}
	return nil
}

// SetTracking adds or removes a mod from the user's Tracking Centre.
func (c *Client) SetTracking(ctx context.Context, domain string, modID int, action TrackAction) error {
	method := http.MethodPost // Track
	if action == Untrack {
		method = http.MethodDelete
	}
	query := url.Values{"domain_name": {domain}}
	form := url.Values{"mod_id": {strconv.Itoa(modID)}}
	if err := c.makeRequest(ctx, method, "/v1/user/tracked_mods.json", query, form, nil, true); err != nil {
		return fmt.Errorf("failed to %s mod %d: %w", action, modID, err)
	}
	return nil
}
