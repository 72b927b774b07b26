package gitlab

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/gitlab-search/internal/core/domain"
	"github.com/custodia-labs/gitlab-search/internal/core/ports/driven"
	"github.com/custodia-labs/gitlab-search/internal/logger"
)

const (
	// MaxRetries is the maximum number of retries for 429 responses.
	MaxRetries = 3

	// RetryDelay is the initial delay between retries.
	RetryDelay = time.Second

	// maxErrorBody bounds how much of an error response is read.
	maxErrorBody = 4 << 10

	userAgent = "gitlab-search"
)

// Ensure Client implements the interface.
var _ driven.GitLab = (*Client)(nil)

// Client is a GitLab REST API client. It is safe for concurrent use.
type Client struct {
	baseURL     string
	http        *http.Client
	rateLimiter *RateLimiter
	log         *logger.Logger
	maxRetries  int
	retryDelay  time.Duration
}

// NewClient creates a client for the instance described by cfg.
// log is optional (can be nil).
func NewClient(cfg domain.Config, log *logger.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		baseURL:     cfg.BaseURL(),
		http:        newHTTPClient(cfg),
		rateLimiter: NewRateLimiter(cfg.RateLimit),
		log:         log,
		maxRetries:  MaxRetries,
		retryDelay:  RetryDelay,
	}, nil
}

// RateLimiter returns the rate limiter for external access.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

type groupJSON struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	FullPath string `json:"full_path"`
}

type projectJSON struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	WebURL   string `json:"web_url"`
	Archived bool   `json:"archived"`
}

type blobJSON struct {
	Data      string `json:"data"`
	Filename  string `json:"filename"`
	Ref       string `json:"ref"`
	Startline int    `json:"startline"`
}

// ListGroups returns one page of the groups visible to the token.
func (c *Client) ListGroups(ctx context.Context, opts driven.ListOptions) ([]domain.Group, error) {
	var page []groupJSON
	if err := c.get(ctx, "/groups", pageQuery(opts), &page); err != nil {
		return nil, err
	}

	groups := make([]domain.Group, 0, len(page))
	for _, g := range page {
		name := g.Name
		if name == "" {
			name = g.FullPath
		}
		groups = append(groups, domain.Group{ID: strconv.Itoa(g.ID), Name: name})
	}
	return groups, nil
}

// ListGroupProjects returns one page of the projects of a group.
// groupID is a numeric ID or a full path such as "acme/tools".
func (c *Client) ListGroupProjects(ctx context.Context, groupID string, opts driven.ProjectListOptions) ([]domain.Project, error) {
	query := pageQuery(opts.ListOptions)
	if opts.Archived != nil {
		query.Set("archived", strconv.FormatBool(*opts.Archived))
	}

	var page []projectJSON
	if err := c.get(ctx, "/groups/"+url.PathEscape(groupID)+"/projects", query, &page); err != nil {
		return nil, err
	}

	projects := make([]domain.Project, 0, len(page))
	for _, p := range page {
		projects = append(projects, domain.Project{
			ID:       p.ID,
			Name:     p.Name,
			WebURL:   p.WebURL,
			Archived: p.Archived,
		})
	}
	return projects, nil
}

// SearchBlobs searches the default branch of a project for query.
func (c *Client) SearchBlobs(ctx context.Context, projectID int, query string) ([]domain.SearchResult, error) {
	params := url.Values{}
	params.Set("scope", "blobs")
	params.Set("search", query)

	var blobs []blobJSON
	if err := c.get(ctx, "/projects/"+strconv.Itoa(projectID)+"/search", params, &blobs); err != nil {
		return nil, err
	}

	results := make([]domain.SearchResult, 0, len(blobs))
	for _, b := range blobs {
		results = append(results, domain.SearchResult{
			Data:      b.Data,
			Filename:  b.Filename,
			Ref:       b.Ref,
			Startline: b.Startline,
		})
	}
	return results, nil
}

// ValidateCredentials checks the token by fetching the current user.
func (c *Client) ValidateCredentials(ctx context.Context) error {
	var user struct {
		Username string `json:"username"`
	}
	if err := c.get(ctx, "/user", nil, &user); err != nil {
		return fmt.Errorf("validate credentials: %w", err)
	}
	c.log.Debug("Authenticated as %s", user.Username)
	return nil
}

func pageQuery(opts driven.ListOptions) url.Values {
	query := url.Values{}
	if opts.Page > 0 {
		query.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.PerPage > 0 {
		query.Set("per_page", strconv.Itoa(opts.PerPage))
	}
	return query
}

// get performs a GET request against path and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set(HeaderRequestID, requestID)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.doWithRetry(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	c.log.Debug("GET %s -> %d (request %s)", path, resp.StatusCode, requestID)

	if err := c.rateLimiter.CheckRateLimit(resp); err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp),
			URL:        path,
			RequestID:  requestID,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// doWithRetry sends req, retrying 429 responses with exponential
// backoff. Retry-After is honoured when it asks for a longer wait. After
// the last retry the 429 response itself is returned.
func (c *Client) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		resp, err := c.http.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests || attempt >= c.maxRetries {
			return resp, nil
		}

		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		c.rateLimiter.UpdateFromResponse(resp)

		backoff := time.Duration(math.Pow(2, float64(attempt))) * c.retryDelay
		if after := RetryAfter(resp); after > backoff {
			backoff = after
		}
		c.log.Debug("Rate limited on %s, retrying in %v (attempt %d/%d)", req.URL.Path, backoff, attempt+1, c.maxRetries)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// errorMessage extracts GitLab's "message" or "error" field, falling
// back to the status text.
func errorMessage(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(body) == 0 {
		return http.StatusText(resp.StatusCode)
	}

	var payload struct {
		Message any    `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil {
		switch m := payload.Message.(type) {
		case string:
			if m != "" {
				return m
			}
		case nil:
		default:
			if b, err := json.Marshal(m); err == nil {
				return string(b)
			}
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(body))
}
