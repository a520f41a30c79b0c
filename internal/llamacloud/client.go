// Package llamacloud provides a minimal client for the LlamaCloud REST API.
// It only covers what llamacloud-mcp needs: resolving projects, retrieving from
// managed indexes (pipelines) and running LlamaExtract agents.
package llamacloud

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the LlamaCloud API endpoint used when none is configured.
	DefaultBaseURL = "https://api.cloud.llamaindex.ai"

	// DefaultProjectName is the project LlamaCloud creates for every organization.
	DefaultProjectName = "Default"

	apiPathPrefix = "/api/v1"

	defaultPollInterval = time.Second
)

// sharedHTTPClient is used by every Client.
// Clients are cheap and built per tool call, the underlying connections are pooled here.
var sharedHTTPClient = &http.Client{Timeout: 5 * time.Minute}

// Credentials identify the caller and the project scope of a request.
// Empty fields are treated as absent.
type Credentials struct {
	APIKey         string
	OrganizationID string
	ProjectName    string
}

// Client talks to the LlamaCloud API on behalf of a single set of credentials.
type Client struct {
	baseURL      string
	creds        Credentials
	httpClient   *http.Client
	pollInterval time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithPollInterval sets how often extraction jobs are polled for completion.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// NewClient creates a new LlamaCloud client bound to the given credentials.
// If baseURL is empty, DefaultBaseURL is used.
func NewClient(baseURL string, creds Credentials, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		creds:        creds,
		httpClient:   sharedHTTPClient,
		pollInterval: defaultPollInterval,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// APIError is returned when LlamaCloud responds with a non-2xx status code.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("llamacloud request failed with status %d: %s", e.StatusCode, e.Detail)
}

// constructAPIEndpoint builds the full URL of an API path along with its query parameters.
func (c *Client) constructAPIEndpoint(path string, query url.Values) (string, error) {
	u, err := url.Parse(c.baseURL + apiPathPrefix + path)
	if err != nil {
		return "", fmt.Errorf("failed to construct API endpoint for %s: %w", path, err)
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String(), nil
}

// newRequest creates a new HTTP request with the authorization header set, if an API key is known.
func (c *Client) newRequest(ctx context.Context, method, u string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	if c.creds.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.creds.APIKey)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// parseErrorResponse converts a failed response into an APIError.
// LlamaCloud reports errors as {"detail": "..."} where detail may also be a list of validation errors.
func (c *Client) parseErrorResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{StatusCode: resp.StatusCode, Detail: resp.Status}
	}

	var errResp struct {
		Detail json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(body, &errResp) == nil && len(errResp.Detail) > 0 {
		var s string
		if json.Unmarshal(errResp.Detail, &s) == nil {
			return &APIError{StatusCode: resp.StatusCode, Detail: s}
		}
		return &APIError{StatusCode: resp.StatusCode, Detail: string(errResp.Detail)}
	}

	detail := strings.TrimSpace(string(body))
	if detail == "" {
		detail = resp.Status
	}
	return &APIError{StatusCode: resp.StatusCode, Detail: detail}
}

// do sends the request and decodes a successful JSON response into out (if out is not nil).
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.parseErrorResponse(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", req.URL.Path, err)
	}
	return nil
}

// orgQuery returns the query parameters every project-scoped request carries.
func (c *Client) orgQuery() url.Values {
	q := url.Values{}
	if c.creds.OrganizationID != "" {
		q.Set("organization_id", c.creds.OrganizationID)
	}
	return q
}
