// ABOUTME: Client for the remote product/admin API
// ABOUTME: Every authenticated call takes the session explicitly; nothing is shared between calls

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/storeops/catalog-console/models"
)

// CatalogAPI is the subset of the remote API used by the console
type CatalogAPI interface {
	Signin(ctx context.Context, creds models.Credentials) (*models.SigninResponse, error)
	Check(ctx context.Context, session models.Session) (*models.CheckResponse, error)
	AdminProducts(ctx context.Context, session models.Session) (*models.ProductsResponse, error)
}

// ErrNoToken is returned when an authenticated call is made without a token.
var ErrNoToken = errors.New("session has no token")

type CatalogClient struct {
	baseURL    string
	apiPath    string
	authScheme string
	client     *http.Client
}

// NewCatalogClient creates a client for the API at baseURL, using apiPath as
// the namespace for product endpoints.
func NewCatalogClient(baseURL, apiPath string, timeout time.Duration) *CatalogClient {
	return &CatalogClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiPath: strings.Trim(apiPath, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// WithAuthScheme sets the Authorization prefix (e.g. "Bearer").
// An empty scheme sends the raw token.
func (c *CatalogClient) WithAuthScheme(scheme string) *CatalogClient {
	c.authScheme = strings.TrimSpace(scheme)
	return c
}

// Signin calls POST {base}/admin/signin
func (c *CatalogClient) Signin(ctx context.Context, creds models.Credentials) (*models.SigninResponse, error) {
	var out models.SigninResponse
	status, err := c.do(ctx, http.MethodPost, c.baseURL+"/admin/signin", nil, creds, &out)
	if err != nil {
		return nil, err
	}
	if !out.Success || out.Token == "" {
		return nil, &models.APIError{Status: status, Message: out.Message}
	}
	return &out, nil
}

// Check calls POST {base}/api/user/check
func (c *CatalogClient) Check(ctx context.Context, session models.Session) (*models.CheckResponse, error) {
	if session.Empty() {
		return nil, ErrNoToken
	}
	var out models.CheckResponse
	status, err := c.do(ctx, http.MethodPost, c.baseURL+"/api/user/check", &session, nil, &out)
	if err != nil {
		return nil, err
	}
	if !out.Success {
		return &out, &models.APIError{Status: status, Message: out.Message}
	}
	return &out, nil
}

// AdminProducts calls GET {base}/api/{path}/admin/products
func (c *CatalogClient) AdminProducts(ctx context.Context, session models.Session) (*models.ProductsResponse, error) {
	if session.Empty() {
		return nil, ErrNoToken
	}
	var out models.ProductsResponse
	url := c.baseURL + "/api/" + c.apiPath + "/admin/products"
	status, err := c.do(ctx, http.MethodGet, url, &session, nil, &out)
	if err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, &models.APIError{Status: status, Message: out.Message}
	}
	if out.Products == nil {
		out.Products = []models.Product{}
	}
	return &out, nil
}

// do performs one request and decodes a 2xx JSON body into out.
func (c *CatalogClient) do(ctx context.Context, method, url string, session *models.Session, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != nil {
		req.Header.Set("Authorization", c.authorization(session.Token))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, handleErrorResponse(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("invalid response from %s: %w", url, err)
	}
	return resp.StatusCode, nil
}

func (c *CatalogClient) authorization(token string) string {
	if c.authScheme == "" {
		return token
	}
	return c.authScheme + " " + token
}

// handleRequestError reports cancellation and timeouts distinctly
func (c *CatalogClient) handleRequestError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("request canceled: %w", ctx.Err())
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", ctx.Err())
	}
	return fmt.Errorf("cannot reach API at %s: %w", c.baseURL, err)
}

// handleErrorResponse turns a non-2xx response into an APIError, using the
// API's message field when the body carries one.
func handleErrorResponse(resp *http.Response) error {
	apiErr := &models.APIError{Status: resp.StatusCode}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var payload struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Message) > 0 {
		apiErr.Message = decodeMessage(payload.Message)
	} else {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	return apiErr
}

// decodeMessage flattens the API's message, which is either a string or a
// list of strings.
func decodeMessage(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, "; ")
	}
	return string(raw)
}
