// Package directory talks to the user directory service that owns officer
// accounts and role grants. The engine only ever asks it one question: who
// currently holds the procurement-officer capability.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"
)

type Officer struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Client interface {
	ListOfficers(ctx context.Context) ([]Officer, error)
}

type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// ListOfficers returns all users holding the procurement-officer capability,
// ordered by id ascending.
func (c *HTTPClient) ListOfficers(ctx context.Context) ([]Officer, error) {
	req, err := http.NewRequestWithContext(ctx, "GET",
		c.baseURL+"/api/v1/users?capability=procurement_officer", nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("directory: %d %s", resp.StatusCode, string(body))
	}

	var officers []Officer
	if err := json.Unmarshal(body, &officers); err != nil {
		return nil, err
	}
	sort.Slice(officers, func(i, j int) bool { return officers[i].ID < officers[j].ID })
	return officers, nil
}
