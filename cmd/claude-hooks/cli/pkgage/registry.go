package pkgage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// DefaultRegistryURL is the public npm registry.
const DefaultRegistryURL = "https://registry.npmjs.org"

// Client queries an npm-compatible registry.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a registry client with a short timeout; a slow registry
// must not stall hook dispatch.
func NewClient() *Client {
	return &Client{
		BaseURL:    DefaultRegistryURL,
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// PackageInfo is the slice of registry metadata the checker needs.
type PackageInfo struct {
	DistTags map[string]string `json:"dist-tags"`
	Time     map[string]string `json:"time"`
}

// Info fetches metadata for a package.
func (c *Client) Info(ctx context.Context, name string) (*PackageInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.BaseURL+"/"+url.PathEscape(name), nil)
	if err != nil {
		return nil, fmt.Errorf("building registry request for %s: %w", name, err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying registry for %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry returned %d for %s", resp.StatusCode, name)
	}

	var info PackageInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decoding registry response for %s: %w", name, err)
	}
	return &info, nil
}

// Latest returns the version the latest dist-tag points at.
func (i *PackageInfo) Latest() string {
	return i.DistTags[latestTag]
}

// PublishTime returns the publish timestamp of a version. The latest tag is
// resolved first.
func (i *PackageInfo) PublishTime(version string) (time.Time, bool) {
	if version == latestTag {
		version = i.Latest()
	}
	raw, ok := i.Time[version]
	if !ok {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}
