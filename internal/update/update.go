// Package update checks GitHub releases for a newer licwatch version.
package update

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-version"
)

const (
	// GitHubRepo is the repository for releases
	GitHubRepo = "licwatch/licwatch-cli"

	// GitHubAPIBase is the GitHub API endpoint
	GitHubAPIBase = "https://api.github.com"
)

// Release represents a GitHub release
type Release struct {
	TagName    string `json:"tag_name"`
	Name       string `json:"name"`
	Draft      bool   `json:"draft"`
	Prerelease bool   `json:"prerelease"`
	HTMLURL    string `json:"html_url"`
}

// Client checks for newer releases
type Client struct {
	CurrentVersion string
	apiBase        string
	httpClient     *http.Client
}

// NewClient creates a new update checker
func NewClient(currentVersion string) *Client {
	return &Client{
		CurrentVersion: currentVersion,
		apiBase:        GitHubAPIBase,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// WithAPIBase overrides the GitHub API endpoint (used in tests)
func (c *Client) WithAPIBase(base string) *Client {
	c.apiBase = base
	return c
}

// CheckForUpdate checks if a new version is available.
// Returns nil if already on latest version.
func (c *Client) CheckForUpdate() (*Release, error) {
	release, err := c.fetchLatestRelease()
	if err != nil {
		return nil, err
	}

	hasUpdate, err := c.isNewerVersion(release.TagName)
	if err != nil {
		return nil, err
	}

	if !hasUpdate {
		return nil, nil
	}

	return release, nil
}

// fetchLatestRelease fetches the latest release from GitHub
func (c *Client) fetchLatestRelease() (*Release, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", c.apiBase, GitHubRepo)

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "licwatch-cli")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitHub API returned status: %s", resp.Status)
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, err
	}

	return &release, nil
}

// isNewerVersion compares versions
func (c *Client) isNewerVersion(newVersion string) (bool, error) {
	// Strip leading 'v' if present
	currentStr := strings.TrimPrefix(c.CurrentVersion, "v")
	newStr := strings.TrimPrefix(newVersion, "v")

	// Handle "dev" version
	if currentStr == "dev" || currentStr == "" {
		return true, nil
	}

	current, err := version.NewVersion(currentStr)
	if err != nil {
		return false, fmt.Errorf("invalid current version %s: %w", c.CurrentVersion, err)
	}

	latest, err := version.NewVersion(newStr)
	if err != nil {
		return false, fmt.Errorf("invalid new version %s: %w", newVersion, err)
	}

	return latest.GreaterThan(current), nil
}
