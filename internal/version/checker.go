// Package version compares mdpad versions and looks up the latest
// published release.
package version

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	// ReleasesURL is the GitHub API endpoint for the latest release
	ReleasesURL = "https://api.github.com/repos/studiowebux/mdpad/releases/latest"

	checkTimeout = 5 * time.Second
)

// Release is a published mdpad version
type Release struct {
	Version string // without the leading "v"
	URL     string
}

type githubRelease struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Checker fetches release information
type Checker struct {
	URL    string
	Client *http.Client
}

// NewChecker creates a checker for the GitHub releases endpoint
func NewChecker() *Checker {
	return &Checker{
		URL:    ReleasesURL,
		Client: &http.Client{Timeout: checkTimeout},
	}
}

// Latest returns the most recent release
func (c *Checker) Latest(ctx context.Context, current string) (Release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return Release{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "mdpad/"+current)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return Release{}, fmt.Errorf("failed to fetch latest release: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Release{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var gh githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&gh); err != nil {
		return Release{}, fmt.Errorf("failed to decode response: %w", err)
	}
	return Release{Version: strings.TrimPrefix(gh.TagName, "v"), URL: gh.HTMLURL}, nil
}

// Check returns the latest release and whether it is newer than current
func (c *Checker) Check(ctx context.Context, current string) (Release, bool, error) {
	latest, err := c.Latest(ctx, current)
	if err != nil {
		return Release{}, false, err
	}
	newer := latest.Version != "" && Compare(latest.Version, current) > 0
	return latest, newer, nil
}

// Compare orders two dotted versions such as "0.1.0", "v1.2" or
// "0.2.0-dev". Pre-release and build suffixes are ignored and missing
// parts count as zero. It returns -1, 0 or 1.
func Compare(a, b string) int {
	ap, bp := parse(a), parse(b)
	for i := 0; i < max(len(ap), len(bp)); i++ {
		var x, y int
		if i < len(ap) {
			x = ap[i]
		}
		if i < len(bp) {
			y = bp[i]
		}
		switch {
		case x > y:
			return 1
		case x < y:
			return -1
		}
	}
	return 0
}

func parse(v string) []int {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	if idx := strings.IndexAny(v, "-+"); idx != -1 {
		v = v[:idx]
	}

	var parts []int
	for _, part := range strings.Split(v, ".") {
		n, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		parts = append(parts, n)
	}
	return parts
}
