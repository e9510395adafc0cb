// Package icons mirrors token icon SVGs from a GitHub repository to local disk.
package icons

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// File is an SVG discovered in the source repository.
type File struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	DownloadURL string `json:"download_url"`
}

// contentItem is one entry of the GitHub contents API response.
type contentItem struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Path        string `json:"path"`
	DownloadURL string `json:"download_url"`
}

// Client lists repository contents through the GitHub REST API.
type Client struct {
	apiURL     string
	repo       string
	branch     string
	httpClient *http.Client
}

// NewClient creates a GitHub contents client for repo ("owner/name") at branch.
func NewClient(apiURL, repo, branch string) *Client {
	return &Client{
		apiURL:     strings.TrimRight(apiURL, "/"),
		repo:       repo,
		branch:     branch,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// ListSVGs walks dir recursively and returns every .svg file under it.
// A sub-directory that cannot be listed is logged and skipped; only a failure
// on dir itself is returned as an error.
func (c *Client) ListSVGs(ctx context.Context, dir string) ([]File, error) {
	items, err := c.listDir(ctx, dir)
	if err != nil {
		return nil, err
	}

	var files []File
	for _, item := range items {
		switch {
		case item.Type == "file" && strings.HasSuffix(strings.ToLower(item.Name), ".svg"):
			files = append(files, File{Name: item.Name, Path: item.Path, DownloadURL: item.DownloadURL})
		case item.Type == "dir":
			nested, err := c.ListSVGs(ctx, item.Path)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				slog.Warn("skipping icon directory", "path", item.Path, "error", err)
				continue
			}
			files = append(files, nested...)
		}
	}
	return files, nil
}

func (c *Client) listDir(ctx context.Context, dir string) ([]contentItem, error) {
	u := fmt.Sprintf("%s/repos/%s/contents/%s?ref=%s",
		c.apiURL, c.repo, escapePath(dir), url.QueryEscape(c.branch))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating GitHub request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GitHub request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("GitHub HTTP %d for %s: %s", resp.StatusCode, dir, string(body))
	}

	var items []contentItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("parsing GitHub contents for %s: %w", dir, err)
	}
	return items, nil
}

func escapePath(p string) string {
	parts := strings.Split(strings.Trim(p, "/"), "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
