package icons

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/mtlprog/walletpage/internal/metrics"
)

// Lister discovers the icons to download.
type Lister interface {
	ListSVGs(ctx context.Context, dir string) ([]File, error)
}

// Summary reports the outcome of a DownloadAll run.
type Summary struct {
	Downloaded int
	Failed     int
	Total      int
}

// Downloader saves listed icons under an output directory.
type Downloader struct {
	lister     Lister
	root       string
	outputDir  string
	limiter    *rate.Limiter
	httpClient *http.Client
}

// NewDownloader creates a Downloader that mirrors root into outputDir,
// waiting at least delay between downloads.
func NewDownloader(lister Lister, root, outputDir string, delay time.Duration) *Downloader {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &Downloader{
		lister:     lister,
		root:       strings.Trim(root, "/"),
		outputDir:  outputDir,
		limiter:    rate.NewLimiter(limit, 1),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// DownloadAll lists every icon under root and downloads each one.
// Individual failures are counted and logged; the error is reserved for
// listing failures and cancellation.
func (d *Downloader) DownloadAll(ctx context.Context) (Summary, error) {
	files, err := d.lister.ListSVGs(ctx, d.root)
	if err != nil {
		return Summary{}, fmt.Errorf("listing icons: %w", err)
	}

	if err := os.MkdirAll(d.outputDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("creating output directory: %w", err)
	}

	summary := Summary{Total: len(files)}
	slog.Info("downloading token icons", "count", len(files), "output", d.outputDir)

	for _, f := range files {
		if err := d.limiter.Wait(ctx); err != nil {
			return summary, fmt.Errorf("waiting for rate limiter: %w", err)
		}

		if err := d.download(ctx, f); err != nil {
			if ctx.Err() != nil {
				return summary, ctx.Err()
			}
			summary.Failed++
			metrics.IconDownloads.WithLabelValues("error").Inc()
			slog.Warn("icon download failed", "path", f.Path, "error", err)
			continue
		}
		summary.Downloaded++
		metrics.IconDownloads.WithLabelValues("ok").Inc()
	}

	slog.Info("token icons downloaded",
		"downloaded", summary.Downloaded, "failed", summary.Failed, "total", summary.Total)
	return summary, nil
}

// Target returns the local path for f, keeping its path relative to root.
func (d *Downloader) Target(f File) (string, error) {
	rel := strings.TrimPrefix(strings.TrimPrefix(f.Path, d.root), "/")
	if rel == "" {
		rel = f.Name
	}
	target := filepath.Join(d.outputDir, filepath.FromSlash(rel))

	// Reject paths escaping the output directory.
	relToOut, err := filepath.Rel(d.outputDir, target)
	if err != nil || relToOut == ".." || strings.HasPrefix(relToOut, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("icon path %q escapes output directory", f.Path)
	}
	return target, nil
}

func (d *Downloader) download(ctx context.Context, f File) error {
	if f.DownloadURL == "" {
		return fmt.Errorf("no download URL for %s", f.Path)
	}
	target, err := d.Target(f)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", f.Path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.DownloadURL, nil)
	if err != nil {
		return fmt.Errorf("creating download request: %w", err)
	}
	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("download request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download HTTP %d", resp.StatusCode)
	}

	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("creating %s: %w", target, err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(target)
		return fmt.Errorf("writing %s: %w", target, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(target)
		return fmt.Errorf("closing %s: %w", target, err)
	}
	return nil
}
