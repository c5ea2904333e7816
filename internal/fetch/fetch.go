package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/sukibk/textractor/internal/blob"
)

// Fetcher scrapes the waiver listing page for PDF links and downloads new
// documents into blob storage.
type Fetcher struct {
	HTTP     *http.Client
	SiteBase string
	Logger   *slog.Logger
}

func NewFetcher(siteBase string, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		HTTP:     &http.Client{Timeout: 30 * time.Second},
		SiteBase: strings.TrimRight(siteBase, "/"),
		Logger:   logger,
	}
}

// ListPDFLinks fetches the listing page and returns every anchor href ending
// in ".pdf", absolutized against the site base.
func (f *Fetcher) ListPDFLinks(ctx context.Context, pageURL string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch listing page: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch listing page: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse listing page: %w", err)
	}

	var links []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || !strings.HasSuffix(strings.ToLower(href), ".pdf") {
			return
		}
		links = append(links, f.absolutize(href))
	})
	return links, nil
}

func (f *Fetcher) absolutize(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return f.SiteBase + "/" + strings.TrimLeft(href, "/")
}

// DownloadStats aggregates one download pass.
type DownloadStats struct {
	Listed     int
	Skipped    int
	Downloaded int
	Failed     int
}

// Download stores each linked PDF under prefix, keyed by its base name,
// skipping documents already present.
func (f *Fetcher) Download(ctx context.Context, links []string, blobs blob.Store, prefix string) (DownloadStats, error) {
	stats := DownloadStats{Listed: len(links)}

	for _, link := range links {
		name, err := baseName(link)
		if err != nil {
			f.Logger.Warn("fetch.link.unparseable", "url", link, "err", err)
			stats.Failed++
			continue
		}
		key := prefix + name

		exists, err := blobs.Exists(ctx, key)
		if err != nil {
			return stats, fmt.Errorf("probe %s: %w", key, err)
		}
		if exists {
			f.Logger.Info("fetch.document.skipped", "key", key)
			stats.Skipped++
			continue
		}

		if err := f.downloadOne(ctx, link, blobs, key); err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			f.Logger.Error("fetch.document.failed", "url", link, "err", err)
			stats.Failed++
			continue
		}
		f.Logger.Info("fetch.document.ok", "url", link, "key", key)
		stats.Downloaded++
	}
	return stats, nil
}

func (f *Fetcher) downloadOne(ctx context.Context, link string, blobs blob.Store, key string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return err
	}
	resp, err := f.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return blobs.Put(ctx, key, data)
}

func baseName(link string) (string, error) {
	u, err := url.Parse(link)
	if err != nil {
		return "", err
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "", fmt.Errorf("no file name in %s", link)
	}
	return name, nil
}
