// Package scrape turns a webpage URL into a bounded list of movie title
// strings. Site-specific parsers are tried in order; a generic catch-all
// handles everything else. Extraction fidelity is best-effort: titles that
// fail to resolve downstream are simply dropped by the deck builder.
package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/reelmatch/reelmatch-server-go/internal/config"
)

const maxPageBytes = 2 << 20 // 2MB

// Parser extracts movie titles from a page it knows how to read.
type Parser interface {
	CanHandle(rawURL string) bool
	Parse(ctx context.Context, rawURL string) ([]string, error)
}

// Chain tries parsers in order; the first parser whose CanHandle returns
// true wins. The last parser in the chain should be a catch-all.
type Chain struct {
	parsers    []Parser
	titleLimit int
}

func NewChain(titleLimit int) *Chain {
	fetcher := &fetcher{client: &http.Client{Timeout: config.UpstreamRequestTimeout}}
	return &Chain{
		parsers: []Parser{
			&letterboxdParser{fetcher: fetcher},
			&imdbListParser{fetcher: fetcher},
			&genericParser{fetcher: fetcher},
		},
		titleLimit: titleLimit,
	}
}

// Titles scrapes rawURL into a deduplicated, size-capped title list.
func (c *Chain) Titles(ctx context.Context, rawURL string) ([]string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, fmt.Errorf("invalid url: %s", rawURL)
	}

	for _, p := range c.parsers {
		if !p.CanHandle(rawURL) {
			continue
		}
		titles, err := p.Parse(ctx, rawURL)
		if err != nil {
			log.Warn().Err(err).Str("url", rawURL).Msg("scrape failed")
			return nil, err
		}
		return capTitles(titles, c.titleLimit), nil
	}

	// unreachable while the generic parser is last, kept as a guard
	return nil, fmt.Errorf("no parser for url: %s", rawURL)
}

func capTitles(titles []string, limit int) []string {
	seen := make(map[string]struct{}, len(titles))
	out := make([]string, 0, len(titles))
	for _, t := range titles {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

type fetcher struct {
	client *http.Client
}

func (f *fetcher) fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "reelmatch/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("fetch page: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("read page: %w", err)
	}
	return string(body), nil
}
