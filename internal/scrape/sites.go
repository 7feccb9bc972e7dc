package scrape

import (
	"context"
	"html"
	"net/url"
	"regexp"
	"strings"
)

// letterboxdParser reads letterboxd list pages. Film posters carry the
// title in their img alt attribute.
type letterboxdParser struct {
	fetcher *fetcher
}

var letterboxdAltRe = regexp.MustCompile(`<img[^>]+alt="([^"]+)"[^>]*class="image"`)

func (p *letterboxdParser) CanHandle(rawURL string) bool {
	return hostMatches(rawURL, "letterboxd.com")
}

func (p *letterboxdParser) Parse(ctx context.Context, rawURL string) ([]string, error) {
	body, err := p.fetcher.fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	var titles []string
	for _, m := range letterboxdAltRe.FindAllStringSubmatch(body, -1) {
		titles = append(titles, html.UnescapeString(m[1]))
	}
	return titles, nil
}

// imdbListParser reads IMDb list pages, where entries render as
// "<h3 ...>12. Title</h3>".
type imdbListParser struct {
	fetcher *fetcher
}

var (
	imdbTitleRe  = regexp.MustCompile(`<h3[^>]*>([^<]+)</h3>`)
	imdbMarkerRe = regexp.MustCompile(`^\d+\.\s+`)
)

func (p *imdbListParser) CanHandle(rawURL string) bool {
	return hostMatches(rawURL, "imdb.com")
}

func (p *imdbListParser) Parse(ctx context.Context, rawURL string) ([]string, error) {
	body, err := p.fetcher.fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	var titles []string
	for _, m := range imdbTitleRe.FindAllStringSubmatch(body, -1) {
		title := imdbMarkerRe.ReplaceAllString(strings.TrimSpace(html.UnescapeString(m[1])), "")
		if title != "" {
			titles = append(titles, title)
		}
	}
	return titles, nil
}

// genericParser is the catch-all fallback: it collects list-item and
// heading text and keeps lines that look like titles. Noisy output is
// acceptable since unresolvable titles are dropped downstream.
type genericParser struct {
	fetcher *fetcher
}

var (
	genericItemRe = regexp.MustCompile(`(?s)<(?:li|h2|h3)[^>]*>(.*?)</(?:li|h2|h3)>`)
	tagRe         = regexp.MustCompile(`<[^>]*>`)
)

func (p *genericParser) CanHandle(rawURL string) bool {
	return true
}

func (p *genericParser) Parse(ctx context.Context, rawURL string) ([]string, error) {
	body, err := p.fetcher.fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	var titles []string
	for _, m := range genericItemRe.FindAllStringSubmatch(body, -1) {
		text := strings.TrimSpace(html.UnescapeString(tagRe.ReplaceAllString(m[1], "")))
		if looksLikeTitle(text) {
			titles = append(titles, text)
		}
	}
	return titles, nil
}

// looksLikeTitle filters out navigation cruft: very short or very long
// strings, and lines without any letter.
func looksLikeTitle(s string) bool {
	if len(s) < 2 || len(s) > 120 {
		return false
	}
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}

func hostMatches(rawURL, domain string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	return host == domain || strings.HasSuffix(host, "."+domain)
}
