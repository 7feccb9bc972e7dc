package service

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	apperrors "github.com/reelmatch/reelmatch-server-go/internal/errors"
	"github.com/reelmatch/reelmatch-server-go/internal/metadata"
	"github.com/reelmatch/reelmatch-server-go/internal/model"
)

// DeckSource is the tagged union of ways a deck can be built. Exactly one
// variant field is set, discriminated by Type.
type DeckSource struct {
	Type    model.DeckSourceType `json:"type"`
	Filters *metadata.Filters    `json:"filters,omitempty"`
	URL     string               `json:"url,omitempty"`
	Text    string               `json:"text,omitempty"`
}

func (s DeckSource) Validate() error {
	switch s.Type {
	case model.DeckSourceFilters:
		if s.Filters == nil {
			return apperrors.InvalidSource("filters variant requires filters")
		}
		if s.Filters.YearFrom > 0 && s.Filters.YearTo > 0 && s.Filters.YearFrom > s.Filters.YearTo {
			return apperrors.InvalidSource("yearFrom is after yearTo")
		}
		return nil
	case model.DeckSourceURL:
		if strings.TrimSpace(s.URL) == "" {
			return apperrors.InvalidSource("url variant requires a url")
		}
		return nil
	case model.DeckSourceText:
		if strings.TrimSpace(s.Text) == "" {
			return apperrors.InvalidSource("text variant requires text")
		}
		return nil
	default:
		return apperrors.InvalidSource("unknown source type")
	}
}

// TitleScraper turns a webpage URL into a list of movie title strings.
type TitleScraper interface {
	Titles(ctx context.Context, rawURL string) ([]string, error)
}

// DeckBuilder produces a deduplicated, size-bounded list of movie IDs from
// a deck source.
type DeckBuilder struct {
	catalog   metadata.Catalog
	scraper   TitleScraper
	pageLimit int
	batchSize int
}

func NewDeckBuilder(catalog metadata.Catalog, scraper TitleScraper, pageLimit, batchSize int) *DeckBuilder {
	return &DeckBuilder{
		catalog:   catalog,
		scraper:   scraper,
		pageLimit: pageLimit,
		batchSize: batchSize,
	}
}

// BuildDeck resolves source into at most limit distinct movie IDs. The
// exclusion set only applies to the filters variant (already-seen movies).
// A result shorter than limit is not an error; an empty one is reported by
// the caller as EMPTY_DECK.
func (b *DeckBuilder) BuildDeck(ctx context.Context, source DeckSource, limit int, exclude map[int64]struct{}) ([]int64, error) {
	if err := source.Validate(); err != nil {
		return nil, err
	}

	var (
		ids []int64
		err error
	)
	switch source.Type {
	case model.DeckSourceFilters:
		ids, err = b.fromFilters(ctx, *source.Filters, limit, exclude)
	case model.DeckSourceURL:
		ids, err = b.fromURL(ctx, source.URL, limit)
	case model.DeckSourceText:
		ids = b.resolveTitles(ctx, ParseTitleList(source.Text), limit)
	default:
		return nil, apperrors.InvalidSource("unknown source type")
	}
	if err != nil {
		return nil, err
	}

	return b.enrich(ctx, ids), nil
}

// fromFilters walks discovery pages until limit IDs are gathered, the
// source is exhausted, or the page ceiling is reached.
func (b *DeckBuilder) fromFilters(ctx context.Context, filters metadata.Filters, limit int, exclude map[int64]struct{}) ([]int64, error) {
	seen := make(map[int64]struct{}, limit)
	ids := make([]int64, 0, limit)

	for page := 1; page <= b.pageLimit; page++ {
		result, err := b.catalog.DiscoverMovies(ctx, filters, page)
		if err != nil {
			return nil, apperrors.External("movie discovery", err)
		}

		for _, id := range result.MovieIDs {
			if _, ok := exclude[id]; ok {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
			if len(ids) >= limit {
				return ids, nil
			}
		}

		if page >= result.TotalPages {
			break
		}
	}

	return ids, nil
}

func (b *DeckBuilder) fromURL(ctx context.Context, rawURL string, limit int) ([]int64, error) {
	titles, err := b.scraper.Titles(ctx, rawURL)
	if err != nil {
		return nil, apperrors.External("url scraping", err)
	}
	return b.resolveTitles(ctx, titles, limit), nil
}

// resolveTitles maps title strings to movie IDs via search, in input order,
// deduplicated by first occurrence. Titles that resolve to nothing are
// dropped silently.
func (b *DeckBuilder) resolveTitles(ctx context.Context, titles []string, limit int) []int64 {
	seen := make(map[int64]struct{}, limit)
	ids := make([]int64, 0, limit)

	for _, title := range titles {
		if len(ids) >= limit {
			break
		}
		id, ok := b.resolveTitle(ctx, title)
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	return ids
}

var trailingYearRe = regexp.MustCompile(`^(.*\S)\s*\((\d{4})\)$`)

// resolveTitle searches the catalog for a title, preferring an exact
// case-insensitive title match (and year match when the input carries a
// trailing "(YYYY)") over the first search result.
func (b *DeckBuilder) resolveTitle(ctx context.Context, raw string) (int64, bool) {
	title := raw
	year := 0
	if m := trailingYearRe.FindStringSubmatch(raw); m != nil {
		title = m[1]
		year, _ = strconv.Atoi(m[2])
	}

	candidates, err := b.catalog.SearchMovies(ctx, title)
	if err != nil {
		log.Warn().Err(err).Str("title", raw).Msg("title search failed, dropping title")
		return 0, false
	}
	if len(candidates) == 0 {
		log.Debug().Str("title", raw).Msg("no search results for title")
		return 0, false
	}

	for _, c := range candidates {
		if !strings.EqualFold(c.Title, title) {
			continue
		}
		if year != 0 && c.Year != 0 && c.Year != year {
			continue
		}
		return c.ID, true
	}

	return candidates[0].ID, true
}

// enrich verifies each movie's detail record is fetchable, in bounded
// parallel batches. A failed lookup drops that ID only; one bad fetch
// never fails the whole deck build.
func (b *DeckBuilder) enrich(ctx context.Context, ids []int64) []int64 {
	ok := make([]bool, len(ids))

	for start := 0; start < len(ids); start += b.batchSize {
		end := start + b.batchSize
		if end > len(ids) {
			end = len(ids)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				if _, err := b.catalog.GetMovie(ctx, ids[i]); err != nil {
					log.Warn().Err(err).Int64("movieId", ids[i]).Msg("movie details unavailable, dropping from deck")
					return
				}
				ok[i] = true
			}(i)
		}
		wg.Wait()
	}

	kept := make([]int64, 0, len(ids))
	for i, id := range ids {
		if ok[i] {
			kept = append(kept, id)
		}
	}
	return kept
}
