package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/reelmatch/reelmatch-server-go/internal/config"
)

// Filters narrow a discovery query. Zero values mean "no constraint".
type Filters struct {
	GenreIDs []int64 `json:"genreIds,omitempty"`
	YearFrom int     `json:"yearFrom,omitempty"`
	YearTo   int     `json:"yearTo,omitempty"`
}

// Movie is the catalog record for a single movie.
type Movie struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title"`
	Year       int     `json:"year"`
	Overview   string  `json:"overview,omitempty"`
	PosterPath string  `json:"posterPath,omitempty"`
	Rating     float64 `json:"rating,omitempty"`
}

// DiscoverPage is one page of discovery results.
type DiscoverPage struct {
	MovieIDs   []int64
	Page       int
	TotalPages int
}

// Catalog is the movie-lookup capability the deck builder consumes.
type Catalog interface {
	DiscoverMovies(ctx context.Context, filters Filters, page int) (*DiscoverPage, error)
	SearchMovies(ctx context.Context, title string) ([]Movie, error)
	GetMovie(ctx context.Context, id int64) (*Movie, error)
}

const movieCacheKeyPrefix = "movie:"

// Client talks to a TMDB-compatible API, with a redis cache in front of
// per-movie detail lookups.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	cache      *redis.Client
	cacheTTL   time.Duration
}

func NewClient(cfg *config.Config, cache *redis.Client) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: config.UpstreamRequestTimeout},
		baseURL:    strings.TrimRight(cfg.MovieAPIBaseURL, "/"),
		apiKey:     cfg.MovieAPIKey,
		cache:      cache,
		cacheTTL:   cfg.MovieCacheTTL(),
	}
}

var _ Catalog = (*Client)(nil)

type discoverResponse struct {
	Page       int `json:"page"`
	TotalPages int `json:"total_pages"`
	Results    []struct {
		ID int64 `json:"id"`
	} `json:"results"`
}

func (c *Client) DiscoverMovies(ctx context.Context, filters Filters, page int) (*DiscoverPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("sort_by", "popularity.desc")
	if len(filters.GenreIDs) > 0 {
		parts := make([]string, len(filters.GenreIDs))
		for i, id := range filters.GenreIDs {
			parts[i] = strconv.FormatInt(id, 10)
		}
		q.Set("with_genres", strings.Join(parts, ","))
	}
	if filters.YearFrom > 0 {
		q.Set("primary_release_date.gte", fmt.Sprintf("%d-01-01", filters.YearFrom))
	}
	if filters.YearTo > 0 {
		q.Set("primary_release_date.lte", fmt.Sprintf("%d-12-31", filters.YearTo))
	}

	var resp discoverResponse
	if err := c.get(ctx, "/discover/movie", q, &resp); err != nil {
		return nil, fmt.Errorf("discover movies: %w", err)
	}

	ids := make([]int64, 0, len(resp.Results))
	for _, r := range resp.Results {
		ids = append(ids, r.ID)
	}

	return &DiscoverPage{
		MovieIDs:   ids,
		Page:       resp.Page,
		TotalPages: resp.TotalPages,
	}, nil
}

type searchResponse struct {
	Results []movieResponse `json:"results"`
}

type movieResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
}

func (m movieResponse) toMovie() Movie {
	year := 0
	if len(m.ReleaseDate) >= 4 {
		year, _ = strconv.Atoi(m.ReleaseDate[:4])
	}
	return Movie{
		ID:         m.ID,
		Title:      m.Title,
		Year:       year,
		Overview:   m.Overview,
		PosterPath: m.PosterPath,
		Rating:     m.VoteAverage,
	}
}

func (c *Client) SearchMovies(ctx context.Context, title string) ([]Movie, error) {
	q := url.Values{}
	q.Set("query", title)

	var resp searchResponse
	if err := c.get(ctx, "/search/movie", q, &resp); err != nil {
		return nil, fmt.Errorf("search movies: %w", err)
	}

	movies := make([]Movie, 0, len(resp.Results))
	for _, r := range resp.Results {
		movies = append(movies, r.toMovie())
	}
	return movies, nil
}

// GetMovie is cache-aside: a redis hit skips the upstream call entirely, and
// cache failures degrade to a direct fetch.
func (c *Client) GetMovie(ctx context.Context, id int64) (*Movie, error) {
	key := movieCacheKeyPrefix + strconv.FormatInt(id, 10)

	if c.cache != nil {
		data, err := c.cache.Get(ctx, key).Result()
		if err == nil {
			var m Movie
			if jsonErr := json.Unmarshal([]byte(data), &m); jsonErr == nil {
				return &m, nil
			}
		} else if err != redis.Nil {
			log.Warn().Err(err).Int64("movieId", id).Msg("movie cache read failed")
		}
	}

	var resp movieResponse
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", id), url.Values{}, &resp); err != nil {
		return nil, fmt.Errorf("get movie %d: %w", id, err)
	}
	m := resp.toMovie()

	if c.cache != nil {
		if data, err := json.Marshal(m); err == nil {
			if err := c.cache.Set(ctx, key, data, c.cacheTTL).Err(); err != nil {
				log.Warn().Err(err).Int64("movieId", id).Msg("movie cache write failed")
			}
		}
	}

	return &m, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, dest any) error {
	q.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)

	if err != nil {
		log.Error().Err(err).Str("path", path).Dur("elapsed", elapsed).Msg("movie api request error")
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Error().Str("path", path).Int("status", resp.StatusCode).Dur("elapsed", elapsed).Msg("movie api request failed")
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	log.Debug().Str("path", path).Int("status", resp.StatusCode).Dur("elapsed", elapsed).Msg("movie api request")
	return nil
}
