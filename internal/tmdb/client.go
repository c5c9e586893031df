// Package tmdb provides the metadata catalog client: two-locale lookups,
// validated search, a persistent response cache, and image downloads.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"jellyprep/internal/textnorm"
)

const (
	// DefaultBaseURL is the TMDB API root.
	DefaultBaseURL = "https://api.themoviedb.org/3"
	// DefaultImageBaseURL is the TMDB image CDN root.
	DefaultImageBaseURL = "https://image.tmdb.org/t/p/"
	// defaultLanguage is the primary lookup locale.
	defaultLanguage = "en-US"

	requestTimeout = 10 * time.Second
)

// Client provides access to the TMDB API with a secondary locale and a
// persistent cache.
type Client struct {
	apiKey       string
	baseURL      string
	imageBaseURL string
	language     string // secondary locale, e.g. "ro-RO"
	httpClient   *http.Client
	cache        *Cache
	log          *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the API root (primarily for tests).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithImageBaseURL overrides the image CDN root.
func WithImageBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.imageBaseURL = baseURL
		}
	}
}

// WithCache attaches a persistent response cache.
func WithCache(cache *Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// New creates a TMDB client. language is the secondary locale used for
// localized titles and overviews.
func New(apiKey, language string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("tmdb api key required")
	}
	language = strings.TrimSpace(language)
	if language == "" {
		language = "ro-RO"
	}
	client := &Client{
		apiKey:       apiKey,
		baseURL:      DefaultBaseURL,
		imageBaseURL: DefaultImageBaseURL,
		language:     language,
		httpClient:   &http.Client{Timeout: requestTimeout},
		log:          slog.Default(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// recordPair bundles the primary-locale record with the localized one for
// caching.
type recordPair struct {
	EN        *Record `json:"en"`
	Localized *Record `json:"localized"`
}

// get performs a GET against endpoint with the given params and locale,
// decoding the JSON payload into out.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, language string, out any) error {
	u, err := url.Parse(c.baseURL + "/" + endpoint)
	if err != nil {
		return fmt.Errorf("parse tmdb url: %w", err)
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	params.Set("language", language)
	u.RawQuery = params.Encode()

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tmdb %s returned %d", endpoint, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode tmdb response: %w", err)
	}
	return nil
}

// MovieByID fetches a movie in both locales. The localized record falls back
// to the primary one when its title is not in a Latin script.
func (c *Client) MovieByID(ctx context.Context, id int64) (en, localized *Record, err error) {
	return c.byID(ctx, "movie/"+strconv.FormatInt(id, 10), "movie_id:"+strconv.FormatInt(id, 10))
}

// TVByID fetches a TV show in both locales with the same Latin-script
// fallback as MovieByID.
func (c *Client) TVByID(ctx context.Context, id int64) (en, localized *Record, err error) {
	return c.byID(ctx, "tv/"+strconv.FormatInt(id, 10), "tv_id:"+strconv.FormatInt(id, 10))
}

func (c *Client) byID(ctx context.Context, endpoint, cacheKey string) (*Record, *Record, error) {
	var cached recordPair
	if c.cache.Get(cacheKey, &cached) && cached.EN != nil {
		return cached.EN, cached.Localized, nil
	}

	var enRec, locRec Record
	if err := c.get(ctx, endpoint, nil, defaultLanguage, &enRec); err != nil {
		return nil, nil, err
	}
	if err := c.get(ctx, endpoint, nil, c.language, &locRec); err != nil {
		return nil, nil, err
	}

	loc := &locRec
	if !textnorm.IsLatin(loc.DisplayTitle()) {
		loc = &enRec
	}

	c.cache.Put(cacheKey, recordPair{EN: &enRec, Localized: loc})
	return &enRec, loc, nil
}

// SearchMovie searches for a movie by title and optional year, validating
// results with BestMatch. Returns the primary and localized records for the
// selected match plus the selection confidence.
func (c *Client) SearchMovie(ctx context.Context, title, year string) (en, localized *Record, conf Confidence, err error) {
	params := url.Values{"query": []string{title}}
	if year != "" {
		params.Set("year", year)
	}
	return c.search(ctx, "search/movie", params, title, year,
		"movie_search:"+title+":"+year)
}

// SearchTV searches for a TV show by title and optional first-air year.
func (c *Client) SearchTV(ctx context.Context, title, year string) (en, localized *Record, conf Confidence, err error) {
	params := url.Values{"query": []string{title}}
	if year != "" {
		params.Set("first_air_date_year", year)
	}
	return c.search(ctx, "search/tv", params, title, year,
		"tv_search:"+title+":"+year)
}

type cachedSearch struct {
	recordPair
	Confidence Confidence `json:"confidence"`
}

func (c *Client) search(ctx context.Context, endpoint string, params url.Values, title, year, cacheKey string) (*Record, *Record, Confidence, error) {
	var cached cachedSearch
	if c.cache.Get(cacheKey, &cached) && cached.EN != nil {
		return cached.EN, cached.Localized, cached.Confidence, nil
	}

	var enResp searchResponse
	if err := c.get(ctx, endpoint, cloneValues(params), defaultLanguage, &enResp); err != nil {
		return nil, nil, MatchNone, err
	}
	if len(enResp.Results) == 0 {
		return nil, nil, MatchNone, nil
	}

	match, conf := BestMatch(enResp.Results, title, year)
	if conf == MatchFallback {
		c.log.Warn("no validated tmdb match, using top result",
			"title", title, "year", year, "picked", match.DisplayTitle())
	}

	// Localized record for the same ID, if the localized search surfaced it.
	loc := match
	var locResp searchResponse
	if err := c.get(ctx, endpoint, cloneValues(params), c.language, &locResp); err == nil {
		for i := range locResp.Results {
			if locResp.Results[i].ID == match.ID {
				loc = &locResp.Results[i]
				break
			}
		}
	}
	if !textnorm.IsLatin(loc.DisplayTitle()) {
		loc = match
	}

	c.cache.Put(cacheKey, cachedSearch{recordPair{EN: match, Localized: loc}, conf})
	return match, loc, conf, nil
}

func cloneValues(v url.Values) url.Values {
	out := url.Values{}
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}

// EpisodeInfo fetches a single episode, preferring the localized name when
// it is Latin-script and not a generic placeholder.
func (c *Client) EpisodeInfo(ctx context.Context, showID int64, season, episode int) (*Episode, error) {
	cacheKey := fmt.Sprintf("episode:%d:s%de%d", showID, season, episode)
	var cached Episode
	if c.cache.Get(cacheKey, &cached) && cached.Name != "" {
		return &cached, nil
	}

	endpoint := fmt.Sprintf("tv/%d/season/%d/episode/%d", showID, season, episode)

	var enEp Episode
	if err := c.get(ctx, endpoint, nil, defaultLanguage, &enEp); err != nil {
		return nil, err
	}

	result := enEp
	var locEp Episode
	if err := c.get(ctx, endpoint, nil, c.language, &locEp); err == nil {
		if textnorm.IsLatin(locEp.Name) && !locEp.IsGenericName() {
			result.Name = locEp.Name
		}
		if locEp.Overview != "" {
			result.Overview = locEp.Overview
		}
	}

	c.cache.Put(cacheKey, result)
	return &result, nil
}

// DownloadImage fetches an image from the TMDB CDN and writes it to dest.
// size is a TMDB size slug such as "w500" or "original".
func (c *Client) DownloadImage(ctx context.Context, imagePath, size, dest string) error {
	if imagePath == "" {
		return errors.New("empty image path")
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.imageBaseURL+size+imagePath, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tmdb image returned %d", resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("create image directory: %w", err)
	}
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create image file: %w", err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return fmt.Errorf("write image: %w", err)
	}
	return out.Close()
}
