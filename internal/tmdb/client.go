// Package tmdb is a small client for The Movie Database REST API.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var ErrNotFound = errors.New("movie not found")

// MovieAPI is implemented by Client and CachedClient.
type MovieAPI interface {
	SearchMovies(ctx context.Context, query string) (*SearchResponse, error)
	Movie(ctx context.Context, id int) (*MovieInfo, error)
	ReleaseDates(ctx context.Context, id int) (*ReleaseDatesResponse, error)
	Credits(ctx context.Context, id int) (*Credits, error)
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ MovieAPI = (*Client)(nil)

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) SearchMovies(ctx context.Context, query string) (*SearchResponse, error) {
	var resp SearchResponse
	err := c.get(ctx, "/search/movie", url.Values{
		"query":         {query},
		"include_adult": {"false"},
		"language":      {"en-US"},
		"page":          {"1"},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Movie(ctx context.Context, id int) (*MovieInfo, error) {
	var resp MovieInfo
	if err := c.get(ctx, "/movie/"+strconv.Itoa(id), localized(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ReleaseDates(ctx context.Context, id int) (*ReleaseDatesResponse, error) {
	var resp ReleaseDatesResponse
	if err := c.get(ctx, "/movie/"+strconv.Itoa(id)+"/release_dates", url.Values{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Credits(ctx context.Context, id int) (*Credits, error) {
	var resp Credits
	if err := c.get(ctx, "/movie/"+strconv.Itoa(id)+"/credits", localized(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, dest any) error {
	params.Set("api_key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("movie api %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("movie api %s: unexpected status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("movie api %s: decode response: %w", path, err)
	}
	return nil
}

func localized() url.Values {
	return url.Values{
		"include_adult": {"false"},
		"language":      {"en-US"},
	}
}

// FetchDetails loads a movie with its release dates and credits and reshapes them for display.
func FetchDetails(ctx context.Context, api MovieAPI, id int) (*MovieDetails, error) {
	info, err := api.Movie(ctx, id)
	if err != nil {
		return nil, err
	}
	releases, err := api.ReleaseDates(ctx, id)
	if err != nil {
		return nil, err
	}
	credits, err := api.Credits(ctx, id)
	if err != nil {
		return nil, err
	}
	details := FormatMovie(info, releases, credits)
	return &details, nil
}
