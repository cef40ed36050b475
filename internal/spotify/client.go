// Package spotify is a minimal Spotify Web API client covering exactly
// what the playlist tool needs: the user's saved tracks, track search, and
// playlist creation.
package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/hanneskern95-jpg/AI-assistant/pkg/logger"
)

const defaultBaseURL = "https://api.spotify.com/v1"

// Track is one resolved track.
type Track struct {
	URI    string `json:"uri"`
	Name   string `json:"name"`
	Artist string `json:"artist"`
}

// Playlist is a created playlist.
type Playlist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// API is the surface the playlist tool depends on. Tests substitute fakes.
type API interface {
	LikedSongs(ctx context.Context, limit int) ([]Track, error)
	SearchTrack(ctx context.Context, query string) (*Track, error)
	CreatePlaylist(ctx context.Context, name, description string, trackURIs []string) (*Playlist, error)
}

// Client talks to the Spotify Web API with a pre-issued user token.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// NewClient builds a client around a user access token with the
// playlist-modify and library-read scopes.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  logger.Get(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LikedSongs returns up to limit tracks from the user's saved library,
// most recently saved first.
func (c *Client) LikedSongs(ctx context.Context, limit int) ([]Track, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}

	var body struct {
		Items []struct {
			Track struct {
				URI     string `json:"uri"`
				Name    string `json:"name"`
				Artists []struct {
					Name string `json:"name"`
				} `json:"artists"`
			} `json:"track"`
		} `json:"items"`
	}
	path := fmt.Sprintf("/me/tracks?limit=%d", limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &body); err != nil {
		return nil, err
	}

	tracks := make([]Track, 0, len(body.Items))
	for _, item := range body.Items {
		t := Track{URI: item.Track.URI, Name: item.Track.Name}
		if len(item.Track.Artists) > 0 {
			t.Artist = item.Track.Artists[0].Name
		}
		tracks = append(tracks, t)
	}
	return tracks, nil
}

// SearchTrack resolves a free-text query ("song - artist") to the best
// matching track, or nil when nothing matches.
func (c *Client) SearchTrack(ctx context.Context, query string) (*Track, error) {
	var body struct {
		Tracks struct {
			Items []struct {
				URI     string `json:"uri"`
				Name    string `json:"name"`
				Artists []struct {
					Name string `json:"name"`
				} `json:"artists"`
			} `json:"items"`
		} `json:"tracks"`
	}
	path := "/search?type=track&limit=1&q=" + url.QueryEscape(query)
	if err := c.do(ctx, http.MethodGet, path, nil, &body); err != nil {
		return nil, err
	}
	if len(body.Tracks.Items) == 0 {
		return nil, nil
	}

	item := body.Tracks.Items[0]
	t := &Track{URI: item.URI, Name: item.Name}
	if len(item.Artists) > 0 {
		t.Artist = item.Artists[0].Name
	}
	return t, nil
}

// CreatePlaylist creates a private playlist for the current user and adds
// the given track URIs to it.
func (c *Client) CreatePlaylist(ctx context.Context, name, description string, trackURIs []string) (*Playlist, error) {
	var me struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodGet, "/me", nil, &me); err != nil {
		return nil, err
	}

	create := map[string]any{
		"name":        name,
		"description": description,
		"public":      false,
	}
	var created struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		ExternalURLs struct {
			Spotify string `json:"spotify"`
		} `json:"external_urls"`
	}
	path := fmt.Sprintf("/users/%s/playlists", url.PathEscape(me.ID))
	if err := c.do(ctx, http.MethodPost, path, create, &created); err != nil {
		return nil, err
	}

	if len(trackURIs) > 0 {
		add := map[string]any{"uris": trackURIs}
		addPath := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(created.ID))
		if err := c.do(ctx, http.MethodPost, addPath, add, nil); err != nil {
			return nil, err
		}
	}

	c.logger.Info("Playlist created",
		zap.String("playlist", created.Name),
		zap.Int("tracks", len(trackURIs)),
	)
	return &Playlist{ID: created.ID, Name: created.Name, URL: created.ExternalURLs.Spotify}, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("spotify request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("spotify %s %s: status %d: %s", method, path, resp.StatusCode, string(raw))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
