package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/hanneskern95-jpg/AI-assistant/internal/adapter"
	"github.com/hanneskern95-jpg/AI-assistant/internal/spotify"
	"github.com/hanneskern95-jpg/AI-assistant/internal/tool"
	apperrors "github.com/hanneskern95-jpg/AI-assistant/pkg/errors"
	"github.com/hanneskern95-jpg/AI-assistant/pkg/logger"
)

const (
	playlistToolName   = "create_spotify_playlist"
	defaultSongCount   = 10
	maxSongCount       = 30
	likedSongsFetchCap = 50
)

type playlistInput struct {
	Description string `json:"description"`
	NumSongs    int    `json:"num_songs,omitempty"`
}

type playlistPlan struct {
	PlaylistName string   `json:"playlist_name"`
	Songs        []string `json:"songs"`
}

// PlaylistCreator turns a free-text description into a real Spotify
// playlist. The user's liked songs are fed to the model as taste context;
// the model proposes tracks, which are resolved by search before the
// playlist is created.
type PlaylistCreator struct {
	tool.Base
	chat    adapter.ChatClient
	model   string
	spotify spotify.API

	// likedCache holds the taste-context tracks after the first fetch.
	// Liked songs move slowly; one fetch per process is enough.
	likedCache []spotify.Track

	logger *zap.Logger
}

// NewPlaylistCreator wires the tool. The model boundary is mandatory; the
// Spotify backend may be nil, in which case executions report the missing
// configuration instead of failing at startup.
func NewPlaylistCreator(deps Deps) (tool.Tool, error) {
	if deps.Chat == nil {
		return nil, apperrors.NewMissingDependency(playlistToolName, "chat client")
	}
	if deps.SearchModel == "" {
		return nil, apperrors.NewMissingDependency(playlistToolName, "search model")
	}
	return &PlaylistCreator{
		chat:    deps.Chat,
		model:   deps.SearchModel,
		spotify: deps.Spotify,
		logger:  logger.Get(),
	}, nil
}

func (p *PlaylistCreator) Descriptor() tool.Descriptor {
	return tool.Descriptor{
		Name:        playlistToolName,
		Description: "Create a Spotify playlist from a free-text description of the desired mood, genre, or occasion. Uses the user's liked songs as taste context.",
		Parameters: tool.ObjectSchema[playlistInput](map[string]string{
			"description": "What the playlist should feel like, e.g. 'upbeat indie for a road trip'.",
			"num_songs":   "How many songs to include. Defaults to 10, capped at 30.",
		}),
	}
}

func (p *PlaylistCreator) Execute(ctx context.Context, args map[string]any) *tool.Result {
	var input playlistInput
	if err := tool.BindArguments(args, &input); err != nil {
		return tool.Errorf("Invalid arguments: %v", err)
	}
	if strings.TrimSpace(input.Description) == "" {
		p.logger.Debug("Rejected tool call",
			zap.Error(apperrors.NewInvalidArguments(playlistToolName, "description", "required")),
		)
		return tool.Errorf("A playlist description is required.")
	}
	if p.spotify == nil {
		return tool.Errorf("Spotify is not configured. Set SPOTIFY_TOKEN to enable playlist creation.")
	}

	count := input.NumSongs
	if count <= 0 {
		count = defaultSongCount
	}
	if count > maxSongCount {
		count = maxSongCount
	}

	liked, err := p.likedSongs(ctx)
	if err != nil {
		p.logger.Warn("Liked songs unavailable, continuing without taste context", zap.Error(err))
	}

	plan, err := p.planPlaylist(ctx, input.Description, count, liked)
	if err != nil {
		return tool.Errorf("Could not plan the playlist: %v", err)
	}
	if len(plan.Songs) == 0 {
		return tool.Errorf("The model proposed no songs for %q.", input.Description)
	}

	var uris []string
	var resolved []string
	for _, song := range plan.Songs {
		track, err := p.spotify.SearchTrack(ctx, song)
		if err != nil {
			return tool.Errorf("Spotify search failed: %v", err)
		}
		if track == nil {
			p.logger.Debug("No match for proposed song", zap.String("song", song))
			continue
		}
		uris = append(uris, track.URI)
		resolved = append(resolved, fmt.Sprintf("%s - %s", track.Name, track.Artist))
	}
	if len(uris) == 0 {
		return tool.Errorf("None of the proposed songs could be found on Spotify.")
	}

	playlist, err := p.spotify.CreatePlaylist(ctx, plan.PlaylistName, input.Description, uris)
	if err != nil {
		return tool.Errorf("Could not create the playlist: %v", err)
	}

	return &tool.Result{
		Summary: fmt.Sprintf("Created playlist %q with %d songs.", playlist.Name, len(uris)),
		Data: map[string]any{
			"playlist_name": playlist.Name,
			"playlist_url":  playlist.URL,
			"songs":         resolved,
		},
	}
}

// Render lists the playlist contents under the link.
func (p *PlaylistCreator) Render(result *tool.Result) string {
	if result == nil {
		return ""
	}
	if result.IsError || result.Data == nil {
		return result.Summary
	}

	var b strings.Builder
	b.WriteString(result.Summary)
	if url, ok := result.Data["playlist_url"].(string); ok && url != "" {
		b.WriteString("\n")
		b.WriteString(url)
	}
	for _, song := range stringSlice(result.Data["songs"]) {
		b.WriteString("\n  - ")
		b.WriteString(song)
	}
	return b.String()
}

// RenderPinned shows a compact view of a previously pinned playlist.
func (p *PlaylistCreator) RenderPinned(data map[string]any) string {
	name, _ := data["playlist_name"].(string)
	url, _ := data["playlist_url"].(string)
	if name == "" || url == "" {
		return "Pinned object has invalid format."
	}
	return fmt.Sprintf("Playlist %q\n%s", name, url)
}

func (p *PlaylistCreator) likedSongs(ctx context.Context) ([]spotify.Track, error) {
	if p.likedCache != nil {
		return p.likedCache, nil
	}
	liked, err := p.spotify.LikedSongs(ctx, likedSongsFetchCap)
	if err != nil {
		return nil, err
	}
	p.likedCache = liked
	return liked, nil
}

func (p *PlaylistCreator) planPlaylist(ctx context.Context, description string, count int, liked []spotify.Track) (*playlistPlan, error) {
	var taste strings.Builder
	for _, t := range liked {
		fmt.Fprintf(&taste, "- %s by %s\n", t.Name, t.Artist)
	}

	prompt := fmt.Sprintf(
		"Playlist request: %s\nNumber of songs: %d\n\nSongs the user already likes (use these only as taste signal, do not just copy them):\n%s",
		description, count, taste.String(),
	)

	raw, err := p.chat.Complete(ctx, adapter.CompletionRequest{
		Model: p.model,
		SystemPrompt: "You are a music curator. Respond with a JSON object of the form " +
			`{"playlist_name": "...", "songs": ["Song Title - Artist", ...]} and nothing else. ` +
			"Propose exactly the requested number of songs.",
		Prompt:   prompt,
		JSONMode: true,
	})
	if err != nil {
		return nil, err
	}

	var plan playlistPlan
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &plan); err != nil {
		return nil, fmt.Errorf("unparsable playlist plan: %w", err)
	}
	if plan.PlaylistName == "" {
		plan.PlaylistName = description
	}
	if len(plan.Songs) > count {
		plan.Songs = plan.Songs[:count]
	}
	return &plan, nil
}
