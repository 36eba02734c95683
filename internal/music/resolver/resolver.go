// Package resolver turns user-supplied links into playable tracks:
// title, duration, thumbnail, and a streamable URL.
package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	youtube "github.com/kkdai/youtube/v2"

	"github.com/illyaz/aquabot/internal/music/player"
)

var (
	ErrNotALink    = errors.New("input is not a recognizable link")
	ErrUnsupported = errors.New("unsupported media source")
)

type Resolver struct {
	yt   *youtube.Client
	http *http.Client
}

func New() *Resolver {
	httpClient := &http.Client{Timeout: 15 * time.Second}
	return &Resolver{
		yt:   &youtube.Client{HTTPClient: httpClient},
		http: httpClient,
	}
}

// Resolve parses input into one or more tracks. Playlist links expand
// to every entry; everything else yields a single track.
func (r *Resolver) Resolve(ctx context.Context, input string) ([]*player.Track, error) {
	input = strings.TrimSpace(input)
	u, err := url.Parse(input)
	if err != nil || u.Host == "" {
		return nil, ErrNotALink
	}

	switch DetectProvider(input) {
	case player.ProviderYouTube:
		if IsYouTubePlaylist(input) {
			return r.resolveYouTubePlaylist(ctx, input)
		}
		t, err := r.resolveYouTubeVideo(ctx, input)
		if err != nil {
			return nil, err
		}
		return []*player.Track{t}, nil
	case player.ProviderSoundCloud:
		t, err := r.resolveOEmbed(ctx, input, player.ProviderSoundCloud,
			"https://soundcloud.com/oembed?format=json&url=")
		if err != nil {
			return nil, err
		}
		return []*player.Track{t}, nil
	case player.ProviderVimeo:
		t, err := r.resolveOEmbed(ctx, input, player.ProviderVimeo,
			"https://vimeo.com/api/oembed.json?url=")
		if err != nil {
			return nil, err
		}
		return []*player.Track{t}, nil
	case player.ProviderTwitch:
		// Twitch streams are always live; ffmpeg handles the HLS URL.
		return []*player.Track{{
			Title:    input,
			Source:   input,
			Live:     true,
			Provider: player.ProviderTwitch,
		}}, nil
	default:
		// Assume a direct media link and let ffmpeg decide.
		return []*player.Track{{
			Title:    titleFromURL(u),
			Source:   input,
			Provider: player.ProviderUnknown,
		}}, nil
	}
}

func (r *Resolver) resolveYouTubeVideo(ctx context.Context, link string) (*player.Track, error) {
	videoID, err := ExtractYouTubeID(link)
	if err != nil {
		return nil, err
	}

	video, err := r.yt.GetVideoContext(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("video lookup failed: %w", err)
	}

	t := &player.Track{
		ID:       video.ID,
		Title:    video.Title,
		Source:   "https://www.youtube.com/watch?v=" + video.ID,
		Duration: video.Duration,
		Live:     video.Duration == 0,
		Provider: player.ProviderYouTube,
	}
	if len(video.Thumbnails) > 0 {
		t.Thumbnail = video.Thumbnails[len(video.Thumbnails)-1].URL
	}

	formats := video.Formats.WithAudioChannels()
	if len(formats) == 0 {
		return nil, fmt.Errorf("no audio formats for video %s", video.ID)
	}
	streamURL, err := r.yt.GetStreamURLContext(ctx, video, &formats[0])
	if err != nil {
		return nil, fmt.Errorf("stream URL failed: %w", err)
	}
	t.StreamURL = streamURL

	return t, nil
}

func (r *Resolver) resolveYouTubePlaylist(ctx context.Context, link string) ([]*player.Track, error) {
	playlist, err := r.yt.GetPlaylistContext(ctx, link)
	if err != nil {
		return nil, fmt.Errorf("playlist lookup failed: %w", err)
	}

	tracks := make([]*player.Track, 0, len(playlist.Videos))
	for _, entry := range playlist.Videos {
		tracks = append(tracks, &player.Track{
			ID:       entry.ID,
			Title:    entry.Title,
			Source:   "https://www.youtube.com/watch?v=" + entry.ID,
			Duration: entry.Duration,
			Provider: player.ProviderYouTube,
		})
	}
	if len(tracks) == 0 {
		return nil, errors.New("playlist is empty")
	}
	return tracks, nil
}

type oembedResponse struct {
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// resolveOEmbed fetches title and thumbnail from a provider's oEmbed
// endpoint. The source link itself is handed to ffmpeg for playback.
func (r *Resolver) resolveOEmbed(ctx context.Context, link string, provider player.Provider, endpoint string) (*player.Track, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+url.QueryEscape(link), nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("oembed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oembed request failed: status %d", resp.StatusCode)
	}

	var meta oembedResponse
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, fmt.Errorf("oembed decode failed: %w", err)
	}

	return &player.Track{
		Title:     meta.Title,
		Source:    link,
		Thumbnail: meta.ThumbnailURL,
		Provider:  provider,
	}, nil
}

// DetectProvider classifies a link by its host.
func DetectProvider(link string) player.Provider {
	u, err := url.Parse(link)
	if err != nil {
		return player.ProviderUnknown
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	switch {
	case host == "youtube.com" || host == "youtu.be" || host == "m.youtube.com" || host == "music.youtube.com":
		return player.ProviderYouTube
	case host == "soundcloud.com" || strings.HasSuffix(host, ".soundcloud.com"):
		return player.ProviderSoundCloud
	case host == "twitch.tv" || strings.HasSuffix(host, ".twitch.tv"):
		return player.ProviderTwitch
	case host == "vimeo.com" || strings.HasSuffix(host, ".vimeo.com"):
		return player.ProviderVimeo
	default:
		return player.ProviderUnknown
	}
}

// IsYouTubePlaylist reports whether link points at a playlist rather
// than a single video.
func IsYouTubePlaylist(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	q := u.Query()
	return q.Get("list") != "" && q.Get("v") == ""
}

// ExtractYouTubeID pulls the video ID out of the common link shapes.
func ExtractYouTubeID(link string) (string, error) {
	switch {
	case strings.Contains(link, "youtu.be/"):
		parts := strings.Split(link, "youtu.be/")
		if len(parts) != 2 {
			return "", errors.New("invalid YouTube URL format")
		}
		return strings.Split(parts[1], "?")[0], nil

	case strings.Contains(link, "watch?v="):
		parts := strings.Split(link, "v=")
		if len(parts) != 2 {
			return "", errors.New("invalid YouTube URL format")
		}
		return strings.Split(parts[1], "&")[0], nil

	case strings.Contains(link, "/live/"):
		parts := strings.Split(link, "/live/")
		if len(parts) != 2 {
			return "", errors.New("invalid YouTube URL format")
		}
		return strings.Split(parts[1], "?")[0], nil

	default:
		return "", errors.New("unsupported URL format")
	}
}

func titleFromURL(u *url.URL) string {
	if base := u.Path; base != "" && base != "/" {
		segs := strings.Split(strings.Trim(base, "/"), "/")
		return segs[len(segs)-1]
	}
	return u.Host
}
