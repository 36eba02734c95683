package player

import "time"

type Provider string

const (
	ProviderYouTube    Provider = "youtube"
	ProviderSoundCloud Provider = "soundcloud"
	ProviderTwitch     Provider = "twitch"
	ProviderVimeo      Provider = "vimeo"
	ProviderUnknown    Provider = "unknown"
)

// Track is a resolved, playable item.
type Track struct {
	// ID is the provider-specific identifier (e.g. a YouTube video id).
	ID    string
	Title string
	// Source is the canonical page URL shown to users.
	Source string
	// StreamURL is the direct media URL handed to the decoder. Empty means
	// Source is the media URL.
	StreamURL string
	// Duration is zero when unknown (live streams).
	Duration time.Duration
	Live     bool
	Provider Provider
	// Thumbnail is resolved once, at resolution time.
	Thumbnail string
}

// MediaURL returns the URL the decoder should open.
func (t *Track) MediaURL() string {
	if t.StreamURL != "" {
		return t.StreamURL
	}
	return t.Source
}
