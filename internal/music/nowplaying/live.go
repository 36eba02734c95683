package nowplaying

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/illyaz/aquabot/internal/music/player"
)

const startTimestampMarker = `"startTimestamp":"`

// YouTubeLiveStart scrapes a live stream's broadcast start time from
// its watch page. YouTube embeds it as an RFC3339 timestamp in the
// player response JSON; there is no public API for it.
func YouTubeLiveStart(client *http.Client, t *player.Track) (time.Time, error) {
	if t.Provider != player.ProviderYouTube {
		return time.Time{}, errors.New("not a YouTube stream")
	}
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Get(t.Source)
	if err != nil {
		return time.Time{}, fmt.Errorf("watch page fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return time.Time{}, fmt.Errorf("watch page fetch failed: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return time.Time{}, fmt.Errorf("watch page read failed: %w", err)
	}

	return parseStartTimestamp(string(body))
}

func parseStartTimestamp(html string) (time.Time, error) {
	idx := strings.Index(html, startTimestampMarker)
	if idx < 0 {
		return time.Time{}, errors.New("no start timestamp on watch page")
	}
	rest := html[idx+len(startTimestampMarker):]
	end := strings.IndexByte(rest, '"')
	if end < 0 {
		return time.Time{}, errors.New("malformed start timestamp")
	}

	start, err := time.Parse(time.RFC3339, rest[:end])
	if err != nil {
		return time.Time{}, fmt.Errorf("bad start timestamp %q: %w", rest[:end], err)
	}
	return start, nil
}
