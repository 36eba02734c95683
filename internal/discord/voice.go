package discord

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/illyaz/aquabot/internal/music/player"
	"github.com/illyaz/aquabot/internal/music/stream"
)

// voiceSink streams a track's audio into a guild voice connection. It
// joins lazily on the first Play and reuses the connection until
// Disconnect.
type voiceSink struct {
	dg      *discordgo.Session
	guildID string
	volume  *stream.Volume

	mu sync.Mutex
	vc *discordgo.VoiceConnection
}

func newVoiceSink(dg *discordgo.Session, guildID string) *voiceSink {
	return &voiceSink{
		dg:      dg,
		guildID: guildID,
		volume:  stream.NewVolume(100),
	}
}

func (s *voiceSink) Play(ctx context.Context, voiceChannelID string, t *player.Track, start time.Duration) error {
	vc, err := s.connect(voiceChannelID)
	if err != nil {
		return err
	}

	r, cleanup, err := stream.Open(t.MediaURL(), start)
	if err != nil {
		return fmt.Errorf("stream open failed: %w", err)
	}
	defer cleanup()

	if err := vc.Speaking(true); err != nil {
		log.Printf("[WARN] [Voice %s] Speaking(true) failed: %v", s.guildID, err)
	}
	defer func() {
		if err := vc.Speaking(false); err != nil {
			log.Printf("[WARN] [Voice %s] Speaking(false) failed: %v", s.guildID, err)
		}
	}()

	return stream.EncodeToOpus(ctx, r, vc.OpusSend, s.volume)
}

func (s *voiceSink) SetVolume(percent int) {
	s.volume.Set(percent)
}

func (s *voiceSink) Disconnect() error {
	s.mu.Lock()
	vc := s.vc
	s.vc = nil
	s.mu.Unlock()
	if vc == nil {
		return nil
	}
	return vc.Disconnect()
}

// connect joins voiceChannelID, moving channels when already connected
// elsewhere.
func (s *voiceSink) connect(voiceChannelID string) (*discordgo.VoiceConnection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.vc != nil && s.vc.ChannelID == voiceChannelID {
		return s.vc, nil
	}

	vc, err := s.dg.ChannelVoiceJoin(s.guildID, voiceChannelID, false, true)
	if err != nil {
		return nil, fmt.Errorf("voice join failed: %w", err)
	}
	s.vc = vc
	return vc, nil
}
