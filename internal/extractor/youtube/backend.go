// Package youtube implements the native YouTube extraction backend on top of
// github.com/kkdai/youtube/v2.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/kkdai/youtube/v2"

	"github.com/1abhishek0948/Universal-Media-downloader/internal/formats"
	"github.com/1abhishek0948/Universal-Media-downloader/internal/muxer"
	"github.com/1abhishek0948/Universal-Media-downloader/internal/policy"
	"github.com/1abhishek0948/Universal-Media-downloader/internal/types"
)

const backendName = "youtube"

// videoClient is the subset of *youtube.Client the backend uses.
type videoClient interface {
	GetVideoContext(ctx context.Context, url string) (*youtube.Video, error)
	GetStreamContext(ctx context.Context, video *youtube.Video, format *youtube.Format) (io.ReadCloser, int64, error)
	GetPlaylistContext(ctx context.Context, url string) (*youtube.Playlist, error)
	VideoFromPlaylistEntryContext(ctx context.Context, entry *youtube.PlaylistEntry) (*youtube.Video, error)
}

// EventFunc receives download progress notifications.
type EventFunc func(stage, phase, path, detail string)

// Config configures the native backend.
type Config struct {
	// HTTPClient carries proxy and cookie settings. Nil uses http.DefaultClient.
	HTTPClient *http.Client

	// Muxer merges separate video/audio streams and transcodes MP3.
	// Nil disables both; such downloads fail with types.ErrDownloadFailed.
	Muxer muxer.Muxer

	// OnEvent is optional.
	OnEvent EventFunc
}

// Backend resolves YouTube media without external programs.
type Backend struct {
	client  videoClient
	muxer   muxer.Muxer
	onEvent EventFunc
}

// New returns a native YouTube backend.
func New(config Config) *Backend {
	return &Backend{
		client:  &youtube.Client{HTTPClient: config.HTTPClient},
		muxer:   config.Muxer,
		onEvent: config.OnEvent,
	}
}

func (b *Backend) Name() string { return backendName }

// Extract resolves a video or, for playlist URLs, the playlist entries.
func (b *Backend) Extract(ctx context.Context, url string) (*types.MediaInfo, error) {
	if policy.IsPlaylistURL(url) {
		pl, err := b.client.GetPlaylistContext(ctx, url)
		if err != nil {
			return nil, classify(err)
		}
		return playlistInfo(pl), nil
	}

	video, err := b.client.GetVideoContext(ctx, url)
	if err != nil {
		return nil, classify(err)
	}
	info := videoInfo(video)
	if !info.IsLive && len(info.Formats) == 0 {
		return nil, fmt.Errorf("no formats for video %s: %w", video.ID, types.ErrNoFormats)
	}
	return info, nil
}

func videoInfo(video *youtube.Video) *types.MediaInfo {
	return &types.MediaInfo{
		ID:          video.ID,
		Title:       video.Title,
		Thumbnail:   bestThumbnail(video.Thumbnails),
		Uploader:    video.Author,
		Description: video.Description,
		Duration:    video.Duration,
		WebpageURL:  "https://www.youtube.com/watch?v=" + video.ID,
		IsLive:      video.HLSManifestURL != "",
		Formats:     formats.ParseYouTube(video.Formats),
		Extractor:   backendName,
	}
}

func playlistInfo(pl *youtube.Playlist) *types.MediaInfo {
	info := &types.MediaInfo{
		ID:         pl.ID,
		Title:      pl.Title,
		Uploader:   pl.Author,
		WebpageURL: "https://www.youtube.com/playlist?list=" + pl.ID,
		IsPlaylist: true,
		Extractor:  backendName,
	}
	for _, entry := range pl.Videos {
		if entry == nil || entry.ID == "" {
			continue
		}
		if info.Thumbnail == "" {
			info.Thumbnail = bestThumbnail(entry.Thumbnails)
		}
		info.Entries = append(info.Entries, types.PlaylistEntry{
			ID:    entry.ID,
			Title: entry.Title,
			URL:   "https://www.youtube.com/watch?v=" + entry.ID,
		})
	}
	return info
}

func bestThumbnail(thumbs youtube.Thumbnails) string {
	if len(thumbs) == 0 {
		return ""
	}
	best := 0
	for i := range thumbs {
		if thumbs[i].Width > thumbs[best].Width {
			best = i
		}
	}
	return thumbs[best].URL
}

// classify maps client errors onto the shared sentinels.
func classify(err error) error {
	switch {
	case errors.Is(err, youtube.ErrLoginRequired),
		errors.Is(err, youtube.ErrVideoPrivate),
		errors.Is(err, youtube.ErrNotPlayableInEmbed):
		return fmt.Errorf("%w: %w", types.ErrRestricted, err)
	case errors.Is(err, youtube.ErrInvalidPlaylist),
		errors.Is(err, youtube.ErrInvalidCharactersInVideoID),
		errors.Is(err, youtube.ErrVideoIDMinLength):
		return fmt.Errorf("%w: %w", types.ErrInvalidURL, err)
	}

	var statusErr *youtube.ErrPlayabiltyStatus
	if errors.As(err, &statusErr) {
		reason := strings.ToLower(statusErr.Status + " " + statusErr.Reason)
		if strings.Contains(reason, "live") || strings.Contains(reason, "premiere") {
			return fmt.Errorf("%w: %w", types.ErrLiveStream, err)
		}
		return fmt.Errorf("%w: %w", types.ErrRestricted, err)
	}
	return err
}
