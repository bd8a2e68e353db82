package client

import (
	"fmt"
	"strings"

	"github.com/1abhishek0948/Universal-Media-downloader/internal/selector"
	"github.com/1abhishek0948/Universal-Media-downloader/internal/types"
)

type (
	MediaInfo     = types.MediaInfo
	FormatInfo    = types.FormatInfo
	PlaylistEntry = types.PlaylistEntry

	// TierMap is the ordered quality-tier selection for one media item.
	TierMap = selector.TierMap
)

// MediaType is what the user asked to download.
type MediaType string

const (
	MediaVideo    MediaType = "video"
	MediaAudio    MediaType = "audio"
	MediaImage    MediaType = "image"
	MediaPlaylist MediaType = "playlist"
)

// ParseMediaType accepts the lower-case names above. Empty means video.
func ParseMediaType(s string) (MediaType, error) {
	switch t := MediaType(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return MediaVideo, nil
	case MediaVideo, MediaAudio, MediaImage, MediaPlaylist:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMediaType, s)
	}
}

// DownloadOptions selects what Download fetches.
type DownloadOptions struct {
	Type MediaType
	// FormatID is a format id or selection expression; video only.
	// Empty means "best".
	FormatID string
}

// DownloadResult describes a finished download.
type DownloadResult struct {
	Type  MediaType
	Title string
	// Path is the file in the download directory.
	Path     string
	FileName string
	// URL is where a browser can fetch the file.
	URL string
}

// ExtractionEvent reports one backend attempt.
type ExtractionEvent struct {
	Stage     string // "extract" or "download"
	Phase     string // "start", "success" or "failure"
	Extractor string
	Detail    string
}

// DownloadEvent reports download progress.
type DownloadEvent struct {
	Stage  string
	Phase  string
	URL    string
	Path   string
	Detail string
}
