package client

import (
	"context"
	"net/http"
	"time"
)

// DefaultDownloadDir is where finished files land when Config.DownloadDir is empty.
const DefaultDownloadDir = "mydownloads"

// DownloadURLPrefix is the path finished files are served under by the web layer.
const DownloadURLPrefix = "/mydownloads"

// Publisher makes a finished file reachable and returns its URL.
type Publisher interface {
	Put(ctx context.Context, key, path string) (string, error)
}

// Config holds configuration for the media client.
type Config struct {
	// HTTPClient is used for direct image fetches and the native YouTube backend.
	// If nil, a client honoring ProxyURL and CookieJar is built.
	HTTPClient *http.Client

	// ProxyURL is the optional proxy URL for all backends.
	// If HTTPClient is provided, only yt-dlp uses it.
	ProxyURL string

	// CookieJar is attached to the HTTP client used by the native backend.
	CookieJar http.CookieJar

	// CookiesFile is a Netscape cookie file handed to yt-dlp.
	CookiesFile string

	// Extractors sets the backend trial order (e.g. "youtube", "ytdlp").
	// If empty, YouTube URLs try the native backend first and every other
	// URL goes to yt-dlp.
	Extractors []string

	// SkipExtractors removes backends from the trial order.
	SkipExtractors []string

	// YtDlpPath is the yt-dlp executable. Empty resolves it from PATH.
	YtDlpPath string

	// FFmpegPath is the ffmpeg executable used for merging and MP3 output.
	FFmpegPath string

	// DownloadDir receives finished files and playlist archives.
	// Default is DefaultDownloadDir.
	DownloadDir string

	// StagingDir holds per-playlist work directories. Default is os.TempDir().
	StagingDir string

	// RequestTimeout bounds metadata extraction when ctx has no deadline.
	RequestTimeout time.Duration

	// DownloadTimeout bounds downloads when ctx has no deadline.
	DownloadTimeout time.Duration

	// ImageMaxRetries is the retry budget for direct image fetches.
	ImageMaxRetries int

	// Publisher turns finished files into download URLs.
	// If nil, files are addressed under DownloadURLPrefix.
	Publisher Publisher

	// Logger receives non-fatal warnings. Nil disables logging.
	Logger Logger

	// OnExtractionEvent is called for each backend attempt.
	OnExtractionEvent func(ExtractionEvent)

	// OnDownloadEvent is called as downloads progress.
	OnDownloadEvent func(DownloadEvent)
}
