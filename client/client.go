// Package client resolves media URLs into quality tiers and downloads them
// through the configured extraction backends.
package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/1abhishek0948/Universal-Media-downloader/internal/extractor"
	"github.com/1abhishek0948/Universal-Media-downloader/internal/extractor/youtube"
	"github.com/1abhishek0948/Universal-Media-downloader/internal/extractor/ytdlp"
	"github.com/1abhishek0948/Universal-Media-downloader/internal/muxer"
	"github.com/1abhishek0948/Universal-Media-downloader/internal/objectstore"
	"github.com/1abhishek0948/Universal-Media-downloader/internal/orchestrator"
	"github.com/1abhishek0948/Universal-Media-downloader/internal/policy"
	"github.com/1abhishek0948/Universal-Media-downloader/internal/selector"
)

// Client is the high-level media client.
type Client struct {
	config     Config
	engine     *orchestrator.Engine
	httpClient *http.Client
	publisher  Publisher
	logger     Logger
}

// New creates a new media client.
func New(config Config) *Client {
	return NewClient(config)
}

// NewClient creates a new media client with the yt-dlp and native YouTube
// backends.
func NewClient(config Config) *Client {
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = defaultHTTPClient(config.ProxyURL, config.CookieJar)
	} else if config.CookieJar != nil {
		httpClient.Jar = config.CookieJar
	}

	c := &Client{}
	backends := []extractor.Extractor{
		ytdlp.New(ytdlp.Config{
			Executable:  config.YtDlpPath,
			FFmpegPath:  config.FFmpegPath,
			CookiesFile: config.CookiesFile,
			ProxyURL:    config.ProxyURL,
		}),
		youtube.New(youtube.Config{
			HTTPClient: httpClient,
			Muxer:      muxer.NewFFmpegMuxer(config.FFmpegPath),
			OnEvent: func(stage, phase, path, detail string) {
				c.emitDownloadEvent(stage, phase, "", path, detail)
			},
		}),
	}
	c.setup(config, httpClient, backends)
	return c
}

func (c *Client) setup(config Config, httpClient *http.Client, backends []extractor.Extractor) {
	if config.DownloadDir == "" {
		config.DownloadDir = DefaultDownloadDir
	}
	c.config = config
	c.httpClient = httpClient
	c.logger = config.Logger
	if c.logger == nil {
		c.logger = nopLogger{}
	}
	c.publisher = config.Publisher
	if c.publisher == nil {
		c.publisher = objectstore.LocalStore{BaseURL: DownloadURLPrefix}
	}
	sel := policy.NewSelector(extractor.Names(backends), config.Extractors, config.SkipExtractors)
	c.engine = orchestrator.NewEngine(sel, backends, c.observe)
}

// DownloadDir returns the directory finished files are written to.
func (c *Client) DownloadDir() string {
	return c.config.DownloadDir
}

// GetMedia resolves rawURL into metadata and formats.
func (c *Client) GetMedia(ctx context.Context, rawURL string) (*MediaInfo, error) {
	target, err := ValidateURL(rawURL)
	if err != nil {
		return nil, err
	}
	ctx, cancel := withDefaultTimeout(ctx, c.config.RequestTimeout)
	defer cancel()

	return c.engine.Extract(ctx, target)
}

// GetTiers resolves rawURL and picks one format per quality tier.
// Live streams fail with ErrLiveStream.
func (c *Client) GetTiers(ctx context.Context, rawURL string) (*MediaInfo, TierMap, error) {
	info, err := c.GetMedia(ctx, rawURL)
	if err != nil {
		return nil, nil, err
	}
	if info.IsLive {
		return info, nil, fmt.Errorf("%s: %w", rawURL, ErrLiveStream)
	}
	return info, selector.SelectTiers(info.Formats), nil
}

// ValidateURL trims raw and checks that it is an absolute http(s) URL.
func ValidateURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	return s, nil
}

// IsPlaylistURL reports whether rawURL points at a playlist.
func IsPlaylistURL(rawURL string) bool {
	return policy.IsPlaylistURL(rawURL)
}

func (c *Client) observe(_ context.Context, op, backend, phase string, err error) {
	detail := ""
	if err != nil {
		detail = err.Error()
		c.logger.Warnf("%s with %s failed: %v", op, backend, err)
	}
	c.emitExtractionEvent(op, phase, backend, detail)
}

func (c *Client) emitExtractionEvent(stage, phase, backend, detail string) {
	if c == nil || c.config.OnExtractionEvent == nil {
		return
	}
	c.config.OnExtractionEvent(ExtractionEvent{
		Stage:     stage,
		Phase:     phase,
		Extractor: backend,
		Detail:    detail,
	})
}

func (c *Client) emitDownloadEvent(stage, phase, rawURL, path, detail string) {
	if c == nil || c.config.OnDownloadEvent == nil {
		return
	}
	c.config.OnDownloadEvent(DownloadEvent{
		Stage:  stage,
		Phase:  phase,
		URL:    rawURL,
		Path:   path,
		Detail: detail,
	})
}

func withDefaultTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
