// Package ytdlp implements the extraction backend that drives the yt-dlp
// command-line program.
package ytdlp

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	goytdlp "github.com/lrstanley/go-ytdlp"

	"github.com/1abhishek0948/Universal-Media-downloader/internal/policy"
	"github.com/1abhishek0948/Universal-Media-downloader/internal/types"
)

const backendName = "ytdlp"

// DefaultOutputTemplate names downloaded files after the media title.
const DefaultOutputTemplate = "%(title)s.%(ext)s"

// Config configures the yt-dlp backend.
type Config struct {
	// Executable is the yt-dlp binary. Empty resolves "yt-dlp" from PATH.
	Executable string

	// FFmpegPath is passed as --ffmpeg-location when set.
	FFmpegPath string

	// CookiesFile is a Netscape cookie file passed as --cookies.
	CookiesFile string

	// ProxyURL is passed as --proxy.
	ProxyURL string
}

// Backend resolves and downloads media with yt-dlp.
type Backend struct {
	config Config
}

// New returns a yt-dlp backend.
func New(config Config) *Backend {
	return &Backend{config: config}
}

func (b *Backend) Name() string { return backendName }

func (b *Backend) command() *goytdlp.Command {
	// Output files keep their local write time; the janitor ages by mtime.
	cmd := goytdlp.New().NoWarnings().NoMtime()
	if b.config.Executable != "" {
		cmd.SetExecutable(b.config.Executable)
	}
	if b.config.FFmpegPath != "" {
		cmd.FFmpegLocation(b.config.FFmpegPath)
	}
	if b.config.CookiesFile != "" {
		cmd.Cookies(b.config.CookiesFile)
	}
	if b.config.ProxyURL != "" {
		cmd.Proxy(b.config.ProxyURL)
	}
	return cmd
}

// Extract runs `yt-dlp --dump-single-json` for url. Playlist URLs are
// listed flat so entries are not resolved one by one.
func (b *Backend) Extract(ctx context.Context, url string) (*types.MediaInfo, error) {
	cmd := b.command().DumpSingleJSON()
	if policy.IsPlaylistURL(url) {
		cmd.YesPlaylist().FlatPlaylist()
	} else {
		cmd.NoPlaylist()
	}

	res, err := cmd.Run(ctx, url)
	if err != nil {
		return nil, classifyFailure(stderrOf(res), err, nil)
	}
	info, err := decodeDump([]byte(res.Stdout))
	if err != nil {
		return nil, err
	}
	if !info.IsPlaylist && len(info.Formats) == 0 {
		return nil, fmt.Errorf("yt-dlp returned no formats for %s: %w", url, types.ErrNoFormats)
	}
	return info, nil
}

// Download fetches req.URL into req.OutputDir and returns the final file
// paths as reported by yt-dlp after post-processing.
func (b *Backend) Download(ctx context.Context, req types.DownloadRequest) (*types.DownloadResult, error) {
	if req.OutputDir == "" {
		return nil, errors.New("output directory is required")
	}
	tmpl := req.OutputTemplate
	if tmpl == "" {
		tmpl = DefaultOutputTemplate
	}

	cmd := b.command().
		Output(filepath.Join(req.OutputDir, tmpl)).
		Print("after_move:filepath")

	if req.Playlist {
		cmd.YesPlaylist()
	} else {
		cmd.NoPlaylist()
	}

	selector := req.FormatSelector
	if req.AudioOnly {
		if selector == "" {
			selector = "bestaudio/best"
		}
		cmd.ExtractAudio()
		if req.AudioFormat != "" {
			cmd.AudioFormat(req.AudioFormat)
		}
		if req.AudioQuality != "" {
			cmd.AudioQuality(req.AudioQuality)
		}
	}
	if selector != "" {
		cmd.Format(selector)
	}

	res, err := cmd.Run(ctx, req.URL)
	if err != nil {
		return nil, classifyFailure(stderrOf(res), err, types.ErrDownloadFailed)
	}

	paths := printedPaths(res.Stdout)
	if len(paths) == 0 {
		return nil, fmt.Errorf("yt-dlp reported no output files for %s: %w", req.URL, types.ErrDownloadFailed)
	}
	return &types.DownloadResult{Paths: paths}, nil
}

func stderrOf(res *goytdlp.Result) string {
	if res == nil {
		return ""
	}
	return res.Stderr
}

// printedPaths collects the non-empty lines printed by
// `--print after_move:filepath`, one per finished item.
func printedPaths(stdout string) []string {
	var out []string
	for _, line := range strings.Split(stdout, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
