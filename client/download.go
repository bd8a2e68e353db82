package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/1abhishek0948/Universal-Media-downloader/internal/archive"
	"github.com/1abhishek0948/Universal-Media-downloader/internal/downloader"
	"github.com/1abhishek0948/Universal-Media-downloader/internal/extractor/ytdlp"
	"github.com/1abhishek0948/Universal-Media-downloader/internal/types"
)

const (
	// VideoFormatDefault is used when no format id is requested.
	VideoFormatDefault = "best"
	// AudioFormatSelector picks the stream transcoded to MP3.
	AudioFormatSelector = "bestaudio/best"
	// AudioQuality is the MP3 bitrate in kbit/s.
	AudioQuality = "192"
	// PlaylistFormatSelector prefers MP4 video with M4A audio for every entry.
	PlaylistFormatSelector = "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]"
)

// Download fetches rawURL into the download directory and publishes it.
// Playlists are delegated to DownloadPlaylist.
func (c *Client) Download(ctx context.Context, rawURL string, options DownloadOptions) (*DownloadResult, error) {
	mediaType, err := ParseMediaType(string(options.Type))
	if err != nil {
		return nil, err
	}
	if mediaType == MediaPlaylist {
		return c.DownloadPlaylist(ctx, rawURL)
	}
	target, err := ValidateURL(rawURL)
	if err != nil {
		return nil, err
	}
	ctx, cancel := withDefaultTimeout(ctx, c.config.DownloadTimeout)
	defer cancel()

	if err := os.MkdirAll(c.config.DownloadDir, 0o755); err != nil {
		return nil, &DownloadFailureError{URL: target, Path: c.config.DownloadDir, Err: err}
	}

	c.emitDownloadEvent("download", "start", target, "", string(mediaType))
	path, title, err := c.fetch(ctx, target, mediaType, options.FormatID)
	if err != nil {
		c.emitDownloadEvent("download", "failure", target, path, err.Error())
		return nil, &DownloadFailureError{URL: target, Path: path, Err: err}
	}
	c.emitDownloadEvent("download", "complete", target, path, "")

	return c.publish(ctx, target, mediaType, title, path)
}

func (c *Client) fetch(ctx context.Context, target string, mediaType MediaType, formatID string) (string, string, error) {
	if mediaType == MediaImage {
		path, err := downloader.FetchToFile(ctx, c.httpClient, target, c.config.DownloadDir, downloader.TransportConfig{
			MaxRetries: c.config.ImageMaxRetries,
		})
		return path, "", err
	}

	req := types.DownloadRequest{
		URL:            target,
		OutputDir:      c.config.DownloadDir,
		OutputTemplate: ytdlp.DefaultOutputTemplate,
	}
	switch mediaType {
	case MediaAudio:
		req.FormatSelector = AudioFormatSelector
		req.AudioOnly = true
		req.AudioFormat = "mp3"
		req.AudioQuality = AudioQuality
	default:
		req.FormatSelector = formatID
		if req.FormatSelector == "" {
			req.FormatSelector = VideoFormatDefault
		}
	}

	res, err := c.engine.Download(ctx, req)
	if err != nil {
		return "", "", err
	}
	if len(res.Paths) == 0 {
		return "", res.Title, fmt.Errorf("no output files: %w", ErrDownloadFailed)
	}
	return res.Paths[0], res.Title, nil
}

// DownloadPlaylist downloads every entry of rawURL into a private staging
// directory, zips them into the download directory as <slug(title)>.zip and
// publishes the archive. The staging directory is always removed.
func (c *Client) DownloadPlaylist(ctx context.Context, rawURL string) (*DownloadResult, error) {
	target, err := ValidateURL(rawURL)
	if err != nil {
		return nil, err
	}
	ctx, cancel := withDefaultTimeout(ctx, c.config.DownloadTimeout)
	defer cancel()

	stagingRoot := c.config.StagingDir
	if stagingRoot == "" {
		stagingRoot = os.TempDir()
	}
	staging := filepath.Join(stagingRoot, "umd-"+uuid.NewString())
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return nil, &DownloadFailureError{URL: target, Path: staging, Err: err}
	}
	defer func() {
		if err := os.RemoveAll(staging); err != nil {
			c.logger.Warnf("removing staging dir %s: %v", staging, err)
		}
	}()
	if err := os.MkdirAll(c.config.DownloadDir, 0o755); err != nil {
		return nil, &DownloadFailureError{URL: target, Path: c.config.DownloadDir, Err: err}
	}

	c.emitDownloadEvent("playlist", "start", target, staging, "")
	res, err := c.engine.Download(ctx, types.DownloadRequest{
		URL:            target,
		FormatSelector: PlaylistFormatSelector,
		OutputDir:      staging,
		OutputTemplate: ytdlp.DefaultOutputTemplate,
		Playlist:       true,
	})
	if err != nil {
		c.emitDownloadEvent("playlist", "failure", target, staging, err.Error())
		return nil, &DownloadFailureError{URL: target, Path: staging, Err: err}
	}

	title := res.Title
	if title == "" {
		if info, err := c.engine.Extract(ctx, target); err == nil {
			title = info.Title
		} else {
			c.logger.Warnf("resolving playlist title for %s: %v", target, err)
		}
	}

	name := archive.ArchiveName(title)
	zipPath := filepath.Join(c.config.DownloadDir, name)
	c.emitDownloadEvent("archive", "start", target, zipPath, fmt.Sprintf("files=%d", len(res.Paths)))
	if err := archive.ZipDir(staging, zipPath); err != nil {
		c.emitDownloadEvent("archive", "failure", target, zipPath, err.Error())
		return nil, &DownloadFailureError{URL: target, Path: zipPath, Err: errors.Join(ErrDownloadFailed, err)}
	}
	c.emitDownloadEvent("archive", "complete", target, zipPath, "")

	return c.publish(ctx, target, MediaPlaylist, title, zipPath)
}

func (c *Client) publish(ctx context.Context, target string, mediaType MediaType, title, path string) (*DownloadResult, error) {
	name := filepath.Base(path)
	link, err := c.publisher.Put(ctx, name, path)
	if err != nil {
		c.emitDownloadEvent("publish", "failure", target, path, err.Error())
		return nil, &DownloadFailureError{URL: target, Path: path, Err: errors.Join(ErrDownloadFailed, err)}
	}
	c.emitDownloadEvent("publish", "complete", target, path, link)
	return &DownloadResult{
		Type:     mediaType,
		Title:    title,
		Path:     path,
		FileName: name,
		URL:      link,
	}, nil
}
