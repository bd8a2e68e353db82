package youtube

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/kkdai/youtube/v2"

	"github.com/1abhishek0948/Universal-Media-downloader/internal/extractor"
	"github.com/1abhishek0948/Universal-Media-downloader/internal/selector"
	"github.com/1abhishek0948/Universal-Media-downloader/internal/types"
)

const defaultOutputTemplate = "%(title)s.%(ext)s"

// Download fetches the selected streams of req.URL, merging separate video
// and audio with the muxer. Playlist requests download every entry.
func (b *Backend) Download(ctx context.Context, req types.DownloadRequest) (*types.DownloadResult, error) {
	if req.OutputDir == "" {
		return nil, errors.New("output directory is required")
	}
	if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
		return nil, err
	}

	if !req.Playlist {
		video, err := b.client.GetVideoContext(ctx, req.URL)
		if err != nil {
			return nil, classify(err)
		}
		path, err := b.downloadVideo(ctx, video, req)
		if err != nil {
			return nil, err
		}
		return &types.DownloadResult{Title: video.Title, Paths: []string{path}}, nil
	}

	pl, err := b.client.GetPlaylistContext(ctx, req.URL)
	if err != nil {
		return nil, classify(err)
	}
	result := &types.DownloadResult{Title: pl.Title}
	for _, entry := range pl.Videos {
		if entry == nil || entry.ID == "" {
			continue
		}
		video, err := b.client.VideoFromPlaylistEntryContext(ctx, entry)
		if err != nil {
			return nil, fmt.Errorf("playlist entry %s: %w", entry.ID, classify(err))
		}
		path, err := b.downloadVideo(ctx, video, req)
		if err != nil {
			return nil, fmt.Errorf("playlist entry %s: %w", entry.ID, err)
		}
		result.Paths = append(result.Paths, path)
	}
	if len(result.Paths) == 0 {
		return nil, fmt.Errorf("playlist %s has no downloadable entries: %w", pl.ID, types.ErrNoFormats)
	}
	return result, nil
}

func (b *Backend) downloadVideo(ctx context.Context, video *youtube.Video, req types.DownloadRequest) (string, error) {
	info := videoInfo(video)
	if info.IsLive {
		return "", fmt.Errorf("video %s: %w", video.ID, types.ErrLiveStream)
	}

	expr := req.FormatSelector
	if expr == "" {
		expr = "best"
		if req.AudioOnly {
			expr = "bestaudio/best"
		}
	}
	sel, err := selector.Parse(expr)
	if err != nil {
		return "", fmt.Errorf("format selector %q: %w", expr, err)
	}
	chosen := selector.Select(info.Formats, sel)
	if len(chosen) == 0 {
		return "", fmt.Errorf("format %q not available for %s: %w", expr, video.ID, types.ErrNoFormats)
	}

	ext := chosen[0].Ext
	if len(chosen) > 1 {
		ext = mergedExt(chosen[0], chosen[1])
	}
	tmpl := req.OutputTemplate
	if tmpl == "" {
		tmpl = defaultOutputTemplate
	}
	outputPath := filepath.Join(req.OutputDir, extractor.RenderOutputTemplate(tmpl, map[string]string{
		"title":    video.Title,
		"id":       video.ID,
		"uploader": video.Author,
		"ext":      ext,
	}))

	switch {
	case len(chosen) == 1:
		if err := b.fetchFormat(ctx, video, chosen[0], outputPath); err != nil {
			return "", err
		}
	default:
		if err := b.downloadAndMerge(ctx, video, chosen[0], chosen[1], outputPath, info.Metadata()); err != nil {
			return "", err
		}
	}

	if req.AudioOnly && req.AudioFormat == "mp3" && ext != "mp3" {
		return b.convertToMP3(ctx, outputPath, req.AudioQuality, info.Metadata())
	}
	return outputPath, nil
}

func (b *Backend) downloadAndMerge(ctx context.Context, video *youtube.Video, vidF, audF types.FormatInfo, outputPath string, meta types.Metadata) error {
	if b.muxer == nil || !b.muxer.Available() {
		return fmt.Errorf("merging %s+%s requires ffmpeg: %w", vidF.FormatID, audF.FormatID, types.ErrDownloadFailed)
	}
	videoPath := outputPath + ".f" + vidF.FormatID + ".video"
	audioPath := outputPath + ".f" + audF.FormatID + ".audio"

	if err := b.fetchFormat(ctx, video, vidF, videoPath); err != nil {
		return err
	}
	if err := b.fetchFormat(ctx, video, audF, audioPath); err != nil {
		_ = os.Remove(videoPath)
		return err
	}

	b.emit("merge", "start", outputPath, fmt.Sprintf("video=%s,audio=%s", vidF.FormatID, audF.FormatID))
	if err := b.muxer.Merge(ctx, videoPath, audioPath, outputPath, meta); err != nil {
		b.emit("merge", "failure", outputPath, err.Error())
		_ = os.Remove(videoPath)
		_ = os.Remove(audioPath)
		return fmt.Errorf("%w: %w", types.ErrDownloadFailed, err)
	}
	b.emit("merge", "complete", outputPath, "")
	return nil
}

func (b *Backend) convertToMP3(ctx context.Context, inputPath, quality string, meta types.Metadata) (string, error) {
	if b.muxer == nil || !b.muxer.Available() {
		return "", fmt.Errorf("mp3 conversion requires ffmpeg: %w", types.ErrDownloadFailed)
	}
	outputPath := inputPath[:len(inputPath)-len(filepath.Ext(inputPath))] + ".mp3"
	b.emit("transcode", "start", outputPath, "mp3")
	if err := b.muxer.ConvertToMP3(ctx, inputPath, outputPath, quality, meta); err != nil {
		b.emit("transcode", "failure", outputPath, err.Error())
		return "", fmt.Errorf("%w: %w", types.ErrDownloadFailed, err)
	}
	b.emit("transcode", "complete", outputPath, "")
	return outputPath, nil
}

func (b *Backend) fetchFormat(ctx context.Context, video *youtube.Video, f types.FormatInfo, path string) error {
	format := findFormat(video.Formats, f.FormatID)
	if format == nil {
		return fmt.Errorf("format %s vanished from %s: %w", f.FormatID, video.ID, types.ErrNoFormats)
	}

	b.emit("download", "start", path, "format="+f.FormatID)
	n, err := b.streamToFile(ctx, video, format, path)
	if err != nil {
		b.emit("download", "failure", path, err.Error())
		_ = os.Remove(path)
		return fmt.Errorf("%w: format %s: %w", types.ErrDownloadFailed, f.FormatID, err)
	}
	b.emit("download", "complete", path, fmt.Sprintf("bytes=%d", n))
	return nil
}

func (b *Backend) streamToFile(ctx context.Context, video *youtube.Video, format *youtube.Format, path string) (int64, error) {
	stream, _, err := b.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return 0, err
	}
	defer stream.Close()

	out, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(out, stream)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	return n, err
}

func (b *Backend) emit(stage, phase, path, detail string) {
	if b.onEvent != nil {
		b.onEvent(stage, phase, path, detail)
	}
}

func findFormat(list youtube.FormatList, formatID string) *youtube.Format {
	itag, err := strconv.Atoi(formatID)
	if err != nil {
		return nil
	}
	for i := range list {
		if list[i].ItagNo == itag {
			return &list[i]
		}
	}
	return nil
}

// mergedExt picks a container able to hold both streams.
func mergedExt(video, audio types.FormatInfo) string {
	switch {
	case video.Ext == "mp4" && (audio.Ext == "m4a" || audio.Ext == "mp4"):
		return "mp4"
	case video.Ext == "webm" && audio.Ext == "webm":
		return "webm"
	default:
		return "mkv"
	}
}
