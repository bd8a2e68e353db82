package muxer

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/1abhishek0948/Universal-Media-downloader/internal/types"
)

// Muxer defines the media post-processing operations backends rely on.
type Muxer interface {
	Available() bool
	Merge(ctx context.Context, videoPath, audioPath, outputPath string, meta types.Metadata) error
	ConvertToMP3(ctx context.Context, inputPath, outputPath, quality string, meta types.Metadata) error
}

// FFmpegMuxer implements Muxer using the ffmpeg command line tool.
type FFmpegMuxer struct {
	Path string
}

// NewFFmpegMuxer returns a new FFmpegMuxer.
// If path is empty, it looks for "ffmpeg" in PATH.
func NewFFmpegMuxer(path string) *FFmpegMuxer {
	if path == "" {
		path = "ffmpeg"
	}
	return &FFmpegMuxer{Path: path}
}

// Available checks if ffmpeg is executable.
func (f *FFmpegMuxer) Available() bool {
	_, err := exec.LookPath(f.Path)
	return err == nil
}

// Merge copies the video and audio streams into outputPath with metadata.
// It deletes the input files upon successful merge.
func (f *FFmpegMuxer) Merge(ctx context.Context, videoPath, audioPath, outputPath string, meta types.Metadata) error {
	if err := f.run(ctx, mergeArgs(videoPath, audioPath, outputPath, meta)); err != nil {
		return fmt.Errorf("ffmpeg merge failed: %w", err)
	}
	_ = os.Remove(videoPath)
	_ = os.Remove(audioPath)
	return nil
}

// ConvertToMP3 transcodes the audio track of inputPath to MP3 at quality
// kbit/s ("192" when empty). The input file is deleted on success.
func (f *FFmpegMuxer) ConvertToMP3(ctx context.Context, inputPath, outputPath, quality string, meta types.Metadata) error {
	if err := f.run(ctx, mp3Args(inputPath, outputPath, quality, meta)); err != nil {
		return fmt.Errorf("ffmpeg mp3 conversion failed: %w", err)
	}
	if inputPath != outputPath {
		_ = os.Remove(inputPath)
	}
	return nil
}

func (f *FFmpegMuxer) run(ctx context.Context, args []string) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, f.Path, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if tail := lastLine(stderr.String()); tail != "" {
			return fmt.Errorf("%w: %s", err, tail)
		}
		return err
	}
	return nil
}

func mergeArgs(videoPath, audioPath, outputPath string, meta types.Metadata) []string {
	args := []string{
		"-i", videoPath,
		"-i", audioPath,
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-c:v", "copy",
		"-c:a", "copy",
	}
	args = append(args, metadataArgs(meta)...)
	return append(args, "-y", outputPath)
}

func mp3Args(inputPath, outputPath, quality string, meta types.Metadata) []string {
	if quality == "" {
		quality = "192"
	}
	args := []string{
		"-i", inputPath,
		"-vn",
		"-acodec", "libmp3lame",
		"-b:a", strings.TrimSuffix(quality, "k") + "k",
	}
	args = append(args, metadataArgs(meta)...)
	return append(args, "-y", outputPath)
}

func metadataArgs(meta types.Metadata) []string {
	var args []string
	if meta.Title != "" {
		args = append(args, "-metadata", "title="+meta.Title)
	}
	if meta.Artist != "" {
		args = append(args, "-metadata", "artist="+meta.Artist)
	}
	if meta.Date != "" {
		args = append(args, "-metadata", "date="+meta.Date)
	}
	if meta.Description != "" {
		args = append(args, "-metadata", "comment="+meta.Description)
	}
	return args
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
