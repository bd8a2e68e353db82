package muxer

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/1abhishek0948/Universal-Media-downloader/internal/types"
)

func TestMergeArgs(t *testing.T) {
	got := mergeArgs("v.mp4", "a.m4a", "out.mp4", types.Metadata{Title: "Clip", Artist: "Someone"})
	want := []string{
		"-i", "v.mp4", "-i", "a.m4a",
		"-map", "0:v:0", "-map", "1:a:0",
		"-c:v", "copy", "-c:a", "copy",
		"-metadata", "title=Clip", "-metadata", "artist=Someone",
		"-y", "out.mp4",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("mergeArgs()=%q want=%q", got, want)
	}
}

func TestMP3Args(t *testing.T) {
	got := mp3Args("in.m4a", "out.mp3", "", types.Metadata{})
	want := []string{"-i", "in.m4a", "-vn", "-acodec", "libmp3lame", "-b:a", "192k", "-y", "out.mp3"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("mp3Args()=%q want=%q", got, want)
	}
	if got := mp3Args("in", "out", "320k", types.Metadata{}); got[6] != "320k" {
		t.Fatalf("bitrate=%q want=320k", got[6])
	}
}

func TestNewFFmpegMuxerDefaultsPath(t *testing.T) {
	if m := NewFFmpegMuxer(""); m.Path != "ffmpeg" {
		t.Fatalf("Path=%q want=ffmpeg", m.Path)
	}
}

func TestMissingBinary(t *testing.T) {
	m := NewFFmpegMuxer("/nonexistent/ffmpeg-binary")
	if m.Available() {
		t.Fatalf("Available()=true for missing binary")
	}
	err := m.ConvertToMP3(context.Background(), "in", "out.mp3", "192", types.Metadata{})
	if err == nil || !strings.Contains(err.Error(), "mp3 conversion failed") {
		t.Fatalf("ConvertToMP3() error = %v", err)
	}
}
