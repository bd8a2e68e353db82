package youtube

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kkdai/youtube/v2"

	"github.com/1abhishek0948/Universal-Media-downloader/internal/types"
)

type fakeClient struct {
	videos   map[string]*youtube.Video
	playlist *youtube.Playlist
	videoErr error
	streamed []int
}

func (f *fakeClient) GetVideoContext(_ context.Context, url string) (*youtube.Video, error) {
	if f.videoErr != nil {
		return nil, f.videoErr
	}
	for id, v := range f.videos {
		if strings.Contains(url, id) {
			return v, nil
		}
	}
	return nil, youtube.ErrInvalidCharactersInVideoID
}

func (f *fakeClient) GetStreamContext(_ context.Context, video *youtube.Video, format *youtube.Format) (io.ReadCloser, int64, error) {
	f.streamed = append(f.streamed, format.ItagNo)
	body := video.ID + "-" + format.MimeType
	return io.NopCloser(strings.NewReader(body)), int64(len(body)), nil
}

func (f *fakeClient) GetPlaylistContext(context.Context, string) (*youtube.Playlist, error) {
	if f.playlist == nil {
		return nil, youtube.ErrInvalidPlaylist
	}
	return f.playlist, nil
}

func (f *fakeClient) VideoFromPlaylistEntryContext(_ context.Context, entry *youtube.PlaylistEntry) (*youtube.Video, error) {
	return f.videos[entry.ID], nil
}

type fakeMuxer struct {
	merged    []string
	converted []string
}

func (m *fakeMuxer) Available() bool { return true }

func (m *fakeMuxer) Merge(_ context.Context, videoPath, audioPath, outputPath string, _ types.Metadata) error {
	m.merged = append(m.merged, outputPath)
	_ = os.Remove(videoPath)
	_ = os.Remove(audioPath)
	return os.WriteFile(outputPath, []byte("merged"), 0o644)
}

func (m *fakeMuxer) ConvertToMP3(_ context.Context, inputPath, outputPath, quality string, _ types.Metadata) error {
	m.converted = append(m.converted, outputPath+"@"+quality)
	_ = os.Remove(inputPath)
	return os.WriteFile(outputPath, []byte("mp3"), 0o644)
}

func sampleVideo(id, title string) *youtube.Video {
	return &youtube.Video{
		ID:     id,
		Title:  title,
		Author: "uploader",
		Thumbnails: youtube.Thumbnails{
			{URL: "https://i.ytimg.com/small.jpg", Width: 120},
			{URL: "https://i.ytimg.com/large.jpg", Width: 480},
		},
		Formats: youtube.FormatList{
			{ItagNo: 18, MimeType: `video/mp4; codecs="avc1.42001E, mp4a.40.2"`, Width: 640, Height: 360, AudioChannels: 2},
			{ItagNo: 137, MimeType: `video/mp4; codecs="avc1.640028"`, Width: 1920, Height: 1080},
			{ItagNo: 140, MimeType: `audio/mp4; codecs="mp4a.40.2"`, AudioChannels: 2, Bitrate: 128000},
		},
	}
}

func newTestBackend(client *fakeClient, mux *fakeMuxer) *Backend {
	b := New(Config{})
	b.client = client
	if mux != nil {
		b.muxer = mux
	}
	return b
}

func TestExtractMapsVideo(t *testing.T) {
	b := newTestBackend(&fakeClient{videos: map[string]*youtube.Video{"abc": sampleVideo("abc", "Title")}}, nil)
	info, err := b.Extract(context.Background(), "https://www.youtube.com/watch?v=abc")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if info.Title != "Title" || info.Thumbnail != "https://i.ytimg.com/large.jpg" || info.IsLive {
		t.Fatalf("info=%+v", info)
	}
	if len(info.Formats) != 3 || info.Formats[1].FormatID != "137" || info.Formats[1].AudioCodec != types.CodecNone {
		t.Fatalf("formats=%+v", info.Formats)
	}
}

func TestExtractClassifiesErrors(t *testing.T) {
	tests := []struct {
		err  error
		want error
	}{
		{youtube.ErrVideoPrivate, types.ErrRestricted},
		{youtube.ErrLoginRequired, types.ErrRestricted},
		{youtube.ErrInvalidCharactersInVideoID, types.ErrInvalidURL},
		{&youtube.ErrPlayabiltyStatus{Status: "LIVE_STREAM_OFFLINE", Reason: "This live event will begin soon"}, types.ErrLiveStream},
		{&youtube.ErrPlayabiltyStatus{Status: "UNPLAYABLE", Reason: "not available in your country"}, types.ErrRestricted},
	}
	for _, tt := range tests {
		b := newTestBackend(&fakeClient{videoErr: tt.err}, nil)
		_, err := b.Extract(context.Background(), "https://www.youtube.com/watch?v=abc")
		if !errors.Is(err, tt.want) {
			t.Fatalf("Extract() error = %v, want %v", err, tt.want)
		}
	}
}

func TestExtractPlaylist(t *testing.T) {
	client := &fakeClient{playlist: &youtube.Playlist{
		ID:    "PL1",
		Title: "Mix",
		Videos: []*youtube.PlaylistEntry{
			{ID: "a", Title: "A"},
			nil,
			{ID: "b", Title: "B"},
		},
	}}
	info, err := newTestBackend(client, nil).Extract(context.Background(), "https://www.youtube.com/playlist?list=PL1")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !info.IsPlaylist || len(info.Entries) != 2 || info.Entries[1].URL != "https://www.youtube.com/watch?v=b" {
		t.Fatalf("info=%+v", info)
	}
}

func TestDownloadSingleFormat(t *testing.T) {
	dir := t.TempDir()
	client := &fakeClient{videos: map[string]*youtube.Video{"abc": sampleVideo("abc", "My/Clip")}}
	res, err := newTestBackend(client, nil).Download(context.Background(), types.DownloadRequest{
		URL: "https://youtu.be/abc", FormatSelector: "18", OutputDir: dir,
	})
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	want := filepath.Join(dir, "My_Clip.mp4")
	if len(res.Paths) != 1 || res.Paths[0] != want || res.Title != "My/Clip" {
		t.Fatalf("result=%+v want path %q", res, want)
	}
	if b, err := os.ReadFile(want); err != nil || !strings.HasPrefix(string(b), "abc-video/mp4") {
		t.Fatalf("content=%q err=%v", b, err)
	}
}

func TestDownloadMergesVideoAndAudio(t *testing.T) {
	dir := t.TempDir()
	client := &fakeClient{videos: map[string]*youtube.Video{"abc": sampleVideo("abc", "Clip")}}
	mux := &fakeMuxer{}
	res, err := newTestBackend(client, mux).Download(context.Background(), types.DownloadRequest{
		URL:            "https://youtu.be/abc",
		FormatSelector: "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]",
		OutputDir:      dir,
	})
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	want := filepath.Join(dir, "Clip.mp4")
	if len(mux.merged) != 1 || mux.merged[0] != want || res.Paths[0] != want {
		t.Fatalf("merged=%v paths=%v", mux.merged, res.Paths)
	}
	if len(client.streamed) != 2 || client.streamed[0] != 137 || client.streamed[1] != 140 {
		t.Fatalf("streamed=%v want=[137 140]", client.streamed)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("intermediate files left behind: %v", entries)
	}
}

func TestDownloadMergeWithoutMuxerFails(t *testing.T) {
	client := &fakeClient{videos: map[string]*youtube.Video{"abc": sampleVideo("abc", "Clip")}}
	_, err := newTestBackend(client, nil).Download(context.Background(), types.DownloadRequest{
		URL: "https://youtu.be/abc", FormatSelector: "137+140", OutputDir: t.TempDir(),
	})
	if !errors.Is(err, types.ErrDownloadFailed) {
		t.Fatalf("Download() error = %v, want ErrDownloadFailed", err)
	}
}

func TestDownloadAudioAsMP3(t *testing.T) {
	dir := t.TempDir()
	client := &fakeClient{videos: map[string]*youtube.Video{"abc": sampleVideo("abc", "Song")}}
	mux := &fakeMuxer{}
	res, err := newTestBackend(client, mux).Download(context.Background(), types.DownloadRequest{
		URL: "https://youtu.be/abc", OutputDir: dir,
		AudioOnly: true, AudioFormat: "mp3", AudioQuality: "192",
	})
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	want := filepath.Join(dir, "Song.mp3")
	if len(res.Paths) != 1 || res.Paths[0] != want {
		t.Fatalf("paths=%v want=[%s]", res.Paths, want)
	}
	if len(mux.converted) != 1 || mux.converted[0] != want+"@192" {
		t.Fatalf("converted=%v", mux.converted)
	}
	if _, err := os.Stat(filepath.Join(dir, "Song.m4a")); !os.IsNotExist(err) {
		t.Fatalf("source audio not removed: %v", err)
	}
}

func TestDownloadUnknownFormat(t *testing.T) {
	client := &fakeClient{videos: map[string]*youtube.Video{"abc": sampleVideo("abc", "Clip")}}
	_, err := newTestBackend(client, nil).Download(context.Background(), types.DownloadRequest{
		URL: "https://youtu.be/abc", FormatSelector: "999", OutputDir: t.TempDir(),
	})
	if !errors.Is(err, types.ErrNoFormats) {
		t.Fatalf("Download() error = %v, want ErrNoFormats", err)
	}
}

func TestDownloadPlaylist(t *testing.T) {
	dir := t.TempDir()
	client := &fakeClient{
		videos: map[string]*youtube.Video{"a": sampleVideo("a", "First"), "b": sampleVideo("b", "Second")},
		playlist: &youtube.Playlist{ID: "PL1", Title: "Mix", Videos: []*youtube.PlaylistEntry{{ID: "a"}, {ID: "b"}}},
	}
	res, err := newTestBackend(client, nil).Download(context.Background(), types.DownloadRequest{
		URL: "https://www.youtube.com/playlist?list=PL1", FormatSelector: "best[ext=mp4]", OutputDir: dir, Playlist: true,
	})
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	if res.Title != "Mix" || len(res.Paths) != 2 || filepath.Base(res.Paths[1]) != "Second.mp4" {
		t.Fatalf("result=%+v", res)
	}
}
