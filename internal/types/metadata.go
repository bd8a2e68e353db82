package types

import "time"

// Metadata contains common media metadata for embedding.
type Metadata struct {
	Title       string
	Artist      string // Uploader
	Description string
	Date        string // YYYY-MM-DD or YYYY
	Duration    int    // Seconds
}

// MediaInfo is what an extraction backend resolves a URL into.
type MediaInfo struct {
	ID          string
	Title       string
	Thumbnail   string
	Uploader    string
	Description string
	Duration    time.Duration
	WebpageURL  string
	IsLive      bool
	IsPlaylist  bool
	Formats     []FormatInfo
	Entries     []PlaylistEntry
	Extractor   string
}

// PlaylistEntry is a flat reference to one item of a playlist.
type PlaylistEntry struct {
	ID    string
	Title string
	URL   string
}

// Metadata returns the embeddable subset of the media info.
func (m *MediaInfo) Metadata() Metadata {
	if m == nil {
		return Metadata{}
	}
	return Metadata{
		Title:       m.Title,
		Artist:      m.Uploader,
		Description: m.Description,
		Duration:    int(m.Duration / time.Second),
	}
}

// DownloadRequest describes one download handed to an extraction backend.
type DownloadRequest struct {
	URL string

	// FormatSelector is a format id or a selection expression such as
	// "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]".
	FormatSelector string

	// OutputDir is the directory results are written to.
	OutputDir string

	// OutputTemplate names the output files, e.g. "%(title)s.%(ext)s".
	OutputTemplate string

	// AudioOnly extracts the audio track and transcodes it to AudioFormat.
	AudioOnly    bool
	AudioFormat  string // e.g. "mp3"
	AudioQuality string // kbit/s, e.g. "192"

	// Playlist downloads every entry instead of a single item.
	Playlist bool
}

// DownloadResult lists the files a download produced.
type DownloadResult struct {
	Title string
	Paths []string
}
