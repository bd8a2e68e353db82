package ytdlp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/1abhishek0948/Universal-Media-downloader/internal/types"
)

// dumpJSON mirrors the subset of `yt-dlp --dump-single-json` output we use.
type dumpJSON struct {
	Type        string       `json:"_type"`
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Uploader    string       `json:"uploader"`
	Description string       `json:"description"`
	Duration    float64      `json:"duration"`
	Thumbnail   string       `json:"thumbnail"`
	WebpageURL  string       `json:"webpage_url"`
	URL         string       `json:"url"`
	IsLive      *bool        `json:"is_live"`
	LiveStatus  string       `json:"live_status"`
	Formats     []dumpFormat `json:"formats"`
	Entries     []dumpJSON   `json:"entries"`
}

type dumpFormat struct {
	FormatID   string   `json:"format_id"`
	Ext        string   `json:"ext"`
	VCodec     *string  `json:"vcodec"`
	ACodec     *string  `json:"acodec"`
	Width      *int     `json:"width"`
	Height     *int     `json:"height"`
	FPS        *float64 `json:"fps"`
	TBR        *float64 `json:"tbr"`
	Filesize   *int64   `json:"filesize"`
	Protocol   string   `json:"protocol"`
	FormatNote string   `json:"format_note"`
}

func decodeDump(raw []byte) (*types.MediaInfo, error) {
	var data dumpJSON
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode yt-dlp json: %w", err)
	}
	return data.toMediaInfo(), nil
}

func (d *dumpJSON) toMediaInfo() *types.MediaInfo {
	info := &types.MediaInfo{
		ID:          d.ID,
		Title:       d.Title,
		Thumbnail:   d.Thumbnail,
		Uploader:    d.Uploader,
		Description: d.Description,
		Duration:    time.Duration(d.Duration * float64(time.Second)),
		WebpageURL:  d.WebpageURL,
		IsLive:      (d.IsLive != nil && *d.IsLive) || d.LiveStatus == "is_live" || d.LiveStatus == "is_upcoming",
		IsPlaylist:  d.Type == "playlist",
		Extractor:   backendName,
	}
	for _, f := range d.Formats {
		info.Formats = append(info.Formats, f.toFormatInfo())
	}
	for _, e := range d.Entries {
		entryURL := e.WebpageURL
		if entryURL == "" {
			entryURL = e.URL
		}
		info.Entries = append(info.Entries, types.PlaylistEntry{ID: e.ID, Title: e.Title, URL: entryURL})
	}
	return info
}

func (f dumpFormat) toFormatInfo() types.FormatInfo {
	out := types.FormatInfo{
		FormatID: f.FormatID,
		Ext:      f.Ext,
		Protocol: f.Protocol,
		Note:     f.FormatNote,
	}
	if f.VCodec != nil {
		out.VideoCodec = *f.VCodec
	}
	if f.ACodec != nil {
		out.AudioCodec = *f.ACodec
	}
	if f.Width != nil {
		out.Width = *f.Width
	}
	if f.Height != nil {
		out.Height = *f.Height
	}
	if f.FPS != nil {
		out.FPS = *f.FPS
	}
	if f.TBR != nil {
		out.Bitrate = *f.TBR
	}
	if f.Filesize != nil {
		out.FileSize = *f.Filesize
	}
	return out
}
