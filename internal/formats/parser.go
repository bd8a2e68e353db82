package formats

import (
	"strconv"

	"github.com/kkdai/youtube/v2"

	"github.com/1abhishek0948/Universal-Media-downloader/internal/types"
)

// ParseYouTube normalizes the formats reported by the native YouTube client.
// The itag becomes the format id.
func ParseYouTube(list youtube.FormatList) []types.FormatInfo {
	out := make([]types.FormatInfo, 0, len(list))
	for _, f := range list {
		ext, vcodec, acodec := ParseMIME(f.MimeType)
		parsed := types.FormatInfo{
			FormatID:   strconv.Itoa(f.ItagNo),
			Ext:        ext,
			VideoCodec: vcodec,
			AudioCodec: acodec,
			Width:      f.Width,
			Height:     f.Height,
			FPS:        float64(f.FPS),
			Bitrate:    float64(f.Bitrate) / 1000,
			FileSize:   int64(f.ContentLength),
			Protocol:   "https",
			Note:       f.QualityLabel,
		}
		// Adaptive audio formats still report AudioChannels when the MIME
		// type omits codecs.
		if parsed.AudioCodec == "" && f.AudioChannels > 0 {
			parsed.AudioCodec = "unknown"
		}
		if parsed.VideoCodec == types.CodecNone {
			parsed.Height = 0
			parsed.Width = 0
		}
		out = append(out, parsed)
	}
	return out
}
