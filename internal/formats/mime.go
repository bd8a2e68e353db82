package formats

import (
	"mime"
	"strings"

	"github.com/1abhishek0948/Universal-Media-downloader/internal/types"
)

var audioCodecPrefixes = []string{"mp4a", "opus", "vorbis", "ac-3", "ec-3", "flac", "mp3", "alac"}

// ParseMIME derives the container extension and the video/audio codecs from a
// MIME type such as `video/mp4; codecs="avc1.64001F, mp4a.40.2"`.
//
// A stream the MIME type rules out is reported as types.CodecNone; a stream
// that cannot be determined is reported as "".
func ParseMIME(mimeType string) (ext, videoCodec, audioCodec string) {
	mediaType, params, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return "", "", ""
	}
	parts := strings.SplitN(mediaType, "/", 2)
	if len(parts) != 2 {
		return "", "", ""
	}
	kind, container := strings.ToLower(parts[0]), strings.ToLower(parts[1])

	ext = container
	if kind == "audio" && container == "mp4" {
		ext = "m4a"
	}

	var codecs []string
	for _, c := range strings.Split(params["codecs"], ",") {
		if c = strings.TrimSpace(c); c != "" {
			codecs = append(codecs, c)
		}
	}

	switch kind {
	case "audio":
		videoCodec = types.CodecNone
		if len(codecs) > 0 {
			audioCodec = codecs[0]
		}
	case "video":
		if len(codecs) == 0 {
			return ext, "", ""
		}
		videoCodec, audioCodec = types.CodecNone, types.CodecNone
		for _, c := range codecs {
			if isAudioCodec(c) {
				if audioCodec == types.CodecNone {
					audioCodec = c
				}
				continue
			}
			if videoCodec == types.CodecNone {
				videoCodec = c
			}
		}
	}
	return ext, videoCodec, audioCodec
}

func isAudioCodec(codec string) bool {
	codec = strings.ToLower(codec)
	for _, prefix := range audioCodecPrefixes {
		if strings.HasPrefix(codec, prefix) {
			return true
		}
	}
	return false
}
