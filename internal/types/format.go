package types

// CodecNone is the codec value reported for a stream a format does not carry
// (audio-only formats have VideoCodec == CodecNone and vice versa).
const CodecNone = "none"

// FormatInfo is the normalized format model shared by all extraction backends.
type FormatInfo struct {
	FormatID   string
	Ext        string
	VideoCodec string
	AudioCodec string
	Width      int
	Height     int // 0 when unknown or audio-only
	FPS        float64
	Bitrate    float64 // kbit/s, 0 when unknown
	FileSize   int64   // bytes, 0 when unknown
	Protocol   string
	Note       string
}

// HasVideo reports whether the format carries a known video stream.
func (f FormatInfo) HasVideo() bool {
	return f.VideoCodec != "" && f.VideoCodec != CodecNone
}

// HasAudio reports whether the format carries a known audio stream.
func (f FormatInfo) HasAudio() bool {
	return f.AudioCodec != "" && f.AudioCodec != CodecNone
}

// IsAudioOnly reports whether the format is an audio stream explicitly
// marked as having no video.
func (f FormatInfo) IsAudioOnly() bool {
	return f.HasAudio() && f.VideoCodec == CodecNone
}
