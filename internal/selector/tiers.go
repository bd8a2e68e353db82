package selector

import (
	"bytes"
	"encoding/json"

	"github.com/1abhishek0948/Universal-Media-downloader/internal/formats"
	"github.com/1abhishek0948/Universal-Media-downloader/internal/types"
)

// Tier labels a curated download choice.
type Tier string

const (
	Tier4K        Tier = "4K"
	Tier2K        Tier = "2K"
	Tier1080p     Tier = "1080p"
	Tier720p      Tier = "720p"
	Tier480p      Tier = "480p"
	Tier360p      Tier = "360p"
	TierBest      Tier = "Best Quality"
	TierBestAudio Tier = "Best Quality (Audio)"
)

// resolutionTiers lists the resolution tiers with their inclusive lower
// bounds, tallest first.
var resolutionTiers = []struct {
	tier      Tier
	minHeight int
}{
	{Tier4K, 2160},
	{Tier2K, 1440},
	{Tier1080p, 1080},
	{Tier720p, 720},
	{Tier480p, 480},
	{Tier360p, 360},
}

// Tiers returns every tier label in presentation order.
func Tiers() []Tier {
	return []Tier{Tier4K, Tier2K, Tier1080p, Tier720p, Tier480p, Tier360p, TierBest, TierBestAudio}
}

// MinHeight returns the lower height bound of a resolution tier.
func (t Tier) MinHeight() (int, bool) {
	for _, rt := range resolutionTiers {
		if rt.tier == t {
			return rt.minHeight, true
		}
	}
	return 0, false
}

// SelectedFormat is the download-relevant projection of a format.
type SelectedFormat struct {
	FormatID   string `json:"format_id"`
	Ext        string `json:"ext"`
	Filesize   *int64 `json:"filesize"`
	Resolution *int   `json:"resolution"`
}

func project(f types.FormatInfo) SelectedFormat {
	sel := SelectedFormat{FormatID: f.FormatID, Ext: f.Ext}
	if f.FileSize > 0 {
		size := f.FileSize
		sel.Filesize = &size
	}
	if f.Height > 0 {
		height := f.Height
		sel.Resolution = &height
	}
	return sel
}

// TierMap holds at most one SelectedFormat per tier.
type TierMap map[Tier]SelectedFormat

// Labels returns the filled tiers in presentation order.
func (m TierMap) Labels() []Tier {
	var out []Tier
	for _, t := range Tiers() {
		if _, ok := m[t]; ok {
			out = append(out, t)
		}
	}
	return out
}

// MarshalJSON encodes the map as an object whose keys follow tier order.
func (m TierMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, t := range m.Labels() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(t))
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m[t])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// SelectTiers picks one representative format per quality tier.
//
// Formats are ranked by height (stable, so equal heights keep their input
// order). Each format carrying video is assigned to the first unfilled
// resolution tier it qualifies for; a filled tier is never replaced.
// TierBest is the first format carrying both streams and TierBestAudio the
// first audio-only format. A codec of types.CodecNone marks a missing stream.
// The input slice is not modified.
func SelectTiers(available []types.FormatInfo) TierMap {
	sorted := make([]types.FormatInfo, len(available))
	copy(sorted, available)
	formats.SortByHeight(sorted)

	result := TierMap{}
	for _, f := range sorted {
		if f.VideoCodec == types.CodecNone || f.Height <= 0 {
			continue
		}
		for _, rt := range resolutionTiers {
			if _, filled := result[rt.tier]; filled {
				continue
			}
			if f.Height >= rt.minHeight {
				result[rt.tier] = project(f)
				break
			}
		}
	}

	for _, f := range sorted {
		if f.VideoCodec != types.CodecNone && f.AudioCodec != types.CodecNone {
			result[TierBest] = project(f)
			break
		}
	}
	for _, f := range sorted {
		if f.VideoCodec == types.CodecNone && f.AudioCodec != types.CodecNone {
			result[TierBestAudio] = project(f)
			break
		}
	}
	return result
}
