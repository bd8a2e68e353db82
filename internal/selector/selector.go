package selector

import (
	"strconv"
	"strings"

	"github.com/1abhishek0948/Universal-Media-downloader/internal/formats"
	"github.com/1abhishek0948/Universal-Media-downloader/internal/types"
)

// Select resolves a parsed expression against the available formats. It
// returns one format for a single-file download or several (video first)
// when the chosen group needs merging. A nil result means nothing matched.
func Select(available []types.FormatInfo, sel *Selector) []types.FormatInfo {
	if sel == nil || len(sel.Fallbacks) == 0 {
		return SelectBest(available)
	}

	for _, group := range sel.Fallbacks {
		var selected []types.FormatInfo
		failed := false
		for _, spec := range group {
			candidate, ok := pickBest(available, spec)
			if !ok {
				failed = true
				break
			}
			selected = append(selected, candidate)
		}
		if !failed {
			return selected
		}
	}
	return nil
}

// SelectBest implements the default 'best' logic: the best muxed format,
// else the best format of any kind.
func SelectBest(available []types.FormatInfo) []types.FormatInfo {
	var av []types.FormatInfo
	for _, f := range available {
		if f.HasAudio() && f.HasVideo() {
			av = append(av, f)
		}
	}
	if len(av) > 0 {
		formats.SortByBest(av)
		return []types.FormatInfo{av[0]}
	}

	if len(available) > 0 {
		sorted := make([]types.FormatInfo, len(available))
		copy(sorted, available)
		formats.SortByBest(sorted)
		return []types.FormatInfo{sorted[0]}
	}
	return nil
}

func pickBest(available []types.FormatInfo, spec *StreamSpec) (types.FormatInfo, bool) {
	var candidates []types.FormatInfo
	for _, f := range available {
		if matchesAll(f, spec.Filters) {
			candidates = append(candidates, f)
		}
	}
	if len(candidates) == 0 {
		return types.FormatInfo{}, false
	}

	// "best" alone prefers muxed formats, matching yt-dlp.
	if isBareBuiltin(spec, "best") {
		var muxed []types.FormatInfo
		for _, f := range candidates {
			if f.HasVideo() && f.HasAudio() {
				muxed = append(muxed, f)
			}
		}
		if len(muxed) > 0 {
			candidates = muxed
		}
	}

	formats.SortByBest(candidates)
	for _, flt := range spec.Filters {
		if (flt.Type == "builtin" || flt.Type == "media") && (flt.Value == "worst" || flt.Op == "worst") {
			return candidates[len(candidates)-1], true
		}
	}
	return candidates[0], true
}

func isBareBuiltin(spec *StreamSpec, value string) bool {
	for _, flt := range spec.Filters {
		if flt.Type == "builtin" && flt.Value == value {
			return true
		}
	}
	return false
}

func matchesAll(f types.FormatInfo, filters []FormatFilter) bool {
	for i := range filters {
		if !matches(f, &filters[i]) {
			return false
		}
	}
	return true
}

func matches(f types.FormatInfo, filter *FormatFilter) bool {
	switch filter.Type {
	case "builtin":
		return true
	case "media":
		if filter.Value == "video" {
			return f.HasVideo() && !f.HasAudio()
		}
		if filter.Value == "audio" {
			return f.HasAudio() && !f.HasVideo()
		}
	case "ext":
		return checkString(strings.ToLower(f.Ext), filter.Value, filter.Op)
	case "id":
		return checkString(f.FormatID, filter.Value, filter.Op)
	case "vcodec":
		return checkPrefix(strings.ToLower(f.VideoCodec), filter.Value, filter.Op)
	case "acodec":
		return checkPrefix(strings.ToLower(f.AudioCodec), filter.Value, filter.Op)
	case "res":
		return checkNumber(float64(f.Height), filter.Value, filter.Op)
	case "width":
		return checkNumber(float64(f.Width), filter.Value, filter.Op)
	case "fps":
		return checkNumber(f.FPS, filter.Value, filter.Op)
	}
	return false
}

func checkString(a, b, op string) bool {
	if op == "!=" {
		return a != b
	}
	return a == b
}

func checkPrefix(a, b, op string) bool {
	if op == "!=" {
		return !strings.HasPrefix(a, b)
	}
	return strings.HasPrefix(a, b)
}

func checkNumber(a float64, raw, op string) bool {
	b, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return false
	}
	switch op {
	case ":", "=":
		return a == b
	case "<":
		return a < b
	case ">":
		return a > b
	case "<=":
		return a <= b
	case ">=":
		return a >= b
	case "!=":
		return a != b
	}
	return false
}
