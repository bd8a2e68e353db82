package formats

import (
	"sort"

	"github.com/1abhishek0948/Universal-Media-downloader/internal/types"
)

// SortByHeight stably sorts formats by height, tallest first. Formats without
// a height sort last; equal heights keep their input order.
func SortByHeight(formats []types.FormatInfo) {
	sort.SliceStable(formats, func(i, j int) bool {
		return formats[i].Height > formats[j].Height
	})
}

// SortByBest sorts formats by Resolution -> Bitrate -> FPS.
func SortByBest(formats []types.FormatInfo) {
	sort.SliceStable(formats, func(i, j int) bool {
		resI := formats[i].Height * formats[i].Width
		resJ := formats[j].Height * formats[j].Width
		if resI != resJ {
			return resI > resJ
		}
		if formats[i].Height != formats[j].Height {
			return formats[i].Height > formats[j].Height
		}
		if formats[i].Bitrate != formats[j].Bitrate {
			return formats[i].Bitrate > formats[j].Bitrate
		}
		return formats[i].FPS > formats[j].FPS
	})
}
