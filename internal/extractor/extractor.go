// Package extractor defines the contract shared by extraction backends.
package extractor

import (
	"context"

	"github.com/1abhishek0948/Universal-Media-downloader/internal/types"
)

// Extractor resolves media URLs into format descriptors and downloads them.
//
// Extract fails with an error wrapping one of types.ErrInvalidURL,
// types.ErrRestricted, types.ErrUnsupportedSite or types.ErrLiveStream when
// the failure is about the media itself. Download returns the paths of the
// files it produced.
type Extractor interface {
	Name() string
	Extract(ctx context.Context, url string) (*types.MediaInfo, error)
	Download(ctx context.Context, req types.DownloadRequest) (*types.DownloadResult, error)
}

// Names returns the backend names in the given order.
func Names(backends []Extractor) []string {
	out := make([]string, 0, len(backends))
	for _, b := range backends {
		out = append(out, b.Name())
	}
	return out
}
