package client

import (
	"errors"
	"fmt"

	"github.com/1abhishek0948/Universal-Media-downloader/internal/orchestrator"
	"github.com/1abhishek0948/Universal-Media-downloader/internal/types"
)

var (
	// ErrInvalidURL indicates the input is not an http(s) URL with a host.
	ErrInvalidURL = types.ErrInvalidURL
	// ErrRestricted indicates private or login-gated media.
	ErrRestricted = types.ErrRestricted
	// ErrUnsupportedSite indicates no backend can handle the URL.
	ErrUnsupportedSite = types.ErrUnsupportedSite
	// ErrLiveStream indicates an ongoing live stream.
	ErrLiveStream = types.ErrLiveStream
	// ErrNoFormats indicates the media offered nothing to download.
	ErrNoFormats = types.ErrNoFormats
	// ErrDownloadFailed indicates a backend failed while fetching media.
	ErrDownloadFailed = types.ErrDownloadFailed
	// ErrNoExtractorsAvailable indicates the backend policy left nothing to try.
	ErrNoExtractorsAvailable = types.ErrNoExtractorsAvailable
	// ErrInvalidMediaType indicates an unknown DownloadOptions.Type.
	ErrInvalidMediaType = errors.New("invalid media type")
)

// AllExtractorsFailedError lists every backend attempt of a failed request.
type AllExtractorsFailedError = orchestrator.AllExtractorsFailedError

// DownloadFailureError wraps a failed download with the URL and, when
// known, the file being written.
type DownloadFailureError struct {
	URL  string
	Path string
	Err  error
}

func (e *DownloadFailureError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("download %s to %s: %v", e.URL, e.Path, e.Err)
	}
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *DownloadFailureError) Unwrap() error {
	return e.Err
}

// ErrorCategory is a stable, coarse classification of client errors.
type ErrorCategory string

const (
	ErrorCategoryNone             ErrorCategory = ""
	ErrorCategoryInvalidURL       ErrorCategory = "invalid_url"
	ErrorCategoryInvalidMediaType ErrorCategory = "invalid_media_type"
	ErrorCategoryRestricted       ErrorCategory = "restricted"
	ErrorCategoryUnsupportedSite  ErrorCategory = "unsupported_site"
	ErrorCategoryLiveStream       ErrorCategory = "live_stream"
	ErrorCategoryNoFormats        ErrorCategory = "no_formats"
	ErrorCategoryNoExtractors     ErrorCategory = "no_extractors"
	ErrorCategoryDownloadFailed   ErrorCategory = "download_failed"
	ErrorCategoryUnknown          ErrorCategory = "unknown"
)

// ClassifyError maps err onto an ErrorCategory. Media-level causes win over
// the generic download failure they are reported through.
func ClassifyError(err error) ErrorCategory {
	if err == nil {
		return ErrorCategoryNone
	}
	switch {
	case errors.Is(err, ErrInvalidURL):
		return ErrorCategoryInvalidURL
	case errors.Is(err, ErrInvalidMediaType):
		return ErrorCategoryInvalidMediaType
	case errors.Is(err, ErrRestricted):
		return ErrorCategoryRestricted
	case errors.Is(err, ErrLiveStream):
		return ErrorCategoryLiveStream
	case errors.Is(err, ErrUnsupportedSite):
		return ErrorCategoryUnsupportedSite
	case errors.Is(err, ErrNoFormats):
		return ErrorCategoryNoFormats
	case errors.Is(err, ErrNoExtractorsAvailable):
		return ErrorCategoryNoExtractors
	case errors.Is(err, ErrDownloadFailed):
		return ErrorCategoryDownloadFailed
	}
	var dfe *DownloadFailureError
	if errors.As(err, &dfe) {
		return ErrorCategoryDownloadFailed
	}
	return ErrorCategoryUnknown
}
