package types

import "errors"

var (
	// ErrInvalidURL indicates the input is not a usable media URL.
	ErrInvalidURL = errors.New("invalid url")

	// ErrRestricted indicates private, login-gated or otherwise restricted content.
	ErrRestricted = errors.New("restricted content")

	// ErrUnsupportedSite indicates no backend knows how to extract the URL.
	ErrUnsupportedSite = errors.New("unsupported site")

	// ErrLiveStream indicates an ongoing live stream, which cannot be downloaded.
	ErrLiveStream = errors.New("live stream not downloadable")

	// ErrNoFormats indicates the media resolved but offered no usable formats.
	ErrNoFormats = errors.New("no usable formats")

	// ErrDownloadFailed indicates the backend failed while fetching or writing media.
	ErrDownloadFailed = errors.New("download failed")

	// ErrNoExtractorsAvailable indicates no backends were eligible for the request.
	ErrNoExtractorsAvailable = errors.New("no extractors available")
)
