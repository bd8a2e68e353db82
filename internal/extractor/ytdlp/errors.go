package ytdlp

import (
	"errors"
	"fmt"
	"strings"

	"github.com/1abhishek0948/Universal-Media-downloader/internal/types"
)

var stderrClasses = []struct {
	needle string
	err    error
}{
	{"unsupported url", types.ErrUnsupportedSite},
	{"is not a valid url", types.ErrInvalidURL},
	{"invalid url", types.ErrInvalidURL},
	{"private video", types.ErrRestricted},
	{"video is private", types.ErrRestricted},
	{"sign in to confirm", types.ErrRestricted},
	{"members-only", types.ErrRestricted},
	{"login required", types.ErrRestricted},
	{"not available in your country", types.ErrRestricted},
	{"this live event will begin", types.ErrLiveStream},
	{"premieres in", types.ErrLiveStream},
	{"is currently live", types.ErrLiveStream},
	{"requested format is not available", types.ErrNoFormats},
}

// classifyFailure turns a failed yt-dlp run into an error wrapping the
// matching sentinel. fallback is used when stderr matches nothing known.
func classifyFailure(stderr string, runErr, fallback error) error {
	msg := lastErrorLine(stderr)
	lower := strings.ToLower(msg)
	for _, c := range stderrClasses {
		if strings.Contains(lower, c.needle) {
			return fmt.Errorf("yt-dlp: %s: %w", msg, c.err)
		}
	}
	if msg == "" && runErr != nil {
		msg = runErr.Error()
	}
	if fallback == nil {
		return fmt.Errorf("yt-dlp: %s: %w", msg, runErr)
	}
	return fmt.Errorf("yt-dlp: %s: %w", msg, errors.Join(fallback, runErr))
}

func lastErrorLine(stderr string) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if strings.HasPrefix(line, "ERROR:") {
			return strings.TrimSpace(strings.TrimPrefix(line, "ERROR:"))
		}
	}
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
