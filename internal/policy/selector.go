package policy

import (
	"net/url"
	"strings"
)

// Backend names understood by the selector.
const (
	BackendYouTube = "youtube"
	BackendYtDlp   = "ytdlp"
)

// Selector decides which extraction backends to try for a URL, in order.
type Selector interface {
	Select(rawURL string) []string
}

type defaultSelector struct {
	available    map[string]struct{}
	backendOrder []string
	backendSkip  map[string]struct{}
}

// NewSelector builds a selector over the registered backend names. order
// overrides the default order and skip removes backends entirely; both are
// matched case-insensitively.
func NewSelector(available []string, order []string, skip []string) Selector {
	avail := make(map[string]struct{}, len(available))
	for _, name := range available {
		if normalized := normalize(name); normalized != "" {
			avail[normalized] = struct{}{}
		}
	}
	skipped := make(map[string]struct{}, len(skip))
	for _, name := range skip {
		if normalized := normalize(name); normalized != "" {
			skipped[normalized] = struct{}{}
		}
	}
	return &defaultSelector{
		available:    avail,
		backendOrder: order,
		backendSkip:  skipped,
	}
}

func (s *defaultSelector) Select(rawURL string) []string {
	youtubeURL := IsYouTubeURL(rawURL)
	names := s.backendOrder
	if len(names) == 0 {
		names = defaultOrder(youtubeURL)
	}

	out := s.filter(names, youtubeURL)

	// If overrides were provided but all invalid, fall back to defaults.
	if len(out) == 0 && len(s.backendOrder) > 0 {
		out = s.filter(defaultOrder(youtubeURL), youtubeURL)
	}
	return out
}

func (s *defaultSelector) filter(names []string, youtubeURL bool) []string {
	var out []string
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		normalized := normalize(name)
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		if _, skipped := s.backendSkip[normalized]; skipped {
			continue
		}
		if _, ok := s.available[normalized]; !ok {
			continue
		}
		// The native client only understands YouTube.
		if normalized == BackendYouTube && !youtubeURL {
			continue
		}
		out = append(out, normalized)
	}
	return out
}

func defaultOrder(youtubeURL bool) []string {
	if youtubeURL {
		return []string{BackendYouTube, BackendYtDlp}
	}
	return []string{BackendYtDlp}
}

func normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "yt-dlp", "yt_dlp":
		return BackendYtDlp
	case "native", "kkdai":
		return BackendYouTube
	}
	return name
}

var youtubeHosts = map[string]struct{}{
	"youtube.com":          {},
	"m.youtube.com":        {},
	"music.youtube.com":    {},
	"youtu.be":             {},
	"youtube-nocookie.com": {},
}

// IsYouTubeURL reports whether rawURL points at a YouTube host.
func IsYouTubeURL(rawURL string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	_, ok := youtubeHosts[host]
	return ok
}

// IsPlaylistURL reports URLs that name a whole playlist rather than one item
// of it, e.g. youtube.com/playlist?list=... or a SoundCloud set.
func IsPlaylistURL(rawURL string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return false
	}
	path := strings.ToLower(u.Path)
	if IsYouTubeURL(rawURL) {
		return strings.TrimSuffix(path, "/") == "/playlist" && u.Query().Get("list") != ""
	}
	return strings.Contains(path, "/sets/") || strings.Contains(path, "/playlist")
}
