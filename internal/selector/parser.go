package selector

import (
	"fmt"
	"regexp"
	"strings"
)

// Selector represents a parsed format selection expression.
type Selector struct {
	// Fallbacks: Each element is a Merge Group.
	// We try the first Merge Group. If it fails, try the next.
	Fallbacks []MergeGroup
}

// MergeGroup is a list of StreamSpecs to be downloaded and merged.
// E.g. "bestvideo+bestaudio" -> [StreamSpec(video), StreamSpec(audio)]
type MergeGroup []*StreamSpec

// StreamSpec defines criteria for ONE stream.
type StreamSpec struct {
	Filters []FormatFilter
}

// FormatFilter represents a single criteria (e.g., bestvideo, height<=1080, id 137).
type FormatFilter struct {
	Type  string // builtin, media, ext, res, width, fps, vcodec, acodec, id
	Value string
	Op    string // =, !=, <, >, <=, >=, :
}

var (
	resRegex      = regexp.MustCompile(`^(res|height|width)(:|<=|>=|=|<|>)(\d+)$`)
	modifierRegex = regexp.MustCompile(`\[([^\]]+)\]`)
	formatIDRegex = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
)

// Parse parses a format selection expression.
// Syntax: seg1+seg2/seg3, with modifiers such as bestvideo[ext=mp4].
// Bare tokens that are not keywords are treated as format ids.
func Parse(s string) (*Selector, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty format selector")
	}
	var fallbacks []MergeGroup
	for _, fbStr := range strings.Split(s, "/") {
		var group MergeGroup
		for _, mStr := range strings.Split(fbStr, "+") {
			spec, err := parseStreamSpec(strings.TrimSpace(mStr))
			if err != nil {
				return nil, err
			}
			group = append(group, spec)
		}
		fallbacks = append(fallbacks, group)
	}
	return &Selector{Fallbacks: fallbacks}, nil
}

func parseStreamSpec(s string) (*StreamSpec, error) {
	if s == "" {
		return nil, fmt.Errorf("empty selector segment")
	}
	base, mods := s, ""
	if idx := strings.Index(s, "["); idx != -1 {
		base, mods = s[:idx], s[idx:]
	}

	spec := &StreamSpec{}
	if base != "" {
		f, err := parseFilter(base)
		if err != nil {
			return nil, err
		}
		spec.Filters = append(spec.Filters, *f)
	}

	for _, m := range modifierRegex.FindAllStringSubmatch(mods, -1) {
		f, err := parseModifier(m[1])
		if err != nil {
			return nil, err
		}
		spec.Filters = append(spec.Filters, *f)
	}
	return spec, nil
}

func parseModifier(s string) (*FormatFilter, error) {
	ops := []string{"<=", ">=", "!=", "=", "<", ">", ":"}
	for _, op := range ops {
		idx := strings.Index(s, op)
		if idx == -1 {
			continue
		}
		key := strings.TrimSpace(s[:idx])
		val := strings.TrimSpace(s[idx+len(op):])

		switch key {
		case "ext":
			return &FormatFilter{Type: "ext", Value: strings.ToLower(val), Op: op}, nil
		case "res", "height":
			return &FormatFilter{Type: "res", Value: val, Op: op}, nil
		case "width":
			return &FormatFilter{Type: "width", Value: val, Op: op}, nil
		case "fps":
			return &FormatFilter{Type: "fps", Value: val, Op: op}, nil
		case "vcodec", "acodec":
			return &FormatFilter{Type: key, Value: strings.ToLower(val), Op: op}, nil
		case "format_id":
			return &FormatFilter{Type: "id", Value: val, Op: op}, nil
		default:
			return nil, fmt.Errorf("unknown modifier key: %s", key)
		}
	}
	return nil, fmt.Errorf("unknown modifier syntax: %s", s)
}

func parseFilter(s string) (*FormatFilter, error) {
	lower := strings.ToLower(s)

	switch lower {
	case "best", "worst", "b", "w":
		value := "best"
		if lower[0] == 'w' {
			value = "worst"
		}
		return &FormatFilter{Type: "builtin", Value: value}, nil
	case "bestvideo", "bv", "bv*":
		return &FormatFilter{Type: "media", Value: "video", Op: "best"}, nil
	case "worstvideo", "wv":
		return &FormatFilter{Type: "media", Value: "video", Op: "worst"}, nil
	case "bestaudio", "ba":
		return &FormatFilter{Type: "media", Value: "audio", Op: "best"}, nil
	case "worstaudio", "wa":
		return &FormatFilter{Type: "media", Value: "audio", Op: "worst"}, nil
	case "videoonly":
		return &FormatFilter{Type: "media", Value: "video"}, nil
	case "audioonly":
		return &FormatFilter{Type: "media", Value: "audio"}, nil
	case "mp4", "webm", "m4a", "mp3":
		return &FormatFilter{Type: "ext", Value: lower, Op: "="}, nil
	}

	if matches := resRegex.FindStringSubmatch(lower); matches != nil {
		filterType := "res"
		if matches[1] == "width" {
			filterType = "width"
		}
		return &FormatFilter{Type: filterType, Value: matches[3], Op: matches[2]}, nil
	}

	// Standalone modifier-style filters, e.g. "fps!=60", "ext=mp4".
	if flt, err := parseModifier(lower); err == nil {
		return flt, nil
	}

	if formatIDRegex.MatchString(s) {
		return &FormatFilter{Type: "id", Value: s, Op: "="}, nil
	}
	return nil, fmt.Errorf("unknown selector: %s", s)
}
