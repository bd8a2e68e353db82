package extractor

import (
	"regexp"
	"strings"
)

var (
	templateField = regexp.MustCompile(`%\(([a-z_]+)\)s`)
	unsafeName    = strings.NewReplacer(
		"/", "_", `\`, "_", ":", "_", "*", "_", "?", "_",
		`"`, "_", "<", "_", ">", "_", "|", "_", "\x00", "",
	)
)

// RenderOutputTemplate expands yt-dlp style %(field)s placeholders. Field
// values are made safe for use as a single path element; unknown fields
// expand to "NA".
func RenderOutputTemplate(tmpl string, fields map[string]string) string {
	return templateField.ReplaceAllStringFunc(tmpl, func(m string) string {
		name := templateField.FindStringSubmatch(m)[1]
		v, ok := fields[name]
		if !ok || strings.TrimSpace(v) == "" {
			return "NA"
		}
		return SanitizeFilename(v)
	})
}

// SanitizeFilename replaces characters that are unsafe in file names.
func SanitizeFilename(name string) string {
	name = strings.TrimSpace(unsafeName.Replace(name))
	name = strings.Trim(name, ".")
	if name == "" {
		return "_"
	}
	return name
}
