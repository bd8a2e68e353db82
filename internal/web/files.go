package web

import (
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/1abhishek0948/Universal-Media-downloader/client"
)

// downloadsHandler serves finished files from Dir as attachments. Only the
// base name of the requested path is honored.
type downloadsHandler struct {
	Dir string
}

func (h *downloadsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "405 Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	name := safeName(strings.TrimPrefix(r.URL.Path, client.DownloadURLPrefix+"/"))
	if name == "" {
		http.NotFound(w, r)
		return
	}
	full := filepath.Join(h.Dir, name)
	f, err := os.Open(full)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	http.ServeContent(w, r, name, info.ModTime(), f)
}

func safeName(p string) string {
	name := path.Base(strings.ReplaceAll(p, `\`, "/"))
	switch name {
	case "", ".", "..", "/":
		return ""
	}
	if strings.HasPrefix(name, ".") {
		return ""
	}
	return name
}
