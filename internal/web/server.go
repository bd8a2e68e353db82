// Package web serves the downloader pages and JSON API.
package web

import (
	"context"
	"embed"
	html "html/template"
	"io/fs"
	"net/http"
	"os"

	pz "github.com/weberc2/httpeasy"

	"github.com/1abhishek0948/Universal-Media-downloader/client"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var pages = html.Must(html.ParseFS(templateFS, "templates/*.html"))

// MediaClient is the subset of *client.Client the handlers use.
type MediaClient interface {
	GetMedia(ctx context.Context, rawURL string) (*client.MediaInfo, error)
	GetTiers(ctx context.Context, rawURL string) (*client.MediaInfo, client.TierMap, error)
	Download(ctx context.Context, rawURL string, options client.DownloadOptions) (*client.DownloadResult, error)
	DownloadPlaylist(ctx context.Context, rawURL string) (*client.DownloadResult, error)
}

// Server wires the media client to HTTP.
type Server struct {
	Client      MediaClient
	DownloadDir string
}

// Routes returns the httpeasy routes for pages and the JSON API.
func (s *Server) Routes() []pz.Route {
	return []pz.Route{
		{Method: "GET", Path: "/", Handler: page("index", "Downloader")},
		{Method: "GET", Path: "/about", Handler: page("about", "About")},
		{Method: "GET", Path: "/blog", Handler: page("blog", "Blog")},
		{Method: "GET", Path: "/playlist", Handler: page("playlist", "Playlists")},
		{Method: "POST", Path: "/get_media_info", Handler: s.MediaInfo},
		{Method: "GET", Path: "/download_media", Handler: s.DownloadMediaRedirect},
		{Method: "POST", Path: "/download_media", Handler: s.DownloadMedia},
		{Method: "GET", Path: "/download_playlist", Handler: s.DownloadPlaylist},
	}
}

// Handler composes the API routes with the file handlers.
func (s *Server) Handler() http.Handler {
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	mux := http.NewServeMux()
	mux.Handle(client.DownloadURLPrefix+"/", &downloadsHandler{Dir: s.DownloadDir})
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	mux.Handle("/", pz.Register(pz.JSONLog(os.Stderr), s.Routes()...))
	return mux
}

func page(name, title string) pz.Handler {
	tmpl := pages.Lookup(name + ".html")
	return func(pz.Request) pz.Response {
		return pz.Ok(pz.HTMLTemplate(tmpl, struct {
			Page  string
			Title string
		}{
			Page:  name,
			Title: title,
		}))
	}
}
