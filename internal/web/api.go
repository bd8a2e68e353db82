package web

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	pz "github.com/weberc2/httpeasy"

	"github.com/1abhishek0948/Universal-Media-downloader/client"
)

type mediaInfoRequest struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

type playlistEntry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type mediaInfoResponse struct {
	Title      string          `json:"title"`
	Thumbnail  string          `json:"thumbnail"`
	Formats    *client.TierMap `json:"formats,omitempty"`
	IsPlaylist bool            `json:"is_playlist"`
	Entries    []playlistEntry `json:"entries,omitempty"`
}

type downloadRequest struct {
	URL      string `json:"url"`
	Type     string `json:"type"`
	FormatID string `json:"format_id"`
}

type downloadResponse struct {
	DownloadURL string `json:"download_url"`
}

type errorBody struct {
	Error string `json:"error"`
}

type logging struct {
	Message  string
	URL      string `json:",omitempty"`
	Type     string `json:",omitempty"`
	Category string `json:",omitempty"`
	Error    string `json:",omitempty"`
}

// MediaInfo resolves a URL into its title, thumbnail and, for videos, the
// quality tiers.
func (s *Server) MediaInfo(r pz.Request) pz.Response {
	var req mediaInfoRequest
	if err := r.JSON(&req); err != nil {
		return pz.BadRequest(
			pz.JSON(errorBody{Error: "Invalid JSON body"}),
			logging{Message: "parsing media info request", Error: err.Error()},
		)
	}
	if strings.TrimSpace(req.URL) == "" {
		return pz.BadRequest(
			pz.JSON(errorBody{Error: "URL is required"}),
			logging{Message: "media info request without url"},
		)
	}
	mediaType, err := client.ParseMediaType(req.Type)
	if err != nil || req.Type == "" || mediaType == client.MediaImage {
		return pz.BadRequest(
			pz.JSON(errorBody{Error: "Invalid media type"}),
			logging{Message: "media info request", URL: req.URL, Type: req.Type},
		)
	}

	ctx := context.Background()
	switch mediaType {
	case client.MediaVideo:
		info, tiers, err := s.Client.GetTiers(ctx, req.URL)
		if err != nil {
			return jsonError(err, "resolving media info", req.URL, req.Type)
		}
		return pz.Ok(
			pz.JSON(mediaInfoResponse{
				Title:     info.Title,
				Thumbnail: info.Thumbnail,
				Formats:   &tiers,
			}),
			logging{Message: "resolved media info", URL: req.URL, Type: req.Type},
		)
	case client.MediaAudio:
		info, err := s.Client.GetMedia(ctx, req.URL)
		if err == nil && info.IsLive {
			err = fmt.Errorf("%s: %w", req.URL, client.ErrLiveStream)
		}
		if err != nil {
			return jsonError(err, "resolving media info", req.URL, req.Type)
		}
		return pz.Ok(
			pz.JSON(mediaInfoResponse{Title: info.Title, Thumbnail: info.Thumbnail}),
			logging{Message: "resolved media info", URL: req.URL, Type: req.Type},
		)
	default:
		info, err := s.Client.GetMedia(ctx, req.URL)
		if err != nil {
			return jsonError(err, "resolving playlist info", req.URL, req.Type)
		}
		entries := make([]playlistEntry, 0, len(info.Entries))
		for _, e := range info.Entries {
			entries = append(entries, playlistEntry{ID: e.ID, Title: e.Title})
		}
		return pz.Ok(
			pz.JSON(mediaInfoResponse{
				Title:      info.Title,
				Thumbnail:  info.Thumbnail,
				IsPlaylist: true,
				Entries:    entries,
			}),
			logging{Message: "resolved playlist info", URL: req.URL, Type: req.Type},
		)
	}
}

// DownloadMedia downloads the requested media and returns its URL as JSON.
func (s *Server) DownloadMedia(r pz.Request) pz.Response {
	var req downloadRequest
	if err := r.JSON(&req); err != nil {
		return pz.BadRequest(
			pz.JSON(errorBody{Error: "Invalid JSON body"}),
			logging{Message: "parsing download request", Error: err.Error()},
		)
	}
	if strings.TrimSpace(req.URL) == "" {
		return pz.BadRequest(
			pz.JSON(errorBody{Error: "URL is required"}),
			logging{Message: "download request without url"},
		)
	}
	res, err := s.download(req.URL, req.Type, req.FormatID)
	if err != nil {
		return jsonError(err, "downloading media", req.URL, req.Type)
	}
	return pz.Ok(
		pz.JSON(downloadResponse{DownloadURL: res.URL}),
		logging{Message: "downloaded media", URL: req.URL, Type: req.Type},
	)
}

// DownloadMediaRedirect downloads the media named by the query string and
// redirects the browser to the file.
func (s *Server) DownloadMediaRedirect(r pz.Request) pz.Response {
	query := r.URL.Query()
	target, mediaType, formatID := query.Get("url"), query.Get("type"), query.Get("format_id")
	if target == "" || mediaType == "" {
		return pz.BadRequest(
			pz.String("Error: URL and Type are required."),
			logging{Message: "download request without url or type"},
		)
	}
	if mediaType == string(client.MediaPlaylist) {
		return pz.SeeOther(
			"/download_playlist?url="+url.QueryEscape(target),
			logging{Message: "redirecting playlist download", URL: target},
		)
	}

	res, err := s.download(target, mediaType, formatID)
	if err != nil {
		return textError(err, "An error occurred during download", target, mediaType)
	}
	return pz.SeeOther(res.URL, logging{Message: "downloaded media", URL: target, Type: mediaType})
}

// DownloadPlaylist zips every playlist entry and redirects to the archive.
func (s *Server) DownloadPlaylist(r pz.Request) pz.Response {
	target := r.URL.Query().Get("url")
	if target == "" {
		return pz.BadRequest(
			pz.String("Error: URL is required for playlist download."),
			logging{Message: "playlist download without url"},
		)
	}
	res, err := s.Client.DownloadPlaylist(context.Background(), target)
	if err != nil {
		return textError(err, "An error occurred during playlist download", target, string(client.MediaPlaylist))
	}
	return pz.SeeOther(res.URL, logging{Message: "downloaded playlist", URL: target})
}

func (s *Server) download(target, mediaType, formatID string) (*client.DownloadResult, error) {
	t, err := client.ParseMediaType(mediaType)
	if err != nil {
		return nil, err
	}
	return s.Client.Download(context.Background(), target, client.DownloadOptions{Type: t, FormatID: formatID})
}

func statusFor(category client.ErrorCategory) int {
	switch category {
	case client.ErrorCategoryInvalidURL, client.ErrorCategoryInvalidMediaType:
		return http.StatusBadRequest
	case client.ErrorCategoryRestricted:
		return http.StatusForbidden
	case client.ErrorCategoryUnsupportedSite:
		return http.StatusUnprocessableEntity
	case client.ErrorCategoryLiveStream:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func jsonError(err error, message, target, mediaType string) pz.Response {
	category := client.ClassifyError(err)
	return pz.Response{
		Status: statusFor(category),
		Data:   pz.JSON(errorBody{Error: err.Error()}),
		Logging: []interface{}{logging{
			Message:  message,
			URL:      target,
			Type:     mediaType,
			Category: string(category),
			Error:    err.Error(),
		}},
	}
}

func textError(err error, prefix, target, mediaType string) pz.Response {
	category := client.ClassifyError(err)
	return pz.Response{
		Status: statusFor(category),
		Data:   pz.Stringf("%s: %v", prefix, err),
		Logging: []interface{}{logging{
			Message:  strings.ToLower(prefix),
			URL:      target,
			Type:     mediaType,
			Category: string(category),
			Error:    err.Error(),
		}},
	}
}
