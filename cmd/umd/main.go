package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/1abhishek0948/Universal-Media-downloader/client"
	"github.com/1abhishek0948/Universal-Media-downloader/internal/config"
	"github.com/1abhishek0948/Universal-Media-downloader/internal/janitor"
	"github.com/1abhishek0948/Universal-Media-downloader/internal/web"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdout, os.Stderr).RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:        "umd",
		Usage:       "resolve and download media from video sites",
		Description: "a web front-end and command line for yt-dlp backed media downloads",
		Writer:      stdout,
		ErrWriter:   stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the YAML configuration file",
				EnvVars: []string{config.ConfigFileEnvVar},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "print extraction and download events to stderr",
			},
		},
		Commands: []*cli.Command{{
			Name:        "serve",
			Usage:       "run the web server",
			Description: "serve the downloader pages, JSON API and finished files",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "addr",
					Usage: "listen address (overrides the configured addr)",
				},
			},
			Action: withClient(stderr, serve),
		}, {
			Name:      "info",
			Usage:     "print the quality tiers of a media URL as JSON",
			ArgsUsage: "URL",
			Action: withClient(stderr, func(ctx *cli.Context, _ *config.Config, c *client.Client) error {
				rawURL, err := urlArg(ctx)
				if err != nil {
					return err
				}
				info, tiers, err := c.GetTiers(ctx.Context, rawURL)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(ctx.App.Writer)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Title     string         `json:"title"`
					Thumbnail string         `json:"thumbnail"`
					Extractor string         `json:"extractor"`
					Formats   client.TierMap `json:"formats"`
				}{
					Title:     info.Title,
					Thumbnail: info.Thumbnail,
					Extractor: info.Extractor,
					Formats:   tiers,
				})
			}),
		}, {
			Name:      "download",
			Usage:     "download a video, audio track or image",
			ArgsUsage: "URL",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "type",
					Aliases: []string{"t"},
					Value:   string(client.MediaVideo),
					Usage:   "video, audio, image or playlist",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Usage:   "format id or selection expression (video only)",
				},
			},
			Action: withClient(stderr, func(ctx *cli.Context, _ *config.Config, c *client.Client) error {
				rawURL, err := urlArg(ctx)
				if err != nil {
					return err
				}
				mediaType, err := client.ParseMediaType(ctx.String("type"))
				if err != nil {
					return err
				}
				res, err := c.Download(ctx.Context, rawURL, client.DownloadOptions{
					Type:     mediaType,
					FormatID: ctx.String("format"),
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(ctx.App.Writer, res.Path)
				return nil
			}),
		}, {
			Name:      "playlist",
			Usage:     "download every playlist entry into a zip archive",
			ArgsUsage: "URL",
			Action: withClient(stderr, func(ctx *cli.Context, _ *config.Config, c *client.Client) error {
				rawURL, err := urlArg(ctx)
				if err != nil {
					return err
				}
				res, err := c.DownloadPlaylist(ctx.Context, rawURL)
				if err != nil {
					return err
				}
				fmt.Fprintln(ctx.App.Writer, res.Path)
				return nil
			}),
		}},
	}
}

type action func(ctx *cli.Context, cfg *config.Config, c *client.Client) error

func withClient(stderr io.Writer, f action) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		cfg, err := config.Load(ctx.String("config"))
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		clientConfig, err := cfg.ToClientConfig()
		if err != nil {
			return err
		}
		clientConfig.Logger = client.StdLogger{Logger: log.New(stderr, "", log.LstdFlags)}
		if ctx.Bool("verbose") {
			clientConfig.OnExtractionEvent = func(e client.ExtractionEvent) {
				fmt.Fprintln(stderr, formatExtractionEvent(e))
			}
			clientConfig.OnDownloadEvent = func(e client.DownloadEvent) {
				fmt.Fprintln(stderr, formatDownloadEvent(e))
			}
		}
		return f(ctx, cfg, client.New(clientConfig))
	}
}

func urlArg(ctx *cli.Context) (string, error) {
	if ctx.NArg() != 1 {
		return "", fmt.Errorf("expected exactly one URL argument, got %d", ctx.NArg())
	}
	return ctx.Args().First(), nil
}

func serve(ctx *cli.Context, cfg *config.Config, c *client.Client) error {
	addr := cfg.Addr
	if a := ctx.String("addr"); a != "" {
		addr = a
	}
	if err := os.MkdirAll(cfg.DownloadDir, 0o755); err != nil {
		return fmt.Errorf("creating download dir: %w", err)
	}

	sweeper := janitor.Sweeper{
		Dir:      cfg.DownloadDir,
		MaxAge:   cfg.RetentionPeriod.Std(),
		Interval: cfg.SweepInterval.Std(),
		OnRemove: func(path string) {
			log.Printf(`{"message": "removed expired download", "path": %q}`, path)
		},
		OnError: func(err error) {
			log.Printf(`{"message": "sweeping downloads failed", "error": %q}`, err.Error())
		},
	}
	go func() {
		if err := sweeper.Run(ctx.Context); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf(`{"message": "janitor stopped", "error": %q}`, err.Error())
		}
	}()

	srv := &http.Server{
		Addr:              addr,
		Handler:           (&web.Server{Client: c, DownloadDir: cfg.DownloadDir}).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	log.Printf(`{"message": "listening on %s"}`, addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Context.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func formatExtractionEvent(e client.ExtractionEvent) string {
	parts := []string{"[extract]", e.Stage + ":" + e.Phase}
	if e.Extractor != "" {
		parts = append(parts, "extractor="+e.Extractor)
	}
	if e.Detail != "" {
		parts = append(parts, "detail="+e.Detail)
	}
	return strings.Join(parts, " ")
}

func formatDownloadEvent(e client.DownloadEvent) string {
	parts := []string{"[download]", e.Stage + ":" + e.Phase}
	if e.URL != "" {
		parts = append(parts, "url="+e.URL)
	}
	if e.Path != "" {
		parts = append(parts, "path="+e.Path)
	}
	if e.Detail != "" {
		parts = append(parts, "detail="+e.Detail)
	}
	return strings.Join(parts, " ")
}
