// Package config loads the server configuration from an optional YAML file
// overridden by UMD_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"github.com/1abhishek0948/Universal-Media-downloader/client"
	"github.com/1abhishek0948/Universal-Media-downloader/internal/cookies"
	"github.com/1abhishek0948/Universal-Media-downloader/internal/objectstore"
)

const (
	// EnvVarPrefix prefixes every environment override, e.g. UMD_ADDR.
	EnvVarPrefix = "UMD"

	// ConfigFileEnvVar names the YAML file to load when no path is given.
	ConfigFileEnvVar = EnvVarPrefix + "_CONFIG_FILE"
)

type Config struct {
	Addr            string   `envconfig:"ADDR"              yaml:"addr"`
	DownloadDir     string   `envconfig:"DOWNLOAD_DIR"      yaml:"downloadDir"`
	Extractors      []string `envconfig:"EXTRACTORS"        yaml:"extractors"`
	SkipExtractors  []string `envconfig:"SKIP_EXTRACTORS"   yaml:"skipExtractors"`
	YtDlpPath       string   `envconfig:"YTDLP_PATH"        yaml:"ytDlpPath"`
	FFmpegPath      string   `envconfig:"FFMPEG_PATH"       yaml:"ffmpegPath"`
	CookiesFile     string   `envconfig:"COOKIES_FILE"      yaml:"cookiesFile"`
	ProxyURL        string   `envconfig:"PROXY_URL"         yaml:"proxyURL"`
	RequestTimeout  Duration `envconfig:"REQUEST_TIMEOUT"   yaml:"requestTimeout"`
	DownloadTimeout Duration `envconfig:"DOWNLOAD_TIMEOUT"  yaml:"downloadTimeout"`
	RetentionPeriod Duration `envconfig:"RETENTION_PERIOD"  yaml:"retentionPeriod"`
	SweepInterval   Duration `envconfig:"SWEEP_INTERVAL"    yaml:"sweepInterval"`
	ImageMaxRetries int      `envconfig:"IMAGE_MAX_RETRIES" yaml:"imageMaxRetries"`
	S3Bucket        string   `envconfig:"S3_BUCKET"         yaml:"s3Bucket"`
	S3Prefix        string   `envconfig:"S3_PREFIX"         yaml:"s3Prefix"`
	S3Region        string   `envconfig:"S3_REGION"         yaml:"s3Region"`
	PresignTTL      Duration `envconfig:"PRESIGN_TTL"       yaml:"presignTTL"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Addr:            "127.0.0.1:5000",
		DownloadDir:     "mydownloads",
		RequestTimeout:  Duration(30 * time.Second),
		DownloadTimeout: Duration(30 * time.Minute),
		RetentionPeriod: Duration(24 * time.Hour),
		SweepInterval:   Duration(time.Hour),
		ImageMaxRetries: 3,
		PresignTTL:      Duration(time.Hour),
	}
}

// Load reads configFile (if it exists) over the defaults, then applies
// environment overrides. An empty configFile falls back to $UMD_CONFIG_FILE.
func Load(configFile string) (*Config, error) {
	if configFile == "" {
		configFile = os.Getenv(ConfigFileEnvVar)
	}

	c := Default()
	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		} else if err := yaml.UnmarshalStrict(data, &c); err != nil {
			return nil, fmt.Errorf("unmarshaling config file: %w", err)
		}
	}

	if err := envconfig.Process(EnvVarPrefix, &c); err != nil {
		return nil, fmt.Errorf("parsing environment variables: %w", err)
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if y, e := func() (string, string) {
		if c.Addr == "" {
			return "addr", "ADDR"
		}
		if c.DownloadDir == "" {
			return "downloadDir", "DOWNLOAD_DIR"
		}
		return "", ""
	}(); y != "" {
		return fmt.Errorf(
			"missing required configuration: %s / %s_%s",
			y,
			EnvVarPrefix,
			e,
		)
	}

	var errs []error
	if c.ProxyURL != "" {
		u, err := url.Parse(c.ProxyURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("invalid proxyURL %q", c.ProxyURL))
		}
	}
	if c.ImageMaxRetries < 0 {
		errs = append(errs, fmt.Errorf("imageMaxRetries must be >= 0, got %d", c.ImageMaxRetries))
	}
	for name, d := range map[string]Duration{
		"requestTimeout":  c.RequestTimeout,
		"downloadTimeout": c.DownloadTimeout,
		"retentionPeriod": c.RetentionPeriod,
		"sweepInterval":   c.SweepInterval,
		"presignTTL":      c.PresignTTL,
	} {
		if d < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative", name))
		}
	}
	if c.S3Bucket == "" && (c.S3Prefix != "" || c.S3Region != "") {
		errs = append(errs, errors.New("s3Prefix/s3Region set without s3Bucket"))
	}
	return errors.Join(errs...)
}

// ToClientConfig converts the file/env configuration into client options.
// The cookie file, when set, is loaded into a jar for the native backend and
// passed through as-is to yt-dlp.
func (c *Config) ToClientConfig() (client.Config, error) {
	out := client.Config{
		ProxyURL:        c.ProxyURL,
		CookiesFile:     c.CookiesFile,
		Extractors:      c.Extractors,
		SkipExtractors:  c.SkipExtractors,
		YtDlpPath:       c.YtDlpPath,
		FFmpegPath:      c.FFmpegPath,
		DownloadDir:     c.DownloadDir,
		RequestTimeout:  c.RequestTimeout.Std(),
		DownloadTimeout: c.DownloadTimeout.Std(),
		ImageMaxRetries: c.ImageMaxRetries,
	}

	if strings.TrimSpace(c.CookiesFile) != "" {
		list, err := cookies.LoadFile(c.CookiesFile)
		if err != nil {
			return client.Config{}, err
		}
		jar, err := cookies.NewJar(list)
		if err != nil {
			return client.Config{}, err
		}
		out.CookieJar = jar
	}

	if c.S3Bucket != "" {
		store, err := objectstore.NewS3Store(c.S3Bucket, c.S3Prefix, c.S3Region, c.PresignTTL.Std())
		if err != nil {
			return client.Config{}, err
		}
		out.Publisher = store
	}
	return out, nil
}
