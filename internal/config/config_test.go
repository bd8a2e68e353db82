package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "umd.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv(ConfigFileEnvVar, "")
	c, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(*c, Default()) {
		t.Fatalf("Load()=%+v want=%+v", *c, Default())
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	path := writeConfig(t, strings.Join([]string{
		"addr: 0.0.0.0:8080",
		"downloadDir: /srv/media",
		"extractors: [ytdlp, youtube]",
		"requestTimeout: 45s",
		"retentionPeriod: 2h",
		"",
	}, "\n"))
	t.Setenv("UMD_ADDR", "127.0.0.1:9000")
	t.Setenv("UMD_SKIP_EXTRACTORS", "youtube")
	t.Setenv("UMD_PRESIGN_TTL", "15m")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Addr != "127.0.0.1:9000" {
		t.Fatalf("Addr=%q want=%q", c.Addr, "127.0.0.1:9000")
	}
	if c.DownloadDir != "/srv/media" {
		t.Fatalf("DownloadDir=%q want=%q", c.DownloadDir, "/srv/media")
	}
	if !reflect.DeepEqual(c.Extractors, []string{"ytdlp", "youtube"}) {
		t.Fatalf("Extractors=%v", c.Extractors)
	}
	if !reflect.DeepEqual(c.SkipExtractors, []string{"youtube"}) {
		t.Fatalf("SkipExtractors=%v", c.SkipExtractors)
	}
	if c.RequestTimeout.Std() != 45*time.Second {
		t.Fatalf("RequestTimeout=%v want=45s", c.RequestTimeout.Std())
	}
	if c.RetentionPeriod.Std() != 2*time.Hour {
		t.Fatalf("RetentionPeriod=%v want=2h", c.RetentionPeriod.Std())
	}
	if c.PresignTTL.Std() != 15*time.Minute {
		t.Fatalf("PresignTTL=%v want=15m", c.PresignTTL.Std())
	}
	// untouched values keep their defaults
	if c.DownloadTimeout.Std() != 30*time.Minute {
		t.Fatalf("DownloadTimeout=%v want=30m", c.DownloadTimeout.Std())
	}
}

func TestLoadUsesConfigFileEnvVar(t *testing.T) {
	path := writeConfig(t, "downloadDir: from-env-file\n")
	t.Setenv(ConfigFileEnvVar, path)
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.DownloadDir != "from-env-file" {
		t.Fatalf("DownloadDir=%q want=%q", c.DownloadDir, "from-env-file")
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "adress: typo\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected strict unmarshal error")
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv(ConfigFileEnvVar, "")
	t.Setenv("UMD_SWEEP_INTERVAL", "soon")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected env duration error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "ok", mutate: func(*Config) {}},
		{name: "no addr", mutate: func(c *Config) { c.Addr = "" }, wantErr: "UMD_ADDR"},
		{name: "no download dir", mutate: func(c *Config) { c.DownloadDir = "" }, wantErr: "UMD_DOWNLOAD_DIR"},
		{name: "bad proxy", mutate: func(c *Config) { c.ProxyURL = "not a url" }, wantErr: "proxyURL"},
		{name: "negative retries", mutate: func(c *Config) { c.ImageMaxRetries = -1 }, wantErr: "imageMaxRetries"},
		{name: "negative duration", mutate: func(c *Config) { c.SweepInterval = Duration(-time.Second) }, wantErr: "sweepInterval"},
		{name: "prefix without bucket", mutate: func(c *Config) { c.S3Prefix = "x" }, wantErr: "s3Bucket"},
	}
	for _, tt := range tests {
		c := Default()
		tt.mutate(&c)
		err := c.Validate()
		if tt.wantErr == "" {
			if err != nil {
				t.Fatalf("%s: Validate() error = %v", tt.name, err)
			}
			continue
		}
		if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
			t.Fatalf("%s: Validate()=%v want error containing %q", tt.name, err, tt.wantErr)
		}
	}
}

func TestToClientConfig(t *testing.T) {
	cookieFile := filepath.Join(t.TempDir(), "cookies.txt")
	line := strings.Join([]string{".youtube.com", "TRUE", "/", "TRUE", "0", "SID", "abc"}, "\t")
	if err := os.WriteFile(cookieFile, []byte("# Netscape HTTP Cookie File\n"+line+"\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	c := Default()
	c.CookiesFile = cookieFile
	c.ProxyURL = "http://proxy.local:3128"
	c.Extractors = []string{"ytdlp"}
	cfg, err := c.ToClientConfig()
	if err != nil {
		t.Fatalf("ToClientConfig() error = %v", err)
	}
	if cfg.CookieJar == nil {
		t.Fatalf("CookieJar not populated")
	}
	if cfg.CookiesFile != cookieFile || cfg.ProxyURL != c.ProxyURL {
		t.Fatalf("pass-through fields lost: %+v", cfg)
	}
	if cfg.RequestTimeout != 30*time.Second || cfg.DownloadTimeout != 30*time.Minute {
		t.Fatalf("timeouts=%v/%v", cfg.RequestTimeout, cfg.DownloadTimeout)
	}
	if cfg.Publisher != nil {
		t.Fatalf("Publisher set without S3 bucket")
	}
	if !reflect.DeepEqual(cfg.Extractors, []string{"ytdlp"}) {
		t.Fatalf("Extractors=%v", cfg.Extractors)
	}

	c.CookiesFile = filepath.Join(t.TempDir(), "missing.txt")
	if _, err := c.ToClientConfig(); err == nil {
		t.Fatalf("expected error for missing cookie file")
	}
}
