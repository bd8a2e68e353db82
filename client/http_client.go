package client

import (
	"net/http"
	"net/url"
	"strings"
)

func defaultHTTPClient(proxyURL string, jar http.CookieJar) *http.Client {
	out := &http.Client{Jar: jar}
	if strings.TrimSpace(proxyURL) == "" {
		return out
	}
	parsed, err := url.Parse(proxyURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return out
	}
	baseTransport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return out
	}
	transport := baseTransport.Clone()
	transport.Proxy = http.ProxyURL(parsed)
	out.Transport = transport
	return out
}
