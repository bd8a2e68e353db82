package cookies

import (
	"net/url"
	"strings"
	"testing"
)

const sample = `# Netscape HTTP Cookie File
# comment line
.youtube.com	TRUE	/	TRUE	2147483647	PREF	f6=40000000
#HttpOnly_.youtube.com	TRUE	/	TRUE	0	SID	abc123
broken line without tabs
`

func TestParseNetscape(t *testing.T) {
	got, err := ParseNetscape(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("ParseNetscape() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len=%d want=2", len(got))
	}
	if got[0].Name != "PREF" || got[0].Value != "f6=40000000" || !got[0].Secure || got[0].HttpOnly {
		t.Fatalf("cookie[0]=%+v", got[0])
	}
	if got[0].Expires.Unix() != 2147483647 {
		t.Fatalf("expires=%v", got[0].Expires)
	}
	if got[1].Name != "SID" || !got[1].HttpOnly || !got[1].Expires.IsZero() {
		t.Fatalf("cookie[1]=%+v", got[1])
	}
}

func TestNewJar(t *testing.T) {
	list, err := ParseNetscape(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("ParseNetscape() error = %v", err)
	}
	jar, err := NewJar(list)
	if err != nil {
		t.Fatalf("NewJar() error = %v", err)
	}
	u, _ := url.Parse("https://www.youtube.com/watch?v=x")
	names := map[string]bool{}
	for _, c := range jar.Cookies(u) {
		names[c.Name] = true
	}
	if !names["PREF"] || !names["SID"] {
		t.Fatalf("jar cookies=%v", names)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile("/nonexistent/cookies.txt"); err == nil {
		t.Fatalf("LoadFile() error = nil")
	}
}
