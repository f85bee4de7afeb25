package requestinfo

import (
	"net/http/httptest"
	"testing"
)

func TestDescribe(t *testing.T) {
	d, err := OpenGeo("")
	if err != nil {
		t.Fatalf("OpenGeo: %v", err)
	}
	defer d.Close()

	req := httptest.NewRequest("POST", "/editor/validate", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0")

	c := d.Describe(req)
	if c.IP.String() != "203.0.113.7" {
		t.Errorf("ip = %v", c.IP)
	}
	if c.Browser != "Firefox" || c.Device != "Desktop" || c.IsBot {
		t.Errorf("unexpected client %+v", c)
	}
	if c.Country != "" {
		t.Errorf("country without GeoIP db: %q", c.Country)
	}
}

func TestClientIPFallsBackToRemoteAddr(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.0.2.1:5555"
	if ip := clientIP(req); ip.String() != "192.0.2.1" {
		t.Fatalf("ip = %v", ip)
	}
}

func TestOpenGeoMissingFile(t *testing.T) {
	if _, err := OpenGeo("/nonexistent/GeoLite2-Country.mmdb"); err == nil {
		t.Fatalf("expected error")
	}
}
