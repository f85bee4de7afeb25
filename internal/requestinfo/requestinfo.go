//
//  internal/requestinfo/requestinfo.go
//
//  Client fingerprint attached to every access-log line: address, user
//  agent family, bot flag, and an optional GeoLite2 country.  Curators'
//  editors and crawlers hit the same endpoints; the bot flag lets the
//  log pipeline separate them.  These structs are inert and safe to log.
//
//  Dependencies
//  • github.com/avct/uasurfer          (UA parsing)
//  • github.com/oschwald/geoip2-golang (MaxMind lookup, optional)
//

package requestinfo

import (
	"net"
	"net/http"
	"strings"

	"github.com/avct/uasurfer"
	"github.com/oschwald/geoip2-golang"
)

// Client describes who sent a request.
type Client struct {
	IP      net.IP
	Browser string // "Chrome", "Firefox", "Unknown"
	OS      string // "macOS", "Linux", "Unknown"
	Device  string // "Desktop", "Phone", "Bot"
	IsBot   bool
	Country string // ISO code, empty when no GeoIP database is loaded
}

// Describer builds Client values.  The zero value works without GeoIP.
type Describer struct {
	geo *geoip2.Reader
}

// OpenGeo returns a Describer backed by the GeoLite2 database at dbPath.
// An empty path yields a Describer without country lookups.
func OpenGeo(dbPath string) (*Describer, error) {
	if dbPath == "" {
		return &Describer{}, nil
	}
	r, err := geoip2.Open(dbPath)
	if err != nil {
		return nil, err
	}
	return &Describer{geo: r}, nil
}

// Close releases the GeoIP reader, if any.
func (d *Describer) Close() error {
	if d == nil || d.geo == nil {
		return nil
	}
	return d.geo.Close()
}

// Describe fingerprints r.
func (d *Describer) Describe(r *http.Request) Client {
	u := uasurfer.Parse(r.UserAgent())

	os := strings.TrimPrefix(u.OS.Name.String(), "OS")
	if os == "MacOSX" {
		os = "macOS"
	}
	c := Client{
		IP:      clientIP(r),
		Browser: strings.TrimPrefix(u.Browser.Name.String(), "Browser"),
		OS:      os,
		Device:  deviceName(u.DeviceType),
		IsBot:   u.IsBot(),
	}
	if d != nil && d.geo != nil && c.IP != nil {
		if rec, err := d.geo.Country(c.IP); err == nil {
			c.Country = rec.Country.IsoCode
		}
	}
	return c
}

// clientIP extracts the left-most address from X-Forwarded-For or
// X-Real-IP, falling back to r.RemoteAddr ("ip:port").
func clientIP(r *http.Request) net.IP {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for _, part := range strings.Split(xff, ",") {
			if ip := net.ParseIP(strings.TrimSpace(part)); ip != nil {
				return ip
			}
		}
	}
	if xrip := r.Header.Get("X-Real-Ip"); xrip != "" {
		if ip := net.ParseIP(strings.TrimSpace(xrip)); ip != nil {
			return ip
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return net.ParseIP(host)
	}
	return nil
}

func deviceName(dt uasurfer.DeviceType) string {
	switch dt {
	case uasurfer.DeviceComputer:
		return "Desktop"
	case uasurfer.DevicePhone:
		return "Phone"
	case uasurfer.DeviceTablet:
		return "Tablet"
	case uasurfer.DeviceConsole:
		return "Console"
	case uasurfer.DeviceWearable:
		return "Wearable"
	case uasurfer.DeviceTV:
		return "TV"
	default:
		return "Unknown"
	}
}
