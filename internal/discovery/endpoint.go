package discovery

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Endpoint is an intake server found on the local network
type Endpoint struct {
	// Instance is the advertised service instance name (e.g., "office-desk")
	Instance string

	// Hostname is the mDNS hostname (e.g., "office-pc.local.")
	Hostname string

	// IP prefers IPv4 and falls back to IPv6
	IP string

	Port int

	// Path is the submission path from the TXT "path" key
	Path string

	// Metadata contains all TXT record data
	// Common fields: "path=/exec", "scheme=https", "version=v1.2.0"
	Metadata map[string]string

	DiscoveredAt time.Time
}

// String returns a human-readable description of the endpoint
func (e *Endpoint) String() string {
	return fmt.Sprintf("%s (%s) at %s", e.Instance, strings.TrimSuffix(e.Hostname, "."), e.URL())
}

// URL returns the submission URL of the endpoint
func (e *Endpoint) URL() string {
	scheme := e.GetMetadata("scheme")
	if scheme != "https" {
		scheme = "http"
	}
	path := e.Path
	if path == "" {
		path = DefaultPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return fmt.Sprintf("%s://%s%s", scheme, net.JoinHostPort(e.IP, strconv.Itoa(e.Port)), path)
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (e *Endpoint) GetMetadata(key string) string {
	if e.Metadata == nil {
		return ""
	}
	return e.Metadata[key]
}
