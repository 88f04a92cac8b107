package discovery

import (
	"net"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

func TestParseServiceEntry(t *testing.T) {
	tests := []struct {
		name     string
		entry    *zeroconf.ServiceEntry
		wantNil  bool
		wantIP   string
		wantPort int
		wantPath string
		wantURL  string
	}{
		{
			name: "IPv4 with path",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "office-desk"},
				HostName:      "office-pc.local.",
				Port:          8080,
				AddrIPv4:      []net.IP{net.ParseIP("192.168.1.20")},
				Text:          []string{"path=/exec", "version=v1.0.0"},
			},
			wantIP:   "192.168.1.20",
			wantPort: 8080,
			wantPath: "/exec",
			wantURL:  "http://192.168.1.20:8080/exec",
		},
		{
			name: "no path defaults",
			entry: &zeroconf.ServiceEntry{
				HostName: "office-pc.local",
				Port:     9000,
				AddrIPv4: []net.IP{net.ParseIP("10.0.0.5")},
			},
			wantIP:   "10.0.0.5",
			wantPort: 9000,
			wantPath: "/exec",
			wantURL:  "http://10.0.0.5:9000/exec",
		},
		{
			name: "https scheme",
			entry: &zeroconf.ServiceEntry{
				HostName: "office-pc.local",
				Port:     8443,
				AddrIPv4: []net.IP{net.ParseIP("10.0.0.5")},
				Text:     []string{"path=/", "scheme=https"},
			},
			wantIP:   "10.0.0.5",
			wantPort: 8443,
			wantPath: "/",
			wantURL:  "https://10.0.0.5:8443/",
		},
		{
			name: "IPv6 only",
			entry: &zeroconf.ServiceEntry{
				HostName: "office-pc.local",
				Port:     8080,
				AddrIPv6: []net.IP{net.ParseIP("fe80::1")},
			},
			wantIP:   "fe80::1",
			wantPort: 8080,
			wantPath: "/exec",
			wantURL:  "http://[fe80::1]:8080/exec",
		},
		{
			name: "prefers IPv4",
			entry: &zeroconf.ServiceEntry{
				HostName: "office-pc.local",
				Port:     8080,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.50")},
				AddrIPv6: []net.IP{net.ParseIP("fe80::2")},
			},
			wantIP:   "192.168.1.50",
			wantPort: 8080,
			wantPath: "/exec",
			wantURL:  "http://192.168.1.50:8080/exec",
		},
		{
			name: "no address",
			entry: &zeroconf.ServiceEntry{
				HostName: "office-pc.local",
				Port:     8080,
			},
			wantNil: true,
		},
		{
			name: "no port",
			entry: &zeroconf.ServiceEntry{
				HostName: "office-pc.local",
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.50")},
			},
			wantNil: true,
		},
		{
			name:    "nil entry",
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ep := parseServiceEntry(tt.entry)

			if tt.wantNil {
				if ep != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", ep)
				}
				return
			}
			if ep == nil {
				t.Fatal("parseServiceEntry() = nil, want endpoint")
			}

			if ep.IP != tt.wantIP {
				t.Errorf("IP = %v, want %v", ep.IP, tt.wantIP)
			}
			if ep.Port != tt.wantPort {
				t.Errorf("Port = %v, want %v", ep.Port, tt.wantPort)
			}
			if ep.Path != tt.wantPath {
				t.Errorf("Path = %v, want %v", ep.Path, tt.wantPath)
			}
			if got := ep.URL(); got != tt.wantURL {
				t.Errorf("URL() = %v, want %v", got, tt.wantURL)
			}
			if ep.Instance != tt.entry.Instance {
				t.Errorf("Instance = %v, want %v", ep.Instance, tt.entry.Instance)
			}
			if time.Since(ep.DiscoveredAt) > time.Second {
				t.Errorf("DiscoveredAt is not recent: %v", ep.DiscoveredAt)
			}
		})
	}
}

func TestParseServiceEntry_Metadata(t *testing.T) {
	ep := parseServiceEntry(&zeroconf.ServiceEntry{
		HostName: "office-pc.local",
		Port:     8080,
		AddrIPv4: []net.IP{net.ParseIP("192.168.4.16")},
		Text:     []string{"path=/exec", "flag", "version=v1.0=rc"},
	})
	if ep == nil {
		t.Fatal("parseServiceEntry() = nil")
	}

	want := map[string]string{"path": "/exec", "flag": "", "version": "v1.0=rc"}
	if len(ep.Metadata) != len(want) {
		t.Errorf("Metadata has %d entries, want %d", len(ep.Metadata), len(want))
	}
	for key, value := range want {
		if got := ep.GetMetadata(key); got != value {
			t.Errorf("Metadata[%q] = %q, want %q", key, got, value)
		}
	}
}

func TestEndpoint_URLNormalizesPath(t *testing.T) {
	ep := &Endpoint{IP: "127.0.0.1", Port: 8080, Path: "intake"}
	if got := ep.URL(); got != "http://127.0.0.1:8080/intake" {
		t.Errorf("URL() = %v", got)
	}

	ep = &Endpoint{IP: "127.0.0.1", Port: 8080}
	if got := ep.URL(); got != "http://127.0.0.1:8080/exec" {
		t.Errorf("URL() = %v", got)
	}
	if ep.GetMetadata("missing") != "" {
		t.Error("GetMetadata() on nil map should be empty")
	}
}

func TestNewScanner(t *testing.T) {
	scanner := NewScanner()
	if scanner.Timeout != DefaultScanTimeout {
		t.Errorf("Timeout = %v, want %v", scanner.Timeout, DefaultScanTimeout)
	}
}

// Live mDNS browsing needs a multicast-capable network and is not exercised here.
