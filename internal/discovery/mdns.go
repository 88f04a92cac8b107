package discovery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
)

const (
	// ServiceType is the mDNS service type advertised by admitform-intake
	ServiceType = "_admitform._tcp"

	// ServiceDomain is the mDNS domain
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for endpoint discovery
	DefaultScanTimeout = 5 * time.Second

	// DefaultPath is assumed when an advertisement carries no path
	DefaultPath = "/exec"
)

// ErrNotFound is returned when no endpoint answered within the timeout
var ErrNotFound = errors.New("no intake endpoint found on the local network")

// Scanner browses the local network for intake endpoints
type Scanner struct {
	// Timeout is the maximum time to wait for answers
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// Scan collects every endpoint that answers before the timeout
func (s *Scanner) Scan(ctx context.Context) ([]*Endpoint, error) {
	var (
		mu        sync.Mutex
		endpoints []*Endpoint
	)
	err := s.browse(ctx, func(ep *Endpoint) bool {
		mu.Lock()
		endpoints = append(endpoints, ep)
		mu.Unlock()
		return true
	})
	if err != nil {
		return nil, err
	}

	mu.Lock()
	defer mu.Unlock()
	return endpoints, nil
}

// First returns the first endpoint that answers
func (s *Scanner) First(ctx context.Context) (*Endpoint, error) {
	var found *Endpoint
	err := s.browse(ctx, func(ep *Endpoint) bool {
		found = ep
		return false
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, ErrNotFound
	}
	return found, nil
}

// browse feeds parsed endpoints to visit until it returns false or the
// timeout expires. visit is never called after browse returns.
func (s *Scanner) browse(ctx context.Context, visit func(*Endpoint) bool) error {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				if ep := parseServiceEntry(entry); ep != nil && !visit(ep) {
					cancel()
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	<-done
	return nil
}

// parseServiceEntry converts a zeroconf service entry to an Endpoint.
// Returns nil if the entry carries no usable address.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Endpoint {
	if entry == nil || entry.Port == 0 {
		return nil
	}

	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		key, value, _ := strings.Cut(txt, "=")
		metadata[key] = value
	}

	path := metadata["path"]
	if path == "" {
		path = DefaultPath
	}

	return &Endpoint{
		Instance:     entry.Instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         entry.Port,
		Path:         path,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// Scan is a convenience function to scan with a custom timeout
func Scan(ctx context.Context, timeout time.Duration) ([]*Endpoint, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.Scan(ctx)
}

// FindEndpoint returns the first endpoint found within timeout
func FindEndpoint(ctx context.Context, timeout time.Duration) (*Endpoint, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.First(ctx)
}
