package intake

import (
	"fmt"
	"os"

	"github.com/grandcat/zeroconf"
	"github.com/stmarys-jajpur/admitform/internal/discovery"
	"github.com/stmarys-jajpur/admitform/internal/logging"
	"github.com/stmarys-jajpur/admitform/internal/version"
	"go.uber.org/zap"
)

// txtRecords describes the endpoint for discovery.Endpoint
func txtRecords(path string, secure bool) []string {
	scheme := "http"
	if secure {
		scheme = "https"
	}
	return []string{
		"path=" + path,
		"scheme=" + scheme,
		"version=" + version.Version,
	}
}

// Advertise registers the endpoint over mDNS. The returned server must be
// shut down to withdraw the advertisement.
func Advertise(instance string, port int, path string, secure bool) (*zeroconf.Server, error) {
	if instance == "" {
		host, err := os.Hostname()
		if err != nil {
			host = "admitform-intake"
		}
		instance = host
	}

	server, err := zeroconf.Register(instance, discovery.ServiceType, discovery.ServiceDomain, port, txtRecords(path, secure), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}

	logging.Info("Advertising intake endpoint",
		zap.String("instance", instance),
		zap.String("service", discovery.ServiceType),
		zap.Int("port", port),
	)
	return server, nil
}
