package intake

import (
	"crypto/tls"
	"fmt"

	"github.com/stmarys-jajpur/admitform/internal/logging"
	"go.uber.org/zap"
)

// NewTLSConfig loads a certificate and key for serving HTTPS
func NewTLSConfig(certPath, keyPath string) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLS certificate: %w", err)
	}

	logging.Info("TLS configuration created from files",
		zap.String("cert", certPath),
		zap.String("key", keyPath),
	)

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}

// GetTLSInfo returns human-readable TLS configuration information
func GetTLSInfo(config *tls.Config) map[string]interface{} {
	if config == nil {
		return map[string]interface{}{"enabled": false}
	}
	return map[string]interface{}{
		"enabled":     true,
		"min_version": tls.VersionName(config.MinVersion),
		"num_certs":   len(config.Certificates),
	}
}
