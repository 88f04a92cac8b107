package intake

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/grandcat/zeroconf"
	"github.com/stmarys-jajpur/admitform/internal/logging"
	"go.uber.org/zap"
)

const (
	// SubmitPath is the path the desk client posts to
	SubmitPath = "/exec"

	// maxBodyBytes bounds one submission body
	maxBodyBytes = 64 << 20

	shutdownTimeout = 10 * time.Second
)

// Config holds the intake server configuration
type Config struct {
	Host       string
	Port       int
	CertPath   string // TLS is enabled when both CertPath and KeyPath are set
	KeyPath    string
	Capacity   int    // Maximum rows (0 = unbounded)
	UploadDir  string // Directory for decoded attachments (empty = keep in memory only)
	FailStatus int    // When non-zero, every submission is answered with this status
	Advertise  bool   // Register the endpoint over mDNS
	Instance   string // mDNS instance name
}

// Response is the JSON answer to a submission
type Response struct {
	Result string `json:"result"`
	Error  string `json:"error,omitempty"`
	Row    int    `json:"row,omitempty"`
}

// Server is a spreadsheet-script stand-in that stores submissions in a Sheet
type Server struct {
	config    *Config
	sheet     *Sheet
	hub       *Hub
	router    chi.Router
	tlsConfig *tls.Config
	now       func() time.Time

	httpServer *http.Server
	mdns       *zeroconf.Server
}

// New creates a new Server instance
func New(config *Config) (*Server, error) {
	var tlsConfig *tls.Config
	if config.CertPath != "" || config.KeyPath != "" {
		if config.CertPath == "" || config.KeyPath == "" {
			return nil, errors.New("both a certificate and a key are required for TLS")
		}
		var err error
		tlsConfig, err = NewTLSConfig(config.CertPath, config.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
	}
	if config.FailStatus != 0 && (config.FailStatus < 300 || config.FailStatus > 599) {
		return nil, fmt.Errorf("fail status must be between 300 and 599, got %d", config.FailStatus)
	}

	s := &Server{
		config:    config,
		sheet:     NewSheet(config.Capacity),
		hub:       NewHub(),
		tlsConfig: tlsConfig,
		now:       time.Now,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Post(SubmitPath, s.handleSubmit)
	r.Post("/", s.handleSubmit)
	r.Get("/healthz", s.handleHealth)
	r.Get("/rows", s.handleRows)
	r.Get("/feed", s.hub.ServeHTTP)

	return r
}

// Handler returns the HTTP handler of the server
func (s *Server) Handler() http.Handler {
	return s.router
}

// Sheet returns the row store
func (s *Server) Sheet() *Sheet {
	return s.sheet
}

// Hub returns the live feed hub
func (s *Server) Hub() *Hub {
	return s.hub
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	if s.tlsConfig != nil {
		listener = tls.NewListener(listener, s.tlsConfig)
	}

	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logging.Info("Starting intake server",
		zap.String("addr", listener.Addr().String()),
		zap.Int("capacity", s.config.Capacity),
		zap.String("upload_dir", s.config.UploadDir),
		zap.Int("fail_status", s.config.FailStatus),
		zap.Any("tls_info", GetTLSInfo(s.tlsConfig)),
	)

	if s.config.Advertise {
		port := listener.Addr().(*net.TCPAddr).Port
		s.mdns, err = Advertise(s.config.Instance, port, SubmitPath, s.tlsConfig != nil)
		if err != nil {
			_ = listener.Close()
			return err
		}
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.httpServer.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		logging.Info("Shutdown signal received, stopping server...")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	if s.mdns != nil {
		s.mdns.Shutdown()
	}
	s.hub.Close()

	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}

	logging.Info("Server stopped", zap.Int("rows", s.sheet.Len()))
	logging.Sync()
	return err
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if s.config.FailStatus != 0 {
		http.Error(w, http.StatusText(s.config.FailStatus), s.config.FailStatus)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.reject(w, r, "", "could not read request body: "+err.Error())
		return
	}

	row, files, err := decodeSubmission(body)
	if err != nil {
		s.reject(w, r, "", err.Error())
		return
	}

	row.ID = uuid.NewString()
	row.Received = s.now()

	if err := writeUploads(s.config.UploadDir, row, files); err != nil {
		logging.Error("Failed to store uploads",
			zap.String("row_id", row.ID),
			zap.Error(err))
	}

	if _, err := s.sheet.Append(row); err != nil {
		removeUploads(row)
		if errors.Is(err, ErrSheetFull) {
			s.reject(w, r, row.Form, SheetFullMessage)
			return
		}
		s.reject(w, r, row.Form, err.Error())
		return
	}

	logging.LogIntake(r.RemoteAddr, row.Number, row.Form, nil)
	s.hub.Broadcast(eventFor(row))

	writeJSON(w, http.StatusOK, Response{Result: "success", Row: row.Number})
}

// reject answers with a structured error. The status stays 200 so that
// the client reports the message instead of a network failure.
func (s *Server) reject(w http.ResponseWriter, r *http.Request, formName, message string) {
	logging.LogIntake(r.RemoteAddr, 0, formName, errors.New(message))
	writeJSON(w, http.StatusOK, Response{Result: "error", Error: message})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"rows":        s.sheet.Len(),
		"capacity":    s.sheet.Capacity(),
		"subscribers": s.hub.Subscribers(),
	})
}

func (s *Server) handleRows(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sheet.Rows())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Debug("Failed to write response", zap.Error(err))
	}
}
