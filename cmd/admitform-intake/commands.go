package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/stmarys-jajpur/admitform/internal/intake"
	"github.com/stmarys-jajpur/admitform/internal/logging"
	"github.com/stmarys-jajpur/admitform/internal/ui"
)

// Serve command flags
var (
	host       string
	port       int
	certPath   string
	keyPath    string
	capacity   int
	uploadDir  string
	failStatus int
	advertise  bool
	instance   string
	logLevel   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the intake server",
	Long: `Start the intake server.

The desk posts to ` + intake.SubmitPath + `. Rows are listed at /rows and
streamed over WebSocket at /feed. With --capacity the sheet refuses rows
once full, which exercises the desk's rejection path. With --fail-status
every submission is answered with that HTTP status instead.`,
	Example: `  # Serve on port 8080 and advertise over mDNS
  admitform-intake serve --advertise

  # Keep attachments on disk
  admitform-intake serve --upload-dir ./uploads

  # Rehearse a full sheet and a broken endpoint
  admitform-intake serve --capacity 2
  admitform-intake serve --fail-status 503

  # With TLS
  admitform-intake serve --port 8443 --cert cert.pem --key key.pem`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&host, "host", "", "Listen address (empty = all interfaces)")
	serveCmd.Flags().IntVar(&port, "port", 8080, "Listen port")
	serveCmd.Flags().StringVar(&certPath, "cert", "", "Path to TLS certificate file (optional)")
	serveCmd.Flags().StringVar(&keyPath, "key", "", "Path to TLS private key file (optional)")
	serveCmd.Flags().IntVar(&capacity, "capacity", 0, "Maximum rows before submissions are rejected (0 = unbounded)")
	serveCmd.Flags().StringVar(&uploadDir, "upload-dir", "", "Directory for decoded attachments (disabled if not specified)")
	serveCmd.Flags().IntVar(&failStatus, "fail-status", 0, "Answer every submission with this HTTP status")
	serveCmd.Flags().BoolVar(&advertise, "advertise", false, "Advertise the endpoint over mDNS")
	serveCmd.Flags().StringVar(&instance, "instance", "", "mDNS instance name (default: hostname)")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(logLevel); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.Sync()

	if uploadDir != "" {
		info, err := os.Stat(uploadDir)
		if os.IsNotExist(err) {
			return fmt.Errorf("upload directory does not exist: %s", uploadDir)
		}
		if err != nil {
			return fmt.Errorf("cannot access upload directory: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("upload path is not a directory: %s", uploadDir)
		}
	}

	if advertise && instance == "" {
		name, err := os.Hostname()
		if err != nil {
			name = "admitform-intake"
		}
		instance = name
	}

	srv, err := intake.New(&intake.Config{
		Host:       host,
		Port:       port,
		CertPath:   certPath,
		KeyPath:    keyPath,
		Capacity:   capacity,
		UploadDir:  uploadDir,
		FailStatus: failStatus,
		Advertise:  advertise,
		Instance:   instance,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	scheme := "http"
	if certPath != "" {
		scheme = "https"
	}
	listen := host
	if listen == "" {
		listen = "localhost"
	}
	base := fmt.Sprintf("%s://%s:%d", scheme, listen, port)

	params := []ui.Detail{
		{Key: "Submit", Value: base + intake.SubmitPath},
		{Key: "Feed", Value: base + "/feed"},
		{Key: "Capacity", Value: capacityLabel(capacity)},
	}
	if uploadDir != "" {
		params = append(params, ui.Detail{Key: "Uploads", Value: uploadDir})
	}
	if failStatus != 0 {
		params = append(params, ui.Detail{Key: "Failing with", Value: strconv.Itoa(failStatus)})
	}
	if advertise {
		params = append(params, ui.Detail{Key: "mDNS", Value: instance})
	}
	printer := ui.NewPrinter(cmd.OutOrStdout())
	printer.PrintHeader("Intake server", "admitform-intake serve", params...)
	printer.Println("Press Ctrl+C to stop")

	return srv.Start(cmd.Context())
}

func capacityLabel(n int) string {
	if n <= 0 {
		return "unbounded"
	}
	return strconv.Itoa(n) + " rows"
}

var watchCmd = &cobra.Command{
	Use:   "watch <url>",
	Short: "Print rows as an intake server accepts them",
	Long: `Subscribe to the live feed of an intake server and print every accepted
row. The URL may be the server's base URL, its submission URL or its feed
URL.`,
	Example: `  admitform-intake watch http://localhost:8080
  admitform-intake watch https://office-pc.local:8443/exec`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		feed, err := intake.FeedURL(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n\n", feed)
		return intake.Watch(cmd.Context(), args[0], func(ev intake.Event) {
			fmt.Fprintln(out, formatEvent(ev))
		})
	},
}

// formatEvent renders one feed event as a single line
func formatEvent(ev intake.Event) string {
	name := ev.StudentName
	if name == "" {
		name = "(no name)"
	}
	return fmt.Sprintf("%s  row %-4d %-10s %-28s class %-4s %d files",
		ev.Received.Local().Format(time.TimeOnly), ev.Row, ev.Form, name, ev.Class, ev.Files)
}
