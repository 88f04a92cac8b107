// Admitform is the admission desk of St. Mary's Higher Secondary School.
//
// It collects an admission application or an SAT registration in a
// section-by-section terminal wizard and submits it, with any attachments,
// as a single JSON payload to the school's spreadsheet intake endpoint.
//
// Usage:
//
//	admitform [command] [flags]
//
// Running without arguments launches the interactive desk.
// See 'admitform --help' for available commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/stmarys-jajpur/admitform/internal/config"
	"github.com/stmarys-jajpur/admitform/internal/logging"
	"github.com/stmarys-jajpur/admitform/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Global flags
var (
	configPath   string
	endpointFlag string
	variantFlag  string
	timeoutFlag  time.Duration
	logLevel     string
	discover     bool
	scanTimeout  time.Duration
)

// settings is loaded once before any command runs
var settings *config.Settings

var rootCmd = &cobra.Command{
	Use:   "admitform",
	Short: "St. Mary's admission and SAT registration desk",
	Long: `An admission desk for St. Mary's Higher Secondary School, Jajpur Road.

Applicants fill in the admission form (or the SAT registration form) one
section at a time. The completed record, attachments included, is submitted
once to the school's spreadsheet intake endpoint.

If no command is specified, the interactive desk launches.`,
	Example: `  # Launch the admission desk
  admitform

  # SAT registration against a local intake server found over mDNS
  admitform --variant sat --discover

  # Submit a prepared record without the desk
  admitform submit record.yaml`,
	Version:           version.Version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runDesk,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Settings file (default: user config dir)")
	rootCmd.PersistentFlags().StringVar(&endpointFlag, "endpoint", "", "Intake endpoint URL (overrides settings)")
	rootCmd.PersistentFlags().StringVar(&variantFlag, "variant", "", "Form variant: admission or sat (overrides settings)")
	rootCmd.PersistentFlags().DurationVar(&timeoutFlag, "timeout", 0, "Submission timeout, e.g. 45s (overrides settings)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); logs go to stderr")
	rootCmd.PersistentFlags().BoolVar(&discover, "discover", false, "Find the intake endpoint over mDNS")
	rootCmd.PersistentFlags().DurationVar(&scanTimeout, "scan-timeout", 5*time.Second, "How long --discover and scan listen")

	rootCmd.AddCommand(versionCmd)
}

// setup initializes logging and resolves settings: file, then environment,
// then flags
func setup(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(logLevel); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	s, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if endpointFlag != "" {
		s.Endpoint = endpointFlag
	}
	if variantFlag != "" {
		s.Variant = variantFlag
	}
	if timeoutFlag > 0 {
		s.TimeoutSeconds = int((timeoutFlag + time.Second - 1) / time.Second)
	}

	settings = s
	return nil
}

var versionJSON bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		if versionJSON {
			return printJSON(cmd.OutOrStdout(), version.Info())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "admitform %s\n", version.Full())
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print build information as JSON")
}
