// Admitform-intake is a local stand-in for the school's spreadsheet intake
// script.
//
// It accepts the same JSON submissions the desk posts, appends them as rows
// to an in-memory sheet, optionally writes decoded attachments to disk, and
// streams every accepted row to WebSocket subscribers. It is meant for
// rehearsing admissions day on an office laptop and for testing the desk
// without touching the real spreadsheet.
//
// Usage:
//
//	admitform-intake serve [flags]
//	admitform-intake watch <url>
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

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

var rootCmd = &cobra.Command{
	Use:   "admitform-intake",
	Short: "Local intake server for admitform submissions",
	Long: `A local stand-in for the spreadsheet intake script.

Submissions are answered exactly like the real endpoint: {"result":"success"}
for an accepted row, {"result":"error","error":"..."} for a rejected one.
Accepted rows are kept in memory and streamed to 'admitform-intake watch'.`,
	Version:      version.Version,
	SilenceUsage: true,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "admitform-intake %s\n", version.Full())
	},
}
