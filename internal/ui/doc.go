// Package ui renders the non-interactive output of the admitform commands.
//
// The interactive desk lives in package wizard/tui. Everything else
// (submit, schema, scan, config) prints through a Printer:
//
//   - Header: command banner with ordered parameters
//   - Progress: progress bar with a step list
//   - Result: success, failure or warning box
//
// Confirm asks a y/N question before an irreversible action such as
// posting a record file to the live endpoint.
//
// # Logging Integration
//
// zap logging is silent unless ADMITFORM_LOG_LEVEL is set, so the styled
// output here is not interleaved with log lines. Logs go to stderr.
package ui
