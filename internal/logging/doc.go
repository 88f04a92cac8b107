// Package logging provides structured logging for the admission client and
// the intake endpoint.
//
// This package wraps a zap logger with convenience functions. Logging is
// silent unless a level is requested, so the terminal wizard never sees stray
// output. When enabled, logs go to stderr.
//
// # Log Levels
//
//   - Debug: attachment encoding and payload sizes
//   - Info: submissions accepted, intake rows, connections
//   - Warn: failed submissions, rejected rows
//   - Error: startup failures
//
// # Specialized Logging
//
//	logging.LogSubmission(endpoint, "admission", len(body), elapsed, err)
//	logging.LogAttachment("paymentScreenshot", "upi.png", "image/png", 48211)
//	logging.LogIntake(r.RemoteAddr, row, "sat", nil)
//
// # Configuration
//
//	if err := logging.Initialize(os.Getenv(logging.LogLevelEnvVar)); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// # Thread Safety
//
// All logging functions are safe for concurrent use.
package logging
