// Package logging wraps log/slog with the application's conventions:
// a format and level taken from configuration, and service/version
// fields stamped on every entry.
//
// JSON output is the production default; text output reads better during
// development. Configure via the logging section of config.yaml:
//
//	logging:
//	  level: info    # debug, info, warn, error
//	  format: json   # json, text
//	  output: stdout # stdout, stderr
//
// Loggers are safe for concurrent use. Never log the Slack token or any
// other credential.
package logging
