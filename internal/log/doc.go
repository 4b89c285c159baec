// Package log builds slog loggers that mask credentials.
//
// terrareport handles OAuth access tokens, service account keys and
// storage connection strings. SecureHandler wraps any slog.Handler and
// replaces such values with MaskValue, matching either on the attribute
// key (private_key, client_secret, connection_string, ...) or on the value
// itself (ya29. tokens, JWT assertions, AccountKey= fragments, PEM blocks).
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
package log
