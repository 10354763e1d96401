package merk

import "github.com/decred/slog"

// log is the package-level logger, following the Decred ecosystem
// convention: disabled until an embedding application calls UseLogger.
var log = slog.Disabled

// UseLogger configures the logger used by this package's trunk builder,
// leaf chunk streamer, and verifier. It is a no-op to not call it: logging
// stays disabled and none of these paths allocate for it.
func UseLogger(logger slog.Logger) {
	log = logger
}
