// Package timeouts defines the HTTP server timeouts shared by entry points.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Idle limits how long a keep-alive connection may sit unused.
const Idle = 60 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// BackendDial caps the wait when connecting to a token backend at startup.
const BackendDial = 3 * time.Second
