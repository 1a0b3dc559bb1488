// Package lifecycle holds shared timing constants for process startup and shutdown.
package lifecycle

import "time"

// DefaultTimeout bounds startup probes and graceful-shutdown waits.
const DefaultTimeout = 10 * time.Second
