// Package lifecycle holds process-wide lifecycle constants.
package lifecycle

import "time"

// DefaultTimeout bounds start and stop hooks such as database pings and graceful shutdown.
const DefaultTimeout = 10 * time.Second
