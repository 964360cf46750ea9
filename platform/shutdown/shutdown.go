// Package shutdown coordinates graceful application shutdown. It holds a
// global shutdown flag that long-running work can poll, and fires
// registered hooks when a termination signal arrives. Initiating shutdown
// also sets the "SHUTDOWN" environment variable for child processes that
// check it.
package shutdown

import (
	"os"
	"sync"
)

// Global shutdown flag
var (
	isShutdown bool
	mu         sync.RWMutex
)

// CheckShutdown checks if we are in a shutdown state
func CheckShutdown() bool {
	mu.RLock()
	defer mu.RUnlock()
	return isShutdown
}

// setShutdown sets the shutdown flag
func setShutdown() {
	mu.Lock()
	isShutdown = true
	mu.Unlock()
	_ = os.Setenv("SHUTDOWN", "true")
}
