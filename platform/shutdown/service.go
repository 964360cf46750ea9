package shutdown

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rohanthewiz/logger"
)

const gracePeriod = 10 * time.Second

// HookFunc is shutdown work given at most duration to finish
type HookFunc func(duration time.Duration) error

type shutdownHooks struct {
	hooks []HookFunc
	lock  sync.Mutex
}

var registry shutdownHooks

// RegisterHook adds cleanup work to run at shutdown
func RegisterHook(fn HookFunc) {
	registry.lock.Lock()
	defer registry.lock.Unlock()
	registry.hooks = append(registry.hooks, fn)
	logger.Info("Registered shutdown hook", "count", len(registry.hooks))
}

// InitShutdownService watches for termination signals. On the first signal
// it fires all registered hooks concurrently, then closes done so the app
// can exit. Hooks past the grace period are abandoned.
func InitShutdownService(done chan struct{}) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer close(done)

		sig := <-sigChan
		logger.Info("Received shutdown signal", "signal", sig.String())
		setShutdown()

		registry.lock.Lock()
		hooks := registry.hooks
		registry.lock.Unlock()

		wg := sync.WaitGroup{}
		for i, hook := range hooks {
			wg.Add(1)
			go func(n int, fn HookFunc) {
				defer wg.Done()
				if err := fn(gracePeriod); err != nil {
					logger.LogErr(err, "shutdown hook failed")
				}
				logger.F("Shutdown hook %d completed", n)
			}(i, hook)
		}

		completed := make(chan struct{})
		go func() {
			wg.Wait()
			close(completed)
		}()

		select {
		case <-completed:
			logger.Info("All shutdown hooks completed")
		case <-time.After(gracePeriod):
			logger.Info("Shutdown hooks timed out", "grace_period", gracePeriod.String())
		}
	}()
}
