// Package shutdown coordinates ordered teardown of the service's
// long-lived components. Hooks run in registration order, so the HTTP
// listener is registered first and the vector store last: the listener
// drains before the store closes underneath it.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/careerguide/careerguide/logging"
)

// Hook is called during shutdown. The context carries the overall
// shutdown deadline.
type Hook func(ctx context.Context) error

type registration struct {
	name string
	hook Hook
}

// Coordinator runs registered hooks once, in order, when shutdown is
// triggered by a signal or an explicit call.
type Coordinator struct {
	timeout time.Duration
	logger  *logging.Logger

	mu    sync.Mutex
	hooks []registration

	once sync.Once
	done chan struct{}
	err  error
}

// NewCoordinator creates a Coordinator. A zero timeout defaults to 30s.
func NewCoordinator(timeout time.Duration, logger *logging.Logger) *Coordinator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = logging.New()
	}
	return &Coordinator{
		timeout: timeout,
		logger:  logger.WithComponent("shutdown"),
		done:    make(chan struct{}),
	}
}

// Register adds a hook. Hooks run in registration order.
func (c *Coordinator) Register(name string, hook Hook) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks = append(c.hooks, registration{name: name, hook: hook})
}

// HandleSignals triggers shutdown on SIGINT or SIGTERM.
func (c *Coordinator) HandleSignals() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-ch
		c.logger.Info("signal received", map[string]interface{}{"signal": sig.String()})
		c.Shutdown()
	}()
}

// Shutdown runs all hooks under the configured timeout. Subsequent calls
// return the result of the first.
func (c *Coordinator) Shutdown() error {
	c.once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()
		c.err = c.run(ctx)
		close(c.done)
	})
	<-c.done
	return c.err
}

func (c *Coordinator) run(ctx context.Context) error {
	c.mu.Lock()
	hooks := make([]registration, len(c.hooks))
	copy(hooks, c.hooks)
	c.mu.Unlock()

	var firstErr error
	for _, reg := range hooks {
		if ctx.Err() != nil {
			if firstErr == nil {
				firstErr = ctx.Err()
			}
			break
		}
		start := time.Now()
		err := reg.hook(ctx)
		fields := map[string]interface{}{
			"component": reg.name,
			"duration":  time.Since(start).Round(time.Millisecond).String(),
		}
		if err != nil {
			fields["error"] = err.Error()
			c.logger.Error("component shutdown failed", fields)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		c.logger.Info("component stopped", fields)
	}
	return firstErr
}

// Done is closed when shutdown has completed.
func (c *Coordinator) Done() <-chan struct{} {
	return c.done
}

// Err returns the shutdown error, valid once Done is closed.
func (c *Coordinator) Err() error {
	select {
	case <-c.done:
		return c.err
	default:
		return nil
	}
}
