// Package service runs the long-running parts of a server process.
// The first failing service stops all others.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mandelsoft/logging"

	"github.com/mandelsoft/admin/pkg/ctxutil"
)

var REALM = logging.DefineRealm("admin/service", "service runner")

var log = logging.DynamicLogger(logging.DefaultContext(), REALM)

type Service interface {
	Name() string
	// Run executes the service until the context is done.
	Run(ctx context.Context) error
}

type service struct {
	name string
	run  func(ctx context.Context) error
}

func New(name string, run func(ctx context.Context) error) Service {
	return &service{name, run}
}

func (s *service) Name() string {
	return s.name
}

func (s *service) Run(ctx context.Context) error {
	return s.run(ctx)
}

// Periodic provides a service calling f every period. An error
// of f is logged and does not stop the service.
func Periodic(name string, period time.Duration, f func(ctx context.Context) error) Service {
	return New(name, func(ctx context.Context) error {
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if err := f(ctx); err != nil {
					log.LogError(err, "periodic {{service}} failed", "service", name)
				}
			}
		}
	})
}

type Services struct {
	lock sync.Mutex
	ctx  context.Context
	wg   sync.WaitGroup
	errs []error
}

func NewServices(ctx context.Context) *Services {
	return &Services{
		ctx: ctxutil.CancelContext(ctx),
	}
}

// Add starts a service.
func (t *Services) Add(s Service) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		log.Info("starting {{service}}", "service", s.Name())
		err := s.Run(t.ctx)
		if err != nil {
			t.lock.Lock()
			t.errs = append(t.errs, fmt.Errorf("%s: %w", s.Name(), err))
			t.lock.Unlock()
			ctxutil.Cancel(t.ctx)
		}
		log.Info("{{service}} stopped", "service", s.Name())
	}()
}

// Stop cancels all services.
func (t *Services) Stop() {
	ctxutil.Cancel(t.ctx)
}

// Wait waits for all services and provides their errors.
func (t *Services) Wait() error {
	t.wg.Wait()
	t.lock.Lock()
	defer t.lock.Unlock()
	return errors.Join(t.errs...)
}
