// Package healthz reports the health of a server process.
// Checks are either functions evaluated on request or heartbeats
// which must be ticked within three periods.
package healthz

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/mandelsoft/logging"
)

var REALM = logging.DefineRealm("admin/healthz", "server health monitoring")

var log = logging.DynamicLogger(logging.DefaultContext(), REALM)

type Check func() error

type heartbeat struct {
	last    time.Time
	timeout time.Duration
}

type Registry struct {
	lock   sync.Mutex
	now    func() time.Time
	checks map[string]Check
	beats  map[string]*heartbeat
}

func New() *Registry {
	return &Registry{
		now:    time.Now,
		checks: map[string]Check{},
		beats:  map[string]*heartbeat{},
	}
}

func (r *Registry) Add(key string, c Check) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.checks[key] = c
}

// Start configures a heartbeat expected at least every period.
func (r *Registry) Start(key string, period time.Duration) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.beats[key] = &heartbeat{r.now(), 3 * period}
}

func (r *Registry) Tick(key string) {
	r.lock.Lock()
	defer r.lock.Unlock()
	b := r.beats[key]
	if b == nil {
		panic(fmt.Sprintf("heartbeat with key %q not configured", key))
	}
	b.last = r.now()
}

func (r *Registry) End(key string) {
	r.lock.Lock()
	defer r.lock.Unlock()
	delete(r.checks, key)
	delete(r.beats, key)
}

func (r *Registry) IsHealthy() bool {
	ok, _ := r.HealthInfo()
	return ok
}

// HealthInfo evaluates all checks in key order.
func (r *Registry) HealthInfo() (bool, string) {
	r.lock.Lock()
	checks := map[string]Check{}
	for k, c := range r.checks {
		checks[k] = c
	}
	now := r.now()
	beats := map[string]heartbeat{}
	for k, b := range r.beats {
		beats[k] = *b
	}
	r.lock.Unlock()

	keys := make([]string, 0, len(checks)+len(beats))
	for k := range checks {
		keys = append(keys, k)
	}
	for k := range beats {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	ok := true
	info := ""
	for _, key := range keys {
		state := "ok"
		if c := checks[key]; c != nil {
			if err := c(); err != nil {
				state = err.Error()
			}
		}
		if b, found := beats[key]; found {
			delay := now.Sub(b.last)
			if delay > b.timeout {
				log.Warn("outdated heartbeat", "key", key, "delay", delay)
				state = fmt.Sprintf("outdated since %s", b.last.UTC().Format(time.RFC3339))
			}
		}
		if state != "ok" {
			ok = false
		}
		info = fmt.Sprintf("%s%s: %s\n", info, key, state)
	}
	return ok, info
}
