// Package screen models list screens: fetch a list, keep it, filter it.
// A failed fetch always surfaces its error. No sample data is
// substituted.
package screen

import (
	"context"
	"fmt"
	"sync"

	"github.com/mandelsoft/admin/pkg/admin"
	"github.com/mandelsoft/admin/pkg/apierror"
	"github.com/mandelsoft/admin/pkg/envelope"
	"github.com/mandelsoft/admin/pkg/filter"
)

var ErrBusy = fmt.Errorf("refresh already in progress")

type Loader func(ctx context.Context) ([]envelope.Record, error)

// Screen owns the fetched list of one entity kind.
// At most one fetch is outstanding at any time.
type Screen struct {
	name   string
	loader Loader
	query  filter.Query

	lock    sync.Mutex
	busy    bool
	state   State
	version int
}

func New(name string, loader Loader) *Screen {
	return &Screen{
		name:   name,
		loader: loader,
		state:  LoadingState(),
	}
}

// ForKind provides a screen listing the records of a kind.
func ForKind(s *admin.Service, k *admin.Kind) *Screen {
	scr := New(k.Name, func(ctx context.Context) ([]envelope.Record, error) {
		return s.List(ctx, k)
	})
	scr.query = filter.Query{Fields: k.SearchFields, StatusField: k.StatusField}
	return scr
}

func (s *Screen) Name() string {
	return s.name
}

func (s *Screen) State() State {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.state
}

// Refresh fetches the list. While a fetch is running, a
// further refresh is rejected with ErrBusy.
func (s *Screen) Refresh(ctx context.Context) (State, error) {
	s.lock.Lock()
	if s.busy {
		s.lock.Unlock()
		return State{}, ErrBusy
	}
	s.busy = true
	s.state = LoadingState()
	s.lock.Unlock()

	log.Debug("refreshing {{screen}}", "screen", s.name)
	items, err := s.loader(ctx)

	s.lock.Lock()
	defer s.lock.Unlock()
	s.busy = false
	s.version++
	if err != nil {
		log.Debug("refresh of {{screen}} failed", "screen", s.name, "error", err)
		s.state = FailedState(apierror.Message(err))
	} else {
		s.state = LoadedState(items)
	}
	return s.state, nil
}

// Version counts the completed refreshs.
func (s *Screen) Version() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.version
}

// View provides the loaded items matching the search term and
// status mode. It is empty for screens not in state Loaded.
func (s *Screen) View(term string, mode filter.StatusMode) []envelope.Record {
	s.lock.Lock()
	st := s.state
	q := s.query
	s.lock.Unlock()

	if !st.IsLoaded() {
		return []envelope.Record{}
	}
	q.Term = term
	q.Status = mode
	return q.Apply(st.Items)
}

// SetQueryFields overrides the fields used by View.
func (s *Screen) SetQueryFields(statusField string, fields ...string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.query.Fields = fields
	s.query.StatusField = statusField
}
