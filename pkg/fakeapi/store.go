package fakeapi

import (
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/mandelsoft/admin/pkg/envelope"
	"github.com/mandelsoft/admin/pkg/utils"
)

type Record = envelope.Record

var ErrNotFound = fmt.Errorf("not found")

// KIND_SUBSCRIPTIONS is only used internally for the dashboard.
const KIND_SUBSCRIPTIONS = "subscriptions"

type collection struct {
	next    int64
	records map[int64]Record
}

// Store keeps the records of all kinds in memory.
// Records handed out are copies.
type Store struct {
	lock        sync.Mutex
	collections map[string]*collection
	now         func() time.Time
}

func NewStore() *Store {
	return &Store{
		collections: map[string]*collection{},
		now:         time.Now,
	}
}

func (s *Store) collection(kind string) *collection {
	c := s.collections[kind]
	if c == nil {
		c = &collection{next: 1, records: map[int64]Record{}}
		s.collections[kind] = c
	}
	return c
}

func (s *Store) timestamp() string {
	return utils.NewTimestampFor(s.now()).String()
}

// Kinds lists the kinds with stored records.
func (s *Store) Kinds() []string {
	s.lock.Lock()
	defer s.lock.Unlock()
	var r []string
	for k := range s.collections {
		r = append(r, k)
	}
	slices.Sort(r)
	return r
}

// List provides the records of a kind ordered by id.
func (s *Store) List(kind string) []Record {
	s.lock.Lock()
	defer s.lock.Unlock()
	c := s.collection(kind)
	ids := make([]int64, 0, len(c.records))
	for id := range c.records {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	r := make([]Record, len(ids))
	for i, id := range ids {
		r[i] = c.records[id].Copy()
	}
	return r
}

func (s *Store) Get(kind string, id int64) (Record, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	r, ok := s.collection(kind).records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r.Copy(), nil
}

// Create stores a new record and assigns its id.
func (s *Store) Create(kind string, fields Record) Record {
	s.lock.Lock()
	defer s.lock.Unlock()
	c := s.collection(kind)
	r := fields.Copy()
	id := c.next
	c.next++
	r[envelope.FIELD_ID] = id
	ts := s.timestamp()
	if _, ok := r["created_at"]; !ok {
		r["created_at"] = ts
	}
	r["updated_at"] = ts
	c.records[id] = r
	return r.Copy()
}

// Update merges the given fields into a record.
func (s *Store) Update(kind string, id int64, fields Record) (Record, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	c := s.collection(kind)
	r, ok := c.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	for k, v := range fields {
		if k == envelope.FIELD_ID || k == "created_at" {
			continue
		}
		r[k] = v
	}
	r["updated_at"] = s.timestamp()
	return r.Copy(), nil
}

func (s *Store) Delete(kind string, id int64) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	c := s.collection(kind)
	if _, ok := c.records[id]; !ok {
		return ErrNotFound
	}
	delete(c.records, id)
	return nil
}

// put stores a record with a given id, used for loading.
func (s *Store) put(kind string, r Record) error {
	id, err := ParseId(utils.Stringify(r[envelope.FIELD_ID]))
	if err != nil {
		return fmt.Errorf("%s: %w", kind, err)
	}
	r = r.Copy()
	r[envelope.FIELD_ID] = id
	s.lock.Lock()
	defer s.lock.Unlock()
	c := s.collection(kind)
	c.records[id] = r
	if id >= c.next {
		c.next = id + 1
	}
	return nil
}

func ParseId(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
