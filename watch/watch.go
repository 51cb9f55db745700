// Package watch notifies about changes of admin records
// via a websocket channel. A client sends a registration request
// and afterwards receives one json message per change event.
package watch

import (
	"encoding/json"
)

const (
	OP_CREATED = "created"
	OP_UPDATED = "updated"
	OP_DELETED = "deleted"
)

// Request is the registration request of a client.
// An empty kind list watches all kinds.
type Request struct {
	Kinds []string `json:"kinds,omitempty"`
}

func (r *Request) Matches(kind string) bool {
	if len(r.Kinds) == 0 {
		return true
	}
	for _, k := range r.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Event describes a change of a record.
type Event struct {
	Kind string `json:"kind"`
	Id   string `json:"id"`
	Op   string `json:"op"`
}

type EventHandler interface {
	HandleEvent(e Event)
}

type EventHandlerFunc func(e Event)

func (f EventHandlerFunc) HandleEvent(e Event) {
	f(e)
}

type Error struct {
	Error string `json:"error"`
}

func (e *Error) Message() string {
	return string(e.Data())
}

func (e *Error) Data() []byte {
	data, _ := json.Marshal(e)
	return data
}
