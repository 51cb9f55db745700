package screen

import (
	"fmt"

	"github.com/mandelsoft/admin/pkg/envelope"
)

type Phase int

const (
	Loading Phase = iota
	Loaded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "Loading"
	case Loaded:
		return "Loaded"
	case Failed:
		return "Failed"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// State is the state of a list screen. Items are only set
// for Loaded, Message only for Failed.
type State struct {
	Phase   Phase
	Items   []envelope.Record
	Message string
}

func LoadingState() State {
	return State{Phase: Loading}
}

func LoadedState(items []envelope.Record) State {
	if items == nil {
		items = []envelope.Record{}
	}
	return State{Phase: Loaded, Items: items}
}

func FailedState(msg string) State {
	return State{Phase: Failed, Message: msg}
}

func (s State) IsLoading() bool {
	return s.Phase == Loading
}

func (s State) IsLoaded() bool {
	return s.Phase == Loaded
}

func (s State) IsFailed() bool {
	return s.Phase == Failed
}
