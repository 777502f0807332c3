package event

import (
	"time"
)

// Type identifies the kind of event.
type Type int

const (
	OpStarted Type = iota + 1
	OpCompleted
	EntryPacked
	EntryUnpacked
	EntryMoved
	EntrySkipped
	EntryFailed
	DirCreated
)

var typeNames = [...]string{
	OpStarted:     "OpStarted",
	OpCompleted:   "OpCompleted",
	EntryPacked:   "EntryPacked",
	EntryUnpacked: "EntryUnpacked",
	EntryMoved:    "EntryMoved",
	EntrySkipped:  "EntrySkipped",
	EntryFailed:   "EntryFailed",
	DirCreated:    "DirCreated",
}

func (t Type) String() string {
	if t > 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Event is a single progress notification from pack, unpack or transfer.
type Event struct {
	Timestamp time.Time
	Error     error
	Op        string // "pack", "unpack" or "transfer"
	Path      string // archive-relative path or display name
	Size      int64
	Type      Type
}

// Emit sends e on ch without blocking. A nil channel drops the event, and
// so does a full one: events are advisory and never stall an operation.
func Emit(ch chan<- Event, e Event) {
	if ch == nil {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	select {
	case ch <- e:
	default:
	}
}
