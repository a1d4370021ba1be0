package event

import "time"

// Type identifies the kind of event.
type Type int

const (
	ScanStarted Type = iota + 1
	ScanComplete
	FilePlanned
	FileSkipped
	DuplicateFound
	DirCreated
	FileMoved
	MoveFailed
	RollbackStarted
	FileRestored
	RestoreFailed
)

var typeNames = [...]string{
	ScanStarted:     "ScanStarted",
	ScanComplete:    "ScanComplete",
	FilePlanned:     "FilePlanned",
	FileSkipped:     "FileSkipped",
	DuplicateFound:  "DuplicateFound",
	DirCreated:      "DirCreated",
	FileMoved:       "FileMoved",
	MoveFailed:      "MoveFailed",
	RollbackStarted: "RollbackStarted",
	FileRestored:    "FileRestored",
	RestoreFailed:   "RestoreFailed",
}

func (t Type) String() string {
	if int(t) > 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Event represents a single progress event from the planner or mover.
type Event struct {
	Type      Type
	Timestamp time.Time
	Path      string // source path, relative to the root where possible
	Dest      string // destination path, when applicable
	Group     string // destination group key (FilePlanned, DirCreated)
	Size      int64  // file size in bytes
	Total     int64  // total planned files (ScanComplete)
	Error     error
}

// Emit sends e on ch with a timestamp set, dropping it if ch is nil or
// full. Planning and moving never block on presentation.
func Emit(ch chan<- Event, e Event) {
	if ch == nil {
		return
	}
	e.Timestamp = time.Now()
	select {
	case ch <- e:
	default:
	}
}
