package driver

import "time"

// Stage identifies a front-end stage reported to a ProgressSink.
type Stage string

const (
	// StageLoad reads the file into the FileSet.
	StageLoad Stage = "load"
	// StageParse lexes and parses the file.
	StageParse Stage = "parse"
	// StageCache means the result came from the disk cache.
	StageCache Stage = "cache"
)

// Status describes where a file is within a stage.
type Status string

const (
	// StatusQueued indicates the file is waiting for a worker.
	StatusQueued Status = "queued"
	// StatusWorking indicates a worker is on it.
	StatusWorking Status = "working"
	// StatusDone indicates the file finished without error diagnostics.
	StatusDone Status = "done"
	// StatusError indicates the file produced error diagnostics or failed to load.
	StatusError Status = "error"
)

// Event reports progress for a file (or for the whole run when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Errors  int // error diagnostics of the file, set with StatusDone/StatusError
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use: ParseDir workers call OnEvent in parallel.
type ProgressSink interface {
	OnEvent(Event)
}

// ChanSink forwards events to a channel; the receiver must keep draining it.
type ChanSink chan<- Event

func (c ChanSink) OnEvent(ev Event) { c <- ev }

// SinkFunc adapts a function to ProgressSink.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(ev Event) { f(ev) }

func emit(sink ProgressSink, ev Event) {
	if sink != nil {
		sink.OnEvent(ev)
	}
}
