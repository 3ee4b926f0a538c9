package driver

import (
	"sync"
	"time"

	"phpflow/internal/diag"
)

// Stage is a step of checking one file.
type Stage string

const (
	StageLoad    Stage = "load"
	StageDecode  Stage = "decode"
	StageAnalyze Stage = "analyze"
	StageReport  Stage = "report"
)

// Status of a file or of the whole run.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusCached  Status = "cached"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for a file, or for the whole run when File is empty.
// Errors and Warnings are set on the final report event of a file.
type Event struct {
	File     string
	Stage    Stage
	Status   Status
	Err      error
	Elapsed  time.Duration
	Errors   int
	Warnings int
}

// finished builds the last event of a file from its diagnostics.
func finished(path string, status Status, bag *diag.Bag, elapsed time.Duration) Event {
	evt := Event{File: path, Stage: StageReport, Status: status, Elapsed: elapsed}
	for _, d := range bag.Items() {
		switch d.Severity {
		case diag.SevError:
			evt.Errors++
		case diag.SevWarning:
			evt.Warnings++
		}
	}
	return evt
}

// ProgressSink consumes progress events. OnEvent is called from worker
// goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// RecordingSink keeps every event it receives.
type RecordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *RecordingSink) OnEvent(evt Event) {
	s.mu.Lock()
	s.events = append(s.events, evt)
	s.mu.Unlock()
}

// Events returns a copy of the recorded events.
func (s *RecordingSink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

func emit(p ProgressSink, evt Event) {
	if p != nil {
		p.OnEvent(evt)
	}
}
