package trace

import "errors"

// MultiTracer forwards each event to several tracers, giving every one its
// own copy.
type MultiTracer struct {
	level   Level
	tracers []Tracer
}

func NewMultiTracer(level Level, tracers ...Tracer) *MultiTracer {
	return &MultiTracer{level: level, tracers: tracers}
}

func (t *MultiTracer) Emit(ev *Event) {
	if ev.Kind != KindHeartbeat && !t.level.ShouldEmit(ev.Scope) {
		return
	}
	for _, sub := range t.tracers {
		cp := *ev
		sub.Emit(&cp)
	}
}

func (t *MultiTracer) Flush() error {
	var errs []error
	for _, sub := range t.tracers {
		errs = append(errs, sub.Flush())
	}
	return errors.Join(errs...)
}

// Close closes every tracer, even when an earlier one fails.
func (t *MultiTracer) Close() error {
	var errs []error
	for _, sub := range t.tracers {
		errs = append(errs, sub.Close())
	}
	return errors.Join(errs...)
}

func (t *MultiTracer) Level() Level  { return t.level }
func (t *MultiTracer) Enabled() bool { return t.level > LevelOff }

// Tracers returns the tracers events are forwarded to.
func (t *MultiTracer) Tracers() []Tracer { return t.tracers }
