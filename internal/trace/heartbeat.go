package trace

import (
	"strconv"
	"sync"
	"time"
)

// StartHeartbeat emits a driver-scope liveness event every interval until
// the returned stop function is called. A long run of heartbeats with no
// span end in between points at a pass that does not settle, typically a
// dataflow fixpoint on a malformed graph. stop is safe to call more than
// once.
func StartHeartbeat(t Tracer, interval time.Duration) (stop func()) {
	if t == nil || !t.Enabled() || interval <= 0 {
		return func() {}
	}
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		tick := time.NewTicker(interval)
		defer tick.Stop()
		for n := 1; ; n++ {
			select {
			case now := <-tick.C:
				t.Emit(&Event{
					Time:   now,
					Seq:    nextSeq(),
					Kind:   KindHeartbeat,
					Scope:  ScopeDriver,
					GID:    goid(),
					Name:   "heartbeat",
					Detail: "#" + strconv.Itoa(n),
				})
			case <-done:
				return
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			wg.Wait()
		})
	}
}
