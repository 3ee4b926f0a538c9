package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLevelScopes(t *testing.T) {
	type row struct {
		driver, file, fn, pass bool
	}
	cases := map[Level]row{
		LevelOff:    {},
		LevelError:  {},
		LevelPhase:  {driver: true, file: true},
		LevelDetail: {driver: true, file: true, fn: true},
		LevelDebug:  {driver: true, file: true, fn: true, pass: true},
	}
	for lvl, want := range cases {
		got := row{
			driver: lvl.ShouldEmit(ScopeDriver),
			file:   lvl.ShouldEmit(ScopeFile),
			fn:     lvl.ShouldEmit(ScopeFunc),
			pass:   lvl.ShouldEmit(ScopePass),
		}
		if got != want {
			t.Errorf("%s: got %+v, want %+v", lvl, got, want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{"Debug": LevelDebug, "phase": LevelPhase, "": LevelOff} {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestStartNestsUnderRecordedSpan(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelDetail, Mode: ModeStream, Format: FormatNDJSON, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	ctx := WithTracer(context.Background(), tr)

	file, ctx := Start(ctx, ScopeFile, "file:a.json")
	pass, pctx := Start(ctx, ScopePass, "dom") // filtered at detail
	fn, _ := Start(pctx, ScopeFunc, "f")
	fn.WithExtra("blocks", "4").End("")
	pass.End("")
	file.End("ok")

	var got []string
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var ev jsonEvent
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			t.Fatalf("bad line %q: %v", line, err)
		}
		parent := "root"
		if ev.ParentID == file.ID() {
			parent = "file"
		}
		got = append(got, ev.Kind+" "+ev.Scope+" "+ev.Name+" <"+parent+"> "+ev.Extra["blocks"]+ev.Detail)
	}
	want := []string{
		"begin file file:a.json <root> ",
		"begin func f <file> ",
		"end func f <file> 4",
		"end file file:a.json <root> ok",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("events (-want +got):\n%s", diff)
	}
}

func TestRingKeepsNewest(t *testing.T) {
	r := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		Point(r, ScopePass, name, "", 0)
	}
	var names []string
	for _, ev := range r.Snapshot() {
		names = append(names, ev.Name)
	}
	if diff := cmp.Diff([]string{"b", "c"}, names); diff != "" {
		t.Fatalf("snapshot (-want +got):\n%s", diff)
	}
}

func TestMarkAttachesToCurrentSpan(t *testing.T) {
	r := NewRingTracer(8, LevelDebug)
	ctx := WithTracer(context.Background(), r)
	span, ctx := Start(ctx, ScopeFile, "file:a.json")
	Mark(ctx, ScopeFile, "load.error", "a.json")
	span.End("")

	events := r.Snapshot()
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	mark := events[1]
	if mark.Kind != KindPoint || mark.ParentID != span.ID() || mark.Detail != "a.json" {
		t.Fatalf("unexpected mark %+v", mark)
	}
}

func TestHeartbeatStopIsIdempotent(t *testing.T) {
	r := NewRingTracer(4096, LevelPhase)
	stop := StartHeartbeat(r, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	stop()
	stop()
	n := len(r.Snapshot())
	if n == 0 {
		t.Fatal("no heartbeat recorded")
	}
	time.Sleep(5 * time.Millisecond)
	if got := len(r.Snapshot()); got != n {
		t.Fatalf("heartbeat still running after stop: %d -> %d events", n, got)
	}
	StartHeartbeat(Nop, time.Millisecond)()
}

func TestTextFormatSortsExtra(t *testing.T) {
	ev := &Event{Kind: KindSpanEnd, Scope: ScopeFunc, Name: "main", Extra: map[string]string{"z": "1", "a": "2"}}
	got := string(formatText(ev))
	if !strings.HasSuffix(got, "    ← main {a=2, z=1}\n") {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestNopIsDisabled(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatal(err)
	}
	if tr.Enabled() {
		t.Fatal("off tracer must be disabled")
	}
	if d := Begin(tr, ScopeDriver, "x", 0).End(""); d != 0 {
		t.Fatalf("nop span measured %v", d)
	}
}
