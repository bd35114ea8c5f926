package events_test

import (
	"testing"

	"github.com/goliatone/go-formengine/pkg/events"
)

func TestDocument_RegisterAndRelease(t *testing.T) {
	doc := events.NewDocument()

	var calls []string
	releaseA := doc.OnPointerDown(func(events.PointerEvent) { calls = append(calls, "a") })
	releaseB := doc.OnPointerDown(func(events.PointerEvent) { calls = append(calls, "b") })

	if got := doc.ListenerCount(); got != 2 {
		t.Fatalf("expected 2 listeners, got %d", got)
	}

	doc.DispatchPointerDown(events.PointerEvent{})
	if len(calls) != 2 || calls[0] != "a" || calls[1] != "b" {
		t.Fatalf("expected registration order delivery, got %v", calls)
	}

	releaseA()
	releaseA()
	if got := doc.ListenerCount(); got != 1 {
		t.Fatalf("expected 1 listener after release, got %d", got)
	}

	calls = nil
	doc.DispatchPointerDown(events.PointerEvent{})
	if len(calls) != 1 || calls[0] != "b" {
		t.Fatalf("expected only b, got %v", calls)
	}

	releaseB()
	if got := doc.ListenerCount(); got != 0 {
		t.Fatalf("expected no listeners, got %d", got)
	}
}

func TestDocument_ListenerMayReleaseItself(t *testing.T) {
	doc := events.NewDocument()
	var release func()
	fired := 0
	release = doc.OnPointerDown(func(events.PointerEvent) {
		fired++
		release()
	})

	doc.DispatchPointerDown(events.PointerEvent{})
	doc.DispatchPointerDown(events.PointerEvent{})
	if fired != 1 {
		t.Fatalf("expected listener to fire once, fired %d", fired)
	}
}

func TestPointerEvent_Inside(t *testing.T) {
	ev := events.PointerEvent{Containers: []string{"color"}}
	if !ev.Inside("color") || ev.Inside("size") {
		t.Fatalf("unexpected Inside results")
	}
}
