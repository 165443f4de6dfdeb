package progress

import (
	"context"
	"testing"
	"time"

	"github.com/matthewbaird/sheetforge/internal/gen"
)

func TestBusDeliversInOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := New(16)
	got := make(chan gen.Event, 16)
	bus.Subscribe("test", HandlerFunc(func(_ context.Context, ev gen.Event) error {
		got <- ev
		return nil
	}))
	bus.Start(ctx)

	stages := []string{gen.StageStart, gen.StageEntity, gen.StageEmitted, gen.StageDone}
	for _, s := range stages {
		bus.Publish(gen.Event{Stage: s})
	}

	for _, want := range stages {
		select {
		case ev := <-got:
			if ev.Stage != want {
				t.Fatalf("stage = %q, want %q", ev.Stage, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %q", want)
		}
	}
}

func TestBusUnsubscribe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := New(16)
	got := make(chan gen.Event, 16)
	bus.Subscribe("a", HandlerFunc(func(_ context.Context, ev gen.Event) error {
		got <- ev
		return nil
	}))
	marker := make(chan gen.Event, 16)
	bus.Subscribe("b", HandlerFunc(func(_ context.Context, ev gen.Event) error {
		marker <- ev
		return nil
	}))
	bus.Start(ctx)

	bus.Unsubscribe("a")
	bus.Publish(gen.Event{Stage: gen.StageDone})

	select {
	case <-marker:
	case <-time.After(2 * time.Second):
		t.Fatal("remaining subscriber did not receive the event")
	}
	select {
	case ev := <-got:
		t.Fatalf("unsubscribed handler received %q", ev.Stage)
	default:
	}
}
