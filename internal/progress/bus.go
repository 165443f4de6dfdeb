// Package progress provides an in-process pub/sub bus for generation
// progress events. The runner publishes as it emits artifacts; subscribers
// (the log consumer, connected websocket clients) process them
// asynchronously.
package progress

import (
	"context"
	"log"
	"sync"

	"github.com/matthewbaird/sheetforge/internal/gen"
)

// Handler processes a progress event. Implementations must be safe for
// concurrent calls from different goroutines.
type Handler interface {
	HandleProgress(ctx context.Context, ev gen.Event) error
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, ev gen.Event) error

func (f HandlerFunc) HandleProgress(ctx context.Context, ev gen.Event) error {
	return f(ctx, ev)
}

// Bus is a simple in-process event bus. Events are published to a buffered
// channel and dispatched to all subscribers in a single consumer
// goroutine, which keeps event ordering stable for streaming clients.
type Bus struct {
	mu          sync.RWMutex
	subscribers []namedHandler
	events      chan gen.Event
	done        chan struct{}
}

type namedHandler struct {
	name    string
	handler Handler
}

// New creates a new Bus with the given channel buffer size.
func New(bufSize int) *Bus {
	if bufSize < 1 {
		bufSize = 256
	}
	return &Bus{
		events: make(chan gen.Event, bufSize),
		done:   make(chan struct{}),
	}
}

// Subscribe registers a named handler.
func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, namedHandler{name: name, handler: h})
}

// Unsubscribe removes a named handler. Streaming clients unsubscribe when
// their connection closes.
func (b *Bus) Unsubscribe(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subscribers {
		if s.name == name {
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			return
		}
	}
}

// Subscribers reports the number of registered handlers.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Publish sends an event to the bus. Non-blocking: if the buffer is full
// the event is dropped and a warning is logged.
func (b *Bus) Publish(ev gen.Event) {
	select {
	case b.events <- ev:
	default:
		log.Printf("progress: buffer full, dropping %s event", ev.Stage)
	}
}

// Start begins the consumer goroutine. It processes events until the
// context is cancelled.
func (b *Bus) Start(ctx context.Context) {
	go func() {
		defer close(b.done)
		for {
			select {
			case ev := <-b.events:
				b.dispatch(ctx, ev)
			case <-ctx.Done():
				// Drain remaining events before exiting.
				for {
					select {
					case ev := <-b.events:
						b.dispatch(ctx, ev)
					default:
						return
					}
				}
			}
		}
	}()
}

// Stop waits for the consumer goroutine to finish.
func (b *Bus) Stop() {
	<-b.done
}

func (b *Bus) dispatch(ctx context.Context, ev gen.Event) {
	b.mu.RLock()
	subs := b.subscribers
	b.mu.RUnlock()

	for _, s := range subs {
		if err := s.handler.HandleProgress(ctx, ev); err != nil {
			log.Printf("progress: %s handler error for %s: %v", s.name, ev.Stage, err)
		}
	}
}
