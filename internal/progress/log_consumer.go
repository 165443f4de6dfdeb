package progress

import (
	"context"
	"log"

	"github.com/matthewbaird/sheetforge/internal/gen"
)

// LogConsumer logs every progress event for observability.
type LogConsumer struct{}

func NewLogConsumer() *LogConsumer { return &LogConsumer{} }

func (c *LogConsumer) HandleProgress(_ context.Context, ev gen.Event) error {
	switch ev.Stage {
	case gen.StageEmitted, gen.StageSkipped:
		log.Printf("generate: %s %s", ev.Stage, ev.Artifact)
	case gen.StageWarn:
		log.Printf("generate: warning for %s: %s", ev.Entity, ev.Message)
	case gen.StageEntity:
		log.Printf("generate: entity %s", ev.Entity)
	default:
		log.Printf("generate: %s %s", ev.Stage, ev.Message)
	}
	return nil
}
