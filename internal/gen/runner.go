package gen

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/matthewbaird/sheetforge/internal/artifact"
	"github.com/matthewbaird/sheetforge/internal/naming"
	"github.com/matthewbaird/sheetforge/internal/schema"
)

// Event reports runner progress. Stage is one of the Stage constants;
// Artifact is set for emitted/skipped stages.
type Event struct {
	Stage    string            `json:"stage"`
	Entity   string            `json:"entity,omitempty"`
	Artifact artifact.Identity `json:"artifact,omitzero"`
	Message  string            `json:"message,omitempty"`
}

const (
	StageStart   = "start"
	StageEntity  = "entity"
	StageEmitted = "emitted"
	StageSkipped = "skipped"
	StageWarn    = "warn"
	StageDone    = "done"
)

// EventFunc receives runner progress events. A nil callback is allowed.
type EventFunc func(Event)

// Report summarizes a generation run.
type Report struct {
	Processed int       `json:"processed"`
	Skipped   int       `json:"skipped"`
	Warnings  []string  `json:"warnings,omitempty"`
	Auth      bool      `json:"auth"`
	StartedAt time.Time `json:"started_at"`
	Duration  string    `json:"duration"`
}

// EntityManifest carries everything the runtime needs to serve one entity.
type EntityManifest struct {
	Entity     string       `json:"entity"`
	Slug       string       `json:"slug"`
	Model      ModelDecl    `json:"model"`
	Operations OperationSet `json:"operations"`
	Routes     RouteSet     `json:"routes"`
}

// Manifest is the aggregate output of a run: the mountable route and
// operation surface plus the auth descriptor when a login subsystem was
// generated. The runtime loads it as data; it never inspects the output
// directory.
type Manifest struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Entities    []EntityManifest `json:"entities"`
	Auth        *AuthDescriptor  `json:"auth,omitempty"`
}

// Runner drives a sequential generation pass over an entity set.
type Runner struct {
	Store artifact.Store
	Emit  EventFunc
	// Now is overridable for tests.
	Now func() time.Time
}

func NewRunner(store artifact.Store) *Runner {
	return &Runner{Store: store, Now: time.Now}
}

func (r *Runner) emit(ev Event) {
	if r.Emit != nil {
		r.Emit(ev)
	}
}

// Run processes entities in order. The whole set is validated up front and
// the run aborts before any output on a validation failure. Per-entity
// artifacts are skipped individually when an artifact with the same
// identity already exists; the aggregate manifest and navigation artifacts
// are always rewritten from scratch at the end.
func (r *Runner) Run(entities []schema.Entity) (Report, error) {
	started := r.Now()
	report := Report{StartedAt: started}

	for i := range entities {
		entities[i].Normalize()
	}
	if err := schema.ValidateSet(entities); err != nil {
		return report, fmt.Errorf("validate: %w", err)
	}

	r.emit(Event{Stage: StageStart, Message: fmt.Sprintf("%d entities", len(entities))})

	var (
		manifest Manifest
		navNames []string
	)
	for _, e := range entities {
		r.emit(Event{Stage: StageEntity, Entity: e.Name})

		if naming.IsAuthEntity(e.Name) {
			auth, err := r.runAuth(e, &report)
			if err != nil {
				return report, err
			}
			if auth != nil {
				manifest.Auth = auth
				report.Auth = true
			}
			continue
		}

		em, err := r.runEntity(e, &report)
		if err != nil {
			return report, fmt.Errorf("entity %s: %w", e.Name, err)
		}
		manifest.Entities = append(manifest.Entities, em)
		navNames = append(navNames, e.Name)
	}

	nav := BuildNavigation(navNames)
	if err := r.overwriteJSON(artifact.Identity{Slug: "navigation", Kind: artifact.KindMenu}, nav); err != nil {
		return report, err
	}
	manifest.GeneratedAt = started
	if err := r.overwriteJSON(artifact.Identity{Slug: "manifest", Kind: artifact.KindManifest}, manifest); err != nil {
		return report, err
	}

	report.Duration = r.Now().Sub(started).String()
	r.emit(Event{Stage: StageDone, Message: fmt.Sprintf("processed %d, skipped %d", report.Processed, report.Skipped)})
	return report, nil
}

// runEntity emits the per-entity artifacts and returns the manifest entry.
// Skipped artifacts still contribute to the manifest: it reflects the full
// surface, not just what this run wrote.
func (r *Runner) runEntity(e schema.Entity, report *Report) (EntityManifest, error) {
	slug := naming.Slug(e.Name)
	model := BuildModel(e)
	ops := BuildOperations(e)
	routes := BuildRoutes(e)
	ui := BuildUI(e)

	parts := []struct {
		kind  artifact.Kind
		value any
	}{
		{artifact.KindModel, model},
		{artifact.KindOpCreate, ops.Create},
		{artifact.KindOpList, ops.List},
		{artifact.KindOpGet, ops.Get},
		{artifact.KindOpUpdate, ops.Update},
		{artifact.KindOpDelete, ops.Delete},
		{artifact.KindRoutes, routes},
		{artifact.KindUI, ui},
	}
	for _, p := range parts {
		if err := r.writeJSON(artifact.Identity{Slug: slug, Kind: p.kind}, p.value, report); err != nil {
			return EntityManifest{}, err
		}
	}

	return EntityManifest{
		Entity:     e.Name,
		Slug:       slug,
		Model:      model,
		Operations: ops,
		Routes:     routes,
	}, nil
}

// runAuth emits the auth artifact. A malformed auth entity is a warning,
// not a failure: the run continues without a login subsystem.
func (r *Runner) runAuth(e schema.Entity, report *Report) (*AuthDescriptor, error) {
	auth, err := BuildAuth(e)
	if err != nil {
		msg := err.Error()
		report.Warnings = append(report.Warnings, msg)
		r.emit(Event{Stage: StageWarn, Entity: e.Name, Message: msg})
		return nil, nil
	}
	if err := r.writeJSON(artifact.Identity{Slug: auth.Slug, Kind: artifact.KindAuth}, auth, report); err != nil {
		return nil, err
	}
	return &auth, nil
}

func (r *Runner) writeJSON(id artifact.Identity, v any, report *Report) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", id, err)
	}
	switch err := r.Store.Write(id, data); {
	case errors.Is(err, artifact.ErrExists):
		report.Skipped++
		r.emit(Event{Stage: StageSkipped, Artifact: id})
		return nil
	case err != nil:
		return fmt.Errorf("write %s: %w", id, err)
	}
	report.Processed++
	r.emit(Event{Stage: StageEmitted, Artifact: id})
	return nil
}

func (r *Runner) overwriteJSON(id artifact.Identity, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", id, err)
	}
	if err := r.Store.Overwrite(id, data); err != nil {
		return fmt.Errorf("write %s: %w", id, err)
	}
	r.emit(Event{Stage: StageEmitted, Artifact: id})
	return nil
}
