// Package artifact addresses generated output by identity rather than by
// file path. An artifact's identity is its entity slug plus its kind; the
// idempotency guarantee ("generate once, never overwrite") is enforced here
// so it holds regardless of the medium the output lands in.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
)

// Kind names one artifact variety. Per-entity kinds are idempotent-skipped;
// aggregate kinds are regenerated on every run.
type Kind string

const (
	KindModel    Kind = "model"
	KindOpCreate Kind = "op-create"
	KindOpList   Kind = "op-list"
	KindOpGet    Kind = "op-get"
	KindOpUpdate Kind = "op-update"
	KindOpDelete Kind = "op-delete"
	KindRoutes   Kind = "routes"
	KindUI       Kind = "ui"
	KindAuth     Kind = "auth"

	// Aggregate kinds, always overwritten.
	KindMenu     Kind = "menu"
	KindManifest Kind = "manifest"
)

// Identity locates one artifact.
type Identity struct {
	Slug string
	Kind Kind
}

func (id Identity) String() string {
	return string(id.Kind) + "/" + id.Slug
}

// Store persists generated artifacts. Write refuses to replace an existing
// artifact; Overwrite is reserved for aggregates.
type Store interface {
	Exists(id Identity) (bool, error)
	Write(id Identity, data []byte) error
	Overwrite(id Identity, data []byte) error
	Read(id Identity) ([]byte, error)
}

// ErrExists is returned by Write when the artifact is already present.
var ErrExists = fmt.Errorf("artifact already exists")

// ErrNotFound is returned by Read when the artifact is absent.
var ErrNotFound = fmt.Errorf("artifact not found")

// FSStore lays artifacts out as <root>/<kind>/<slug>.json.
type FSStore struct {
	root string
}

// NewFSStore creates a filesystem-backed store rooted at dir.
func NewFSStore(dir string) *FSStore {
	return &FSStore{root: dir}
}

func (s *FSStore) path(id Identity) string {
	return filepath.Join(s.root, string(id.Kind), id.Slug+".json")
}

func (s *FSStore) Exists(id Identity) (bool, error) {
	_, err := os.Stat(s.path(id))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("checking artifact %s: %w", id, err)
}

func (s *FSStore) Write(id Identity, data []byte) error {
	ok, err := s.Exists(id)
	if err != nil {
		return err
	}
	if ok {
		return fmt.Errorf("writing artifact %s: %w", id, ErrExists)
	}
	return s.Overwrite(id, data)
}

func (s *FSStore) Overwrite(id Identity, data []byte) error {
	path := s.path(id)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating artifact dir for %s: %w", id, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing artifact %s: %w", id, err)
	}
	return nil
}

func (s *FSStore) Read(id Identity) ([]byte, error) {
	data, err := os.ReadFile(s.path(id))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("reading artifact %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading artifact %s: %w", id, err)
	}
	return data, nil
}
