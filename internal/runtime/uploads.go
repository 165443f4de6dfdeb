package runtime

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
)

// Uploads stores files posted through file-valued form fields. Stored
// names are <field>-<unique><ext>; the returned value is the slash path
// persisted into the record.
type Uploads struct {
	dir string
}

func NewUploads(dir string) (*Uploads, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &Uploads{dir: dir}, nil
}

func (u *Uploads) Save(field string, src multipart.File, header *multipart.FileHeader) (string, error) {
	name := fmt.Sprintf("%s-%s%s", field, uuid.NewString(), filepath.Ext(header.Filename))
	dst, err := os.Create(filepath.Join(u.dir, name))
	if err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	return path.Join("uploads", name), nil
}

// Dir is the on-disk directory served under /uploads.
func (u *Uploads) Dir() string {
	return u.dir
}
