package remote

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/loxvault/lox/internal/errs"
)

// DirStore is a BlobStore backed by a local directory: each upload becomes a
// timestamp-named file and the lexically last one is the latest. Useful for
// tests and for syncing through a mounted or shared filesystem.
type DirStore struct {
	dir string
}

// NewDirStore constructs a directory-backed blob store.
func NewDirStore(dir string) *DirStore { return &DirStore{dir: dir} }

func (d *DirStore) PutBlob(ctx context.Context, blob []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(d.dir, 0o700); err != nil {
		return err
	}
	// Nanosecond timestamp orders uploads; the UUID suffix keeps concurrent
	// writers from colliding.
	id, err := uuid.NewV4()
	if err != nil {
		return err
	}
	name := fmt.Sprintf("%020d-%s.vault", time.Now().UnixNano(), id)
	return os.WriteFile(filepath.Join(d.dir, name), blob, 0o600)
}

func (d *DirStore) GetLatestBlob(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.ErrNoRemoteVault
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".vault") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, errs.ErrNoRemoteVault
	}
	sort.Strings(names)
	return os.ReadFile(filepath.Join(d.dir, names[len(names)-1]))
}
