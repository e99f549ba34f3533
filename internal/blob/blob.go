package blob

import (
	"context"
	"fmt"
	"path"

	"github.com/google/uuid"
)

// Store is the capability the domain layer needs from a blob backend: store
// bytes under a key, get them back by key. Keys are opaque to callers.
type Store interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// Key builds a material blob key scoped to a course so uploads with the same
// filename cannot collide across courses. The stored name is a generated UUID
// with the original extension preserved.
func Key(courseID, filename string) string {
	ext := path.Ext(filename)
	return fmt.Sprintf("%s/%s%s", courseID, uuid.NewString(), ext)
}
