package recordstore

import (
	"context"
	"errors"
)

// ErrNotExist is returned by a Backend when a document has never been written
var ErrNotExist = errors.New("document does not exist")

// Backend stores whole JSON documents by name. Names use forward slashes
// ("users", "chats/bayern"). Documents are always replaced as a whole.
type Backend interface {
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, data []byte) error
	List(ctx context.Context) ([]string, error)
}
