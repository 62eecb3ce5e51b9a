package recordstore

import (
	"context"
	"fmt"
)

// Copy writes every document of src into dst, replacing documents of the
// same name. It returns the number of documents copied.
func Copy(ctx context.Context, dst, src Backend) (int, error) {
	names, err := src.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list source documents: %w", err)
	}

	copied := 0
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return copied, err
		}
		data, err := src.Read(ctx, name)
		if err != nil {
			return copied, err
		}
		if err := dst.Write(ctx, name, data); err != nil {
			return copied, err
		}
		copied++
	}
	return copied, nil
}
