package admin

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/landesnetz/landesnetz-api/internal/domain/auth"
	"github.com/landesnetz/landesnetz-api/internal/pkg/recordstore"
)

// ExportNames lists the documents an export will contain
func (s *Service) ExportNames(ctx context.Context) ([]string, error) {
	names, err := s.store.Names(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return names, nil
}

// Export streams the named documents into w as a ZIP archive, one
// <name>.json entry each. Documents are read one at a time; a document
// removed since listing is skipped.
func (s *Service) Export(ctx context.Context, actor auth.Identity, names []string, w io.Writer) error {
	zw := zip.NewWriter(w)
	written := 0
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := s.store.Raw(ctx, name)
		if errors.Is(err, recordstore.ErrNotExist) {
			log.Warn().Str("document", name).Msg("Document vanished during export")
			continue
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}

		f, err := zw.Create(name + ".json")
		if err != nil {
			return err
		}
		if _, err := f.Write(data); err != nil {
			return err
		}
		written++
	}
	if err := zw.Close(); err != nil {
		return err
	}

	s.record(ctx, actor, ActionExport, "", fmt.Sprintf("documents=%d", written))
	return nil
}
