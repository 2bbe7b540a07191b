package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/rnj0nes/pdf2llm/pdftools"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// PageMarker returns the sentinel line that precedes page n in the
// extracted blob. The marker sits alone on its own line; the record builder
// matches it anchored to full lines and then validates the recovered page
// sequence, so stray look-alikes inside page content surface as a
// consistency error rather than a silent mis-split.
func PageMarker(n int) string {
	return fmt.Sprintf("===== PAGE %d =====", n)
}

// ExtractPaged re-extracts the whole source document page by page and
// concatenates marker-delimited page texts. Every page number 1..totalPages
// appears exactly once; a page whose extraction fails contributes an empty
// body so downstream numbering never drifts from the physical pages.
//
// Page extractions are read-only calls against an immutable document, so
// with workers > 1 they run concurrently and the blob is reassembled in
// page order. The only error returned is context cancellation.
func ExtractPaged(ctx context.Context, ex pdftools.PageExtractor, path string, totalPages, workers int, logger *zap.Logger) (string, error) {
	texts := make([]string, totalPages)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i := 0; i < totalPages; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			text, err := ex.ExtractPage(gctx, path, i+1)
			if err != nil {
				logger.Warn("page extraction failed, emitting empty page",
					zap.Int("page", i+1), zap.Error(err))
				text = ""
			}
			texts[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	var sb strings.Builder
	for i, text := range texts {
		sb.WriteString(PageMarker(i + 1))
		sb.WriteByte('\n')
		sb.WriteString(text)
		if text != "" && !strings.HasSuffix(text, "\n") {
			sb.WriteByte('\n')
		}
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}
