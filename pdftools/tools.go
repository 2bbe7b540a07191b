// Package pdftools wraps the external collaborators of the pipeline —
// poppler utilities, ocrmypdf, and Markdown conversion — behind small
// interfaces so the core never shells out directly and tests can substitute
// in-memory fakes.
package pdftools

import (
	"context"
	"errors"
	"os/exec"

	"go.uber.org/zap"
)

// lookPath is the exec.LookPath implementation used for tool discovery.
// Tests may replace it to simulate missing binaries.
var lookPath = exec.LookPath

// ErrToolNotFound marks a required external binary that is absent from PATH.
var ErrToolNotFound = errors.New("required tool not found")

// PageCounter reports the total page count of a document. An unparseable
// count is an error; the caller treats it as fatal.
type PageCounter interface {
	PageCount(ctx context.Context, path string) (int, error)
}

// FontProbe reports whether a document carries any embedded font, i.e.
// whether it has a text layer at all.
type FontProbe interface {
	HasFonts(ctx context.Context, path string) (bool, error)
}

// PageExtractor returns the raw, layout-preserving text of a single page
// (1-based). No page-break markers are included in the output.
type PageExtractor interface {
	ExtractPage(ctx context.Context, path string, page int) (string, error)
}

// OcrEngine rewrites a document with a searchable text layer, preserving
// pages that already have text. The output document must keep the input's
// page count.
type OcrEngine interface {
	Available() bool
	Rewrite(ctx context.Context, in, out, language string) error
}

// MarkdownConverter renders a document as Markdown. Conversion failure is
// expected to be treated as non-fatal by the caller.
type MarkdownConverter interface {
	Convert(ctx context.Context, path string) (string, error)
}

// Toolchain bundles one concrete implementation per collaborator role.
type Toolchain struct {
	Name string // "poppler" or "native"

	Counter  PageCounter
	Fonts    FontProbe
	Pages    PageExtractor
	Ocr      OcrEngine
	Markdown MarkdownConverter

	native *nativeReader
}

// Detect assembles a Toolchain from what is installed. Poppler wins when all
// three of pdfinfo, pdffonts and pdftotext are on PATH and the caller did
// not ask for the native reader; otherwise the built-in reader serves page
// counting, the font probe and extraction. OCR is always ocrmypdf — there
// is no native substitute — and Markdown conversion tries markitdown first
// with a pdftohtml-based fallback.
func Detect(preferNative bool, logger *zap.Logger) *Toolchain {
	tc := &Toolchain{
		Ocr:      &OcrMyPDF{logger: logger},
		Markdown: newMarkdownChain(logger),
	}

	if !preferNative && popplerInstalled() {
		tc.Name = "poppler"
		tc.Counter = &popplerInfo{}
		tc.Fonts = &popplerFonts{}
		tc.Pages = &popplerText{}
		return tc
	}

	if !preferNative {
		logger.Info("poppler tools not found, using built-in PDF reader")
	}
	nr := &nativeReader{}
	tc.Name = "native"
	tc.Counter = nr
	tc.Fonts = nr
	tc.Pages = nr
	tc.native = nr
	return tc
}

// Close releases any cached document handles.
func (tc *Toolchain) Close() error {
	if tc.native != nil {
		return tc.native.Close()
	}
	return nil
}

func popplerInstalled() bool {
	for _, tool := range []string{"pdfinfo", "pdffonts", "pdftotext"} {
		if _, err := lookPath(tool); err != nil {
			return false
		}
	}
	return true
}
