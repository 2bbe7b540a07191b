package pipeline

// In-memory collaborator fakes shared by the pipeline tests. They implement
// the pdftools interfaces so the core can be exercised without poppler,
// ocrmypdf or any real PDF.

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// fakeExtractor serves page texts from a map keyed by page number; pages in
// failPages return an error, everything else missing returns empty text.
// Safe for concurrent use: the maps are read-only after construction.
type fakeExtractor struct {
	pages     map[int]string
	failPages map[int]bool
}

func (f *fakeExtractor) ExtractPage(_ context.Context, _ string, page int) (string, error) {
	if f.failPages[page] {
		return "", fmt.Errorf("simulated corrupt page %d", page)
	}
	return f.pages[page], nil
}

// uniformExtractor returns the same body for every page, tagged with the
// page number.
type uniformExtractor struct{ body string }

func (u uniformExtractor) ExtractPage(_ context.Context, _ string, page int) (string, error) {
	return fmt.Sprintf("%s p%d", u.body, page), nil
}

// fakeCounter reports page counts per path, with a default for unknown
// paths.
type fakeCounter struct {
	counts map[string]int
	def    int
	err    error
}

func (f *fakeCounter) PageCount(_ context.Context, path string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	if n, ok := f.counts[path]; ok {
		return n, nil
	}
	return f.def, nil
}

type fakeFonts struct {
	has bool
	err error
}

func (f *fakeFonts) HasFonts(context.Context, string) (bool, error) { return f.has, f.err }

// fakeOcr writes a stub output file on Rewrite so the pipeline's
// re-extraction of the OCR'd document has a path that exists.
type fakeOcr struct {
	available  bool
	rewriteErr error
	rewrites   int
}

func (f *fakeOcr) Available() bool { return f.available }

func (f *fakeOcr) Rewrite(_ context.Context, _, out, _ string) error {
	f.rewrites++
	if f.rewriteErr != nil {
		return f.rewriteErr
	}
	return os.WriteFile(out, []byte("%PDF-1.4 ocr"), 0o600)
}

type fakeMarkdown struct {
	out string
	err error
}

func (f *fakeMarkdown) Convert(context.Context, string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.out, nil
}

var errMarkdownDown = errors.New("markdown backend unavailable")
