package pdftools

// native.go — built-in PDF reader on github.com/ledongthuc/pdf, used when
// the poppler tools are not installed (or --prefer-native is set). Serves
// page counting, the font probe and per-page text extraction; the font
// probe here is structural (the page's font resource list) rather than a
// parse of tool output.

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/ledongthuc/pdf"
)

// nativeReader caches one open document. The input is immutable for the
// duration of a run, so a cached handle keyed by path is safe and avoids
// re-reading the xref table for every page extraction.
type nativeReader struct {
	mu    sync.Mutex
	path  string
	file  *os.File
	rdr   *pdf.Reader
	fonts map[string]*pdf.Font
}

func (n *nativeReader) open(path string) (*pdf.Reader, error) {
	if n.rdr != nil && n.path == path {
		return n.rdr, nil
	}
	if n.file != nil {
		_ = n.file.Close()
		n.file, n.rdr = nil, nil
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	n.path, n.file, n.rdr = path, f, r
	n.fonts = make(map[string]*pdf.Font)
	return r, nil
}

// Close releases the cached document handle.
func (n *nativeReader) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.file == nil {
		return nil
	}
	err := n.file.Close()
	n.file, n.rdr = nil, nil
	return err
}

func (n *nativeReader) PageCount(_ context.Context, path string) (int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	r, err := n.open(path)
	if err != nil {
		return 0, err
	}
	total := r.NumPage()
	if total < 1 {
		return 0, fmt.Errorf("pdf %s reports %d pages", path, total)
	}
	return total, nil
}

// HasFonts walks the document's pages and reports whether any page carries
// a font resource. A scanned, image-only document has none.
func (n *nativeReader) HasFonts(_ context.Context, path string) (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	r, err := n.open(path)
	if err != nil {
		return false, err
	}
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		if len(p.Fonts()) > 0 {
			return true, nil
		}
	}
	return false, nil
}

func (n *nativeReader) ExtractPage(_ context.Context, path string, page int) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	r, err := n.open(path)
	if err != nil {
		return "", err
	}
	if page < 1 || page > r.NumPage() {
		return "", fmt.Errorf("page %d out of range 1..%d", page, r.NumPage())
	}

	p := r.Page(page)
	if p.V.IsNull() {
		return "", nil
	}
	for _, name := range p.Fonts() {
		if _, ok := n.fonts[name]; !ok {
			f := p.Font(name)
			n.fonts[name] = &f
		}
	}
	text, err := p.GetPlainText(n.fonts)
	if err != nil {
		return "", fmt.Errorf("read pdf page %d: %w", page, err)
	}
	return text, nil
}

// Metadata returns Title and Author from the document Info dictionary,
// best-effort. Empty strings when the dictionary is absent or unreadable.
func (n *nativeReader) Metadata(path string) (title, author string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	r, err := n.open(path)
	if err != nil {
		return "", ""
	}
	trailer := r.Trailer()
	if trailer.IsNull() {
		return "", ""
	}
	info := trailer.Key("Info")
	if info.IsNull() {
		return "", ""
	}
	if v := info.Key("Title"); !v.IsNull() {
		title = v.Text()
	}
	if v := info.Key("Author"); !v.IsNull() {
		author = v.Text()
	}
	return title, author
}

// DocumentMetadata reads Title/Author from a PDF regardless of which
// toolchain is active. Best-effort; never fails the run.
func DocumentMetadata(path string) (title, author string) {
	nr := &nativeReader{}
	defer func() { _ = nr.Close() }()
	defer func() { _ = recover() }() // malformed documents must stay best-effort
	return nr.Metadata(path)
}
