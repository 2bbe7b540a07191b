package pdftools

// Shared test helpers for the pdftools package.

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ---- assertion helpers -----------------------------------------------------

func assertNoErr(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func assertErr(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
}

func assertContains(t *testing.T, got, want string) {
	t.Helper()
	if !strings.Contains(got, want) {
		t.Errorf("expected output to contain %q\ngot: %s", want, got)
	}
}

// ---- tool fakes ------------------------------------------------------------

// withNoTools overrides lookPath for the duration of f so tests can exercise
// the tool-absent code paths even on machines with poppler installed.
func withNoTools(t *testing.T, f func()) {
	t.Helper()
	orig := lookPath
	lookPath = func(string) (string, error) { return "", errors.New("not found") }
	defer func() { lookPath = orig }()
	f()
}

// withFakeTools installs shell-script stand-ins for the named tools and
// points lookPath at them for the duration of f. Script bodies run under
// /bin/sh; anything not in the map resolves as missing.
func withFakeTools(t *testing.T, scripts map[string]string, f func()) {
	t.Helper()

	dir := t.TempDir()
	paths := make(map[string]string, len(scripts))
	for name, body := range scripts {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte("#!/bin/sh\n"+body+"\n"), 0o700); err != nil {
			t.Fatalf("write fake %s: %v", name, err)
		}
		paths[name] = p
	}

	orig := lookPath
	lookPath = func(name string) (string, error) {
		if p, ok := paths[name]; ok {
			return p, nil
		}
		return "", errors.New("not found")
	}
	defer func() { lookPath = orig }()
	f()
}

// ---- file factories --------------------------------------------------------

// makePDF builds a minimal single-font PDF with one page per entry in texts
// and returns its path. Pass an empty string to produce a page with no text
// and no font resource (the shape of a scanned page).
func makePDF(t *testing.T, texts ...string) string {
	t.Helper()

	type object struct {
		id   int
		body string
	}
	var objects []object
	add := func(body string) int {
		id := len(objects) + 1
		objects = append(objects, object{id: id, body: body})
		return id
	}

	catalogID := add("") // filled in once the page tree id is known
	pagesID := add("")
	fontID := add("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	var pageIDs []int
	for _, text := range texts {
		var stream string
		resources := "<< >>"
		if text != "" {
			escaped := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`).Replace(text)
			stream = fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", escaped)
			resources = fmt.Sprintf("<< /Font << /F1 %d 0 R >> >>", fontID)
		}
		contentID := add(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
		pageID := add(fmt.Sprintf(
			"<< /Type /Page /Parent %d 0 R /MediaBox [0 0 612 792] /Resources %s /Contents %d 0 R >>",
			pagesID, resources, contentID))
		pageIDs = append(pageIDs, pageID)
	}

	kids := make([]string, len(pageIDs))
	for i, id := range pageIDs {
		kids[i] = fmt.Sprintf("%d 0 R", id)
	}
	objects[catalogID-1].body = fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R >>", pagesID)
	objects[pagesID-1].body = fmt.Sprintf(
		"<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pageIDs))

	var buf strings.Builder
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects)+1)
	for _, obj := range objects {
		offsets[obj.id] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", obj.id, obj.body)
	}

	xrefAt := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for id := 1; id <= len(objects); id++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[id])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root %d 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(objects)+1, catalogID, xrefAt)

	path := filepath.Join(t.TempDir(), "test.pdf")
	if err := os.WriteFile(path, []byte(buf.String()), 0o600); err != nil {
		t.Fatalf("makePDF: %v", err)
	}
	return path
}
