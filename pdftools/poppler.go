package pdftools

// poppler.go — collaborator implementations that shell out to the poppler
// command line tools (pdfinfo, pdffonts, pdftotext).

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// popplerInfo reads the page count from `pdfinfo` output.
type popplerInfo struct{}

func (popplerInfo) PageCount(ctx context.Context, path string) (int, error) {
	out, err := runTool(ctx, "pdfinfo", path)
	if err != nil {
		return 0, err
	}
	return parsePageCount(out)
}

func parsePageCount(out string) (int, error) {
	for _, line := range strings.Split(out, "\n") {
		rest, ok := strings.CutPrefix(line, "Pages:")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(rest))
		if err != nil || n < 1 {
			return 0, fmt.Errorf("pdfinfo: unparseable page count %q", strings.TrimSpace(rest))
		}
		return n, nil
	}
	return 0, fmt.Errorf("pdfinfo: no Pages field in output")
}

// pdffontsHeaderLines is the fixed report header `pdffonts` always prints:
// one column-name line and one separator line. Rows beyond the header are
// font entries. Counting rows after the header, rather than testing for any
// output at all, is what keeps an empty inventory from reading as "has
// fonts".
const pdffontsHeaderLines = 2

// popplerFonts detects an embedded text layer via `pdffonts`.
type popplerFonts struct{}

func (popplerFonts) HasFonts(ctx context.Context, path string) (bool, error) {
	out, err := runTool(ctx, "pdffonts", path)
	if err != nil {
		return false, err
	}
	return countFontRows(out) > 0, nil
}

// countFontRows returns the number of font entries in a pdffonts report,
// i.e. the non-empty lines beyond the fixed header.
func countFontRows(out string) int {
	rows := 0
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) != "" {
			rows++
		}
	}
	return max(rows-pdffontsHeaderLines, 0)
}

// popplerText extracts one page of layout-preserved text via `pdftotext`.
type popplerText struct{}

func (popplerText) ExtractPage(ctx context.Context, path string, page int) (string, error) {
	p := strconv.Itoa(page)
	out, err := runTool(ctx, "pdftotext", "-layout", "-f", p, "-l", p, "-q", path, "-")
	if err != nil {
		return "", err
	}
	// pdftotext terminates each page with a form feed; it is an artifact of
	// the tool, not page content.
	return strings.ReplaceAll(out, "\f", ""), nil
}

// PopplerVersion returns the first line of `pdftotext -v`, or "" when the
// tool is absent. Recorded in provenance only.
func PopplerVersion(ctx context.Context) string {
	bin, err := lookPath("pdftotext")
	if err != nil {
		return ""
	}
	out, _ := exec.CommandContext(ctx, bin, "-v").CombinedOutput()
	line, _, _ := strings.Cut(string(out), "\n")
	return strings.TrimSpace(line)
}

// runTool executes a poppler binary and returns its stdout. A missing
// binary surfaces as ErrToolNotFound; a non-zero exit carries the first
// stderr line in the error message.
func runTool(ctx context.Context, tool string, args ...string) (string, error) {
	bin, err := lookPath(tool)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrToolNotFound, tool)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s: %w: %s", tool, err, firstLine(stderr.String()))
	}
	return stdout.String(), nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}
