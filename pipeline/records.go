package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// PageRecord is one page of output: 1-based page number and the normalized
// page text with leading/trailing blank lines stripped.
type PageRecord struct {
	Page int    `json:"page"`
	Text string `json:"text"`
}

// ErrPageMismatch reports that the pages recovered from the marker blob are
// not exactly 1..totalPages. That means an upstream extraction defect (or a
// marker collision with page content) and the run must not emit a short or
// reordered corpus.
var ErrPageMismatch = errors.New("page records inconsistent with document page count")

var pageMarkerRe = regexp.MustCompile(`(?m)^===== PAGE (\d+) =====$`)

// BuildRecords splits a normalized marker-delimited blob into one record
// per page. Content before the first marker is discarded (empty by
// construction of the extractor). The recovered page numbers must be
// exactly 1..totalPages in order.
func BuildRecords(blob string, totalPages int) ([]PageRecord, error) {
	matches := pageMarkerRe.FindAllStringSubmatchIndex(blob, -1)
	records := make([]PageRecord, 0, len(matches))

	for i, m := range matches {
		page, err := strconv.Atoi(blob[m[2]:m[3]])
		if err != nil {
			return nil, fmt.Errorf("marker page number: %w", err)
		}

		end := len(blob)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		body := strings.Trim(blob[m[1]:end], "\n")

		records = append(records, PageRecord{Page: page, Text: body})
	}

	if len(records) != totalPages {
		return nil, fmt.Errorf("%w: got %d pages, want %d", ErrPageMismatch, len(records), totalPages)
	}
	for i, rec := range records {
		if rec.Page != i+1 {
			return nil, fmt.Errorf("%w: page %d found at position %d", ErrPageMismatch, rec.Page, i+1)
		}
	}
	return records, nil
}

// WriteJSONL writes one JSON object per line, one line per page, in
// ascending page order.
func WriteJSONL(w io.Writer, records []PageRecord) error {
	enc := json.NewEncoder(w)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encode page %d: %w", rec.Page, err)
		}
	}
	return nil
}
