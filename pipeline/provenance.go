package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Run statuses recorded in provenance. A record written for an aborted run
// carries StatusFailed so partial outputs are never presented as complete.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Outputs holds the resolved artifact paths. Markdown and OcrPDF are empty
// when the Markdown rendering was skipped or OCR did not run.
type Outputs struct {
	PagesText  string `json:"pages_text"`
	PagesJSONL string `json:"pages_jsonl"`
	Markdown   string `json:"markdown,omitempty"`
	Metadata   string `json:"metadata"`
	OcrPDF     string `json:"ocr_pdf,omitempty"`
}

// Provenance is the durable record of what actually happened in a run:
// every decision input, the decision itself, and where the outputs went.
// Written unconditionally on every run that gets far enough to decide.
type Provenance struct {
	Input  string `json:"input"`
	Title  string `json:"title,omitempty"`
	Author string `json:"author,omitempty"`

	TotalPages  int    `json:"total_pages"`
	Toolchain   string `json:"toolchain"`
	ToolVersion string `json:"tool_version,omitempty"`

	HasFonts              bool    `json:"has_fonts"`
	SampledPages          int     `json:"sampled_pages"`
	ThinPages             int     `json:"thin_pages"`
	ThinFraction          float64 `json:"thin_fraction"`
	MinCharsPerPage       int     `json:"min_chars_per_page"`
	ThinFractionThreshold float64 `json:"thin_fraction_threshold"`

	Decision   Mode   `json:"decision"`
	Reason     Reason `json:"reason"`
	OcrApplied bool   `json:"ocr_applied"`

	Status string `json:"status"`
	Error  string `json:"error,omitempty"`

	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`

	Outputs Outputs `json:"outputs"`
}

// Write persists the record as indented JSON.
func (p *Provenance) Write(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal provenance: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write provenance: %w", err)
	}
	return nil
}
