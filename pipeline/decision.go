// Package pipeline implements the OCR-need decision and the page-segmented
// extraction that turns one PDF into citation-stable, page-addressable text
// artifacts. All external tooling is reached through the pdftools
// interfaces; nothing in this package shells out directly.
package pipeline

import "errors"

// Mode selects which physical document the full extraction reads from.
type Mode string

const (
	ModeDirect Mode = "direct"
	ModeOCR    Mode = "ocr"
)

// Reason records why a mode was chosen.
type Reason string

const (
	ReasonForced         Reason = "forced"
	ReasonOCRDisabled    Reason = "ocr_disabled"
	ReasonNoFonts        Reason = "no_fonts_detected"
	ReasonThinTextLayer  Reason = "thin_text_layer"
	ReasonSufficientText Reason = "sufficient_text_layer"
)

// ErrConflictingOverrides is returned when both the force-OCR and no-OCR
// overrides are set. No decision is made in that case.
var ErrConflictingOverrides = errors.New("force-ocr and no-ocr are mutually exclusive")

// Decision is the immutable outcome of the OCR-need heuristic. Everything
// downstream of it — which document is extracted, what provenance records —
// keys off this value.
type Decision struct {
	Mode         Mode    `json:"mode"`
	Reason       Reason  `json:"reason"`
	ThinFraction float64 `json:"thin_fraction"`
}

// DecisionInputs gathers every signal the heuristic consumes.
type DecisionInputs struct {
	HasFonts     bool
	ThinPages    int
	SampledPages int

	ForceOCR bool
	NoOCR    bool

	ThinFractionThreshold float64
}

// Decide evaluates the decision policy in strict priority order, first
// match wins:
//
//  1. conflicting overrides — error, no decision;
//  2. force-OCR override;
//  3. no-OCR override;
//  4. no embedded fonts at all;
//  5. thin-page fraction strictly above the threshold, else direct.
//
// Human overrides beat heuristics, and a missing text layer is a stronger
// signal than partial thinness. A document sitting exactly at the threshold
// is acceptable (the comparison is strictly greater-than).
func Decide(in DecisionInputs) (Decision, error) {
	if in.ForceOCR && in.NoOCR {
		return Decision{}, ErrConflictingOverrides
	}

	// Defined as 0 for an empty sample so zero-page documents never divide
	// by zero.
	thinFraction := 0.0
	if in.SampledPages > 0 {
		thinFraction = float64(in.ThinPages) / float64(in.SampledPages)
	}

	switch {
	case in.ForceOCR:
		return Decision{Mode: ModeOCR, Reason: ReasonForced, ThinFraction: thinFraction}, nil
	case in.NoOCR:
		return Decision{Mode: ModeDirect, Reason: ReasonOCRDisabled, ThinFraction: thinFraction}, nil
	case !in.HasFonts:
		return Decision{Mode: ModeOCR, Reason: ReasonNoFonts, ThinFraction: thinFraction}, nil
	case thinFraction > in.ThinFractionThreshold:
		return Decision{Mode: ModeOCR, Reason: ReasonThinTextLayer, ThinFraction: thinFraction}, nil
	default:
		return Decision{Mode: ModeDirect, Reason: ReasonSufficientText, ThinFraction: thinFraction}, nil
	}
}
