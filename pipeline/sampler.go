package pipeline

import (
	"context"
	"unicode"

	"github.com/rnj0nes/pdf2llm/pdftools"
	"go.uber.org/zap"
)

// PageSample is one sampled page. Text is kept so the intermediate files
// can be retained on request; it is otherwise discarded with the sample.
type PageSample struct {
	Page      int
	Text      string
	CharCount int
}

// SampleResult aggregates the sampling phase for the decision engine.
type SampleResult struct {
	Samples   []PageSample
	ThinPages int
}

// SampledCount returns how many pages were actually sampled.
func (s SampleResult) SampledCount() int { return len(s.Samples) }

// SamplePages extracts pages 1..min(maxSample, totalPages) from the
// original document and counts non-whitespace characters per page. A page
// whose extraction fails is recorded with a zero count — one corrupt page
// must never abort the decision — and pages under minChars count as thin.
func SamplePages(ctx context.Context, ex pdftools.PageExtractor, path string, totalPages, maxSample, minChars int, logger *zap.Logger) SampleResult {
	count := min(maxSample, totalPages)
	result := SampleResult{Samples: make([]PageSample, 0, count)}

	for page := 1; page <= count; page++ {
		text, err := ex.ExtractPage(ctx, path, page)
		if err != nil {
			logger.Warn("sample extraction failed, counting page as empty",
				zap.Int("page", page), zap.Error(err))
			text = ""
		}

		sample := PageSample{Page: page, Text: text, CharCount: countNonWhitespace(text)}
		if sample.CharCount < minChars {
			result.ThinPages++
		}
		result.Samples = append(result.Samples, sample)
	}
	return result
}

func countNonWhitespace(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}
