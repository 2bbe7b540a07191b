package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_StripsTrailingWhitespace(t *testing.T) {
	got := Normalize("line one   \nline two\t\nline three")
	assert.Equal(t, "line one\nline two\nline three", got)
}

func TestNormalize_CollapsesLongBlankRuns(t *testing.T) {
	got := Normalize("a\n\n\n\n\n\nb")
	assert.Equal(t, "a\n\n\nb", got, "5 blank lines should collapse to 2")
}

func TestNormalize_KeepsShortBlankRuns(t *testing.T) {
	// Runs under the threshold pass through unchanged.
	in := "a\n\n\n\nb" // 3 blank lines
	assert.Equal(t, in, Normalize(in))
}

func TestNormalize_PreservesMarkers(t *testing.T) {
	in := PageMarker(1) + "\nbody   \n\n" + PageMarker(2) + "\nmore\n"
	got := Normalize(in)
	assert.Contains(t, got, PageMarker(1))
	assert.Contains(t, got, PageMarker(2))
	assert.NotContains(t, got, "body   ")
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"\n",
		"plain text",
		"a  \n\n\n\n\n\nb\t\n\n\nc\n",
		strings.Repeat("\n", 12),
		PageMarker(1) + "\n  indented kept   \n\n\n\n\n" + PageMarker(2) + "\n",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalize_KeepsLeadingIndentation(t *testing.T) {
	// Only trailing horizontal whitespace goes; layout indentation stays.
	got := Normalize("    col1    col2   \n")
	assert.Equal(t, "    col1    col2\n", got)
}
