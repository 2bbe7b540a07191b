package pipeline

import "strings"

// blankRunCollapse is the collapse rule for runs of blank lines: runs of
// blankRunThreshold or more become exactly blankRunKeep.
const (
	blankRunThreshold = 4
	blankRunKeep      = 2
)

// Normalize strips trailing horizontal whitespace from every line and
// collapses runs of four or more blank lines down to two. Page boundary
// markers and content ordering are untouched, and the transformation is
// idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}

	out := make([]string, 0, len(lines))
	run := 0
	flush := func() {
		if run >= blankRunThreshold {
			run = blankRunKeep
		}
		for ; run > 0; run-- {
			out = append(out, "")
		}
	}
	for _, line := range lines {
		if line == "" {
			run++
			continue
		}
		flush()
		out = append(out, line)
	}
	flush()

	return strings.Join(out, "\n")
}
