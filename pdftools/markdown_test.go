package pdftools

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func TestMarkdownChain_NoBackends(t *testing.T) {
	withNoTools(t, func() {
		_, err := newMarkdownChain(zap.NewNop()).Convert(context.Background(), "in.pdf")
		assertErr(t, err)
	})
}

func TestMarkdownChain_PrefersMarkitdown(t *testing.T) {
	withFakeTools(t, map[string]string{
		"markitdown": `printf '# Title\n\nBody text.\n'`,
		"pdftohtml":  `echo 'should not be called' >&2; exit 1`,
	}, func() {
		out, err := newMarkdownChain(zap.NewNop()).Convert(context.Background(), "in.pdf")
		assertNoErr(t, err)
		assertContains(t, out, "# Title")
	})
}

func TestMarkdownChain_FallsBackToHTML(t *testing.T) {
	withFakeTools(t, map[string]string{
		"pdftohtml": `printf '<html><body><h1>Heading</h1><p>Paragraph</p></body></html>'`,
	}, func() {
		out, err := newMarkdownChain(zap.NewNop()).Convert(context.Background(), "in.pdf")
		assertNoErr(t, err)
		assertContains(t, out, "Heading")
		assertContains(t, out, "Paragraph")
	})
}
