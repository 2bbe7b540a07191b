package pdftools

// markdown.go — structural Markdown rendering of the chosen source
// document. Best-effort by contract: every failure here is reported to the
// caller, which logs a warning and omits the .md artifact.
//
// Two backends, tried in order:
//  1. the "markitdown" CLI, when installed;
//  2. pdftohtml piped through JohannesKaufmann/html-to-markdown.

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"go.uber.org/zap"
)

// markitdownCLI converts via the external markitdown tool.
type markitdownCLI struct{}

func (markitdownCLI) Convert(ctx context.Context, path string) (string, error) {
	bin, err := lookPath("markitdown")
	if err != nil {
		return "", fmt.Errorf("%w: markitdown", ErrToolNotFound)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, path)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("markitdown: %w: %s", err, firstLine(stderr.String()))
	}
	return stdout.String(), nil
}

// htmlMarkdown converts by rendering the document to single-page HTML with
// pdftohtml and then downgrading the HTML to Markdown.
type htmlMarkdown struct {
	conv *md.Converter
}

func newHTMLMarkdown() *htmlMarkdown {
	return &htmlMarkdown{conv: md.NewConverter("", true, nil)}
}

func (h *htmlMarkdown) Convert(ctx context.Context, path string) (string, error) {
	html, err := runTool(ctx, "pdftohtml", "-s", "-i", "-q", "-stdout", path)
	if err != nil {
		return "", err
	}
	out, err := h.conv.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("html to markdown: %w", err)
	}
	return out, nil
}

// markdownChain tries each backend in order and returns the first success.
type markdownChain struct {
	logger   *zap.Logger
	backends []MarkdownConverter
}

func newMarkdownChain(logger *zap.Logger) *markdownChain {
	return &markdownChain{
		logger:   logger,
		backends: []MarkdownConverter{markitdownCLI{}, newHTMLMarkdown()},
	}
}

func (m *markdownChain) Convert(ctx context.Context, path string) (string, error) {
	var lastErr error
	for _, b := range m.backends {
		out, err := b.Convert(ctx, path)
		if err == nil {
			return out, nil
		}
		m.logger.Debug("markdown backend failed", zap.Error(err))
		lastErr = err
	}
	return "", fmt.Errorf("no markdown backend succeeded: %w", lastErr)
}
