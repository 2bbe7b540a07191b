package pdftools

// ocr.go — ocrmypdf integration.
//
// ocrmypdf rewrites a PDF with a searchable text layer. --skip-text leaves
// pages that already carry text untouched, so a partially scanned document
// keeps its original text and only the image-only pages gain one. Page
// count is preserved by the tool; the pipeline re-verifies it anyway.

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"go.uber.org/zap"
)

// OcrMyPDF drives the ocrmypdf command line tool.
type OcrMyPDF struct {
	logger *zap.Logger
}

// Available returns true when the "ocrmypdf" binary is on PATH.
func (o *OcrMyPDF) Available() bool {
	_, err := lookPath("ocrmypdf")
	return err == nil
}

// Rewrite produces out from in with a cleaned, deskewed text layer.
// A missing binary or a failed invocation is returned as an error; the
// caller decides whether that is fatal (it is, whenever the decision engine
// required OCR).
func (o *OcrMyPDF) Rewrite(ctx context.Context, in, out, language string) error {
	bin, err := lookPath("ocrmypdf")
	if err != nil {
		return fmt.Errorf("%w: ocrmypdf", ErrToolNotFound)
	}

	args := []string{
		"--language", language,
		"--skip-text",
		"--deskew",
		"--clean",
		"--optimize", "1",
		in,
		out,
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stderr = &stderr

	o.logger.Debug("running ocrmypdf", zap.Strings("args", args))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ocrmypdf: %w: %s", err, firstLine(stderr.String()))
	}
	return nil
}
