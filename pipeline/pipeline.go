package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rnj0nes/pdf2llm/config"
	"github.com/rnj0nes/pdf2llm/pdftools"
	"go.uber.org/zap"
)

// Pipeline runs one document through probe → sample → decide → optional
// OCR → paged extraction → normalization → record building → artifacts.
type Pipeline struct {
	cfg    *config.Config
	tools  *pdftools.Toolchain
	logger *zap.Logger
}

// Result carries the artifacts of a successful run.
type Result struct {
	Provenance *Provenance
	Records    []PageRecord
}

func New(cfg *config.Config, tools *pdftools.Toolchain, logger *zap.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, tools: tools, logger: logger}
}

// Run processes the configured input document. Fatal conditions (page
// count unreadable, conflicting overrides, OCR required but unavailable or
// failed, inconsistent page records) abort with an error; per-page
// extraction failures and Markdown conversion failures do not. When a
// fatal error occurs after the decision was made, the provenance record is
// still written with a failed status.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	cfg := p.cfg
	stem := strings.TrimSuffix(filepath.Base(cfg.InputPath), filepath.Ext(cfg.InputPath))

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	// Working area for intermediate files; reclaimed on every exit path
	// unless the user asked to keep them (then it is moved into its final
	// place before the deferred removal runs). Created inside the output
	// directory so the retention rename never crosses filesystems.
	workDir, err := os.MkdirTemp(cfg.OutDir, ".work-*")
	if err != nil {
		return nil, fmt.Errorf("create working directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(workDir) }()

	totalPages, err := p.tools.Counter.PageCount(ctx, cfg.InputPath)
	if err != nil {
		return nil, fmt.Errorf("page count: %w", err)
	}
	p.logger.Info("document opened",
		zap.String("input", cfg.InputPath),
		zap.Int("pages", totalPages),
		zap.String("toolchain", p.tools.Name))

	hasFonts, err := p.tools.Fonts.HasFonts(ctx, cfg.InputPath)
	if err != nil {
		return nil, fmt.Errorf("font probe: %w", err)
	}

	sample := SamplePages(ctx, p.tools.Pages, cfg.InputPath,
		totalPages, cfg.MaxSamplePages, cfg.MinCharsPerPage, p.logger)

	decision, err := Decide(DecisionInputs{
		HasFonts:              hasFonts,
		ThinPages:             sample.ThinPages,
		SampledPages:          sample.SampledCount(),
		ForceOCR:              cfg.ForceOCR,
		NoOCR:                 cfg.NoOCR,
		ThinFractionThreshold: cfg.ThinFraction,
	})
	if err != nil {
		return nil, err
	}
	p.logger.Info("extraction mode decided",
		zap.String("mode", string(decision.Mode)),
		zap.String("reason", string(decision.Reason)),
		zap.Bool("has_fonts", hasFonts),
		zap.Int("sampled", sample.SampledCount()),
		zap.Int("thin", sample.ThinPages),
		zap.Float64("thin_fraction", decision.ThinFraction))

	metaPath := filepath.Join(cfg.OutDir, stem+".meta.json")
	prov := &Provenance{
		Input:                 cfg.InputPath,
		TotalPages:            totalPages,
		Toolchain:             p.tools.Name,
		ToolVersion:           pdftools.PopplerVersion(ctx),
		HasFonts:              hasFonts,
		SampledPages:          sample.SampledCount(),
		ThinPages:             sample.ThinPages,
		ThinFraction:          decision.ThinFraction,
		MinCharsPerPage:       cfg.MinCharsPerPage,
		ThinFractionThreshold: cfg.ThinFraction,
		Decision:              decision.Mode,
		Reason:                decision.Reason,
		StartedAt:             start.UTC(),
		Outputs:               Outputs{Metadata: metaPath},
	}
	prov.Title, prov.Author = pdftools.DocumentMetadata(cfg.InputPath)

	fail := func(err error) (*Result, error) {
		prov.Status = StatusFailed
		prov.Error = err.Error()
		prov.DurationMS = time.Since(start).Milliseconds()
		if werr := prov.Write(metaPath); werr != nil {
			p.logger.Warn("failed to write provenance for aborted run", zap.Error(werr))
		}
		return nil, err
	}

	source := cfg.InputPath
	if decision.Mode == ModeOCR {
		ocrPath := filepath.Join(cfg.OutDir, stem+".ocr.pdf")
		if !p.tools.Ocr.Available() {
			return fail(fmt.Errorf("OCR required (%s) but: %w: ocrmypdf", decision.Reason, pdftools.ErrToolNotFound))
		}
		p.logger.Info("running OCR", zap.String("language", cfg.Language))
		if err := p.tools.Ocr.Rewrite(ctx, cfg.InputPath, ocrPath, cfg.Language); err != nil {
			return fail(fmt.Errorf("OCR required (%s) but failed: %w", decision.Reason, err))
		}

		// The OCR'd copy must keep the original page count or every page
		// citation downstream would be wrong.
		ocrPages, err := p.tools.Counter.PageCount(ctx, ocrPath)
		if err != nil {
			return fail(fmt.Errorf("page count of OCR output: %w", err))
		}
		if ocrPages != totalPages {
			return fail(fmt.Errorf("OCR output has %d pages, original has %d", ocrPages, totalPages))
		}

		source = ocrPath
		prov.OcrApplied = true
		prov.Outputs.OcrPDF = ocrPath
	}

	blob, err := ExtractPaged(ctx, p.tools.Pages, source, totalPages, cfg.Workers, p.logger)
	if err != nil {
		return fail(fmt.Errorf("paged extraction: %w", err))
	}

	if cfg.KeepIntermediate {
		if err := p.writeIntermediates(workDir, sample, blob); err != nil {
			p.logger.Warn("failed to stage intermediate files", zap.Error(err))
		} else if err := moveDir(workDir, filepath.Join(cfg.OutDir, "intermediate")); err != nil {
			p.logger.Warn("failed to retain intermediate files", zap.Error(err))
		}
	}

	normalized := Normalize(blob)

	records, err := BuildRecords(normalized, totalPages)
	if err != nil {
		return fail(err)
	}

	textPath := filepath.Join(cfg.OutDir, stem+".pages.txt")
	if err := os.WriteFile(textPath, []byte(normalized), 0o644); err != nil {
		return fail(fmt.Errorf("write page text: %w", err))
	}
	prov.Outputs.PagesText = textPath

	jsonlPath := filepath.Join(cfg.OutDir, stem+".pages.jsonl")
	if err := writeJSONLFile(jsonlPath, records); err != nil {
		return fail(err)
	}
	prov.Outputs.PagesJSONL = jsonlPath

	// Markdown is best-effort: failure degrades the run, never aborts it.
	if md, err := p.tools.Markdown.Convert(ctx, source); err != nil {
		p.logger.Warn("markdown conversion skipped", zap.Error(err))
	} else {
		mdPath := filepath.Join(cfg.OutDir, stem+".md")
		if err := os.WriteFile(mdPath, []byte(md), 0o644); err != nil {
			p.logger.Warn("markdown write skipped", zap.Error(err))
		} else {
			prov.Outputs.Markdown = mdPath
		}
	}

	prov.Status = StatusOK
	prov.DurationMS = time.Since(start).Milliseconds()
	if err := prov.Write(metaPath); err != nil {
		return nil, err
	}

	p.logger.Info("run complete",
		zap.Int("pages", len(records)),
		zap.Bool("ocr_applied", prov.OcrApplied),
		zap.Int64("duration_ms", prov.DurationMS))
	return &Result{Provenance: prov, Records: records}, nil
}

// writeIntermediates stages the sampled page texts and the raw
// (pre-normalization) blob into the working directory.
func (p *Pipeline) writeIntermediates(dir string, sample SampleResult, blob string) error {
	for _, s := range sample.Samples {
		name := filepath.Join(dir, fmt.Sprintf("sample_page_%04d.txt", s.Page))
		if err := os.WriteFile(name, []byte(s.Text), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	raw := filepath.Join(dir, "pages_raw.txt")
	if err := os.WriteFile(raw, []byte(blob), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", raw, err)
	}
	return nil
}

func writeJSONLFile(path string, records []PageRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSONL(f, records); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// moveDir renames src to dst, replacing any previous dst.
func moveDir(src, dst string) error {
	if err := os.RemoveAll(dst); err != nil {
		return err
	}
	return os.Rename(src, dst)
}
