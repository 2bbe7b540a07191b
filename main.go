package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rnj0nes/pdf2llm/config"
	"github.com/rnj0nes/pdf2llm/pdftools"
	"github.com/rnj0nes/pdf2llm/pipeline"
)

var version = "0.1.0"

var (
	logLevel  string
	logFormat string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pdf2llm <input.pdf>",
	Short: "Convert a PDF into page-addressable text for LLM grounding",
	Long: `pdf2llm converts one PDF into structured, page-addressable text
artifacts suitable for retrieval-augmented LLM grounding with verifiable
page citations.

Per document it decides whether the embedded text layer is usable or OCR
must run first (via ocrmypdf), then writes:

  <stem>.pages.txt    page-marked plain text (===== PAGE n ===== sentinels)
  <stem>.pages.jsonl  one {"page": n, "text": ...} record per page
  <stem>.md           Markdown rendering (best-effort)
  <stem>.meta.json    provenance: every decision input and output location
  <stem>.ocr.pdf      the OCR-rewritten document, when OCR ran

Heuristics can be overridden with --force-ocr / --no-ocr, and tuned with
--min-chars, --thin-frac and --max-sample.`,
	Version:      version,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	config.DefineFlags(rootCmd.Flags())
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.Flags().StringVar(&logFormat, "log-format", "terminal", "log format: terminal, json")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	cfg.InputPath = args[0]
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger()
	defer func() { _ = logger.Sync() }()

	tools := pdftools.Detect(cfg.PreferNative, logger)
	defer func() { _ = tools.Close() }()

	res, err := pipeline.New(cfg, tools, logger).Run(cmd.Context())
	if err != nil {
		if errors.Is(err, pdftools.ErrToolNotFound) {
			logger.Error("a required external tool is missing", zap.Error(err))
		}
		return err
	}

	out := res.Provenance.Outputs
	fmt.Println(out.PagesText)
	fmt.Println(out.PagesJSONL)
	if out.Markdown != "" {
		fmt.Println(out.Markdown)
	}
	if out.OcrPDF != "" {
		fmt.Println(out.OcrPDF)
	}
	fmt.Println(out.Metadata)
	return nil
}

// newLogger builds the zap logger for the run. Diagnostics go to stderr so
// stdout stays reserved for the resolved artifact paths.
func newLogger() *zap.Logger {
	level := zapcore.InfoLevel
	if lvl, err := zapcore.ParseLevel(logLevel); err == nil {
		level = lvl
	}

	var cfg zap.Config
	switch logFormat {
	case "json":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	return logger
}
