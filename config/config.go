package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment-variable overrides, e.g.
// PDF2LLM_LANG or PDF2LLM_MIN_CHARS.
const EnvPrefix = "PDF2LLM"

// Defaults for every tunable. Flag definitions and env fallbacks both read
// from these so the two surfaces cannot drift apart.
const (
	DefaultOutDir = "pdf2llm_out"

	// DefaultLanguage is the OCR language hint passed to ocrmypdf.
	DefaultLanguage = "eng"

	// DefaultMinCharsPerPage is the non-whitespace character count below
	// which a sampled page is considered "thin".
	DefaultMinCharsPerPage = 50

	// DefaultThinFraction is the fraction of thin sampled pages above which
	// (strictly) the document is sent to OCR.
	DefaultThinFraction = 0.35

	// DefaultMaxSamplePages caps how many pages are extracted during the
	// OCR-need sampling phase.
	DefaultMaxSamplePages = 20

	// DefaultWorkers bounds concurrent per-page extraction calls during the
	// full-document pass.
	DefaultWorkers = 4
)

// Config holds every knob for one run. Values come from flags, with
// environment variables (PDF2LLM_*) filling in anything the user did not
// pass on the command line.
type Config struct {
	InputPath string
	OutDir    string

	Language        string
	MinCharsPerPage int
	ThinFraction    float64
	MaxSamplePages  int

	ForceOCR bool
	NoOCR    bool

	KeepIntermediate bool
	PreferNative     bool
	Workers          int
}

// DefineFlags registers every tunable on the given flag set. The CLI and
// the tests share these definitions so defaults live in exactly one place.
func DefineFlags(flags *pflag.FlagSet) {
	flags.StringP("outdir", "o", DefaultOutDir, "directory for output artifacts")
	flags.StringP("lang", "l", DefaultLanguage, "OCR language hint (tesseract language code)")
	flags.Int("min-chars", DefaultMinCharsPerPage, "non-whitespace chars below which a sampled page counts as thin")
	flags.Float64("thin-frac", DefaultThinFraction, "thin-page fraction above which OCR is applied")
	flags.Int("max-sample", DefaultMaxSamplePages, "maximum number of pages sampled for the OCR decision")
	flags.Bool("force-ocr", false, "always OCR, regardless of the text-layer heuristics")
	flags.Bool("no-ocr", false, "never OCR, regardless of the text-layer heuristics")
	flags.Bool("keep-intermediate", false, "retain sampled page texts and the raw page blob under <outdir>/intermediate")
	flags.Bool("prefer-native", false, "use the built-in PDF reader even when poppler tools are installed")
	flags.Int("workers", DefaultWorkers, "concurrent page extractions during the full pass")
}

// Load resolves a Config from the given flag set, layering environment
// variables underneath explicit flags via viper.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	cfg := &Config{
		OutDir:           v.GetString("outdir"),
		Language:         v.GetString("lang"),
		MinCharsPerPage:  v.GetInt("min-chars"),
		ThinFraction:     v.GetFloat64("thin-frac"),
		MaxSamplePages:   v.GetInt("max-sample"),
		ForceOCR:         v.GetBool("force-ocr"),
		NoOCR:            v.GetBool("no-ocr"),
		KeepIntermediate: v.GetBool("keep-intermediate"),
		PreferNative:     v.GetBool("prefer-native"),
		Workers:          v.GetInt("workers"),
	}
	return cfg, nil
}

// Validate rejects configurations that cannot produce a meaningful run.
// The force-OCR/no-OCR conflict is also caught here so the user gets the
// diagnostic before any tool is invoked.
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("input path is required")
	}
	if _, err := os.Stat(c.InputPath); err != nil {
		return fmt.Errorf("input not readable: %w", err)
	}
	if c.ThinFraction < 0 || c.ThinFraction > 1 {
		return fmt.Errorf("thin-frac must be within [0,1], got %v", c.ThinFraction)
	}
	if c.MinCharsPerPage < 0 {
		return fmt.Errorf("min-chars must be non-negative, got %d", c.MinCharsPerPage)
	}
	if c.MaxSamplePages < 1 {
		return fmt.Errorf("max-sample must be at least 1, got %d", c.MaxSamplePages)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.ForceOCR && c.NoOCR {
		return fmt.Errorf("force-ocr and no-ocr are mutually exclusive")
	}
	return nil
}
