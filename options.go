package libretto

import (
	"log/slog"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Options holds per-parser configuration. The zero value is usable but
// conservative; DefaultOptions returns the documented defaults.
type Options struct {
	// ExtractMedia controls EPUB asset extraction (default on).
	ExtractMedia bool

	// PreserveHTML keeps inline markup in sentence text instead of
	// stripping it.
	PreserveHTML bool

	// ChapterSensitivity in [0,1] tunes the merge threshold for very
	// short chapters: higher keeps more chapters separate (default 0.8).
	ChapterSensitivity float64

	// StrictMode escalates structural warnings (missing identifier,
	// language or title) to fatal errors.
	StrictMode bool

	// Verbose enables debug logging when no Logger is injected.
	Verbose bool

	// WordsPerSecond is the assumed narration pace for sentence
	// durations (default 3).
	WordsPerSecond float64

	// WordsPerMinute is the assumed reading pace for document and
	// chapter durations (default 180).
	WordsPerMinute float64

	// MaxHeadingLevel is the deepest heading level that starts a new
	// chapter (default 2).
	MaxHeadingLevel int

	// Logger receives all diagnostic output. Nil means slog.Default()
	// when Verbose is set, otherwise a discarding logger.
	Logger *slog.Logger

	// Lookup is an optional key-value configuration source consulted
	// for keys absent from Config.
	Lookup func(key, fallback string) string

	// Config is a format-specific escape hatch; recognized keys are
	// consulted before Lookup.
	Config map[string]string
}

// DefaultOptions returns the documented default configuration.
func DefaultOptions() Options {
	return Options{
		ExtractMedia:       true,
		ChapterSensitivity: 0.8,
		WordsPerSecond:     3,
		WordsPerMinute:     180,
		MaxHeadingLevel:    2,
	}
}

// defaults fills unset numeric fields. Boolean fields are taken as
// given, so a caller who wants the documented defaults should start
// from DefaultOptions.
func (o *Options) defaults() {
	if o.ChapterSensitivity <= 0 || o.ChapterSensitivity > 1 {
		o.ChapterSensitivity = 0.8
	}
	if o.WordsPerSecond <= 0 {
		o.WordsPerSecond = 3
	}
	if o.WordsPerMinute <= 0 {
		o.WordsPerMinute = 180
	}
	if o.MaxHeadingLevel < 1 || o.MaxHeadingLevel > 6 {
		o.MaxHeadingLevel = 2
	}
}

// clone deep-copies the options so a parser's configuration cannot be
// mutated after construction.
func (o Options) clone() Options {
	out := o
	if o.Config != nil {
		out.Config = make(map[string]string, len(o.Config))
		for k, v := range o.Config {
			out.Config[k] = v
		}
	}
	return out
}

// logger resolves the effective logger.
func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	if o.Verbose {
		return slog.Default()
	}
	return slog.New(slog.DiscardHandler)
}

// configValue resolves an escape-hatch key: Config first, then the
// injected Lookup, then the fallback.
func (o Options) configValue(key, fallback string) string {
	if v, ok := o.Config[key]; ok {
		return v
	}
	if o.Lookup != nil {
		return o.Lookup(key, fallback)
	}
	return fallback
}

// configInt resolves an escape-hatch key as an integer.
func (o Options) configInt(key string, fallback int) int {
	v := o.configValue(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// yamlOptions mirrors Options with pointer fields so absent keys keep
// their defaults.
type yamlOptions struct {
	ExtractMedia       *bool             `yaml:"extract_media"`
	PreserveHTML       *bool             `yaml:"preserve_html"`
	ChapterSensitivity *float64          `yaml:"chapter_sensitivity"`
	StrictMode         *bool             `yaml:"strict_mode"`
	Verbose            *bool             `yaml:"verbose"`
	WordsPerSecond     *float64          `yaml:"words_per_second"`
	WordsPerMinute     *float64          `yaml:"words_per_minute"`
	MaxHeadingLevel    *int              `yaml:"max_heading_level"`
	Config             map[string]string `yaml:"config"`
}

// OptionsFromYAML builds Options from a YAML document, starting from
// DefaultOptions and overriding only the keys present.
func OptionsFromYAML(data []byte) (Options, error) {
	opts := DefaultOptions()

	var y yamlOptions
	if err := yaml.Unmarshal(data, &y); err != nil {
		return opts, err
	}

	if y.ExtractMedia != nil {
		opts.ExtractMedia = *y.ExtractMedia
	}
	if y.PreserveHTML != nil {
		opts.PreserveHTML = *y.PreserveHTML
	}
	if y.ChapterSensitivity != nil {
		opts.ChapterSensitivity = *y.ChapterSensitivity
	}
	if y.StrictMode != nil {
		opts.StrictMode = *y.StrictMode
	}
	if y.Verbose != nil {
		opts.Verbose = *y.Verbose
	}
	if y.WordsPerSecond != nil {
		opts.WordsPerSecond = *y.WordsPerSecond
	}
	if y.WordsPerMinute != nil {
		opts.WordsPerMinute = *y.WordsPerMinute
	}
	if y.MaxHeadingLevel != nil {
		opts.MaxHeadingLevel = *y.MaxHeadingLevel
	}
	if y.Config != nil {
		opts.Config = y.Config
	}
	opts.defaults()

	return opts, nil
}
