package tui

import (
	"io"

	"github.com/goliatone/go-courseform/pkg/upload"
)

// Theme captures optional formatting hints applied when printing messages.
// Keep minimal to avoid coupling prompt logic to ANSI specifics.
type Theme struct {
	RequiredMark string
	InfoPrefix   string
	ErrorPrefix  string
}

// DefaultTheme marks required fields with an asterisk.
var DefaultTheme = Theme{RequiredMark: " *", InfoPrefix: "", ErrorPrefix: "! "}

// FileOpener turns a user supplied path into an upload handle.
type FileOpener func(path string) (upload.File, error)

// Option configures the prompter and renderer.
type Option func(*config)

type config struct {
	driver      PromptDriver
	out         io.Writer
	theme       Theme
	maxAttempts int
	open        FileOpener
}

func newConfig(options []Option) config {
	cfg := config{
		theme:       DefaultTheme,
		maxAttempts: 3,
		open:        upload.FileFromPath,
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.driver == nil {
		cfg.driver = NewSurveyDriver(cfg.out)
	}
	return cfg
}

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(c *config) {
		if driver != nil {
			c.driver = driver
		}
	}
}

// WithOutput directs informational output to w.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		c.out = w
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(c *config) {
		c.theme = theme
	}
}

// WithMaxAttempts bounds re-prompts for a field that keeps failing.
func WithMaxAttempts(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithFileOpener replaces upload.FileFromPath.
func WithFileOpener(open FileOpener) Option {
	return func(c *config) {
		if open != nil {
			c.open = open
		}
	}
}
