// Package plantuml implements the rendering pipeline behind the goldmark
// extension: include expansion, the PlantUML URL token encoding, the HTTP
// render client, and the content-addressed artifact store.
package plantuml

import (
	"fmt"
	"io"
	"net/url"

	"dario.cat/mergo"
	"github.com/charmbracelet/log"
)

// Format selects the image encoding requested from the rendering service.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// Extension returns the artifact filename extension for the format.
func (f Format) Extension() string {
	return string(f)
}

// DefaultBaseURL is the public PlantUML rendering service.
const DefaultBaseURL = "https://www.plantuml.com/plantuml"

// DefaultMaxIncludeDepth bounds recursive include expansion so that a
// self-referential fragment pair cannot recurse forever.
const DefaultMaxIncludeDepth = 16

// Config configures diagram rendering behavior. The zero value is usable:
// ApplyDefaults fills every unset field.
type Config struct {
	// BaseURL is the root of the rendering service.
	BaseURL string `toml:"base_url" json:"baseURL,omitempty"`

	// Format is the target image encoding, png or svg.
	Format Format `toml:"format" json:"format,omitempty"`

	// OutputDir is where rendered artifacts are written.
	OutputDir string `toml:"output_dir" json:"outputDir,omitempty"`

	// InlineImage skips rendering and storage entirely and points image
	// nodes directly at the rendering service.
	InlineImage bool `toml:"inline_image" json:"inlineImage,omitempty"`

	// InlineSVG embeds the rendered SVG markup into the document instead
	// of writing a file. Only honored when Format is svg.
	InlineSVG bool `toml:"inline_svg" json:"inlineSVG,omitempty"`

	// IncludePath is the base directory for relative include targets.
	IncludePath string `toml:"include_path" json:"includePath,omitempty"`

	// URLPrefix is prepended to artifact filenames when building the
	// public URL of a stored artifact.
	URLPrefix string `toml:"url_prefix" json:"urlPrefix,omitempty"`

	// MaxIncludeDepth bounds recursive include expansion.
	MaxIncludeDepth int `toml:"max_include_depth" json:"maxIncludeDepth,omitempty"`

	// Fetcher performs the network fetch. Nil selects the resty-backed
	// production fetcher. Tests substitute deterministic stand-ins here.
	Fetcher Fetcher `toml:"-" json:"-"`

	// Logger receives pipeline diagnostics. Nil discards them.
	Logger *log.Logger `toml:"-" json:"-"`
}

// ApplyDefaults returns a copy of c with every unset field filled from the
// defaults. Caller-supplied values always win.
func (c Config) ApplyDefaults() Config {
	defaults := Config{
		BaseURL:         DefaultBaseURL,
		Format:          FormatPNG,
		OutputDir:       "./static",
		IncludePath:     "./",
		URLPrefix:       "/",
		MaxIncludeDepth: DefaultMaxIncludeDepth,
	}
	_ = mergo.Merge(&c, defaults)
	if c.Fetcher == nil {
		c.Fetcher = NewRestyFetcher()
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard)
	}
	return c
}

// Validate checks the configuration for values that cannot be compensated
// for at runtime.
func (c Config) Validate() error {
	switch c.Format {
	case FormatPNG, FormatSVG:
	default:
		return fmt.Errorf("format must be %q or %q, got %q", FormatPNG, FormatSVG, c.Format)
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("baseURL %q: %w", c.BaseURL, err)
	}
	if c.MaxIncludeDepth <= 0 {
		return fmt.Errorf("maxIncludeDepth must be positive, got %d", c.MaxIncludeDepth)
	}
	return nil
}
