// Command gmp renders PlantUML code blocks in markdown documents to HTML.
//
// Usage:
//
//	gmp [flags] [file]
//
// The input is read from the file argument or stdin. HTML is written to
// --output or stdout. Options can also come from a TOML config file via
// --config; flags win over the file, and both win over built-in defaults.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/yuin/goldmark"

	"github.com/rgonek/goldmark-plantuml/mdtransform"
	"github.com/rgonek/goldmark-plantuml/plantuml"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgFile string
		output  string
		format  string
		verbose bool
		flagCfg plantuml.Config
	)

	cmd := &cobra.Command{
		Use:          "gmp [file]",
		Short:        "Render PlantUML code blocks in markdown to HTML",
		Long:         "gmp parses a markdown document, renders every fenced code block tagged `plantuml` through a PlantUML-compatible server, and writes the resulting HTML.",
		Version:      fmt.Sprintf("%s (%s)", version, commit),
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			logger := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
				ReportTimestamp: true,
				TimeFormat:      "15:04:05.00",
				Level:           level,
			})

			var fileCfg plantuml.Config
			if cfgFile != "" {
				if _, err := toml.DecodeFile(cfgFile, &fileCfg); err != nil {
					return fmt.Errorf("load config %s: %w", cfgFile, err)
				}
			}

			cfg := resolveConfig(cmd.Flags().Changed, flagCfg, fileCfg, format)
			cfg.Logger = logger

			ext, err := mdtransform.New(cfg)
			if err != nil {
				return err
			}
			md := goldmark.New(goldmark.WithExtensions(ext))

			var src []byte
			if len(args) == 1 {
				src, err = os.ReadFile(args[0])
			} else {
				src, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			var out io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer f.Close()
				out = f
			}

			if err := md.Convert(src, out); err != nil {
				return fmt.Errorf("convert: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write HTML to this file instead of stdout")
	cmd.Flags().StringVarP(&cfgFile, "config", "c", "", "TOML config file")
	cmd.Flags().StringVar(&flagCfg.BaseURL, "base-url", "", "rendering service root URL")
	cmd.Flags().StringVar(&format, "format", "", "image format: png or svg")
	cmd.Flags().StringVar(&flagCfg.OutputDir, "output-dir", "", "directory for rendered artifacts")
	cmd.Flags().BoolVar(&flagCfg.InlineImage, "inline", false, "point images directly at the service, no rendering or storage")
	cmd.Flags().BoolVar(&flagCfg.InlineSVG, "inline-svg", false, "embed rendered SVG markup into the document (svg format only)")
	cmd.Flags().StringVar(&flagCfg.IncludePath, "include-path", "", "base directory for relative include targets")
	cmd.Flags().StringVar(&flagCfg.URLPrefix, "url-prefix", "", "public URL prefix for stored artifacts")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	return cmd
}

// resolveConfig layers flag values over the config file, applying only
// flags the user actually set so that an explicit zero value (such as
// --inline=false) overrides a non-zero file value. Defaults are applied
// later by the extension itself.
func resolveConfig(changed func(name string) bool, flagCfg, fileCfg plantuml.Config, format string) plantuml.Config {
	cfg := fileCfg
	if changed("base-url") {
		cfg.BaseURL = flagCfg.BaseURL
	}
	if changed("format") {
		cfg.Format = plantuml.Format(format)
	}
	if changed("output-dir") {
		cfg.OutputDir = flagCfg.OutputDir
	}
	if changed("inline") {
		cfg.InlineImage = flagCfg.InlineImage
	}
	if changed("inline-svg") {
		cfg.InlineSVG = flagCfg.InlineSVG
	}
	if changed("include-path") {
		cfg.IncludePath = flagCfg.IncludePath
	}
	if changed("url-prefix") {
		cfg.URLPrefix = flagCfg.URLPrefix
	}
	return cfg
}
